package commands

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dvbrcs2/rle"
	"github.com/dvbrcs2/rle/internal/logging"
	"github.com/dvbrcs2/rle/internal/rleconfig"
	"github.com/dvbrcs2/rle/internal/statsserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an idle Receiver and serve its /health, /stats and /metrics over HTTP",
	Long: `serve starts a Receiver with no input source and serves it on
--stats-addr. The Receiver is fed no FPDUs and does not read --capture-dir,
so /stats reports its zero counters, and /metrics serves a registry with no
rle metrics registered.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cliCfg, err := rleconfig.Load(viperV, cfgFile)
	if err != nil {
		return err
	}

	logger := logging.New(cliCfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if cliCfg.StatsAddr == "" {
		logger.Info("--stats-addr not set, nothing to serve")

		return nil
	}

	rx, err := rle.NewReceiver(cliCfg.RLE)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	router := statsserver.NewRouter(reg, rx.Stats)

	logger.Infow("serving stats", "addr", cliCfg.StatsAddr)

	return http.ListenAndServe(cliCfg.StatsAddr, router)
}
