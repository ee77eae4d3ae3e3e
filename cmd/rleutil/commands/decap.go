package commands

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dvbrcs2/rle"
	"github.com/dvbrcs2/rle/internal/capture"
	"github.com/dvbrcs2/rle/internal/logging"
	"github.com/dvbrcs2/rle/internal/metrics"
	"github.com/dvbrcs2/rle/internal/rleconfig"
)

var (
	decapLabelSize int
	decapMaxSDUs   int
)

var decapCmd = &cobra.Command{
	Use:   "decap",
	Short: "Read length-prefixed FPDUs from stdin and write recovered SDU payloads to stdout",
	RunE:  runDecap,
}

func init() {
	decapCmd.Flags().IntVar(&decapLabelSize, "label-size", 0, "FPDU label size: 0, 3 or 6 bytes")
	decapCmd.Flags().IntVar(&decapMaxSDUs, "max-sdus", 64, "maximum SDUs recovered per FPDU")
}

func runDecap(cmd *cobra.Command, _ []string) error {
	cliCfg, err := rleconfig.Load(viperV, cfgFile)
	if err != nil {
		return err
	}

	logger := logging.New(cliCfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	rx, err := rle.NewReceiver(cliCfg.RLE)
	if err != nil {
		return fmt.Errorf("rleutil decap: %w", err)
	}

	var store *capture.Store
	if cliCfg.CaptureDir != "" {
		store, err = capture.Open(cliCfg.CaptureDir)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	label := make([]byte, decapLabelSize)
	sdus := make([]rle.SDU, decapMaxSDUs)
	var prev rle.Stats

	for {
		fpdu, err := readFramed(in)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if store != nil {
			if _, err := store.Append(cmd.Context(), fpdu); err != nil {
				logger.Warnw("capture append failed", "error", err)
			}
		}

		n, err := rx.Decapsulate(fpdu, sdus, label)
		if err != nil {
			logger.Warnw("decapsulate error", "error", err)
		}

		stats := rx.Stats()
		m.ObserveReceive(stats.BytesReceived-prev.BytesReceived, stats.PPDUsReceived-prev.PPDUsReceived,
			stats.ReassemblyErrors-prev.ReassemblyErrors, stats.Drops-prev.Drops)
		prev = stats

		for _, sdu := range sdus[:n] {
			if err := writeFramed(out, sdu.Payload); err != nil {
				return err
			}
		}
	}

	return nil
}

func readFramed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(lenBuf[:])
	frame := make([]byte, n)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, err
	}

	return frame, nil
}
