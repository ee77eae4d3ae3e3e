// Package commands implements the rleutil cobra command tree.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	viperV  = viper.New()
)

// Root is the top-level rleutil command.
var Root = &cobra.Command{
	Use:   "rleutil",
	Short: "Encapsulate, fragment and decapsulate DVB-RCS2 return-link PDUs",
	Long: `rleutil drives a github.com/dvbrcs2/rle Transmitter or Receiver from
the command line: encapsulate an SDU from stdin, fragment it across a
fixed burst size, or decapsulate a captured FPDU back into SDUs.`,
}

func init() {
	Root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML/TOML config file")
	Root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	Root.PersistentFlags().String("stats-addr", "", "address to serve /health, /stats and /metrics on, empty to disable")
	Root.PersistentFlags().String("capture-dir", "", "BadgerDB directory to append captured FPDUs to, empty to disable")

	_ = viperV.BindPFlag("log_level", Root.PersistentFlags().Lookup("log-level"))
	_ = viperV.BindPFlag("stats_addr", Root.PersistentFlags().Lookup("stats-addr"))
	_ = viperV.BindPFlag("capture_dir", Root.PersistentFlags().Lookup("capture-dir"))

	Root.AddCommand(serveCmd, encapCmd, decapCmd)
}
