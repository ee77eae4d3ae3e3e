// Package rleconfig loads rleutil's CLI configuration from flags,
// environment variables and an optional config file, in that precedence
// order, mirroring the layered viper setup used across the example corpus.
package rleconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dvbrcs2/rle"
)

// CLIConfig is rleutil's process-level configuration.
type CLIConfig struct {
	// RLE carries the protocol-level Config (spec.md §4.1).
	RLE rle.Config

	// LogLevel selects the zap logger verbosity ("debug"/"info"/"warn"/"error").
	LogLevel string `mapstructure:"log_level"`

	// StatsAddr is the listen address for internal/statsserver, empty to disable.
	StatsAddr string `mapstructure:"stats_addr"`

	// CaptureDir is the BadgerDB directory for internal/capture, empty to disable.
	CaptureDir string `mapstructure:"capture_dir"`
}

// Load reads configuration from an optional file at path (if non-empty),
// environment variables prefixed RLE_, and the given viper instance's
// already-bound flags.
func Load(v *viper.Viper, path string) (*CLIConfig, error) {
	v.SetEnvPrefix("rle")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("allow_alpdu_crc", true)
	v.SetDefault("allow_ptype_omission", false)
	v.SetDefault("use_compressed_ptype", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("rleconfig: read config file: %w", err)
		}
	}

	cfg := &CLIConfig{
		LogLevel:   v.GetString("log_level"),
		StatsAddr:  v.GetString("stats_addr"),
		CaptureDir: v.GetString("capture_dir"),
		RLE: rle.Config{
			AllowPtypeOmission:       v.GetBool("allow_ptype_omission"),
			UseCompressedPtype:       v.GetBool("use_compressed_ptype"),
			AllowALPDUCRC:            v.GetBool("allow_alpdu_crc"),
			AllowALPDUSequenceNumber: v.GetBool("allow_alpdu_sequence_number"),
			ImplicitProtocolType:     uint8(v.GetUint32("implicit_protocol_type")),
		},
	}

	if err := cfg.RLE.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
