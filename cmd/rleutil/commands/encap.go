package commands

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dvbrcs2/rle"
	"github.com/dvbrcs2/rle/internal/logging"
	"github.com/dvbrcs2/rle/internal/metrics"
	"github.com/dvbrcs2/rle/internal/rleconfig"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	encapFragID    uint8
	encapBurstSize int
	encapPtype     uint16
)

var encapCmd = &cobra.Command{
	Use:   "encap",
	Short: "Read an SDU from stdin, fragment it and write length-prefixed FPDUs to stdout",
	RunE:  runEncap,
}

func init() {
	encapCmd.Flags().Uint8Var(&encapFragID, "frag-id", 0, "fragment_id to use (0..7)")
	encapCmd.Flags().IntVar(&encapBurstSize, "burst-size", 188, "FPDU burst size in bytes")
	encapCmd.Flags().Uint16Var(&encapPtype, "ptype", uint16(rle.ProtoIPv4), "protocol type Ethertype of the SDU")
}

func runEncap(cmd *cobra.Command, _ []string) error {
	cliCfg, err := rleconfig.Load(viperV, cfgFile)
	if err != nil {
		return err
	}

	logger := logging.New(cliCfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	tx, err := rle.NewTransmitter(cliCfg.RLE)
	if err != nil {
		return fmt.Errorf("rleutil encap: %w", err)
	}

	payload, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return err
	}

	sdu := rle.SDU{ProtocolType: rle.ProtocolType(encapPtype), Payload: payload}
	if err := tx.Encapsulate(sdu, encapFragID); err != nil {
		return fmt.Errorf("rleutil encap: %w", err)
	}

	out := cmd.OutOrStdout()
	fpdu := make([]byte, encapBurstSize)
	var prev rle.Stats

	for {
		n, err := tx.Fragment(encapFragID, fpdu)
		if err != nil {
			return fmt.Errorf("rleutil encap: %w", err)
		}

		rle.Pad(fpdu, n)

		if err := writeFramed(out, fpdu); err != nil {
			return err
		}

		logger.Debugw("emitted fpdu", "frag_id", encapFragID, "ppdu_bytes", n)

		stats := tx.Stats()
		m.ObserveTransmit(stats.BytesSent-prev.BytesSent, stats.PPDUsSent-prev.PPDUsSent, stats.Drops-prev.Drops)
		prev = stats

		if tx.Idle(encapFragID) {
			break
		}
	}

	return nil
}

func writeFramed(w io.Writer, frame []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(frame)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(frame)

	return err
}
