package firmscout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firmscout/firmscout/internal/engine"
	"github.com/firmscout/firmscout/internal/report"
)

var (
	flagScanMinLen int
	flagScanOut    string
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan <binary>|<dir>",
		Short: "Deep-scan a binary, raw firmware image, or whole tree",
		Long:  "Recovers ASCII and UTF-16LE strings and classifies them: JSON fragments, MQTT topics, hex/base64 key candidates, PEM markers, protobuf-like density. Given a directory, every eligible file is deep-scanned.",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().IntVar(&flagScanMinLen, "min-len", 0, "minimum recovered string length (0 = default)")
	cmd.Flags().StringVar(&flagScanOut, "out", "", "also write the JSON report to this file")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "in tree mode, skip files larger than this (0 = built-in default)")
}

func runScan(_ *cobra.Command, args []string) error {
	abs, _ := filepath.Abs(args[0])
	maybeNotifyUpdate()

	if fi, err := os.Stat(abs); err == nil && fi.IsDir() {
		return runScanTree(abs)
	}

	res, err := engine.ScanFile(abs, flagScanMinLen)
	if err != nil {
		return err
	}

	if flagScanOut != "" {
		f, err := os.Create(flagScanOut)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		werr := report.WriteFileJSON(f, abs, res)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("write report: %w", werr)
		}
	}

	switch {
	case flagSARIF:
		r := report.New(filepath.Dir(abs))
		r.Add(filepath.Base(abs), res)
		return report.WriteSARIF(os.Stdout, r)
	case flagJSON:
		return report.WriteFileJSON(os.Stdout, abs, res)
	default:
		report.PrintDeep(os.Stdout, abs, res, printOpts())
	}
	return nil
}

func runScanTree(root string) error {
	cfg := engine.Config{
		Root:            root,
		MaxBytes:        flagMaxBytes,
		Threads:         flagThreads,
		MinStringLen:    flagScanMinLen,
		NoCache:         flagNoCache,
		DefaultExcludes: flagDefaultExcludes,
	}
	r, err := runTreeScan(cfg, engine.ModeDeep, func(r *report.Report) {
		emitReport(r, func(r *report.Report) {
			report.PrintDeepTree(os.Stdout, r, printOpts())
		})
	})
	if err != nil {
		return err
	}
	if flagScanOut != "" {
		f, ferr := os.Create(flagScanOut)
		if ferr != nil {
			return fmt.Errorf("write report: %w", ferr)
		}
		werr := report.WriteJSON(f, r)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("write report: %w", werr)
		}
	}
	return nil
}
