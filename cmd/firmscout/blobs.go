package firmscout

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firmscout/firmscout/internal/engine"
	"github.com/firmscout/firmscout/internal/report"
)

var flagOnlyHits bool

func init() {
	cmd := &cobra.Command{
		Use:   "blobs [rootfs]",
		Short: "Hunt for NVRAM/config blobs holding device credentials",
		Long:  "Walks the tree looking for small binary files with credential keywords, key=value structure (ASCII or UTF-16LE), or suspiciously low byte diversity.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBlobs,
	}
	rootCmd.AddCommand(cmd)
	addTreeFlags(cmd)
	cmd.Flags().BoolVar(&flagOnlyHits, "only-hits", false, "show only blobs with keyword or key=value signals")
}

func runBlobs(cmd *cobra.Command, args []string) error {
	cfg, _, _ := resolveTreeConfig(cmd, args)

	maybeNotifyUpdate()
	if humanOutput() && !flagQuiet {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", cfg.Root)
	}

	_, err := runTreeScan(cfg, engine.ModeBlob, func(r *report.Report) {
		emitReport(r, func(r *report.Report) {
			opts := printOpts()
			opts.OnlyHits = flagOnlyHits
			report.PrintBlobs(os.Stdout, r, opts)
		})
	})
	return err
}
