package firmscout

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firmscout/firmscout/internal/cache"
	"github.com/firmscout/firmscout/internal/report"
	"github.com/firmscout/firmscout/internal/tui"
)

var flagTUIPath string

func init() {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the last scan report interactively",
		RunE:  runTUI,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().StringVarP(&flagTUIPath, "path", "p", ".", "rootfs whose last report to browse")
}

func runTUI(_ *cobra.Command, _ []string) error {
	abs, _ := filepath.Abs(flagTUIPath)
	last, err := cache.LoadReport(abs)
	if err != nil {
		return fmt.Errorf("no saved report for %s; run 'firmscout recon' or 'firmscout blobs' first", abs)
	}
	var r report.Report
	if err := json.Unmarshal(last.Report, &r); err != nil {
		return fmt.Errorf("saved report unreadable: %w", err)
	}
	return tui.Run(&r)
}
