package firmscout

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firmscout/firmscout/internal/logging"
)

var (
	flagJSON            bool
	flagSARIF           bool
	flagThreads         int
	flagNoColor         bool
	flagQuiet           bool
	flagNoCache         bool
	flagDefaultExcludes bool
	flagNoUpdateCheck   bool
	flagSelfUpdate      bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the firmscout CLI.
var rootCmd = &cobra.Command{
	Use:           "firmscout",
	Short:         "Extract and classify artifacts from firmware images",
	Long:          "Firmscout recovers strings, key material and configuration blobs from extracted firmware trees and raw binaries, entirely offline.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return logging.InitializeFromEnv()
	},
}

// Execute runs the firmscout CLI. It should be called by the main package.
func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress progress and update notices")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable incremental scan cache")
	rootCmd.PersistentFlags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (proc, sys, media files, etc.)")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().BoolVar(&flagSelfUpdate, "self-update", false, "update firmscout to the latest release")
}
