package firmscout

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firmscout/firmscout/internal/config"
)

var (
	cfgOutput          string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgMinStringLen    int
	cfgELFOnly         bool
	cfgNoColor         bool
	cfgDefaultExcludes bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .firmscout.yml with selected options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".firmscout.yml", "output file path")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 0, "skip files larger than this (0=built-in default)")
	initCmd.Flags().IntVar(&cfgMinStringLen, "min-string-len", 0, "minimum recovered string length (0=default)")
	initCmd.Flags().BoolVar(&cfgELFOnly, "elf-only", true, "recon scans only ELF files")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	fc := config.FileConfig{
		MaxBytes:        int64Ptr(cfgMaxBytes),
		Threads:         intPtr(cfgThreads),
		MinStringLen:    intPtr(cfgMinStringLen),
		ELFOnly:         boolPtr(cfgELFOnly),
		NoColor:         boolPtr(cfgNoColor),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Println("Wrote", cfgOutput)
	return nil
}

func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func int64Ptr(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func boolPtr(v bool) *bool { return &v }
