package firmscout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/firmscout/firmscout/internal/cache"
	"github.com/firmscout/firmscout/internal/config"
	"github.com/firmscout/firmscout/internal/engine"
	"github.com/firmscout/firmscout/internal/logging"
	"github.com/firmscout/firmscout/internal/report"
)

// flags shared by the tree-walking commands (recon, blobs, nvram)
var (
	flagPath     string
	flagInclude  string
	flagExclude  string
	flagMaxBytes int64
	flagMinLen   int
	flagSummary  bool
)

func addTreeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "extracted rootfs to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = built-in default)")
	cmd.Flags().IntVar(&flagMinLen, "min-len", 0, "minimum recovered string length (0 = default)")
	cmd.Flags().BoolVar(&flagSummary, "summary", false, "append a per-category totals table")
}

// treeRoot resolves the scan root: a positional argument wins over --path.
func treeRoot(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return flagPath
}

// resolveTreeConfig merges flags with local and global YAML config,
// CLI > local > global.
func resolveTreeConfig(cmd *cobra.Command, args []string) (engine.Config, config.FileConfig, config.FileConfig) {
	abs, _ := filepath.Abs(treeRoot(args))
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	cfg := engine.Config{
		Root:            abs,
		IncludeGlobs:    pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:    pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:        pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:         pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		MinStringLen:    pickInt(flagMinLen, lcfg.MinStringLen, gcfg.MinStringLen),
		NoCache:         pickBool(flagNoCache, lcfg.NoCache, gcfg.NoCache),
		DefaultExcludes: flagDefaultExcludes,
	}
	if !cmd.Flags().Changed("default-excludes") {
		if lcfg.DefaultExcludes != nil {
			cfg.DefaultExcludes = *lcfg.DefaultExcludes
		} else if gcfg.DefaultExcludes != nil {
			cfg.DefaultExcludes = *gcfg.DefaultExcludes
		}
	}
	return cfg, lcfg, gcfg
}

func humanOutput() bool { return !flagJSON && !flagSARIF }

func printOpts() report.PrintOptions {
	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}
	return report.PrintOptions{NoColor: flagNoColor, Width: width, Summary: flagSummary}
}

// maybeNotifyUpdate prints the new-version banner on stderr for interactive
// runs and honors --self-update.
func maybeNotifyUpdate() {
	if !humanOutput() || flagQuiet {
		return
	}
	if !flagNoUpdateCheck {
		if latest, newer, _ := updateCheck(); newer && latest != "" {
			fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'firmscout update' to upgrade\n", latest)
		}
	}
	if flagSelfUpdate {
		if err := selfUpdate(); err == nil {
			fmt.Fprintln(os.Stderr, "updated to latest; re-run command")
		}
	}
}

// runTreeScan is the shared walk-scan-output pipeline behind recon and blobs.
func runTreeScan(cfg engine.Config, mode engine.Mode, render func(*report.Report)) (*report.Report, error) {
	logging.LogScanStart(cfg.Root, mode.String(), cfg.Threads)

	total, _ := engine.CountTargets(cfg)
	progressed := 0
	if total > 0 && humanOutput() && !flagQuiet {
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				fmt.Fprintf(os.Stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}

	res, err := engine.ScanTree(context.Background(), cfg, mode)
	if err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	if total > 0 && humanOutput() && !flagQuiet {
		fmt.Fprintln(os.Stderr)
	}
	logging.LogScanDone(cfg.Root, res.FilesScanned, res.CacheHits, res.Report.Len())

	render(res.Report)

	if !cfg.NoCache {
		if b, err := json.Marshal(res.Report); err == nil {
			_ = cache.SaveReport(cfg.Root, mode.String(), b)
		}
	}
	return res.Report, nil
}

func emitReport(r *report.Report, human func(*report.Report)) {
	switch {
	case flagSARIF:
		_ = report.WriteSARIF(os.Stdout, r)
	case flagJSON:
		_ = report.WriteJSON(os.Stdout, r)
	default:
		human(r)
	}
}
