package core

import (
	"context"

	"github.com/firmscout/firmscout/internal/classify"
	"github.com/firmscout/firmscout/internal/engine"
	"github.com/firmscout/firmscout/internal/report"
	"github.com/firmscout/firmscout/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = engine.Config
type Mode = engine.Mode
type Report = report.Report
type FileResult = types.FileResult

const (
	ModeRecon = engine.ModeRecon
	ModeBlob  = engine.ModeBlob
)

// ScanTree walks an extracted firmware tree and returns the aggregated
// report for the given mode.
func ScanTree(ctx context.Context, cfg Config, mode Mode) (*Report, error) {
	res, err := engine.ScanTree(ctx, cfg, mode)
	if err != nil {
		return nil, err
	}
	return res.Report, nil
}

// ScanFile deep-scans one binary or raw firmware image.
func ScanFile(path string, minStringLen int) (FileResult, error) {
	return engine.ScanFile(path, minStringLen)
}

// Categories returns every classification category ID.
// This is exposed for convenience to avoid importing internals directly.
func Categories() []string { return classify.IDs() }
