// Package core provides a small, stable facade over firmscout's internal
// engine for external integrations. It deliberately re-exports a narrow API
// surface so other tools can depend on a stable import path without exposing
// internal implementation packages.
//
// Example:
//
//	cfg := core.Config{Root: "/mnt/rootfs", Threads: 0}
//	rep, err := core.ScanTree(context.Background(), cfg, core.ModeRecon)
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, rep)
package core
