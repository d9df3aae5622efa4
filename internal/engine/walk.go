package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/firmscout/firmscout/internal/ignore"
)

// Walk traverses the extracted firmware tree and invokes handle for each
// eligible regular file with its full content. Read failures and pseudo-files
// are skipped silently.
func Walk(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(rel string, data []byte)) error {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		// symlinks, device nodes, fifos
		if !d.Type().IsRegular() {
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		rel = filepath.ToSlash(rel)
		if !allowedByGlobs(rel, cfg) {
			return nil
		}
		if ign.Match(rel) {
			return nil
		}
		if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
			return nil
		}
		info, _ := d.Info()
		if info != nil && info.Size() > maxBytes {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		handle(rel, b)
		return nil
	})
}

// CountTargets estimates the number of files a tree walk will visit. It
// mirrors the Walk selection logic but skips the reads, so progress bars get
// a total before the scan starts.
func CountTargets(cfg Config) (int, error) {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ".firmscoutignore"))
	count := 0
	err := filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		rel = filepath.ToSlash(rel)
		if !allowedByGlobs(rel, cfg) {
			return nil
		}
		if ign.Match(rel) {
			return nil
		}
		if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
			return nil
		}
		info, _ := d.Info()
		if info != nil && info.Size() > maxBytes {
			return nil
		}
		count++
		return nil
	})
	return count, err
}
