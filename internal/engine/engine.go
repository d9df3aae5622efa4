package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/firmscout/firmscout/internal/blob"
	"github.com/firmscout/firmscout/internal/cache"
	"github.com/firmscout/firmscout/internal/classify"
	"github.com/firmscout/firmscout/internal/ignore"
	"github.com/firmscout/firmscout/internal/kv"
	"github.com/firmscout/firmscout/internal/nvram"
	"github.com/firmscout/firmscout/internal/report"
	"github.com/firmscout/firmscout/internal/strscan"
	"github.com/firmscout/firmscout/internal/types"
)

// DefaultMaxBytes caps per-file reads during tree walks. Whole squashfs
// images and kernel partitions routinely exceed this; scan those directly
// with the deep mode instead.
const DefaultMaxBytes int64 = 64 << 20

// Mode selects which analysis a tree walk applies to each file.
type Mode int

const (
	// ModeRecon classifies recovered strings against the recon categories.
	ModeRecon Mode = iota
	// ModeBlob applies the credential-blob heuristics.
	ModeBlob
	// ModeDeep runs the full single-binary analysis on every file.
	ModeDeep
)

func (m Mode) String() string {
	switch m {
	case ModeBlob:
		return "blobs"
	case ModeDeep:
		return "deep"
	default:
		return "recon"
	}
}

// Config controls scanning behavior including scope, performance, and filters.
type Config struct {
	Root            string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int
	MinStringLen    int
	ELFOnly         bool
	NoCache         bool
	DefaultExcludes bool
	Progress        func()
}

// Result carries the aggregated report plus walk statistics.
type Result struct {
	Report       *report.Report
	FilesScanned int
	CacheHits    int
	Duration     time.Duration
}

// DeepScan runs the exhaustive single-buffer analysis: both string encodings,
// the deep classification set, the PEM marker probe, and the protobuf
// field-tag score.
func DeepScan(data []byte, minLen int) types.FileResult {
	ascii := strscan.Ascii(data, minLen)
	wide := strscan.UTF16LE(data, minLen)

	all := make([]types.RecoveredString, 0, len(ascii)+len(wide))
	for _, s := range ascii {
		all = append(all, types.RecoveredString{Value: s, Encoding: types.EncASCII})
	}
	for _, s := range wide {
		all = append(all, types.RecoveredString{Value: s, Encoding: types.EncUTF16LE})
	}

	cls := classify.Classify(all, classify.SetDeep)
	if classify.PEMHeader(data) {
		cls[classify.CategoryPEMHeader] = []string{classify.PEMHeaderHit}
	}

	return types.FileResult{
		Stats: &types.Stats{
			ASCIIStrings:          len(ascii),
			UTF16Strings:          len(wide),
			ProtobufFieldTagScore: classify.FieldTagScore(data),
		},
		Classification: cls,
	}
}

// ScanFile deep-scans a single binary from disk. No size gate applies; raw
// firmware images are a deliberate target.
func ScanFile(path string, minLen int) (types.FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FileResult{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DeepScan(data, minLen), nil
}

type job struct {
	rel  string
	data []byte
	hash string
}

type outcome struct {
	rel      string
	res      types.FileResult
	cacheHit bool
}

// ScanTree walks cfg.Root and applies the mode's analysis to every eligible
// file, fanning the per-file work out over cfg.Threads workers. Unreadable
// files are skipped silently; partially extracted firmware trees are full of
// dangling symlinks and device nodes.
func ScanTree(ctx context.Context, cfg Config, mode Mode) (Result, error) {
	started := time.Now()
	result := Result{Report: report.New(cfg.Root)}

	if fi, err := os.Stat(cfg.Root); err != nil {
		return result, fmt.Errorf("rootfs %s: %w", cfg.Root, err)
	} else if !fi.IsDir() {
		return result, fmt.Errorf("rootfs %s: not a directory", cfg.Root)
	}

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
	} else {
		db.Entries = map[string]cache.Entry{}
	}
	updated := map[string]cache.Entry{}
	var updatedMu sync.Mutex

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	ign, _ := ignore.Load(filepath.Join(cfg.Root, ".firmscoutignore"))

	jobs := make(chan job, threads*2)
	outs := make(chan outcome, threads*2)

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := evaluate(mode, cfg, j.data)
				if !cfg.NoCache {
					if b, err := json.Marshal(res); err == nil {
						updatedMu.Lock()
						updated[j.rel] = cache.Entry{Hash: j.hash, Mode: mode.String(), Result: b}
						updatedMu.Unlock()
					}
				}
				outs <- outcome{rel: j.rel, res: res}
			}
		}()
	}

	// single collector; report.Add is not safe for concurrent use
	done := make(chan struct{})
	go func() {
		defer close(done)
		for o := range outs {
			result.Report.Add(o.rel, o.res)
			result.FilesScanned++
			if o.cacheHit {
				result.CacheHits++
			}
			if cfg.Progress != nil {
				cfg.Progress()
			}
		}
	}()

	walkErr := Walk(ctx, cfg, ign, func(rel string, data []byte) {
		if mode == ModeRecon && cfg.ELFOnly && !IsELF(data) {
			return
		}
		h := fastHash(data)
		if !cfg.NoCache {
			if e, ok := db.Entries[rel]; ok && e.Hash == h && e.Mode == mode.String() && len(e.Result) > 0 {
				var res types.FileResult
				if err := json.Unmarshal(e.Result, &res); err == nil {
					updatedMu.Lock()
					updated[rel] = e
					updatedMu.Unlock()
					outs <- outcome{rel: rel, res: res, cacheHit: true}
					return
				}
			}
		}
		jobs <- job{rel: rel, data: data, hash: h}
	})

	close(jobs)
	wg.Wait()
	close(outs)
	<-done

	if walkErr != nil {
		return result, walkErr
	}

	result.Duration = time.Since(started)
	if !cfg.NoCache && len(updated) > 0 {
		if db.Entries == nil {
			db.Entries = map[string]cache.Entry{}
		}
		for k, v := range updated {
			db.Entries[k] = v
		}
		_ = cache.Save(cfg.Root, db)
	}
	return result, nil
}

func evaluate(mode Mode, cfg Config, data []byte) types.FileResult {
	switch mode {
	case ModeBlob:
		return types.FileResult{Verdict: blob.Evaluate(data)}
	case ModeDeep:
		return DeepScan(data, cfg.MinStringLen)
	default:
		strs := strscan.Extract(data, cfg.MinStringLen)
		return types.FileResult{Classification: classify.Classify(strs, classify.SetRecon)}
	}
}

// ScanNvram walks the tree collecting nvram-style configuration usage:
// which binaries and scripts reference which keys, and which files look like
// the backing store.
func ScanNvram(ctx context.Context, cfg Config) (*nvram.Usage, error) {
	if fi, err := os.Stat(cfg.Root); err != nil {
		return nil, fmt.Errorf("rootfs %s: %w", cfg.Root, err)
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("rootfs %s: not a directory", cfg.Root)
	}
	u := nvram.NewUsage()
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ".firmscoutignore"))
	err := Walk(ctx, cfg, ign, func(rel string, data []byte) {
		u.Observe(rel, int64(len(data)), data)
	})
	return u, err
}

// ExtractKV exposes the raw key=value sweep for a single buffer, both
// encodings.
func ExtractKV(data []byte) (ascii, wide []types.KeyValuePair) {
	return kv.Extract(data)
}

func fastHash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
