// Package report aggregates per-file scan results and renders them for
// humans, JSON pipelines, and SARIF consumers.
package report

import (
	"encoding/json"
	"sort"

	"github.com/firmscout/firmscout/internal/profile"
	"github.com/firmscout/firmscout/internal/types"
)

// Report collects per-file results keyed by slash-separated path relative to
// the scan root. Storage preserves insertion order; renderers re-sort
// lexicographically for stable display.
type Report struct {
	Rootfs  string
	Profile *profile.Skeleton

	order   []string
	results map[string]types.FileResult
}

// New returns an empty report for the given scan root.
func New(rootfs string) *Report {
	return &Report{Rootfs: rootfs, results: map[string]types.FileResult{}}
}

// Add stores a result under rel. Records with nothing interesting are
// dropped, and an existing entry is never overwritten (paths are unique by
// construction of a filesystem walk; a duplicate indicates a caller bug and
// loses to the first writer). Reports whether the entry was stored.
func (r *Report) Add(rel string, res types.FileResult) bool {
	if !res.Interesting() {
		return false
	}
	if _, dup := r.results[rel]; dup {
		return false
	}
	r.results[rel] = res
	r.order = append(r.order, rel)
	return true
}

// Len returns the number of stored entries.
func (r *Report) Len() int { return len(r.order) }

// Paths returns entry paths in insertion order.
func (r *Report) Paths() []string {
	return append([]string(nil), r.order...)
}

// Get returns the stored result for rel.
func (r *Report) Get(rel string) (types.FileResult, bool) {
	res, ok := r.results[rel]
	return res, ok
}

// CategoryTotals sums hit counts per category across every entry, plus the
// number of files contributing to each.
func (r *Report) CategoryTotals() (hits map[string]int, files map[string]int) {
	hits = map[string]int{}
	files = map[string]int{}
	for _, rel := range r.order {
		res := r.results[rel]
		for cat, vals := range res.Classification {
			if len(vals) == 0 {
				continue
			}
			hits[cat] += len(vals)
			files[cat]++
		}
		if v := res.Verdict; v != nil {
			if n := len(v.KeywordHits); n > 0 {
				hits["keyword_hits"] += n
				files["keyword_hits"]++
			}
			if n := len(v.ASCIIKV); n > 0 {
				hits["ascii_kv"] += n
				files["ascii_kv"]++
			}
			if n := len(v.UTF16KV); n > 0 {
				hits["utf16_kv"] += n
				files["utf16_kv"]++
			}
			if v.LowEntropyHint {
				hits["low_entropy_hint"]++
				files["low_entropy_hint"]++
			}
		}
	}
	return hits, files
}

// MarshalJSON emits the wire shape consumed by downstream tooling: a
// top-level rootfs field and a relative-path keyed results object. The
// optional emulation profile rides along when present.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"rootfs":  r.Rootfs,
		"results": r.results,
	}
	if r.Profile != nil {
		out["emu_profile"] = r.Profile
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a report; entry order degrades to sorted-by-path,
// which every consumer tolerates because renderers sort anyway.
func (r *Report) UnmarshalJSON(b []byte) error {
	var raw struct {
		Rootfs  string                      `json:"rootfs"`
		Results map[string]types.FileResult `json:"results"`
		Profile *profile.Skeleton           `json:"emu_profile"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Rootfs = raw.Rootfs
	r.Profile = raw.Profile
	r.results = map[string]types.FileResult{}
	r.order = nil
	for rel, res := range raw.Results {
		r.results[rel] = res
		r.order = append(r.order, rel)
	}
	sort.Strings(r.order)
	return nil
}
