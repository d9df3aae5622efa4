package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/firmscout/firmscout/internal/classify"
	"github.com/firmscout/firmscout/internal/types"
)

// SectionCap is how many hits a category section lists before truncating
// with an "N more" note.
const SectionCap = 40

// PrintOptions controls human-readable rendering.
type PrintOptions struct {
	NoColor bool
	// Width truncates individual hit lines when > 0 (normally the terminal
	// width); 0 leaves lines untouched.
	Width int
	// Summary appends the per-category totals table.
	Summary bool
	// OnlyHits hides blob verdicts carrying no keyword or key=value signal
	// (low-entropy-only files).
	OnlyHits bool
}

func clip(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}

func label(s string, opts PrintOptions) string {
	if opts.NoColor {
		return s
	}
	return "\x1b[36m" + s + "\x1b[0m"
}

// section prints one "[label] (N hits)" block with the cap applied.
func section(w io.Writer, name string, hits []string, opts PrintOptions) {
	fmt.Fprintf(w, "[%s] (%d hits)\n", label(name, opts), len(hits))
	shown := hits
	if len(shown) > SectionCap {
		shown = shown[:SectionCap]
	}
	for _, h := range shown {
		fmt.Fprintf(w, "   %s\n", clip(h, opts.Width-3))
	}
	if extra := len(hits) - SectionCap; extra > 0 {
		fmt.Fprintf(w, "   ... (%d more)\n", extra)
	}
	fmt.Fprintln(w)
}

// PrintDeep renders a single-binary deep scan result.
func PrintDeep(w io.Writer, path string, res types.FileResult, opts PrintOptions) {
	fmt.Fprintln(w, "=== Deep scan report ===")
	fmt.Fprintf(w, "Path: %s\n", path)
	if st := res.Stats; st != nil {
		fmt.Fprintf(w, "ASCII strings: %d\n", st.ASCIIStrings)
		fmt.Fprintf(w, "UTF16LE strings: %d\n", st.UTF16Strings)
		fmt.Fprintf(w, "Protobuf field-tag score: %d\n", st.ProtobufFieldTagScore)
	}
	fmt.Fprintln(w)
	for _, cat := range classify.Order(classify.SetDeep) {
		section(w, classify.Describe(cat), res.Classification[cat], opts)
	}
}

// PrintDeepTree renders a whole-tree deep scan, entries sorted by path.
func PrintDeepTree(w io.Writer, r *Report, opts PrintOptions) {
	paths := r.Paths()
	sort.Strings(paths)
	for _, rel := range paths {
		res, _ := r.Get(rel)
		PrintDeep(w, rel, res, opts)
		fmt.Fprintln(w)
	}
	if opts.Summary {
		PrintSummary(w, r)
	}
}

// PrintRecon renders a rootfs recon report, entries sorted by path.
func PrintRecon(w io.Writer, r *Report, opts PrintOptions) {
	fmt.Fprintln(w, "=== Static recon report ===")
	fmt.Fprintf(w, "Rootfs: %s\n", r.Rootfs)
	fmt.Fprintf(w, "Binaries analyzed: %d\n\n", r.Len())

	paths := r.Paths()
	sort.Strings(paths)
	for _, rel := range paths {
		res, _ := r.Get(rel)
		fmt.Fprintf(w, "--- %s ---\n", rel)
		for _, cat := range classify.Order(classify.SetRecon) {
			hits := res.Classification[cat]
			if len(hits) == 0 {
				continue
			}
			fmt.Fprintf(w, "  [%s]\n", label(cat, opts))
			shown := hits
			if len(shown) > SectionCap {
				shown = shown[:SectionCap]
			}
			for _, h := range shown {
				fmt.Fprintf(w, "    %s\n", clip(h, opts.Width-4))
			}
			if extra := len(hits) - SectionCap; extra > 0 {
				fmt.Fprintf(w, "    ... (%d more)\n", extra)
			}
		}
		fmt.Fprintln(w)
	}
	if opts.Summary {
		PrintSummary(w, r)
	}
}

// PrintBlobs renders the NVRAM blob detection report, entries sorted by path.
func PrintBlobs(w io.Writer, r *Report, opts PrintOptions) {
	fmt.Fprintln(w, "=== NVRAM blob detector ===")
	fmt.Fprintf(w, "Scanning: %s\n\n", r.Rootfs)

	paths := r.Paths()
	sort.Strings(paths)
	for _, rel := range paths {
		res, _ := r.Get(rel)
		v := res.Verdict
		if v == nil {
			continue
		}
		if opts.OnlyHits && len(v.KeywordHits) == 0 && len(v.ASCIIKV) == 0 && len(v.UTF16KV) == 0 {
			continue
		}
		fmt.Fprintf(w, "[+] Possible NVRAM blob: %s\n", rel)
		if len(v.KeywordHits) > 0 {
			fmt.Fprintf(w, "    Keywords: %v\n", v.KeywordHits)
		}
		if len(v.ASCIIKV) > 0 {
			fmt.Fprintf(w, "    ASCII KV pairs: %d\n", len(v.ASCIIKV))
		}
		if len(v.UTF16KV) > 0 {
			fmt.Fprintf(w, "    UTF16 KV pairs: %d\n", len(v.UTF16KV))
		}
		if v.LowEntropyHint {
			fmt.Fprintln(w, "    Low-entropy (structured/TLV-like) content")
		}
		fmt.Fprintf(w, "    Size: %d\n\n", v.Size)
	}
	if r.Len() == 0 {
		fmt.Fprintln(w, "No NVRAM-like blobs detected. Try scanning the raw firmware .bin file directly.")
	}
	if opts.Summary {
		PrintSummary(w, r)
	}
}

// PrintSummary renders the per-category totals table.
func PrintSummary(w io.Writer, r *Report) {
	hits, files := r.CategoryTotals()
	if len(hits) == 0 {
		return
	}
	cats := make([]string, 0, len(hits))
	for c := range hits {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	tbl := tablewriter.NewTable(w)
	tbl.Header("CATEGORY", "HITS", "FILES")
	for _, c := range cats {
		tbl.Append(c, strconv.Itoa(hits[c]), strconv.Itoa(files[c]))
	}
	_ = tbl.Render()
}
