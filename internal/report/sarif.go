package report

import (
	"encoding/json"
	"io"
	"sort"
	"time"
)

type sarif struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID   string       `json:"id"`
	Name string       `json:"name,omitempty"`
	Desc sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt `json:"artifactLocation"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

// WriteSARIF emits the report as SARIF 2.1.0. Every category becomes a rule
// and every hit a note-level result located at the file it was recovered
// from; firmware strings have no meaningful line numbers so regions are
// omitted.
func WriteSARIF(w io.Writer, r *Report) error {
	driver := sarifDriver{Name: "firmscout", Version: time.Now().Format("2006.01.02")}
	ruleIdx := map[string]int{}
	rule := func(cat string) int {
		if i, ok := ruleIdx[cat]; ok {
			return i
		}
		i := len(driver.Rules)
		driver.Rules = append(driver.Rules, sarifRule{
			ID:   cat,
			Desc: sarifMessage{Text: cat},
		})
		ruleIdx[cat] = i
		return i
	}

	run := sarifRun{}
	paths := r.Paths()
	sort.Strings(paths)
	for _, rel := range paths {
		res, _ := r.Get(rel)
		cats := make([]string, 0, len(res.Classification))
		for c := range res.Classification {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			for _, hit := range res.Classification[cat] {
				run.Results = append(run.Results, sarifResult{
					RuleID:    cat,
					RuleIndex: rule(cat),
					Level:     "note",
					Message:   sarifMessage{Text: hit},
					Locations: []sarifLoc{{
						PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: rel}},
					}},
				})
			}
		}
		if v := res.Verdict; v != nil {
			run.Results = append(run.Results, sarifResult{
				RuleID:    "nvram_blob",
				RuleIndex: rule("nvram_blob"),
				Level:     "note",
				Message:   sarifMessage{Text: "possible NVRAM blob"},
				Locations: []sarifLoc{{
					PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: rel}},
				}},
			})
		}
	}

	hits, files := r.CategoryTotals()
	if len(hits) > 0 {
		stats := map[string]any{}
		for c, n := range hits {
			stats[c] = map[string]int{"hits": n, "files": files[c]}
		}
		run.Properties = map[string]any{"categoryStats": stats}
	}

	run.Tool = sarifTool{Driver: driver}
	doc := sarif{Version: "2.1.0", Runs: []sarifRun{run}}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
