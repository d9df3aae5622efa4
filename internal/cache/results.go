package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const lastReportName = ".firmscout_last_scan.json"

// LastReport stores the most recent report so the TUI and diff-style workflows
// can reload it without re-walking the tree.
type LastReport struct {
	Report    json.RawMessage `json:"report"`
	Mode      string          `json:"mode"`
	Timestamp time.Time       `json:"timestamp"`
	Root      string          `json:"root"`
}

func reportPath(root string) string {
	return filepath.Join(root, lastReportName)
}

// SaveReport persists the serialized report for the given scan mode.
func SaveReport(root, mode string, report []byte) error {
	last := LastReport{
		Report:    report,
		Mode:      mode,
		Timestamp: time.Now(),
		Root:      root,
	}
	b, err := json.MarshalIndent(last, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(reportPath(root), b, 0644)
}

// LoadReport loads the last saved report for root.
func LoadReport(root string) (LastReport, error) {
	var last LastReport
	f, err := os.ReadFile(reportPath(root))
	if err != nil {
		return last, err
	}
	if err := json.Unmarshal(f, &last); err != nil {
		return last, err
	}
	return last, nil
}
