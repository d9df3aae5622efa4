package report

import (
	"encoding/json"
	"io"

	"github.com/firmscout/firmscout/internal/types"
)

// WriteJSON emits the full report in its wire shape.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFileJSON emits a single deep-scan result with the scanned path merged
// into the flattened record.
func WriteFileJSON(w io.Writer, path string, res types.FileResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(b, &flat); err != nil {
		return err
	}
	pb, err := json.Marshal(path)
	if err != nil {
		return err
	}
	flat["path"] = pb
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(flat)
}
