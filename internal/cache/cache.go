// Package cache persists per-file scan state between runs so re-scans of an
// unchanged firmware tree skip the string extraction entirely.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const fileName = ".firmscoutcache.json"

// Entry records one scanned file: its content hash, the scan mode that
// produced it, and the serialized result. Keeping the result means a cache hit
// can still populate the report instead of silently dropping the file; keeping
// the mode stops a blobs run from replaying recon results on the same tree.
type Entry struct {
	Hash   string          `json:"hash"`
	Mode   string          `json:"mode,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

type DB struct {
	// Path relative to the scan root -> entry
	Entries map[string]Entry `json:"entries"`
}

func defaultPath(root string) string {
	return filepath.Join(root, fileName)
}

func Load(root string) (DB, error) {
	var db DB
	f, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	return db, nil
}

func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(defaultPath(root), b, 0644)
}
