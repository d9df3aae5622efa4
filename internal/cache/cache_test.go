package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	// initial load should return empty DB and error
	db, _ := Load(dir)
	if db.Entries == nil {
		t.Fatalf("expected entries map initialized")
	}
	db.Entries["bin/cam"] = Entry{Hash: "deadbeef", Result: json.RawMessage(`{"size":9}`)}
	if err := Save(dir, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".firmscoutcache.json")); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	db2, err := Load(dir)
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	got := db2.Entries["bin/cam"]
	if got.Hash != "deadbeef" {
		t.Fatalf("unexpected hash: %q", got.Hash)
	}
	if string(got.Result) != `{"size":9}` {
		t.Fatalf("result not round-tripped: %s", got.Result)
	}
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".firmscoutcache.json"), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	db, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for corrupt cache")
	}
	if db.Entries == nil {
		t.Fatal("entries map must still be usable")
	}
}

func TestSaveLoadReport(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(`{"rootfs":"/fw","results":{}}`)
	if err := SaveReport(dir, "recon", payload); err != nil {
		t.Fatalf("save report: %v", err)
	}
	last, err := LoadReport(dir)
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if last.Mode != "recon" || string(last.Report) != string(payload) {
		t.Fatalf("round trip: %#v", last)
	}
}
