package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/firmscout/firmscout/internal/ignore"
)

func walkPaths(t *testing.T, cfg Config) []string {
	t.Helper()
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ".firmscoutignore"))
	var got []string
	err := Walk(context.Background(), cfg, ign, func(rel string, data []byte) {
		got = append(got, rel)
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)
	return got
}

func TestWalkSkipsIgnoredAndOversized(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"bin/cam":          []byte("data"),
		"www/index.html":   []byte("<html>"),
		"big.bin":          make([]byte, 2048),
		".firmscoutignore": []byte("www/\n"),
	})
	cfg := Config{Root: dir, MaxBytes: 1024}
	got := walkPaths(t, cfg)
	want := []string{".firmscoutignore", "bin/cam"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("walked: %#v", got)
	}
}

func TestWalkDefaultExcludes(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"bin/cam":        []byte("data"),
		"proc/cpuinfo":   []byte("model"),
		"usr/www/a.css":  []byte("body{}"),
		"media/beep.mp3": []byte("ID3"),
	})
	cfg := Config{Root: dir, DefaultExcludes: true}
	got := walkPaths(t, cfg)
	if len(got) != 1 || got[0] != "bin/cam" {
		t.Fatalf("walked: %#v", got)
	}
}

func TestWalkGlobs(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"bin/cam":    []byte("x"),
		"bin/cam.sh": []byte("x"),
		"etc/a.conf": []byte("x"),
	})

	cfg := Config{Root: dir, IncludeGlobs: "bin/**"}
	got := walkPaths(t, cfg)
	if len(got) != 2 || got[0] != "bin/cam" || got[1] != "bin/cam.sh" {
		t.Fatalf("include globs: %#v", got)
	}

	cfg = Config{Root: dir, ExcludeGlobs: "*.sh,*.conf"}
	got = walkPaths(t, cfg)
	if len(got) != 1 || got[0] != "bin/cam" {
		t.Fatalf("exclude globs: %#v", got)
	}
}

func TestWalkSkipsSymlinks(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"bin/busybox": []byte("real"),
	})
	if err := os.Symlink("busybox", filepath.Join(dir, "bin", "sh")); err != nil {
		t.Skipf("symlink: %v", err)
	}
	got := walkPaths(t, Config{Root: dir})
	if len(got) != 1 || got[0] != "bin/busybox" {
		t.Fatalf("walked: %#v", got)
	}
}

func TestCountTargetsMatchesWalk(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"bin/cam":          []byte("a"),
		"etc/rc.sh":        []byte("b"),
		"big.bin":          make([]byte, 2048),
		".firmscoutignore": []byte("*.sh\n"),
	})
	cfg := Config{Root: dir, MaxBytes: 1024}
	n, err := CountTargets(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if walked := walkPaths(t, cfg); n != len(walked) {
		t.Fatalf("count=%d walked=%#v", n, walked)
	}
}
