package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildShape(t *testing.T) {
	s := Build("/mnt/rootfs", "/mnt/rootfs/skyeye/bin/tycam")
	if s.Rootfs != "/mnt/rootfs" || s.Target != "/mnt/rootfs/skyeye/bin/tycam" {
		t.Fatalf("skeleton: %#v", s)
	}
	if s.Arch != "mipsel" || s.OS != "linux" || s.EntryPoint != "auto" {
		t.Fatalf("defaults: %#v", s)
	}
	if s.Env["PATH"] == "" || len(s.Hooks) == 0 || len(s.Notes) == 0 {
		t.Fatalf("placeholders missing: %#v", s)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "profile.json")
	if err := Build("/r", "/r/bin/cam").WriteFile(p); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	var got Skeleton
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.Target != "/r/bin/cam" {
		t.Fatalf("round trip: %#v", got)
	}
}
