package tui

import (
	"testing"
)

func TestDefaultPrefsHideValues(t *testing.T) {
	if !DefaultPrefs().HideValues {
		t.Fatal("values must be hidden by default")
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := Prefs{HideValues: false}
	if err := SavePrefs(p); err != nil {
		t.Fatal(err)
	}
	got := LoadPrefs()
	if got.HideValues {
		t.Fatalf("round trip: %#v", got)
	}
}

func TestLoadPrefsMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if got := LoadPrefs(); !got.HideValues {
		t.Fatalf("missing file must yield defaults: %#v", got)
	}
}

func TestRedactValue(t *testing.T) {
	if redactValue("ab") != "***" {
		t.Fatal("short values fully redacted")
	}
	if redactValue("abcdefgh") != "abcd***" {
		t.Fatal("long values keep a 4-char prefix")
	}
}
