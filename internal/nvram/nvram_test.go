package nvram

import (
	"reflect"
	"testing"
)

func TestGetKeys(t *testing.T) {
	data := []byte("#!/bin/sh\nUUID=$(nvram get UUID)\nKEY=$(nvram  get AUTHKEY)\nnvram set FOO=1\n")
	got := GetKeys(data)
	want := []string{"UUID", "AUTHKEY"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keys: got %#v want %#v", got, want)
	}
}

func TestObserveBinaryAndStorage(t *testing.T) {
	u := NewUsage()
	u.Observe("bin/nvram", 120000, nil)
	u.Observe("etc/nvram.bak", 4096, nil)
	u.Observe("etc/nvram_huge.bin", 2<<20, nil)
	u.Observe("bin/busybox", 500000, nil)

	if len(u.Binaries) != 1 || u.Binaries[0] != "bin/nvram" {
		t.Fatalf("binaries: %#v", u.Binaries)
	}
	// the nvram binary itself also counts as a storage-name candidate;
	// the oversized file does not
	want := []string{"bin/nvram", "etc/nvram.bak"}
	if !reflect.DeepEqual(u.StorageCandidates, want) {
		t.Fatalf("storage candidates: %#v", u.StorageCandidates)
	}
}

func TestCredentialKeys(t *testing.T) {
	u := NewUsage()
	u.Observe("etc/init.d/rcS", 100, []byte("nvram get UUID\nnvram get wifi_ssid\nnvram get hostname\n"))
	cred := u.CredentialKeys()
	if _, ok := cred["UUID"]; !ok {
		t.Fatalf("UUID should be credential-like: %#v", cred)
	}
	if _, ok := cred["wifi_ssid"]; !ok {
		t.Fatalf("wifi_ssid matches the WIFI prefix case-insensitively: %#v", cred)
	}
	if _, ok := cred["hostname"]; ok {
		t.Fatalf("hostname must not be credential-like")
	}
}

func TestFilesForDedupsAndSorts(t *testing.T) {
	u := NewUsage()
	u.Observe("b.sh", 10, []byte("nvram get PID"))
	u.Observe("a.sh", 10, []byte("nvram get PID\nnvram get PID"))
	got := u.FilesFor("PID")
	want := []string{"a.sh", "b.sh"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("files: %#v", got)
	}
	if len(u.Keys["PID"]) != 3 {
		t.Fatalf("raw references must keep multiplicity: %#v", u.Keys["PID"])
	}
}

func TestSortedKeys(t *testing.T) {
	u := NewUsage()
	u.Observe("x", 1, []byte("nvram get ZZZ\nnvram get AAA"))
	if got := u.SortedKeys(); !reflect.DeepEqual(got, []string{"AAA", "ZZZ"}) {
		t.Fatalf("sorted keys: %#v", got)
	}
}
