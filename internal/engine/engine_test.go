package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func elfWith(payload string) []byte {
	buf := append([]byte{0x7f, 'E', 'L', 'F', 0, 0, 0, 0}, []byte(payload)...)
	return buf
}

func writeTree(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for rel, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScanTreeRecon(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"bin/cam":   elfWith("\x00POST http://a.iot-dns.com/gw.json\x00uuid huawei\x00"),
		"etc/motd":  []byte("welcome shell text, nothing notable"),
		"bin/other": elfWith("\x00plain strings only here\x00"),
	})
	res, err := ScanTree(context.Background(), Config{Root: dir, NoCache: true}, ModeRecon)
	if err != nil {
		t.Fatal(err)
	}
	cam, ok := res.Report.Get("bin/cam")
	if !ok {
		t.Fatalf("bin/cam missing from report; scanned=%d", res.FilesScanned)
	}
	if len(cam.Classification["urls"]) == 0 {
		t.Fatalf("url hit expected: %#v", cam.Classification)
	}
	// files with no classified strings are dropped from the report
	if _, ok := res.Report.Get("bin/other"); ok {
		t.Fatal("uninteresting file must be dropped")
	}
	if res.FilesScanned != 3 {
		t.Fatalf("scanned: %d", res.FilesScanned)
	}
}

func TestScanTreeELFOnly(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"bin/cam":   elfWith("\x00http://a.iot-dns.com/x\x00"),
		"etc/rc.sh": []byte("#!/bin/sh\ncurl http://a.iot-dns.com/x\n"),
	})
	res, err := ScanTree(context.Background(), Config{Root: dir, NoCache: true, ELFOnly: true}, ModeRecon)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Report.Get("bin/cam"); !ok {
		t.Fatal("ELF binary must be scanned")
	}
	if _, ok := res.Report.Get("etc/rc.sh"); ok {
		t.Fatal("non-ELF file must be skipped in ELF-only recon")
	}
}

func TestScanTreeBlobs(t *testing.T) {
	payload := []byte("UUID=abcdef0123456789\x00AUTHKEY=ffff0000ffff0000\x00padpadpad")
	dir := writeTree(t, map[string][]byte{
		"cfg/factory.bin": payload,
		"cfg/tiny":        []byte("UUID=x"), // below blob size floor
	})
	res, err := ScanTree(context.Background(), Config{Root: dir, NoCache: true}, ModeBlob)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := res.Report.Get("cfg/factory.bin")
	if !ok || rec.Verdict == nil {
		t.Fatalf("verdict expected: %#v", rec)
	}
	if len(rec.Verdict.KeywordHits) == 0 || len(rec.Verdict.ASCIIKV) == 0 {
		t.Fatalf("keyword and kv signals expected: %#v", rec.Verdict)
	}
	if _, ok := res.Report.Get("cfg/tiny"); ok {
		t.Fatal("undersized file must get no verdict")
	}
}

func TestScanTreeCacheRoundTrip(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"bin/cam": elfWith("\x00http://a.iot-dns.com/gw.json\x00"),
	})
	cfg := Config{Root: dir}

	first, err := ScanTree(context.Background(), cfg, ModeRecon)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHits != 0 {
		t.Fatalf("cold scan must not hit cache: %d", first.CacheHits)
	}
	if _, err := os.Stat(filepath.Join(dir, ".firmscoutcache.json")); err != nil {
		t.Fatalf("cache not written: %v", err)
	}

	second, err := ScanTree(context.Background(), cfg, ModeRecon)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHits == 0 {
		t.Fatal("warm scan must hit cache")
	}
	// a cache hit still populates the report from the stored result
	cam, ok := second.Report.Get("bin/cam")
	if !ok || len(cam.Classification["urls"]) == 0 {
		t.Fatalf("cached result lost: %#v", cam)
	}
}

func TestDeepScan(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("\x00\x00{\"devId\":\"abc\"}\x00")
	buf.WriteString("-----BEGIN PUBLIC KEY-----\x00\x00")
	// wide string "KEY1" as UTF-16LE, two-byte aligned
	buf.Write([]byte{'K', 0, 'E', 0, 'Y', 0, '1', 0})
	buf.Write([]byte{0x08, 0x01, 0x12, 0x03}) // two plausible field tags

	res := DeepScan(buf.Bytes(), 4)
	if res.Stats == nil || res.Stats.ASCIIStrings == 0 || res.Stats.UTF16Strings != 1 {
		t.Fatalf("stats: %#v", res.Stats)
	}
	if res.Stats.ProtobufFieldTagScore == 0 {
		t.Fatalf("field tag score expected: %#v", res.Stats)
	}
	if len(res.Classification["json_like"]) == 0 {
		t.Fatalf("json_like expected: %#v", res.Classification)
	}
	if len(res.Classification["pem_header"]) != 1 {
		t.Fatalf("pem marker expected: %#v", res.Classification)
	}
}

func TestScanTreeMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "extracted")
	_, err := ScanTree(context.Background(), Config{Root: missing, NoCache: true}, ModeRecon)
	if err == nil {
		t.Fatal("expected error for missing rootfs")
	}
}

func TestScanTreeRootNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "firmware.bin")
	if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ScanTree(context.Background(), Config{Root: f, NoCache: true}, ModeRecon)
	if err == nil {
		t.Fatal("expected error for non-directory rootfs")
	}
}

func TestScanNvramMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "extracted")
	if _, err := ScanNvram(context.Background(), Config{Root: missing, NoCache: true}); err == nil {
		t.Fatal("expected error for missing rootfs")
	}
}

func TestScanFileMissing(t *testing.T) {
	if _, err := ScanFile(filepath.Join(t.TempDir(), "nope.bin"), 4); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestScanNvram(t *testing.T) {
	dir := writeTree(t, map[string][]byte{
		"etc/init.d/rcS": []byte("#!/bin/sh\nUUID=$(nvram get UUID)\nnvram get wifi_ssid\n"),
		"bin/nvram":      elfWith("usage: nvram get <key>"),
	})
	u, err := ScanNvram(context.Background(), Config{Root: dir, NoCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Keys["UUID"]) == 0 {
		t.Fatalf("UUID reference expected: %#v", u.Keys)
	}
	if len(u.Binaries) != 1 || u.Binaries[0] != "bin/nvram" {
		t.Fatalf("nvram binary expected: %#v", u.Binaries)
	}
}

func TestIsELF(t *testing.T) {
	if !IsELF(elfWith("x")) {
		t.Fatal("magic must match")
	}
	if IsELF([]byte("#!/bin/sh")) || IsELF([]byte{0x7f, 'E'}) {
		t.Fatal("non-ELF must not match")
	}
}
