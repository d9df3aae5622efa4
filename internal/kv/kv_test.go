package kv

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/firmscout/firmscout/internal/types"
)

func wideBytes(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0x00)
	}
	return out
}

func TestExtractASCIISimplePair(t *testing.T) {
	data := []byte("\x00\x01localKey=ABCDEF1234567890ABCDEF1234567890\x00junk")
	pairs := ExtractASCII(data)
	if len(pairs) != 1 {
		t.Fatalf("pairs: %#v", pairs)
	}
	if pairs[0].Key != "localKey" || pairs[0].Value != "ABCDEF1234567890ABCDEF1234567890" {
		t.Fatalf("pair: %#v", pairs[0])
	}
}

func TestExtractASCIIValueStopsAtNulCrLf(t *testing.T) {
	data := []byte("UUID=abc\r\nMAC=00:11:22\x0033")
	pairs := ExtractASCII(data)
	if len(pairs) != 2 {
		t.Fatalf("pairs: %#v", pairs)
	}
	if pairs[0].Value != "abc" {
		t.Fatalf("value crossed CR: %#v", pairs[0])
	}
	if pairs[1].Key != "MAC" || pairs[1].Value != "00:11:22" {
		t.Fatalf("value crossed NUL: %#v", pairs[1])
	}
}

func TestExtractASCIIKeyBounds(t *testing.T) {
	// single-char key is below the minimum
	if pairs := ExtractASCII([]byte("\x00a=value\x00")); len(pairs) != 0 {
		t.Fatalf("one-char key accepted: %#v", pairs)
	}
	// overlong identifier keeps only the trailing 32 chars
	long := bytes.Repeat([]byte("k"), 40)
	data := append(long, []byte("=v2")...)
	pairs := ExtractASCII(data)
	if len(pairs) != 1 || len(pairs[0].Key) != 32 {
		t.Fatalf("overlong key handling: %#v", pairs)
	}
}

func TestExtractASCIIValueCapped(t *testing.T) {
	data := append([]byte("key="), bytes.Repeat([]byte("v"), 200)...)
	pairs := ExtractASCII(data)
	if len(pairs) != 1 || len(pairs[0].Value) != 128 {
		t.Fatalf("value cap: %#v", pairs)
	}
}

func TestExtractASCIIKeepsDuplicates(t *testing.T) {
	data := []byte("SN=123\x00SN=123\x00")
	pairs := ExtractASCII(data)
	if len(pairs) != 2 {
		t.Fatalf("duplicates must be kept: %#v", pairs)
	}
}

func TestExtractASCIIValueLossyDecode(t *testing.T) {
	data := []byte("pid=ab\xffcd\x00")
	pairs := ExtractASCII(data)
	if len(pairs) != 1 || pairs[0].Value != "abcd" {
		t.Fatalf("lossy decode: %#v", pairs)
	}
}

func TestExtractWideSimplePair(t *testing.T) {
	data := append(wideBytes("AUTHKEY"), '=')
	data = append(data, wideBytes("s3cret")...)
	data = append(data, 0xff, 0xff)
	pairs := ExtractWide(data)
	if len(pairs) != 1 {
		t.Fatalf("pairs: %#v", pairs)
	}
	if pairs[0].Key != "AUTHKEY" || pairs[0].Value != "s3cret" {
		t.Fatalf("pair: %#v", pairs[0])
	}
}

func TestExtractWideRejectsNonWideKey(t *testing.T) {
	// plain ASCII key followed by wide value: not a wide pair
	data := append([]byte("AUTHKEY="), wideBytes("v")...)
	if pairs := ExtractWide(data); len(pairs) != 0 {
		t.Fatalf("expected no wide pairs: %#v", pairs)
	}
}

func TestExtractWideUnalignedOffset(t *testing.T) {
	data := append([]byte{0x99}, wideBytes("P2PID")...)
	data = append(data, '=')
	data = append(data, wideBytes("XYZW")...)
	pairs := ExtractWide(data)
	if len(pairs) != 1 || pairs[0].Key != "P2PID" || pairs[0].Value != "XYZW" {
		t.Fatalf("unaligned wide pair: %#v", pairs)
	}
}

func TestExtractBoth(t *testing.T) {
	data := []byte("devId=d1\x00")
	data = append(data, wideBytes("uuid")...)
	data = append(data, '=')
	data = append(data, wideBytes("u1u1")...)
	ascii, wide := Extract(data)
	if len(ascii) != 1 || ascii[0].Key != "devId" {
		t.Fatalf("ascii pairs: %#v", ascii)
	}
	if len(wide) != 1 || wide[0].Key != "uuid" {
		t.Fatalf("wide pairs: %#v", wide)
	}
}

func TestPairJSONShape(t *testing.T) {
	b, err := json.Marshal(types.KeyValuePair{Key: "SN", Value: "42"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["SN","42"]` {
		t.Fatalf("pair JSON: %s", b)
	}
	var p types.KeyValuePair
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatal(err)
	}
	if p.Key != "SN" || p.Value != "42" {
		t.Fatalf("round trip: %#v", p)
	}
}
