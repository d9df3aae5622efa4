// Package strscan recovers printable text runs from raw firmware bytes.
//
// Two encodings are supported: plain single-byte ASCII and UTF-16LE as
// emitted by firmware configuration stores (each code unit is a printable
// ASCII byte followed by a zero byte). Extraction is a two-state run/flush
// machine over the buffer; runs shorter than the minimum length are dropped
// silently.
package strscan

import "github.com/firmscout/firmscout/internal/types"

// DefaultMinLength is the run length below which recovered text is discarded.
const DefaultMinLength = 4

func printable(b byte) bool { return b >= 32 && b < 127 }

func clampMin(minLen int) int {
	if minLen < 1 {
		return DefaultMinLength
	}
	return minLen
}

// Ascii returns every printable single-byte run of at least minLen characters,
// in buffer order. Non-positive minLen falls back to DefaultMinLength.
func Ascii(data []byte, minLen int) []string {
	minLen = clampMin(minLen)
	var out []string
	var cur []byte
	for _, b := range data {
		if printable(b) {
			cur = append(cur, b)
			continue
		}
		if len(cur) >= minLen {
			out = append(out, string(cur))
		}
		cur = cur[:0]
	}
	if len(cur) >= minLen {
		out = append(out, string(cur))
	}
	return out
}

// UTF16LE returns every printable-wide run of at least minLen code units.
// A unit is printable-wide iff its high byte is exactly zero and its low byte
// is printable ASCII, which keeps little-endian non-ASCII code units from
// being misread as text. A trailing unpaired byte is ignored.
func UTF16LE(data []byte, minLen int) []string {
	minLen = clampMin(minLen)
	var out []string
	var cur []byte
	for i := 0; i+1 < len(data); i += 2 {
		lo, hi := data[i], data[i+1]
		if hi == 0 && printable(lo) {
			cur = append(cur, lo)
			continue
		}
		if len(cur) >= minLen {
			out = append(out, string(cur))
		}
		cur = cur[:0]
	}
	if len(cur) >= minLen {
		out = append(out, string(cur))
	}
	return out
}

// Extract runs both encodings over the buffer and returns the recovered
// strings tagged with their source encoding, ASCII runs first. No global
// deduplication happens here; dedup is a per-category classifier concern.
func Extract(data []byte, minLen int) []types.RecoveredString {
	ascii := Ascii(data, minLen)
	wide := UTF16LE(data, minLen)
	out := make([]types.RecoveredString, 0, len(ascii)+len(wide))
	for _, s := range ascii {
		out = append(out, types.RecoveredString{Value: s, Encoding: types.EncASCII})
	}
	for _, s := range wide {
		out = append(out, types.RecoveredString{Value: s, Encoding: types.EncUTF16LE})
	}
	return out
}
