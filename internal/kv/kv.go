// Package kv recovers key=value pairs straight from raw firmware buffers.
//
// The extractor is independent of the generic string scanner on purpose:
// anchoring on the '=' delimiter keeps keys and values with embedded
// punctuation intact where printable-run extraction would flush them apart.
// NVRAM-style stores serialize both plain ASCII pairs and UTF-16LE pairs
// whose '=' stays a single ASCII byte between wide key and wide value.
package kv

import "github.com/firmscout/firmscout/internal/types"

const (
	minKeyLen = 2
	maxKeyLen = 32
	minValLen = 1
	maxValLen = 128
)

func wordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

func valueByte(b byte) bool {
	return b != 0x00 && b != '\r' && b != '\n'
}

// Extract returns the ASCII and wide (UTF-16LE) pair lists recovered from the
// buffer, each in buffer order and without deduplication; repeated identical
// pairs are kept because multiplicity is itself diagnostic.
func Extract(data []byte) (ascii, wide []types.KeyValuePair) {
	return ExtractASCII(data), ExtractWide(data)
}

// ExtractASCII matches "identifier of 2-32 word characters, '=', then 1-128
// bytes excluding NUL/CR/LF". Scanning is non-overlapping: after a match it
// resumes past the value.
func ExtractASCII(data []byte) []types.KeyValuePair {
	var out []types.KeyValuePair
	for i := 0; i < len(data); i++ {
		if data[i] != '=' {
			continue
		}
		// key: up to maxKeyLen word chars ending right before '='
		start := i
		for start > 0 && i-start < maxKeyLen && wordChar(data[start-1]) {
			start--
		}
		if i-start < minKeyLen {
			continue
		}
		// value: greedy run after '='
		end := i + 1
		for end < len(data) && end-(i+1) < maxValLen && valueByte(data[end]) {
			end++
		}
		if end-(i+1) < minValLen {
			continue
		}
		out = append(out, types.KeyValuePair{
			Key:   string(data[start:i]),
			Value: asciiLossy(data[i+1 : end]),
		})
		i = end - 1
	}
	return out
}

// ExtractWide matches the same shape with each key/value character encoded as
// a (byte, 0x00) pair and the '=' itself plain ASCII. Alignment is not
// assumed; wide pairs may start at any offset.
func ExtractWide(data []byte) []types.KeyValuePair {
	var out []types.KeyValuePair
	for i := 0; i < len(data); i++ {
		if data[i] != '=' {
			continue
		}
		// key: (word-char, 0x00) units ending right before '='
		start := i
		units := 0
		for start >= 2 && units < maxKeyLen && data[start-1] == 0x00 && wordChar(data[start-2]) {
			start -= 2
			units++
		}
		if units < minKeyLen {
			continue
		}
		// value: (byte, 0x00) units after '='
		var val []byte
		end := i + 1
		for end+1 < len(data) && len(val) < maxValLen && data[end+1] == 0x00 && valueByte(data[end]) {
			val = append(val, data[end])
			end += 2
		}
		if len(val) < minValLen {
			continue
		}
		key := make([]byte, 0, units)
		for p := start; p < i; p += 2 {
			key = append(key, data[p])
		}
		out = append(out, types.KeyValuePair{
			Key:   string(key),
			Value: asciiLossy(val),
		})
		i = end - 1
	}
	return out
}

// asciiLossy drops non-ASCII bytes, mirroring a permissive decode: maximal
// recall of plausible text beats strict encoding correctness here.
func asciiLossy(b []byte) string {
	keep := make([]byte, 0, len(b))
	for _, c := range b {
		if c < 0x80 {
			keep = append(keep, c)
		}
	}
	return string(keep)
}
