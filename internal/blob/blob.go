// Package blob decides whether a file looks like an NVRAM/credential blob.
//
// The verdict combines three independent signals behind a size gate:
// credential keyword markers, recovered key=value pairs, and a distinct-byte
// low-entropy heuristic separating structured/TLV-like content from
// compressed or encrypted data. No signal means no verdict; absence is not
// reported.
package blob

import (
	"bytes"

	"github.com/firmscout/firmscout/internal/kv"
	"github.com/firmscout/firmscout/internal/types"
)

// Size bounds for blob candidates, inclusive. Anything outside is rejected
// before any other check runs.
const (
	MinSize = 32
	MaxSize = 1 << 20
)

// lowEntropyThreshold is the distinct-byte-value count below which a buffer
// is flagged structured/plaintext-like.
const lowEntropyThreshold = 200

// keywords are the credential markers probed as literal byte sequences,
// upper and lower case variants listed explicitly.
var keywords = [][]byte{
	[]byte("UUID"), []byte("AUTHKEY"), []byte("P2PID"), []byte("PID"), []byte("MAC"), []byte("SN"),
	[]byte("uuid"), []byte("authkey"), []byte("p2pid"), []byte("pid"), []byte("mac"), []byte("sn"),
	[]byte("localKey"), []byte("devId"), []byte("productKey"),
}

// Keywords returns the marker list as strings, in probe order.
func Keywords() []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = string(kw)
	}
	return out
}

// Evaluate runs the gates in order and returns the verdict, or nil when the
// size gate fails or no signal fired.
func Evaluate(data []byte) *types.BlobVerdict {
	size := len(data)
	if size < MinSize || size > MaxSize {
		return nil
	}

	v := &types.BlobVerdict{Size: size}

	for _, kw := range keywords {
		if bytes.Contains(data, kw) {
			v.KeywordHits = append(v.KeywordHits, string(kw))
		}
	}

	v.ASCIIKV, v.UTF16KV = kv.Extract(data)

	if DistinctBytes(data) < lowEntropyThreshold {
		v.LowEntropyHint = true
	}

	if !v.HasSignal() {
		return nil
	}
	return v
}

// DistinctBytes counts how many distinct byte values occur in the buffer.
// Compressed or encrypted content tends toward all 256; flat key=value
// stores sit far lower.
func DistinctBytes(data []byte) int {
	var seen [256]bool
	n := 0
	for _, b := range data {
		if !seen[b] {
			seen[b] = true
			n++
		}
	}
	return n
}
