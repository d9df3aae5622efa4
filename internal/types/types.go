package types

import (
	"encoding/json"
	"fmt"
)

// Encoding identifies how a recovered string was decoded out of raw bytes.
type Encoding string

const (
	EncASCII   Encoding = "ascii"
	EncUTF16LE Encoding = "utf16le"
)

// RecoveredString is one printable run recovered from a buffer. Position in
// the producing slice is scan order; no offset back-reference is kept.
type RecoveredString struct {
	Value    string
	Encoding Encoding
}

// KeyValuePair is one key=value match recovered from a raw buffer. Pairs are
// deliberately not deduplicated: the same key rewritten at several offsets is
// itself a signal.
type KeyValuePair struct {
	Key   string
	Value string
}

// MarshalJSON emits the pair as a two-element array, the shape downstream
// tooling expects for KV lists.
func (p KeyValuePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Key, p.Value})
}

func (p *KeyValuePair) UnmarshalJSON(b []byte) error {
	var arr [2]string
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("kv pair: %w", err)
	}
	p.Key, p.Value = arr[0], arr[1]
	return nil
}

// Stats carries per-file scan counters for the deep-scan mode.
type Stats struct {
	ASCIIStrings          int `json:"ascii_strings"`
	UTF16Strings          int `json:"utf16_strings"`
	ProtobufFieldTagScore int `json:"protobuf_field_tag_score"`
}

// Classification maps a category ID to its ordered, deduplicated hit list.
// Categories with no hits are never present.
type Classification map[string][]string

// Empty reports whether no category recorded any hit.
func (c Classification) Empty() bool {
	for _, hits := range c {
		if len(hits) > 0 {
			return false
		}
	}
	return true
}

// BlobVerdict is the per-file outcome of the credential-blob heuristics.
// Only files where at least one signal fired get a verdict at all, so the
// zero value is never stored.
type BlobVerdict struct {
	KeywordHits    []string       `json:"keyword_hits,omitempty"`
	ASCIIKV        []KeyValuePair `json:"ascii_kv,omitempty"`
	UTF16KV        []KeyValuePair `json:"utf16_kv,omitempty"`
	LowEntropyHint bool           `json:"low_entropy_hint,omitempty"`
	Size           int            `json:"size"`
}

// HasSignal reports whether any of the keyword/KV/entropy groups fired.
func (v BlobVerdict) HasSignal() bool {
	return len(v.KeywordHits) > 0 || len(v.ASCIIKV) > 0 || len(v.UTF16KV) > 0 || v.LowEntropyHint
}

// FileResult is the per-file record stored in a report. Exactly the non-nil
// parts are serialized; which parts are set depends on the scan mode.
type FileResult struct {
	Stats          *Stats
	Classification Classification
	Verdict        *BlobVerdict
}

// Interesting reports whether the record carries anything worth keeping.
// Files with an empty record are dropped from reports entirely.
func (r FileResult) Interesting() bool {
	if r.Verdict != nil && r.Verdict.HasSignal() {
		return true
	}
	return !r.Classification.Empty()
}

// MarshalJSON flattens the record: category hit lists and verdict fields sit
// at the top level next to "stats", and absent groups are omitted rather than
// emitted as null or empty.
func (r FileResult) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if r.Stats != nil {
		out["stats"] = r.Stats
	}
	for cat, hits := range r.Classification {
		if len(hits) > 0 {
			out[cat] = hits
		}
	}
	if v := r.Verdict; v != nil {
		if len(v.KeywordHits) > 0 {
			out["keyword_hits"] = v.KeywordHits
		}
		if len(v.ASCIIKV) > 0 {
			out["ascii_kv"] = v.ASCIIKV
		}
		if len(v.UTF16KV) > 0 {
			out["utf16_kv"] = v.UTF16KV
		}
		if v.LowEntropyHint {
			out["low_entropy_hint"] = true
		}
		out["size"] = v.Size
	}
	return json.Marshal(out)
}

// UnmarshalJSON reverses the flattening. Unknown fields whose value is a
// string list are treated as categories; anything else foreign is dropped.
func (r *FileResult) UnmarshalJSON(b []byte) error {
	var rec struct {
		Stats          *Stats         `json:"stats"`
		KeywordHits    []string       `json:"keyword_hits"`
		ASCIIKV        []KeyValuePair `json:"ascii_kv"`
		UTF16KV        []KeyValuePair `json:"utf16_kv"`
		LowEntropyHint bool           `json:"low_entropy_hint"`
		Size           int            `json:"size"`
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	known := map[string]bool{
		"stats": true, "keyword_hits": true, "ascii_kv": true,
		"utf16_kv": true, "low_entropy_hint": true, "size": true,
	}
	cls := Classification{}
	for k, v := range all {
		if known[k] {
			continue
		}
		var hits []string
		if err := json.Unmarshal(v, &hits); err != nil {
			continue
		}
		cls[k] = hits
	}

	*r = FileResult{Stats: rec.Stats}
	if len(cls) > 0 {
		r.Classification = cls
	}
	if len(rec.KeywordHits) > 0 || len(rec.ASCIIKV) > 0 || len(rec.UTF16KV) > 0 || rec.LowEntropyHint || rec.Size > 0 {
		r.Verdict = &BlobVerdict{
			KeywordHits:    rec.KeywordHits,
			ASCIIKV:        rec.ASCIIKV,
			UTF16KV:        rec.UTF16KV,
			LowEntropyHint: rec.LowEntropyHint,
			Size:           rec.Size,
		}
	}
	return nil
}
