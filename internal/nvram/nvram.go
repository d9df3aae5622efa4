// Package nvram surfaces how a firmware rootfs uses its NVRAM store: which
// binaries ship an nvram tool, which keys scripts and binaries read via
// "nvram get", and which files look like the persisted store itself.
package nvram

import (
	"regexp"
	"sort"
	"strings"
)

var reNvramGet = regexp.MustCompile(`nvram\s+get\s+([A-Za-z0-9_]+)`)

// credentialPrefixes marks nvram keys that likely hold device identity or
// credentials.
var credentialPrefixes = []string{
	"UUID", "AUTHKEY", "P2PID", "PID", "DEV", "MAC", "ETH_", "WIFI", "TZ",
}

// storageMaxSize caps how large a file may be to still count as an
// nvram-like storage candidate.
const storageMaxSize = 1 << 20

// Usage aggregates nvram findings across a rootfs walk. Feed it files with
// Observe, then read the exported fields.
type Usage struct {
	// Binaries are relative paths of files literally named "nvram".
	Binaries []string `json:"binaries,omitempty"`
	// Keys maps each key passed to "nvram get" to the relative paths of
	// files referencing it.
	Keys map[string][]string `json:"keys,omitempty"`
	// StorageCandidates are smallish files whose name contains "nvram",
	// worth manual hex inspection.
	StorageCandidates []string `json:"storage_candidates,omitempty"`
}

// NewUsage returns an empty aggregation.
func NewUsage() *Usage {
	return &Usage{Keys: map[string][]string{}}
}

// Observe records one file's contribution: name-based detection plus a
// "nvram get KEY" reference scan of the content.
func (u *Usage) Observe(rel string, size int64, data []byte) {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	if base == "nvram" {
		u.Binaries = append(u.Binaries, rel)
	}
	if strings.Contains(strings.ToLower(base), "nvram") && size > 0 && size <= storageMaxSize {
		u.StorageCandidates = append(u.StorageCandidates, rel)
	}
	for _, m := range reNvramGet.FindAllSubmatch(data, -1) {
		key := string(m[1])
		u.Keys[key] = append(u.Keys[key], rel)
	}
}

// GetKeys extracts the keys referenced via "nvram get" from one buffer, in
// match order with duplicates kept.
func GetKeys(data []byte) []string {
	var out []string
	for _, m := range reNvramGet.FindAllSubmatch(data, -1) {
		out = append(out, string(m[1]))
	}
	return out
}

// CredentialKeys filters the observed key map down to keys whose upper-cased
// form starts with a credential-looking prefix.
func (u *Usage) CredentialKeys() map[string][]string {
	out := map[string][]string{}
	for key, files := range u.Keys {
		upper := strings.ToUpper(key)
		for _, pref := range credentialPrefixes {
			if strings.HasPrefix(upper, pref) {
				out[key] = files
				break
			}
		}
	}
	return out
}

// SortedKeys returns the observed key names sorted lexicographically.
func (u *Usage) SortedKeys() []string {
	out := make([]string, 0, len(u.Keys))
	for k := range u.Keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FilesFor returns the unique, sorted referencing files for a key.
func (u *Usage) FilesFor(key string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range u.Keys[key] {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
