package engine

import (
	"bytes"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Pseudo-filesystem mount points and tool droppings inside an extracted
// rootfs that never hold interesting content.
var defaultExcludeDirs = map[string]bool{
	"proc":               true,
	"sys":                true,
	"dev":                true,
	"run":                true,
	".git":               true,
	"squashfs-root-orig": true,
}

// Noisy media and web assets excluded by default during tree scans. They can
// still be scanned explicitly via include globs or the deep mode.
var defaultExcludeFileSuffixes = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico",
	".mp3", ".wav", ".pcm",
	".html", ".htm", ".css",
	".ttf", ".woff",
}

var defaultExcludeFileNames = map[string]bool{
	".firmscoutcache.json":      true,
	".firmscout_last_scan.json": true,
	".firmscoutignore":          true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name]
}

func isDefaultFileExcluded(lowerRel string) bool {
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	base := lowerRel
	if i := strings.LastIndexByte(lowerRel, '/'); i >= 0 {
		base = lowerRel[i+1:]
	}
	return defaultExcludeFileNames[base]
}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// IsELF reports whether the buffer starts with the ELF magic.
func IsELF(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], elfMagic)
}

// allowedByGlobs returns true if the given path is allowed by the
// include/exclude glob configuration. Include globs are comma-separated and,
// if provided, act as a positive filter. Exclude globs are subtracted last.
// Matching uses forward-slash semantics.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
			out = append(out, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
