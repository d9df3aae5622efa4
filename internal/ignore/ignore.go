// Package ignore implements the .firmscoutignore file: one glob or directory
// pattern per line, # comments and blank lines skipped.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Matcher holds the parsed patterns. The zero value matches nothing.
type Matcher struct {
	dirs  []string // patterns ending in "/" match any path under them
	globs []string
}

// Load parses the ignore file at path. A missing file yields an empty matcher
// and the underlying error; callers usually ignore it.
func Load(path string) (Matcher, error) {
	var m Matcher
	f, err := os.Open(path)
	if err != nil {
		return m, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasSuffix(line, "/") {
			m.dirs = append(m.dirs, strings.TrimSuffix(line, "/"))
			continue
		}
		m.globs = append(m.globs, line)
	}
	return m, sc.Err()
}

// Match reports whether the slash-separated relative path is ignored.
func (m Matcher) Match(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	for _, d := range m.dirs {
		if rel == d || strings.HasPrefix(rel, d+"/") || strings.Contains(rel, "/"+d+"/") {
			return true
		}
	}
	base := filepath.Base(rel)
	for _, g := range m.globs {
		if ok, _ := filepath.Match(g, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
	}
	return false
}
