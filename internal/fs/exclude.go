package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// excludePattern is a parsed exclude pattern with its matching strategy.
type excludePattern struct {
	pattern   string
	matchPath bool // true = match against relative path; false = match against each path component
}

// ExcludeMatcher checks file paths against a set of exclude patterns.
// Patterns without '/' match against the file's basename and the name of
// each directory above it.
// Patterns with '/' match against the full relative path from the walk root
// and may use '**'.
type ExcludeMatcher struct {
	patterns []excludePattern
}

// NewExcludeMatcher creates an ExcludeMatcher from raw pattern strings.
// Blank lines, lines starting with '#' and invalid patterns are skipped.
func NewExcludeMatcher(rawPatterns []string) *ExcludeMatcher {
	var patterns []excludePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		if !doublestar.ValidatePattern(raw) {
			continue
		}
		patterns = append(patterns, excludePattern{
			pattern:   raw,
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &ExcludeMatcher{patterns: patterns}
}

// Match reports whether the given relative path should be excluded.
// A basename pattern also excludes every file below a directory whose
// name it matches, so ".git" skips ".git/config".
func (m *ExcludeMatcher) Match(relativePath string) bool {
	if m == nil || len(m.patterns) == 0 || relativePath == "" {
		return false
	}

	// Normalize to forward slashes for consistent matching.
	normalized := filepath.ToSlash(relativePath)
	components := strings.Split(normalized, "/")

	for _, p := range m.patterns {
		if p.matchPath {
			if doublestar.MatchUnvalidated(p.pattern, normalized) {
				return true
			}
			continue
		}
		for _, name := range components {
			if doublestar.MatchUnvalidated(p.pattern, name) {
				return true
			}
		}
	}
	return false
}

// ParseExcludeFile reads exclude patterns, one per line, from path.
func ParseExcludeFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening exclude file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading exclude file: %w", err)
	}
	return patterns, nil
}
