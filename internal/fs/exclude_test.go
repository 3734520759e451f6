package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewExcludeMatcher(t *testing.T) {
	t.Run("skips blank lines, comments and invalid patterns", func(t *testing.T) {
		t.Parallel()
		m := NewExcludeMatcher([]string{"", "  ", "# comment", "*.log", "[unclosed"})
		if len(m.patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(m.patterns))
		}
		if m.patterns[0].pattern != "*.log" {
			t.Errorf("expected *.log, got %s", m.patterns[0].pattern)
		}
	})

	t.Run("classifies path vs basename patterns", func(t *testing.T) {
		t.Parallel()
		m := NewExcludeMatcher([]string{"*.log", "build/output"})
		if m.patterns[0].matchPath {
			t.Error("*.log should not be a path pattern")
		}
		if !m.patterns[1].matchPath {
			t.Error("build/output should be a path pattern")
		}
	})
}

func TestExcludeMatcher_Match(t *testing.T) {
	tests := []struct {
		name         string
		patterns     []string
		relativePath string
		want         bool
	}{
		{
			name:         "basename glob matches file in root",
			patterns:     []string{"*.log"},
			relativePath: "app.log",
			want:         true,
		},
		{
			name:         "basename glob matches file in subdirectory",
			patterns:     []string{"*.log"},
			relativePath: "sub/app.log",
			want:         true,
		},
		{
			name:         "basename glob does not match different extension",
			patterns:     []string{"*.log"},
			relativePath: "app.txt",
			want:         false,
		},
		{
			name:         "exact basename matches in subdirectory",
			patterns:     []string{".DS_Store"},
			relativePath: "photos/2020/.DS_Store",
			want:         true,
		},
		{
			name:         "path pattern matches exact relative path",
			patterns:     []string{"build/output"},
			relativePath: "build/output",
			want:         true,
		},
		{
			name:         "path pattern does not match wrong path",
			patterns:     []string{"build/output"},
			relativePath: "src/output",
			want:         false,
		},
		{
			name:         "double star matches any depth",
			patterns:     []string{"**/cache/**"},
			relativePath: "a/b/cache/c/file.bin",
			want:         true,
		},
		{
			name:         "double star does not match outside",
			patterns:     []string{"**/cache/**"},
			relativePath: "a/b/file.bin",
			want:         false,
		},
		{
			name:         "brace alternatives",
			patterns:     []string{"*.{tmp,bak}"},
			relativePath: "notes.bak",
			want:         true,
		},
		{
			name:         "no patterns matches nothing",
			patterns:     nil,
			relativePath: "anything.txt",
			want:         false,
		},
		{
			name:         "basename pattern excludes files below a matching directory",
			patterns:     []string{".git"},
			relativePath: ".git/config",
			want:         true,
		},
		{
			name:         "basename glob matches nested directory name",
			patterns:     []string{"node_*"},
			relativePath: "web/node_modules/pkg/index.js",
			want:         true,
		},
		{
			name:         "basename pattern does not match partial directory name",
			patterns:     []string{".git"},
			relativePath: "src/.github/workflows/ci.yml",
			want:         false,
		},
		{
			name:         "empty string path",
			patterns:     []string{"*"},
			relativePath: "",
			want:         false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewExcludeMatcher(tt.patterns)
			if got := m.Match(tt.relativePath); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.relativePath, got, tt.want)
			}
		})
	}
}

func TestParseExcludeFile(t *testing.T) {
	t.Run("reads patterns from file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "exclude.txt")
		content := "*.log\n# comment\n\n*.tmp\nbuild/output\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		patterns, err := ParseExcludeFile(path)
		if err != nil {
			t.Fatalf("ParseExcludeFile() error = %v", err)
		}
		if len(patterns) != 5 { // raw lines; filtering is NewExcludeMatcher's job
			t.Fatalf("expected 5 raw lines, got %d", len(patterns))
		}

		m := NewExcludeMatcher(patterns)
		if len(m.patterns) != 3 {
			t.Errorf("expected 3 parsed patterns, got %d", len(m.patterns))
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseExcludeFile("/nonexistent/exclude.txt"); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
