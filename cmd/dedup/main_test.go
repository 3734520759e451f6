package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fo-go/internal/app"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestRun(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")
	writeFile(t, filepath.Join(a, "x.txt"), "A")
	writeFile(t, filepath.Join(a, "same.txt"), "S")
	writeFile(t, filepath.Join(b, "x.txt"), "B")
	writeFile(t, filepath.Join(b, "nested", "same.txt"), "S")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout []string
		wantStderr string
	}{
		{
			name:       "missing required out flag",
			args:       []string{a},
			wantCode:   app.ExitUsage,
			wantStderr: `"out"`,
		},
		{
			name:       "no source directories",
			args:       []string{"--out", filepath.Join(base, "o1")},
			wantCode:   app.ExitUsage,
			wantStderr: "Error:",
		},
		{
			name:       "unknown flag",
			args:       []string{a, "--out", filepath.Join(base, "o2"), "--bogus"},
			wantCode:   app.ExitUsage,
			wantStderr: "unknown flag",
		},
		{
			name:       "invalid extension",
			args:       []string{a, "--out", filepath.Join(base, "o3"), "--ext", "*"},
			wantCode:   app.ExitUsage,
			wantStderr: "invalid extension",
		},
		{
			name:       "missing source directory",
			args:       []string{filepath.Join(base, "nope"), "--out", filepath.Join(base, "o4")},
			wantCode:   app.ExitFailure,
			wantStderr: "resolve source directory",
		},
		{
			name:       "report cannot be written",
			args:       []string{a, "--out", filepath.Join(base, "o5"), "--report", filepath.Join(base, "missing", "report.toml")},
			wantCode:   app.ExitFailure,
			wantStderr: "write report",
		},
		{
			name:     "success prints summary",
			args:     []string{a, b, "--out", filepath.Join(base, "o6"), "--color", "never"},
			wantCode: app.ExitOK,
			wantStdout: []string{
				"------- Summary -------\n",
				"Found 2 unique files in 2 directories; skipped 2 duplicates.\n",
				"Out of 2 duplicate file names, there were 1 checksum mismatches.\n",
			},
		},
		{
			name:     "success with report prints run id",
			args:     []string{a, "--out", filepath.Join(base, "o7"), "--report", filepath.Join(base, "report.toml")},
			wantCode: app.ExitOK,
			wantStdout: []string{
				"Report for run ",
				"written to '" + filepath.Join(base, "report.toml") + "'.\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %q)", code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q, got %q", want, stdout.String())
				}
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q, got %q", tt.wantStderr, stderr.String())
			}
			if tt.wantCode != app.ExitOK && stdout.Len() != 0 {
				t.Errorf("failed run wrote to stdout: %q", stdout.String())
			}
		})
	}
}
