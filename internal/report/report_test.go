package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fo-go/internal/config"
	"fo-go/internal/fo"
)

func TestNewDedupSection(t *testing.T) {
	kept := fo.NewPath("/a/x.txt", false, nil)
	opts := fo.DedupOptions{Sources: []string{"/a", "/b"}, OutputDir: "/out", Extension: "txt"}
	summary := &fo.DedupSummary{
		OutputDir:   "/out",
		UniqueFiles: 1,
		SourceDirs:  2,
		Skipped:     1,
		Conflicts:   1,
		ConflictRecords: []fo.ConflictRecord{{
			Kept:     fo.FileRecord{Filename: "x.txt", Path: kept, Hash: "aaa"},
			Rejected: fo.RejectedFile{Path: "/b/x.txt", Hash: "bbb"},
		}},
	}

	s := NewDedupSection(opts, summary)

	if s.UniqueFiles != 1 || s.SourceDirs != 2 || s.Skipped != 1 || s.Conflicts != 1 {
		t.Errorf("counters = %+v", s)
	}
	if len(s.Conflicted) != 1 {
		t.Fatalf("len(Conflicted) = %d, want 1", len(s.Conflicted))
	}
	want := Conflict{Filename: "x.txt", KeptPath: "/a/x.txt", KeptHash: "aaa", SkippedPath: "/b/x.txt", SkippedHash: "bbb"}
	if s.Conflicted[0] != want {
		t.Errorf("Conflicted[0] = %+v, want %+v", s.Conflicted[0], want)
	}

	t.Run("nil summary keeps parameters only", func(t *testing.T) {
		s := NewDedupSection(opts, nil)
		if s.OutputDir != "/out" || len(s.Sources) != 2 || s.UniqueFiles != 0 {
			t.Errorf("section = %+v", s)
		}
	})
}

func TestNewSortSection(t *testing.T) {
	opts := fo.SortOptions{Source: "/src", OutputDir: "/out", Granularity: fo.YearMonth, Separator: "."}
	s := NewSortSection(opts, &fo.SortSummary{Copied: 4, Buckets: 2})

	if s.GroupBy != "ym" || s.Separator != "." || s.Copied != 4 || s.Buckets != 2 {
		t.Errorf("section = %+v", s)
	}
}

func TestManager_Write(t *testing.T) {
	rep := &Report{
		RunID:      "run-1",
		Tool:       "dedup",
		Status:     "success",
		StartedAt:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 1, 15, 10, 31, 0, 0, time.UTC),
		Settings:   config.Config{Color: config.ColorNever, Exclude: []string{"*.tmp"}},
		Dedup: &DedupSection{
			Sources:   []string{"/a", "/b"},
			OutputDir: "/out",
			Skipped:   1,
			Conflicts: 1,
			Conflicted: []Conflict{
				{Filename: "x.txt", KeptPath: "/a/x.txt", KeptHash: "aaa", SkippedPath: "/b/x.txt", SkippedHash: "bbb"},
			},
		},
	}

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, rep); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`run_id = "run-1"`, "[dedup]", "[[dedup.conflict]]", `kept_path = "/a/x.txt"`} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[sort]") {
		t.Errorf("encoded report should omit the sort section:\n%s", out)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Dedup == nil || len(got.Dedup.Conflicted) != 1 {
		t.Fatalf("decoded dedup section = %+v", got.Dedup)
	}
	if got.Dedup.Conflicted[0].SkippedHash != "bbb" {
		t.Errorf("SkippedHash = %q, want %q", got.Dedup.Conflicted[0].SkippedHash, "bbb")
	}
	if !got.StartedAt.Equal(rep.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, rep.StartedAt)
	}
}

func TestWriteToFile(t *testing.T) {
	t.Run("writes and replaces", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "report.toml")

		for _, id := range []string{"run-1", "run-2"} {
			if err := WriteToFile(path, &Report{RunID: id, Tool: "datesort", Status: "success"}); err != nil {
				t.Fatalf("WriteToFile() error = %v", err)
			}
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.RunID != "run-2" {
			t.Errorf("RunID = %q, want %q", got.RunID, "run-2")
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat report: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0644 {
			t.Errorf("report mode = %o, want 644", perm)
		}

		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Errorf("expected only the report in %s, got %d entries", dir, len(entries))
		}
	})

	t.Run("missing parent directory fails", func(t *testing.T) {
		err := WriteToFile("/nonexistent/dir/report.toml", &Report{RunID: "x"})
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
	})
}
