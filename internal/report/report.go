package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"fo-go/internal/config"
	"fo-go/internal/fo"
)

// Report is the TOML record of one run.
type Report struct {
	RunID      string        `toml:"run_id"`
	Tool       string        `toml:"tool"`
	Status     string        `toml:"status"` // "success" or "error"
	Error      string        `toml:"error,omitempty"`
	StartedAt  time.Time     `toml:"started_at"`
	FinishedAt time.Time     `toml:"finished_at"`
	Settings   config.Config `toml:"settings"`
	Dedup      *DedupSection `toml:"dedup,omitempty"`
	Sort       *SortSection  `toml:"sort,omitempty"`
}

// DedupSection holds the parameters and outcome of a deduplication run.
type DedupSection struct {
	Sources     []string   `toml:"sources"`
	OutputDir   string     `toml:"output_dir"`
	Extension   string     `toml:"extension,omitempty"`
	UniqueFiles int        `toml:"unique_files"`
	SourceDirs  int        `toml:"source_dirs"`
	Skipped     int        `toml:"skipped"`
	Conflicts   int        `toml:"conflicts"`
	Conflicted  []Conflict `toml:"conflict"`
}

// Conflict is one same-named pair whose content differed.
type Conflict struct {
	Filename    string `toml:"filename"`
	KeptPath    string `toml:"kept_path"`
	KeptHash    string `toml:"kept_sha256"`
	SkippedPath string `toml:"skipped_path"`
	SkippedHash string `toml:"skipped_sha256"`
}

// SortSection holds the parameters and outcome of a date-sorting run.
type SortSection struct {
	Source    string `toml:"source"`
	OutputDir string `toml:"output_dir"`
	GroupBy   string `toml:"groupby"`
	Separator string `toml:"separator"`
	Copied    int    `toml:"copied"`
	Buckets   int    `toml:"buckets"`
}

// NewDedupSection builds the report section for a deduplication run.
// summary may be nil when the run failed before producing one.
func NewDedupSection(opts fo.DedupOptions, summary *fo.DedupSummary) *DedupSection {
	s := &DedupSection{
		Sources:   opts.Sources,
		OutputDir: opts.OutputDir,
		Extension: opts.Extension,
	}
	if summary == nil {
		return s
	}
	s.UniqueFiles = summary.UniqueFiles
	s.SourceDirs = summary.SourceDirs
	s.Skipped = summary.Skipped
	s.Conflicts = summary.Conflicts
	for _, c := range summary.ConflictRecords {
		s.Conflicted = append(s.Conflicted, Conflict{
			Filename:    c.Kept.Filename,
			KeptPath:    c.Kept.Path.String(),
			KeptHash:    c.Kept.Hash,
			SkippedPath: c.Rejected.Path,
			SkippedHash: c.Rejected.Hash,
		})
	}
	return s
}

// NewSortSection builds the report section for a date-sorting run.
// summary may be nil when the run failed before producing one.
func NewSortSection(opts fo.SortOptions, summary *fo.SortSummary) *SortSection {
	s := &SortSection{
		Source:    opts.Source,
		OutputDir: opts.OutputDir,
		GroupBy:   opts.Granularity.String(),
		Separator: opts.Separator,
	}
	if summary != nil {
		s.Copied = summary.Copied
		s.Buckets = summary.Buckets
	}
	return s
}

// Manager handles reading and writing reports.
type Manager struct{}

// Read decodes a Report from the provided reader.
func (m *Manager) Read(r io.Reader) (*Report, error) {
	var rep Report
	if _, err := toml.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &rep, nil
}

// Write encodes a Report to the provided writer.
func (m *Manager) Write(w io.Writer, rep *Report) error {
	if err := toml.NewEncoder(w).Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// ReadFromFile reads a Report from the specified file path.
func ReadFromFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	rep, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading report from %s: %w", path, err)
	}
	return rep, nil
}

// WriteToFile writes a Report to path, replacing any existing file.
// The parent directory must exist.
func WriteToFile(path string, rep *Report) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".report-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	tmpPath := tmpFile.Name()

	m := &Manager{}
	if err := m.Write(tmpFile, rep); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	if err := tmpFile.Chmod(0644); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("setting report permissions: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing report file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming report file: %w", err)
	}
	return nil
}
