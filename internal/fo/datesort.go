package fo

import (
	"fmt"
	"path/filepath"
	"time"
)

// Granularity is the date precision used to bucket files.
type Granularity int

const (
	Year Granularity = iota
	YearMonth
	YearMonthDay
)

// ParseGranularity parses the command-line token for a granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "y":
		return Year, nil
	case "ym":
		return YearMonth, nil
	case "ymd":
		return YearMonthDay, nil
	default:
		return 0, &ValidationError{Field: "groupby", Value: s, Reason: "must be one of y, ym, ymd"}
	}
}

func (g Granularity) String() string {
	switch g {
	case Year:
		return "y"
	case YearMonth:
		return "ym"
	case YearMonthDay:
		return "ymd"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// DefaultSeparator joins the components of a date bucket.
const DefaultSeparator = "-"

// Bucket returns the slash-separated directory for t, e.g. "2023-07-04" for
// YearMonthDay with "-". t is used in its own location.
func Bucket(t time.Time, g Granularity, sep string) string {
	switch g {
	case Year:
		return fmt.Sprintf("%04d", t.Year())
	case YearMonth:
		return fmt.Sprintf("%04d%s%02d", t.Year(), sep, int(t.Month()))
	default:
		return fmt.Sprintf("%04d%s%02d%s%02d", t.Year(), sep, int(t.Month()), sep, t.Day())
	}
}

// SortOptions describes one date-sorting run.
type SortOptions struct {
	Source      string
	OutputDir   string
	Granularity Granularity
	Separator   string
}

// SortSummary holds the statistics of a finished date-sorting run.
type SortSummary struct {
	OutputDir string
	Copied    int
	Buckets   int
}

// DateSorter copies a source tree into date-stamped bucket directories.
type DateSorter struct {
	fsmgr  FilesystemManager
	logger Logger
	loc    *time.Location
}

// NewDateSorter creates a DateSorter that buckets by the host's local time.
func NewDateSorter(fsmgr FilesystemManager, logger Logger) *DateSorter {
	return &DateSorter{fsmgr: fsmgr, logger: logger, loc: time.Local}
}

// SortByDate copies every regular file under opts.Source into
// opts.OutputDir/<bucket>/<name>, where the bucket is derived from the
// file's modification time. A later file with the same bucket and name
// overwrites the earlier copy. Any I/O failure aborts the run.
func (s *DateSorter) SortByDate(opts SortOptions) (*SortSummary, error) {
	switch opts.Granularity {
	case Year, YearMonth, YearMonthDay:
	default:
		return nil, &ValidationError{Field: "groupby", Value: opts.Granularity.String(), Reason: "unknown granularity"}
	}
	if opts.OutputDir == "" {
		return nil, &ValidationError{Field: "output directory", Reason: "must not be empty"}
	}
	sep := opts.Separator

	s.logger.Info("format", "groupby", opts.Granularity.String(), "separator", sep)

	root, err := resolveDir(s.fsmgr, "source directory", opts.Source)
	if err != nil {
		return nil, err
	}
	if err := s.fsmgr.MakeDir(opts.OutputDir, false); err != nil {
		return nil, ioErr("create output directory", opts.OutputDir, err)
	}
	s.logger.Info("directories", "source", root.String(), "destination", opts.OutputDir)

	files, err := s.fsmgr.FindFiles(root, "**/*")
	if err != nil {
		return nil, ioErr("list files", root.String(), err)
	}

	summary := &SortSummary{OutputDir: opts.OutputDir}
	buckets := make(map[string]struct{})
	for _, f := range files {
		info := f.Info()
		if info == nil {
			return nil, ioErr("read modification time", f.String(), fmt.Errorf("no file info"))
		}
		bucket := Bucket(info.ModTime().In(s.loc), opts.Granularity, sep)
		dstDir := filepath.Join(opts.OutputDir, filepath.FromSlash(bucket))
		if err := s.fsmgr.MakeDir(dstDir, true); err != nil {
			return nil, ioErr("create bucket directory", dstDir, err)
		}

		dst := filepath.Join(dstDir, f.Name())
		if err := s.fsmgr.CopyFile(f, dst); err != nil {
			return nil, ioErr("copy", f.String(), err)
		}
		s.logger.Info("file copied", "src", f.String(), "dst", dst)

		buckets[dstDir] = struct{}{}
		summary.Copied++
	}

	summary.Buckets = len(buckets)
	return summary, nil
}
