package fo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DedupOptions describes one deduplication run.
type DedupOptions struct {
	// Sources are scanned in order; earlier sources win filename collisions.
	Sources   []string
	OutputDir string
	// Extension restricts the run to files with this extension ("txt" or ".txt").
	// Empty means all files.
	Extension string
}

// DedupSummary holds the statistics of a finished deduplication run.
type DedupSummary struct {
	OutputDir       string
	UniqueFiles     int
	SourceDirs      int
	Skipped         int
	Conflicts       int
	ConflictRecords []ConflictRecord
}

// Deduplicator merges several source trees into one flat output directory,
// keeping a single file per filename.
type Deduplicator struct {
	fsmgr  FilesystemManager
	logger Logger
}

// NewDeduplicator creates a Deduplicator. Verbosity is decided by logger.
func NewDeduplicator(fsmgr FilesystemManager, logger Logger) *Deduplicator {
	return &Deduplicator{fsmgr: fsmgr, logger: logger}
}

// Deduplicate indexes every source, then copies the retained files into
// opts.OutputDir. A filename seen more than once is hashed; identical
// content is skipped silently and differing content is reported as a
// conflict. Either way the first-seen file is kept. Any I/O failure aborts
// the run.
func (d *Deduplicator) Deduplicate(opts DedupOptions) (*DedupSummary, error) {
	pattern, err := globPattern(opts.Extension)
	if err != nil {
		return nil, err
	}
	if len(opts.Sources) == 0 {
		return nil, &ValidationError{Field: "sources", Reason: "at least one source directory is required"}
	}
	if opts.OutputDir == "" {
		return nil, &ValidationError{Field: "output directory", Reason: "must not be empty"}
	}

	d.logger.Info("combining files from directories", "count", len(opts.Sources))
	roots := make([]*Path, 0, len(opts.Sources))
	for _, src := range opts.Sources {
		root, err := resolveDir(d.fsmgr, "source directory", src)
		if err != nil {
			return nil, err
		}
		d.logger.Info("source directory", "path", root.String())
		roots = append(roots, root)
	}

	if err := d.fsmgr.MakeDir(opts.OutputDir, false); err != nil {
		return nil, ioErr("create output directory", opts.OutputDir, err)
	}

	summary := &DedupSummary{
		OutputDir:  opts.OutputDir,
		SourceDirs: len(roots),
	}

	idx := newFileIndex(d.fsmgr)
	for _, root := range roots {
		files, err := d.fsmgr.FindFiles(root, pattern)
		if err != nil {
			return nil, ioErr("list files", root.String(), err)
		}
		for _, f := range files {
			if err := d.index(idx, f, summary); err != nil {
				return nil, err
			}
		}
	}

	records := idx.Records()
	for i, rec := range records {
		dst := filepath.Join(opts.OutputDir, rec.Filename)
		if err := d.fsmgr.CopyFile(rec.Path, dst); err != nil {
			return nil, ioErr("copy", rec.Path.String(), err)
		}
		d.logger.Info("file copied",
			"src", rec.Path.String(),
			"dst", dst,
			"progress", fmt.Sprintf("%d/%d", i+1, len(records)),
		)
	}

	summary.UniqueFiles = idx.Len()
	return summary, nil
}

// index offers one discovered file to the index and updates the counters.
func (d *Deduplicator) index(idx *fileIndex, f *Path, summary *DedupSummary) error {
	outcome, kept, hash, err := idx.Offer(f)
	if err != nil {
		return err
	}

	switch outcome {
	case outcomeAdded:
		d.logger.Debug("file indexed", "path", f.String())
	case outcomeDuplicate:
		summary.Skipped++
		d.logger.Info("skipping duplicate", "path", f.String(), "duplicate_of", kept.Path.String())
	case outcomeConflict:
		summary.Skipped++
		summary.Conflicts++
		summary.ConflictRecords = append(summary.ConflictRecords, ConflictRecord{
			Kept:     *kept,
			Rejected: RejectedFile{Path: f.String(), Hash: hash},
		})
		d.logger.Warn("conflict: checksum mismatch; keeping first and skipping second",
			"kept", kept.Path.String(),
			"skipped", f.String(),
		)
	}
	return nil
}

// globPattern builds the enumeration pattern for an optional extension filter.
func globPattern(ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "**/*", nil
	}
	if strings.ContainsAny(ext, `/\*?[]{}`) {
		return "", &ValidationError{Field: "extension", Value: ext, Reason: "must be a plain file extension"}
	}
	return "**/*." + ext, nil
}

// resolveDir resolves raw and checks that it is a directory.
func resolveDir(fsmgr FilesystemManager, field, raw string) (*Path, error) {
	p, err := fsmgr.Resolve(raw)
	if err != nil {
		return nil, ioErr("resolve "+field, raw, err)
	}
	if !p.IsDir() {
		return nil, &ValidationError{Field: field, Value: raw, Reason: "not a directory"}
	}
	return p, nil
}
