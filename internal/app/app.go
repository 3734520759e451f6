package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"fo-go/internal/config"
	"fo-go/internal/fo"
	"fo-go/internal/fs"
	"fo-go/internal/report"
)

// FOApp is the application layer between the CLI and the fo services.
// It constructs all dependencies from config, runs one operation, writes
// the optional run report and releases the log file on Close.
type FOApp struct {
	cfg     *config.Config
	fsmgr   fo.FilesystemManager
	logger  *slog.Logger
	clock   fo.Clock
	run     *Run
	logFile *os.File
}

// NewFOApp creates a fully wired FOApp from the given config.
// tool names the command being run ("dedup" or "datesort").
// The caller must call Close when done.
func NewFOApp(cfg *config.Config, tool string) (*FOApp, error) {
	return newFOApp(cfg, tool, os.Stderr, fo.RealClock{}, fo.UUIDGenerator{})
}

func newFOApp(cfg *config.Config, tool string, stderr io.Writer, clock fo.Clock, idgen fo.IDGenerator) (*FOApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exclude := append([]string(nil), cfg.Exclude...)
	if cfg.ExcludeFrom != "" {
		patterns, err := fs.ParseExcludeFile(cfg.ExcludeFrom)
		if err != nil {
			return nil, &fo.IOError{Op: "read exclude file", Path: cfg.ExcludeFrom, Err: err}
		}
		exclude = append(exclude, patterns...)
	}

	run := NewRun(idgen.New(), tool, clock.Now())
	logger, logFile, err := newLogger(cfg, run.ID, stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &FOApp{
		cfg:     cfg,
		fsmgr:   fs.NewOSFilesystemManager(exclude),
		logger:  logger.With("tool", tool),
		clock:   clock,
		run:     run,
		logFile: logFile,
	}, nil
}

// RunID returns the identifier stamped on every log line of this run.
func (a *FOApp) RunID() string {
	return a.run.ID
}

// Deduplicate merges the source directories into opts.OutputDir.
func (a *FOApp) Deduplicate(opts fo.DedupOptions) (*fo.DedupSummary, error) {
	a.logger.Info("arguments",
		"sources", opts.Sources,
		"out", opts.OutputDir,
		"ext", opts.Extension,
		"exclude", a.cfg.Exclude,
	)

	svc := fo.NewDeduplicator(a.fsmgr, &slogAdapter{l: a.logger})
	summary, err := svc.Deduplicate(opts)
	a.run.Finish(err, a.clock.Now())

	if rerr := a.writeReport(func(r *report.Report) {
		r.Dedup = report.NewDedupSection(opts, summary)
	}); rerr != nil && err == nil {
		return summary, rerr
	}
	if err != nil {
		return nil, err
	}

	a.logger.Info("deduplication complete",
		"unique", summary.UniqueFiles,
		"skipped", summary.Skipped,
		"conflicts", summary.Conflicts,
	)
	return summary, nil
}

// SortByDate copies opts.Source into date buckets under opts.OutputDir.
func (a *FOApp) SortByDate(opts fo.SortOptions) (*fo.SortSummary, error) {
	a.logger.Info("arguments",
		"source", opts.Source,
		"out", opts.OutputDir,
		"groupby", opts.Granularity.String(),
		"sep", opts.Separator,
		"exclude", a.cfg.Exclude,
	)

	svc := fo.NewDateSorter(a.fsmgr, &slogAdapter{l: a.logger})
	summary, err := svc.SortByDate(opts)
	a.run.Finish(err, a.clock.Now())

	if rerr := a.writeReport(func(r *report.Report) {
		r.Sort = report.NewSortSection(opts, summary)
	}); rerr != nil && err == nil {
		return summary, rerr
	}
	if err != nil {
		return nil, err
	}

	a.logger.Info("sort complete", "copied", summary.Copied, "buckets", summary.Buckets)
	return summary, nil
}

// writeReport writes the run report when a report path is configured.
// fill adds the tool-specific section.
func (a *FOApp) writeReport(fill func(r *report.Report)) error {
	if a.cfg.ReportPath == "" {
		return nil
	}

	rep := &report.Report{
		RunID:      a.run.ID,
		Tool:       a.run.Tool,
		Status:     a.run.Status,
		Error:      a.run.Err,
		StartedAt:  a.run.StartedAt,
		FinishedAt: a.run.FinishedAt,
		Settings:   *a.cfg,
	}
	fill(rep)

	if err := report.WriteToFile(a.cfg.ReportPath, rep); err != nil {
		a.logger.Error("writing report failed", "path", a.cfg.ReportPath, "error", err)
		return &fo.IOError{Op: "write report", Path: a.cfg.ReportPath, Err: err}
	}
	a.logger.Info("report written", "path", a.cfg.ReportPath)
	return nil
}

// Close releases the log file.
func (a *FOApp) Close() error {
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			return fmt.Errorf("closing log file: %w", err)
		}
	}
	return nil
}
