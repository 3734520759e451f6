package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fo-go/internal/app"
	"fo-go/internal/config"
	"fo-go/internal/fo"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	var started bool
	cmd := newRootCmd(&started)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return app.ExitCode(err, started)
	}
	return app.ExitOK
}

// newRootCmd builds the datesort command. started is set once flag and
// argument validation has passed.
func newRootCmd(started *bool) *cobra.Command {
	cfg := config.NewConfig()
	var outDir, groupBy, sep, color string

	cmd := &cobra.Command{
		Use:           "datesort <source-dir> --out <dir> --groupby y|ym|ymd",
		Short:         "Copy files into folders named after their modification date",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*started = true
			cfg.Color = config.ColorMode(color)

			granularity, err := fo.ParseGranularity(groupBy)
			if err != nil {
				return err
			}

			a, err := app.NewFOApp(cfg, "datesort")
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.SortByDate(fo.SortOptions{
				Source:      args[0],
				OutputDir:   outDir,
				Granularity: granularity,
				Separator:   sep,
			})
			if err != nil {
				return err
			}

			dst := summary.OutputDir
			if abs, err := filepath.Abs(dst); err == nil {
				dst = abs
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "------- Summary -------")
			fmt.Fprintf(out, "Sorted %d files to '%s'.\n", summary.Copied, dst)
			if cfg.ReportPath != "" {
				fmt.Fprintf(out, "Report for run %s written to '%s'.\n", a.RunID(), cfg.ReportPath)
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &app.UsageError{Err: err}
	})

	f := cmd.Flags()
	f.StringVar(&outDir, "out", "", "output directory (created if missing, parent must exist)")
	f.StringVar(&groupBy, "groupby", "", "bucket by year (y), year-month (ym) or year-month-day (ymd)")
	f.StringVar(&sep, "sep", fo.DefaultSeparator, "separator between date components")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every copied file")
	f.StringArrayVar(&cfg.Exclude, "exclude", nil, "glob pattern to skip (repeatable); a name without '/' also skips directories of that name")
	f.StringVar(&cfg.ExcludeFrom, "exclude-from", "", "file with one exclude pattern per line")
	f.StringVar(&cfg.LogFile, "log-file", "", "also append log output to this file")
	f.StringVar(&cfg.ReportPath, "report", "", "write a TOML run report to this path")
	f.StringVar(&color, "color", string(config.ColorAuto), "color log levels: auto, always or never")
	cmd.MarkFlagRequired("out")
	cmd.MarkFlagRequired("groupby")

	return cmd
}
