package main

import (
	"fmt"
	"io"
	"os"

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

// newRootCmd builds the dedup command. started is set once flag and
// argument validation has passed.
func newRootCmd(started *bool) *cobra.Command {
	cfg := config.NewConfig()
	var outDir, ext, color string

	cmd := &cobra.Command{
		Use:           "dedup <source-dir>... --out <dir>",
		Short:         "Merge directories into one, skipping same-named duplicates",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*started = true
			cfg.Color = config.ColorMode(color)

			a, err := app.NewFOApp(cfg, "dedup")
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Deduplicate(fo.DedupOptions{
				Sources:   args,
				OutputDir: outDir,
				Extension: ext,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "------- Summary -------")
			fmt.Fprintf(out, "Found %d unique files in %d directories; skipped %d duplicates.\n",
				summary.UniqueFiles, summary.SourceDirs, summary.Skipped)
			fmt.Fprintf(out, "Out of %d duplicate file names, there were %d checksum mismatches.\n",
				summary.Skipped, summary.Conflicts)
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
	f.StringVar(&ext, "ext", "", "only include files with this extension, e.g. txt")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every indexed, skipped and copied file")
	f.StringArrayVar(&cfg.Exclude, "exclude", nil, "glob pattern to skip (repeatable); a name without '/' also skips directories of that name")
	f.StringVar(&cfg.ExcludeFrom, "exclude-from", "", "file with one exclude pattern per line")
	f.StringVar(&cfg.LogFile, "log-file", "", "also append log output to this file")
	f.StringVar(&cfg.ReportPath, "report", "", "write a TOML run report to this path")
	f.StringVar(&color, "color", string(config.ColorAuto), "color log levels: auto, always or never")
	cmd.MarkFlagRequired("out")

	return cmd
}
