package config

import (
	"flag"
	"fmt"
	"io"
)

// ParseFlags layers command-line flags over cfg. Usage and parse errors are
// written to out.
func ParseFlags(cfg *Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("to-webp", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(out, "Usage: to-webp [flags] <input_dir> <output_dir>")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Converts jpg, jpeg, heic, heif, png and bmp images to lossless webp.")
		fmt.Fprintln(out)
		fs.PrintDefaults()
	}

	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Maximum number of images converted at once")
	fs.BoolVar(&cfg.FailOnError, "fail-on-error", cfg.FailOnError, "Exit with status 2 if any image fails")
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Print planned outputs; convert nothing")
	fs.BoolVar(&cfg.AutoOrient, "auto-orient", cfg.AutoOrient, "Rotate images according to their EXIF orientation")
	fs.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "Write a JSON report of the batch to this path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug | info | warn | error")
	fs.DurationVar(&cfg.ProgressInterval, "progress-interval", cfg.ProgressInterval, "Minimum time between progress lines")

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return ErrMissingDirs
	}
	cfg.InputDir = normalizeDir(rest[0])
	cfg.OutputDir = normalizeDir(rest[1])

	return cfg.Validate()
}
