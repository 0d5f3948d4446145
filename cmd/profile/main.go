// Command profile classifies a session document locally and prints the
// summary as a terminal report or as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/config"
	"github.com/vytor/neuroprofile/internal/ingest"
	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/report"
)

type options struct {
	JSON     bool
	Width    int
	Path     string
	Pipeline analysis.PipelineConfig
}

// parseFlags layers command-line flags over the environment configuration.
func parseFlags(fs *flag.FlagSet, args []string, base config.Config) (options, error) {
	opts := options{Pipeline: base.Pipeline()}

	fs.BoolVar(&opts.JSON, "json", false, "print the summary as JSON")
	fs.IntVar(&opts.Width, "width", 80, "report width in columns")
	fs.Float64Var(&opts.Pipeline.Threshold, "threshold", opts.Pipeline.Threshold, "minimum score ratio for a non-neutral state")
	fs.Float64Var(&opts.Pipeline.Quality.ChannelFraction, "fraction", opts.Pipeline.Quality.ChannelFraction, "fraction of channels that may be noisy before an epoch is rejected")
	fs.Float64Var(&opts.Pipeline.PowerCeiling, "ceiling", opts.Pipeline.PowerCeiling, "total power above which an epoch is an artifact")
	fs.IntVar(&opts.Pipeline.Workers, "workers", opts.Pipeline.Workers, "epochs processed in parallel (0 = one per CPU)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: profile [flags] session.json\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("expected exactly one session document")
	}
	opts.Path = fs.Arg(0)
	return opts, opts.Pipeline.Validate()
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	processor, err := analysis.NewProcessor(opts.Pipeline)
	if err != nil {
		return err
	}

	rec, err := ingest.ReadFile(opts.Path)
	if err != nil {
		return err
	}
	if rec.Rescaled {
		logger.FromContext(ctx).Debug("input amplitudes treated as microvolts")
	}

	result, err := processor.Run(ctx, rec)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Summary)
	}
	_, err = io.WriteString(stdout, report.Render(result.Summary, report.Options{
		Title: rec.Name,
		Width: opts.Width,
	}))
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	opts, err := parseFlags(flag.CommandLine, os.Args[1:], cfg)
	if err != nil {
		log.Error("%v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(logger.NewContext(ctx, log), opts, os.Stdout); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}
