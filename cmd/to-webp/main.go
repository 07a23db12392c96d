package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/imcgaunn/to-webp/codec"
	"github.com/imcgaunn/to-webp/config"
	"github.com/imcgaunn/to-webp/converter"
	"github.com/imcgaunn/to-webp/discovery"
	"github.com/imcgaunn/to-webp/middleware"
	"github.com/imcgaunn/to-webp/naming"
	"github.com/imcgaunn/to-webp/pool"
	"github.com/imcgaunn/to-webp/progress"
	"github.com/imcgaunn/to-webp/report"
	"github.com/imcgaunn/to-webp/service"
)

const (
	exitOK       = 0
	exitSetup    = 1
	exitFailures = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func newLogger(level zapcore.Level, ws zapcore.WriteSyncer) *zap.Logger {
	encCfg := zap.NewProductionConfig().EncoderConfig
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level)
	return zap.New(core)
}

func run(ctx context.Context, args []string, stdout, errOut io.Writer) int {
	// Workers log while the pool prints progress, so every stderr write goes
	// through one lock.
	stderr := zapcore.Lock(zapcore.AddSync(errOut))

	cfg := config.Load()
	if err := config.ParseFlags(cfg, args, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "to-webp: %v\n", err)
		return exitSetup
	}

	level, _ := cfg.Level()
	logger := newLogger(level, stderr)
	defer logger.Sync()

	codec.Register()

	sources, err := discovery.Discover(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(stderr, "to-webp: %v\n", err)
		return exitSetup
	}
	if len(sources) == 0 {
		fmt.Fprintf(stderr, "to-webp: no images found in %s\n", cfg.InputDir)
		return exitSetup
	}

	tasks := naming.Plan(sources, cfg.OutputDir)
	for dest, srcs := range naming.Collisions(tasks) {
		logger.Warn("Several inputs map to the same output, last one written wins",
			zap.String("output", dest),
			zap.Strings("inputs", srcs),
		)
	}

	if cfg.DryRun {
		for _, t := range tasks {
			fmt.Fprintf(stdout, "%s -> %s\n", t.SourcePath, t.DestinationPath)
		}
		return exitOK
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "to-webp: create output dir: %v\n", err)
		return exitSetup
	}

	runID := middleware.NewRunID()
	ctx = middleware.WithRunID(ctx, runID)
	logger.Info("Starting batch",
		zap.String("run_id", runID),
		zap.String("input_dir", cfg.InputDir),
		zap.String("output_dir", cfg.OutputDir),
		zap.Int("images", len(tasks)),
		zap.Int("concurrency", cfg.Concurrency),
	)

	// Sinks outlive an interrupt so the partial batch still gets recorded.
	sinkCtx := context.WithoutCancel(ctx)
	sinks, closeSinks := connectSinks(sinkCtx, cfg, logger)
	defer closeSinks()

	recorder := service.NewRecorder(sinks, runID, len(tasks), logger)
	recorder.Start(sinkCtx, cfg.InputDir, cfg.OutputDir)

	conv := converter.NewConverter(codec.NewWebP(cfg.AutoOrient), logger)
	handler := middleware.Chain(conv.Convert,
		middleware.Recovery(logger),
		middleware.Logging(logger),
	)

	reporter := progress.NewReporter(stderr, cfg.ProgressInterval)
	aggregator := report.NewAggregator(runID, len(tasks))

	wp := pool.NewWorkerPool(cfg.Concurrency, logger)
	poolResult := wp.Run(ctx, runID, tasks, handler, reporter, aggregator, recorder)
	reporter.Finish()

	result, complete := aggregator.Result()
	if !complete {
		logger.Error("Aggregate is missing outcomes, using pool result",
			zap.Int("expected", result.Total),
			zap.Int("got", len(result.Outcomes)),
		)
		result = poolResult
	}

	recorder.Close(sinkCtx, result)

	report.WriteSummary(stdout, result)
	if cfg.ReportPath != "" {
		if err := report.WriteJSON(cfg.ReportPath, result); err != nil {
			logger.Error("Failed to write report", zap.String("path", cfg.ReportPath), zap.Error(err))
		}
	}

	logger.Info("Batch finished",
		zap.String("run_id", runID),
		zap.Int("succeeded", result.Succeeded()),
		zap.Int("failed", result.Failed()),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)

	if cfg.FailOnError && result.Failed() > 0 {
		return exitFailures
	}
	return exitOK
}
