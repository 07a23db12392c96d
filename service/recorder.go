package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/imcgaunn/to-webp/kafka"
	"github.com/imcgaunn/to-webp/models"
	"github.com/imcgaunn/to-webp/repository"
)

type StatusStore interface {
	Start(ctx context.Context, runID string, total int) error
	Set(ctx context.Context, runID string, o models.ConversionOutcome) error
	Finish(ctx context.Context, r models.BatchResult) error
}

// Sinks holds the optional outcome destinations. Nil fields are skipped.
type Sinks struct {
	Repo     repository.Repository
	Cache    StatusStore
	Producer kafka.Producer
	Topic    string
}

func (s Sinks) Empty() bool {
	return s.Repo == nil && s.Cache == nil && s.Producer == nil
}

// Recorder forwards outcomes to the configured sinks from its own goroutine,
// so slow sinks never hold up the worker pool. Sink errors are logged and
// otherwise ignored.
type Recorder struct {
	sinks  Sinks
	runID  string
	total  int
	logger *zap.Logger
	events chan models.ConversionOutcome
	done   chan struct{}
}

func NewRecorder(sinks Sinks, runID string, total int, logger *zap.Logger) *Recorder {
	return &Recorder{
		sinks:  sinks,
		runID:  runID,
		total:  total,
		logger: logger.With(zap.String("run_id", runID)),
		events: make(chan models.ConversionOutcome, total+1),
		done:   make(chan struct{}),
	}
}

// Start registers the run with the sinks and begins draining outcomes.
func (r *Recorder) Start(ctx context.Context, inputDir, outputDir string) {
	if r.sinks.Repo != nil {
		if err := r.sinks.Repo.CreateRun(ctx, r.runID, r.total, inputDir, outputDir); err != nil {
			r.logger.Error("Failed to create run record", zap.Error(err))
		}
	}
	if r.sinks.Cache != nil {
		if err := r.sinks.Cache.Start(ctx, r.runID, r.total); err != nil {
			r.logger.Error("Failed to cache run start", zap.Error(err))
		}
	}

	go r.loop(ctx)
}

func (r *Recorder) OnOutcome(_, _ int, outcome models.ConversionOutcome) {
	r.events <- outcome
}

func (r *Recorder) loop(ctx context.Context) {
	defer close(r.done)
	for o := range r.events {
		r.process(ctx, o)
	}
}

func (r *Recorder) process(ctx context.Context, o models.ConversionOutcome) {
	if r.sinks.Repo != nil {
		if err := r.sinks.Repo.RecordOutcome(ctx, r.runID, o); err != nil {
			r.logger.Error("Failed to record outcome",
				zap.String("input", o.Task.SourcePath),
				zap.Error(err),
			)
		}
	}
	if r.sinks.Cache != nil {
		if err := r.sinks.Cache.Set(ctx, r.runID, o); err != nil {
			r.logger.Error("Failed to cache status",
				zap.String("input", o.Task.SourcePath),
				zap.Error(err),
			)
		}
	}
	if r.sinks.Producer != nil {
		if err := r.sinks.Producer.SendOutcome(ctx, r.sinks.Topic, kafka.NewOutcomeMessage(r.runID, o)); err != nil {
			r.logger.Error("Failed to publish outcome",
				zap.String("input", o.Task.SourcePath),
				zap.Error(err),
			)
		}
	}
}

// Close waits for queued outcomes to be delivered and records the summary.
// It must be called once, after the pool has finished.
func (r *Recorder) Close(ctx context.Context, result models.BatchResult) {
	close(r.events)
	<-r.done

	if r.sinks.Repo != nil {
		if err := r.sinks.Repo.FinishRun(ctx, result); err != nil {
			r.logger.Error("Failed to finish run record", zap.Error(err))
		}
	}
	if r.sinks.Cache != nil {
		if err := r.sinks.Cache.Finish(ctx, result); err != nil {
			r.logger.Error("Failed to cache run finish", zap.Error(err))
		}
	}
}
