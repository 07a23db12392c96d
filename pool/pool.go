package pool

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/imcgaunn/to-webp/models"
)

// Handler converts one task. It must always return an outcome for its task.
type Handler func(ctx context.Context, task models.ImageTask) models.ConversionOutcome

// Observer is notified once per outcome, in completion order, from the
// goroutine running WorkerPool.Run. Implementations must return quickly.
type Observer interface {
	OnOutcome(done, total int, outcome models.ConversionOutcome)
}

type WorkerPool struct {
	maxWorkers int
	logger     *zap.Logger
}

func NewWorkerPool(maxWorkers int, logger *zap.Logger) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

func (p *WorkerPool) MaxWorkers() int {
	return p.maxWorkers
}

// Run executes handler over tasks with at most MaxWorkers invocations in
// flight and returns once every task has exactly one outcome.
//
// When ctx is cancelled no further tasks are started. Running handlers get a
// context that is not cancelled with ctx, so an encode is never cut short;
// tasks that were never started are reported as cancelled failures.
func (p *WorkerPool) Run(ctx context.Context, runID string, tasks []models.ImageTask, handler Handler, observers ...Observer) models.BatchResult {
	result := models.BatchResult{
		RunID:     runID,
		Total:     len(tasks),
		Outcomes:  make([]models.ConversionOutcome, 0, len(tasks)),
		StartedAt: time.Now().UTC(),
	}

	workCtx := context.WithoutCancel(ctx)
	results := make(chan models.ConversionOutcome, p.maxWorkers)

	next, inFlight := 0, 0
	admit := func() {
		for inFlight < p.maxWorkers && next < len(tasks) && ctx.Err() == nil {
			task := tasks[next]
			next++
			inFlight++
			go func() {
				results <- handler(workCtx, task)
			}()
		}
	}

	record := func(o models.ConversionOutcome) {
		result.Outcomes = append(result.Outcomes, o)
		for _, obs := range observers {
			obs.OnOutcome(len(result.Outcomes), result.Total, o)
		}
	}

	admit()
	for inFlight > 0 {
		o := <-results
		inFlight--
		record(o)
		admit()
	}

	if next < len(tasks) {
		p.logger.Warn("Run cancelled, skipping remaining tasks",
			zap.String("run_id", runID),
			zap.Int("skipped", len(tasks)-next),
			zap.Error(ctx.Err()),
		)
		for _, task := range tasks[next:] {
			record(models.Failed(task, models.KindCancelled, "run cancelled before start", 0))
		}
	}

	result.FinishedAt = time.Now().UTC()
	return result
}
