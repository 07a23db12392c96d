// Package report collects conversion outcomes into the final BatchResult and
// renders it for humans and machines.
package report

import (
	"sync"
	"time"

	"github.com/imcgaunn/to-webp/models"
)

type Aggregator struct {
	mu       sync.Mutex
	runID    string
	total    int
	started  time.Time
	outcomes []models.ConversionOutcome
}

func NewAggregator(runID string, total int) *Aggregator {
	return &Aggregator{
		runID:    runID,
		total:    total,
		started:  time.Now().UTC(),
		outcomes: make([]models.ConversionOutcome, 0, total),
	}
}

func (a *Aggregator) OnOutcome(_, _ int, outcome models.ConversionOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcomes = append(a.outcomes, outcome)
}

// Result returns the aggregate and whether it is complete. An incomplete
// aggregate must not be reported as a finished batch.
func (a *Aggregator) Result() (models.BatchResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r := models.BatchResult{
		RunID:      a.runID,
		Total:      a.total,
		Outcomes:   append([]models.ConversionOutcome(nil), a.outcomes...),
		StartedAt:  a.started,
		FinishedAt: time.Now().UTC(),
	}
	return r, r.Complete()
}
