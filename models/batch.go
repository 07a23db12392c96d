package models

import (
	"sort"
	"time"
)

// BatchResult is the terminal aggregate of a run. It is only handed out once
// every submitted task has an outcome.
type BatchResult struct {
	RunID      string              `json:"run_id"`
	Total      int                 `json:"total"`
	Outcomes   []ConversionOutcome `json:"outcomes"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

func (r BatchResult) Complete() bool {
	return len(r.Outcomes) == r.Total
}

func (r BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

func (r BatchResult) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Failures returns the failed outcomes sorted by source path.
func (r BatchResult) Failures() []ConversionOutcome {
	var failures []ConversionOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failures = append(failures, o)
		}
	}
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].Task.SourcePath < failures[j].Task.SourcePath
	})
	return failures
}

// BytesWritten sums the verified output sizes of successful outcomes.
func (r BatchResult) BytesWritten() int64 {
	var total int64
	for _, o := range r.Outcomes {
		if o.OK() {
			total += o.SizeBytes
		}
	}
	return total
}
