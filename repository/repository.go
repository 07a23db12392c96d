package repository

import (
	"context"
	"errors"

	"github.com/imcgaunn/to-webp/models"
)

var ErrRunNotFound = errors.New("run not found")

// Repository is the durable ledger of conversion runs.
type Repository interface {
	CreateRun(ctx context.Context, runID string, total int, inputDir, outputDir string) error
	RecordOutcome(ctx context.Context, runID string, outcome models.ConversionOutcome) error
	FinishRun(ctx context.Context, result models.BatchResult) error
}
