package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/imcgaunn/to-webp/models"
	"github.com/imcgaunn/to-webp/pool"
)

// Logging logs the start and result of every conversion handled by next.
func Logging(logger *zap.Logger) func(pool.Handler) pool.Handler {
	return func(next pool.Handler) pool.Handler {
		return func(ctx context.Context, task models.ImageTask) models.ConversionOutcome {
			runID := GetRunID(ctx)

			logger.Debug("Starting conversion",
				zap.String("run_id", runID),
				zap.String("input", task.SourcePath),
				zap.String("output", task.DestinationPath),
			)

			outcome := next(ctx, task)

			if outcome.OK() {
				logger.Info("Conversion completed",
					zap.String("run_id", runID),
					zap.String("output", task.DestinationPath),
					zap.Int64("size", outcome.SizeBytes),
					zap.Duration("duration", outcome.Duration),
				)
			} else {
				logger.Warn("Conversion failed",
					zap.String("run_id", runID),
					zap.String("input", task.SourcePath),
					zap.String("kind", string(outcome.ErrorKind)),
					zap.String("detail", outcome.ErrorDetail),
					zap.Duration("duration", outcome.Duration),
				)
			}

			return outcome
		}
	}
}
