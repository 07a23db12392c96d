package middleware

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/imcgaunn/to-webp/models"
	"github.com/imcgaunn/to-webp/pool"
)

// Recovery turns a panic inside next into a decode failure for that task so
// one malformed file cannot take down the batch.
func Recovery(logger *zap.Logger) func(pool.Handler) pool.Handler {
	return func(next pool.Handler) pool.Handler {
		return func(ctx context.Context, task models.ImageTask) (outcome models.ConversionOutcome) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.String("run_id", GetRunID(ctx)),
						zap.String("input", task.SourcePath),
						zap.Any("error", err),
					)
					outcome = models.Failed(task, models.KindDecode, fmt.Sprintf("panic: %v", err), 0)
				}
			}()

			return next(ctx, task)
		}
	}
}
