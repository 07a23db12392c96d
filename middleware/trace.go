package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const RunIDKey contextKey = "run_id"

// NewRunID returns a fresh identifier for one batch run.
func NewRunID() string {
	return uuid.New().String()
}

func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}
