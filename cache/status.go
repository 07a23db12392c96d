package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/imcgaunn/to-webp/database"
	"github.com/imcgaunn/to-webp/models"
)

const (
	statusKeyPrefix   = "task:status:"
	progressKeyPrefix = "run:progress:"
)

// StatusEntry is the cached view of one file's outcome.
type StatusEntry struct {
	Status      models.OutcomeStatus `json:"status"`
	Destination string               `json:"destination"`
	SizeBytes   int64                `json:"size_bytes,omitempty"`
	ErrorKind   models.ErrorKind     `json:"error_kind,omitempty"`
	ErrorDetail string               `json:"error_detail,omitempty"`
}

// StatusCache publishes per-file status and per-run counters to redis so
// other processes can watch a long batch.
type StatusCache struct {
	cache *database.Cache
	ttl   time.Duration
}

func NewStatusCache(cache *database.Cache, ttl time.Duration) *StatusCache {
	return &StatusCache{cache: cache, ttl: ttl}
}

func statusKey(runID, source string) string {
	return fmt.Sprintf("%s%s:%s", statusKeyPrefix, runID, source)
}

func progressKey(runID string) string {
	return progressKeyPrefix + runID
}

func (sc *StatusCache) Get(ctx context.Context, runID, source string) (*StatusEntry, error) {
	data, err := sc.cache.Get(ctx, statusKey(runID, source))
	if err != nil {
		return nil, err
	}

	var entry StatusEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &entry, nil
}

// Set stores the outcome of one file and bumps the run counter for its status.
func (sc *StatusCache) Set(ctx context.Context, runID string, o models.ConversionOutcome) error {
	data, err := json.Marshal(StatusEntry{
		Status:      o.Status,
		Destination: o.Task.DestinationPath,
		SizeBytes:   o.SizeBytes,
		ErrorKind:   o.ErrorKind,
		ErrorDetail: o.ErrorDetail,
	})
	if err != nil {
		return err
	}

	if err := sc.cache.Set(ctx, statusKey(runID, o.Task.SourcePath), data, sc.ttl); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return sc.cache.IncrField(ctx, progressKey(runID), string(o.Status), sc.ttl)
}

// Start records the size of a run before any outcome arrives.
func (sc *StatusCache) Start(ctx context.Context, runID string, total int) error {
	return sc.cache.SetFields(ctx, progressKey(runID), sc.ttl, map[string]interface{}{
		"total":      total,
		"state":      "running",
		"started_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (sc *StatusCache) Finish(ctx context.Context, r models.BatchResult) error {
	return sc.cache.SetFields(ctx, progressKey(r.RunID), sc.ttl, map[string]interface{}{
		"state":       "finished",
		"finished_at": r.FinishedAt.Format(time.RFC3339),
	})
}

// Progress returns the raw counters of a run: total, success, failure, state.
func (sc *StatusCache) Progress(ctx context.Context, runID string) (map[string]string, error) {
	return sc.cache.Fields(ctx, progressKey(runID))
}
