package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/imcgaunn/to-webp/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversion_runs (
	id          UUID PRIMARY KEY,
	input_dir   TEXT NOT NULL,
	output_dir  TEXT NOT NULL,
	total       INTEGER NOT NULL,
	succeeded   INTEGER,
	failed      INTEGER,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	finished_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS conversion_outcomes (
	run_id           UUID NOT NULL REFERENCES conversion_runs(id),
	source_path      TEXT NOT NULL,
	destination_path TEXT NOT NULL,
	status           TEXT NOT NULL,
	size_bytes       BIGINT,
	error_kind       TEXT,
	error_detail     TEXT,
	duration_ms      BIGINT NOT NULL,
	recorded_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (run_id, source_path)
);`

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PostgresRepo struct {
	db DB
}

func NewPostgresRepo(db DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

func (r *PostgresRepo) CreateRun(ctx context.Context, runID string, total int, inputDir, outputDir string) error {
	query := `
		INSERT INTO conversion_runs (id, input_dir, output_dir, total)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, runID, inputDir, outputDir, total)
	return err
}

func (r *PostgresRepo) RecordOutcome(ctx context.Context, runID string, o models.ConversionOutcome) error {
	query := `
		INSERT INTO conversion_outcomes
			(run_id, source_path, destination_path, status, size_bytes, error_kind, error_detail, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id, source_path) DO UPDATE
		SET status = EXCLUDED.status, size_bytes = EXCLUDED.size_bytes,
			error_kind = EXCLUDED.error_kind, error_detail = EXCLUDED.error_detail,
			duration_ms = EXCLUDED.duration_ms, recorded_at = NOW()
	`

	var size *int64
	var kind, detail *string
	if o.OK() {
		size = &o.SizeBytes
	} else {
		k := string(o.ErrorKind)
		kind, detail = &k, &o.ErrorDetail
	}

	_, err := r.db.Exec(ctx, query,
		runID,
		o.Task.SourcePath,
		o.Task.DestinationPath,
		string(o.Status),
		size,
		kind,
		detail,
		o.Duration.Milliseconds(),
	)
	return err
}

func (r *PostgresRepo) FinishRun(ctx context.Context, result models.BatchResult) error {
	query := `
		UPDATE conversion_runs
		SET succeeded = $1, failed = $2, finished_at = $3
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query, result.Succeeded(), result.Failed(), result.FinishedAt, result.RunID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}

	return nil
}
