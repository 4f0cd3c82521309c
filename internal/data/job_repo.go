// Package data implements the repository ports on PostgreSQL and
// Redis. Queries run over pgx acquired through the stdlib bridge so
// the rest of the service keeps a plain *sql.DB.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/data/pgxutil"
	"github.com/readykit/report-api/internal/domain/model"
	apperrors "github.com/readykit/report-api/internal/errors"
)

const (
	jobInsertQuery = `
		INSERT INTO generation_jobs (report_id, feature, status, sanitized_request, created_at, updated_at)
		VALUES ($1, $2, 'pending', $3, $4, $4)
		RETURNING id, report_id, feature, status, external_job_id, sanitized_request, error_message, created_at, updated_at`

	jobGetByIDQuery = `
		SELECT id, report_id, feature, status, external_job_id, sanitized_request, error_message, created_at, updated_at
		FROM generation_jobs WHERE id = $1`

	jobGetByExternalIDQuery = `
		SELECT id, report_id, feature, status, external_job_id, sanitized_request, error_message, created_at, updated_at
		FROM generation_jobs WHERE external_job_id = $1
		ORDER BY created_at DESC LIMIT 1`

	jobSetExternalIDQuery = `
		UPDATE generation_jobs SET external_job_id = $2, updated_at = $3 WHERE id = $1`

	// Terminal states never transition again; the status guard makes
	// redelivered callbacks no-ops.
	jobCompleteQuery = `
		UPDATE generation_jobs SET status = 'completed', updated_at = $2
		WHERE id = $1 AND status = 'pending'`

	jobFailQuery = `
		UPDATE generation_jobs SET status = 'failed', error_message = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'`

	jobExpireStaleQuery = `
		UPDATE generation_jobs SET status = 'failed', error_message = $3, updated_at = $4
		WHERE id IN (
			SELECT id FROM generation_jobs
			WHERE status = 'pending' AND created_at < $1
			ORDER BY created_at
			LIMIT $2
		)
		RETURNING id`
)

// JobRepo provides database operations for generation jobs.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobRepo creates a new JobRepo instance with the given database connection.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobRepoWithTimeProvider creates a JobRepo with a custom TimeProvider (useful for testing).
func NewJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobRepo {
	return &JobRepo{DB: db, timeProvider: tp}
}

// Create inserts a pending job for a report.
func (r *JobRepo) Create(ctx context.Context, params core.CreateJobParams) (*model.GenerationJob, error) {
	var job model.GenerationJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobInsertQuery,
			params.ReportID, params.Feature, params.SanitizedRequest, r.timeProvider.Now())
		if err != nil {
			return err
		}
		defer rows.Close()
		job, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.GenerationJob])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &job, nil
}

// GetByID retrieves a job by its id.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.GenerationJob, error) {
	return r.getByQuery(ctx, jobGetByIDQuery, id)
}

// GetByExternalJobID retrieves the most recent job matching an engine job id.
func (r *JobRepo) GetByExternalJobID(ctx context.Context, externalJobID string) (*model.GenerationJob, error) {
	return r.getByQuery(ctx, jobGetByExternalIDQuery, externalJobID)
}

func (r *JobRepo) getByQuery(ctx context.Context, q string, arg any) (*model.GenerationJob, error) {
	var job model.GenerationJob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		job, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.GenerationJob])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &job, nil
}

// SetExternalJobID records the engine's job id after submission.
func (r *JobRepo) SetExternalJobID(ctx context.Context, id, externalJobID string) error {
	return r.exec(ctx, jobSetExternalIDQuery, id, externalJobID, r.timeProvider.Now())
}

// Complete transitions a pending job to completed. Returns false when
// the job was already terminal.
func (r *JobRepo) Complete(ctx context.Context, id string) (bool, error) {
	return r.execGuarded(ctx, jobCompleteQuery, id, r.timeProvider.Now())
}

// Fail transitions a pending job to failed. Returns false when the job
// was already terminal.
func (r *JobRepo) Fail(ctx context.Context, id, errMsg string) (bool, error) {
	return r.execGuarded(ctx, jobFailQuery, id, errMsg, r.timeProvider.Now())
}

// ExpireStale fails pending jobs created before the cutoff, at most
// limit rows, and returns the transitioned ids.
func (r *JobRepo) ExpireStale(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	var ids []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobExpireStaleQuery,
			cutoff, limit, "no callback received before deadline", r.timeProvider.Now())
		if err != nil {
			return err
		}
		defer rows.Close()
		ids, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return ids, nil
}

func (r *JobRepo) exec(ctx context.Context, q string, args ...any) error {
	_, err := r.execRows(ctx, q, args...)
	return err
}

func (r *JobRepo) execGuarded(ctx context.Context, q string, args ...any) (bool, error) {
	n, err := r.execRows(ctx, q, args...)
	return n > 0, err
}

func (r *JobRepo) execRows(ctx context.Context, q string, args ...any) (int64, error) {
	var n int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, q, args...)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("exec: %w", apperrors.MapDBError(err))
	}
	return n, nil
}
