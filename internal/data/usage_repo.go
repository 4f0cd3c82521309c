package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/readykit/report-api/internal/data/pgxutil"
	"github.com/readykit/report-api/internal/domain/model"
	apperrors "github.com/readykit/report-api/internal/errors"
)

const (
	usageInsertQuery = `
		INSERT INTO model_usage (feature, model, input_tokens, output_tokens, duration_ms,
			success, error_message, estimated_cost_usd, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	usageListByFeatureQuery = `
		SELECT id, feature, model, input_tokens, output_tokens, duration_ms,
			success, error_message, estimated_cost_usd, created_at
		FROM model_usage WHERE feature = $1
		ORDER BY created_at DESC LIMIT $2`
)

// UsageRepo appends model usage accounting rows.
type UsageRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUsageRepo creates a new UsageRepo instance with the given database connection.
func NewUsageRepo(db *sql.DB) *UsageRepo {
	return &UsageRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUsageRepoWithTimeProvider creates a UsageRepo with a custom TimeProvider (useful for testing).
func NewUsageRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UsageRepo {
	return &UsageRepo{DB: db, timeProvider: tp}
}

// Record inserts one usage row, filling the record's id and timestamp.
func (r *UsageRepo) Record(ctx context.Context, rec *model.ModelUsageRecord) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, usageInsertQuery,
			rec.Feature, rec.Model, rec.InputTokens, rec.OutputTokens, rec.DurationMs,
			rec.Success, rec.ErrorMessage, rec.EstimatedCostUSD, r.timeProvider.Now(),
		).Scan(&rec.ID, &rec.CreatedAt)
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// ListByFeature returns the most recent usage rows for a feature.
func (r *UsageRepo) ListByFeature(ctx context.Context, feature model.Feature, limit int) ([]*model.ModelUsageRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []*model.ModelUsageRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, usageListByFeatureQuery, feature, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		recs, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.ModelUsageRecord])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return recs, nil
}
