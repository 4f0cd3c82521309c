package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/readykit/report-api/internal/data/pgxutil"
	apperrors "github.com/readykit/report-api/internal/errors"
)

const (
	// Marking a callback viewed twice is a no-op.
	callbackViewInsertQuery = `
		INSERT INTO callback_views (callback_id, admin_user_id, viewed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (callback_id, admin_user_id) DO NOTHING`

	callbackUnviewedCountQuery = `
		SELECT COUNT(*) FROM callbacks c
		WHERE NOT EXISTS (
			SELECT 1 FROM callback_views v
			WHERE v.callback_id = c.id AND v.admin_user_id = $1
		)`
)

// CallbackViewRepo tracks per-admin viewed state for callbacks.
type CallbackViewRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCallbackViewRepo creates a new CallbackViewRepo instance with the given database connection.
func NewCallbackViewRepo(db *sql.DB) *CallbackViewRepo {
	return &CallbackViewRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCallbackViewRepoWithTimeProvider creates a CallbackViewRepo with a custom TimeProvider (useful for testing).
func NewCallbackViewRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CallbackViewRepo {
	return &CallbackViewRepo{DB: db, timeProvider: tp}
}

// MarkViewed records that the admin saw the callback.
func (r *CallbackViewRepo) MarkViewed(ctx context.Context, callbackID, adminUserID string) error {
	if adminUserID == "" {
		return apperrors.ValidationField("admin_user_id", "admin user id is required")
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, callbackViewInsertQuery, callbackID, adminUserID, r.timeProvider.Now())
		return err
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// UnviewedCount counts callbacks the admin has not seen yet.
func (r *CallbackViewRepo) UnviewedCount(ctx context.Context, adminUserID string) (int, error) {
	if adminUserID == "" {
		return 0, apperrors.ValidationField("admin_user_id", "admin user id is required")
	}
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, callbackUnviewedCountQuery, adminUserID).Scan(&count)
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return count, nil
}
