package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/readykit/report-api/internal/data/pgxutil"
	"github.com/readykit/report-api/internal/domain/model"
	apperrors "github.com/readykit/report-api/internal/errors"
)

const (
	defaultCallbackListLimit = 50
	maxCallbackListLimit     = 200

	callbackColumns = `id, external_callback_id, external_job_id, workflow_name, event_type,
		raw_payload, payload_preview, signature_valid, signature_header, verified_at,
		delivery_count, received_at, last_delivered_at`

	// Redeliveries of the same external id overwrite mutable fields
	// and bump delivery_count instead of inserting a second row.
	// verified_at keeps the first successful verification; an invalid
	// redelivery does not erase it.
	callbackUpsertQuery = `
		INSERT INTO callbacks (external_callback_id, external_job_id, workflow_name, event_type,
			raw_payload, payload_preview, signature_valid, signature_header, verified_at,
			received_at, last_delivered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (external_callback_id) DO UPDATE SET
			external_job_id   = EXCLUDED.external_job_id,
			workflow_name     = EXCLUDED.workflow_name,
			event_type        = EXCLUDED.event_type,
			raw_payload       = EXCLUDED.raw_payload,
			payload_preview   = EXCLUDED.payload_preview,
			signature_valid   = EXCLUDED.signature_valid,
			signature_header  = EXCLUDED.signature_header,
			verified_at       = COALESCE(callbacks.verified_at, EXCLUDED.verified_at),
			delivery_count    = callbacks.delivery_count + 1,
			last_delivered_at = EXCLUDED.last_delivered_at
		RETURNING ` + callbackColumns

	callbackGetByIDQuery = `SELECT ` + callbackColumns + ` FROM callbacks WHERE id = $1`

	callbackDeleteQuery = `DELETE FROM callbacks WHERE id = $1`
)

// CallbackRepo provides database operations for the callback audit trail.
type CallbackRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCallbackRepo creates a new CallbackRepo instance with the given database connection.
func NewCallbackRepo(db *sql.DB) *CallbackRepo {
	return &CallbackRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCallbackRepoWithTimeProvider creates a CallbackRepo with a custom TimeProvider (useful for testing).
func NewCallbackRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CallbackRepo {
	return &CallbackRepo{DB: db, timeProvider: tp}
}

// Upsert records a delivery keyed on its external callback id.
func (r *CallbackRepo) Upsert(ctx context.Context, params model.UpsertCallbackParams) (*model.Callback, error) {
	if params.ExternalCallbackID == "" {
		return nil, apperrors.ValidationField("external_callback_id", "external callback id is required")
	}
	now := r.timeProvider.Now()
	var verifiedAt *time.Time
	if params.SignatureValid {
		verifiedAt = &now
	}
	var cb model.Callback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, callbackUpsertQuery,
			params.ExternalCallbackID, params.ExternalJobID, params.WorkflowName,
			params.EventType, params.RawPayload, params.PayloadPreview,
			params.SignatureValid, params.SignatureHeader, verifiedAt, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		cb, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Callback])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &cb, nil
}

// GetByID retrieves a callback by its id.
func (r *CallbackRepo) GetByID(ctx context.Context, id string) (*model.Callback, error) {
	var cb model.Callback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, callbackGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		cb, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Callback])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &cb, nil
}

// List returns one page of callbacks ordered by received_at descending
// with optional filters and a keyset continuation cursor.
func (r *CallbackRepo) List(ctx context.Context, opts model.CallbackListOptions) (*model.CallbackListPage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultCallbackListLimit
	}
	if limit > maxCallbackListLimit {
		limit = maxCallbackListLimit
	}

	q, args, err := buildCallbackListQuery(opts, limit)
	if err != nil {
		return nil, err
	}

	var cbs []*model.Callback
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, q, args...)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		cbs, qerr = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Callback])
		return qerr
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}

	page := &model.CallbackListPage{Callbacks: cbs}
	// limit+1 rows were fetched; the extra row means another page exists.
	if len(cbs) > limit {
		page.Callbacks = cbs[:limit]
		token, encErr := encodeCallbackCursor(newCallbackCursor(page.Callbacks[limit-1]))
		if encErr != nil {
			return nil, encErr
		}
		page.NextCursor = &token
	}
	return page, nil
}

func buildCallbackListQuery(opts model.CallbackListOptions, limit int) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.EventType != nil && *opts.EventType != "" {
		conds = append(conds, "event_type = "+arg(*opts.EventType))
	}
	if opts.WorkflowName != nil && *opts.WorkflowName != "" {
		conds = append(conds, "workflow_name = "+arg(*opts.WorkflowName))
	}
	if opts.SignatureValid != nil {
		conds = append(conds, "signature_valid = "+arg(*opts.SignatureValid))
	}
	if opts.Cursor != nil && *opts.Cursor != "" {
		cur, err := decodeCallbackCursor(*opts.Cursor)
		if err != nil {
			return "", nil, apperrors.ValidationField("cursor", "invalid cursor")
		}
		conds = append(conds, fmt.Sprintf("(received_at, id) < (%s, %s)",
			arg(cur.ReceivedAt), arg(cur.ID)))
	}

	q := "SELECT " + callbackColumns + " FROM callbacks"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY received_at DESC, id DESC LIMIT " + arg(limit+1)
	return q, args, nil
}

// Delete removes a callback; view records cascade.
func (r *CallbackRepo) Delete(ctx context.Context, id string) (bool, error) {
	var n int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, callbackDeleteQuery, id)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return n > 0, nil
}
