package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/data/pgxutil"
	"github.com/readykit/report-api/internal/domain/model"
	apperrors "github.com/readykit/report-api/internal/errors"
)

const (
	reportColumns = `id, form_data, content, model, tokens, duration_ms, generated_at, created_at, updated_at`

	reportGetByIDQuery = `
		SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	reportEnsureQuery = `
		INSERT INTO reports (id, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (id) DO UPDATE SET updated_at = reports.updated_at
		RETURNING ` + reportColumns

	// Zero model and counters come from the callback path, which only
	// sees the output text; NULLIF keeps those columns empty instead of
	// recording a bogus zero-token generation.
	reportRecordGenerationQuery = `
		UPDATE reports SET
			content      = $2,
			model        = NULLIF($3, ''),
			tokens       = NULLIF($4::integer, 0),
			duration_ms  = NULLIF($5::bigint, 0),
			generated_at = $6,
			updated_at   = $6
		WHERE id = $1`

	sectionListQuery = `
		SELECT report_id, section, payload, ai_analysis_used, model, version, updated_at
		FROM report_sections WHERE report_id = $1 ORDER BY section`

	// Section writes are last-writer-wins per section; version counts
	// successful writes so readers can detect concurrent updates.
	sectionUpsertQuery = `
		INSERT INTO report_sections (report_id, section, payload, ai_analysis_used, model, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6)
		ON CONFLICT (report_id, section) DO UPDATE SET
			payload          = EXCLUDED.payload,
			ai_analysis_used = EXCLUDED.ai_analysis_used,
			model            = EXCLUDED.model,
			version          = report_sections.version + 1,
			updated_at       = EXCLUDED.updated_at
		RETURNING report_id, section, payload, ai_analysis_used, model, version, updated_at`
)

// ReportRepo provides database operations for reports and their sections.
type ReportRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewReportRepo creates a new ReportRepo instance with the given database connection.
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewReportRepoWithTimeProvider creates a ReportRepo with a custom TimeProvider (useful for testing).
func NewReportRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ReportRepo {
	return &ReportRepo{DB: db, timeProvider: tp}
}

// GetByID retrieves a report by its id.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	return r.getReport(ctx, reportGetByIDQuery, id)
}

// EnsureExists creates the report row if missing and returns it either way.
func (r *ReportRepo) EnsureExists(ctx context.Context, id string) (*model.Report, error) {
	return r.getReport(ctx, reportEnsureQuery, id, r.timeProvider.Now())
}

func (r *ReportRepo) getReport(ctx context.Context, q string, args ...any) (*model.Report, error) {
	var rep model.Report
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rep, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Report])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &rep, nil
}

// RecordGeneration stores the latest raw generation output and its
// accounting figures on the report row.
func (r *ReportRepo) RecordGeneration(ctx context.Context, reportID string, outcome model.GenerationOutcome) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, reportRecordGenerationQuery,
			reportID, outcome.Content, outcome.Model,
			outcome.Tokens, outcome.DurationMs, r.timeProvider.Now())
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// ListSections returns every stored section for a report.
func (r *ReportRepo) ListSections(ctx context.Context, reportID string) ([]*model.ReportSection, error) {
	var sections []*model.ReportSection
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, sectionListQuery, reportID)
		if err != nil {
			return err
		}
		defer rows.Close()
		sections, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.ReportSection])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return sections, nil
}

// UpsertSection writes one section and bumps its version.
func (r *ReportRepo) UpsertSection(ctx context.Context, params core.UpsertSectionParams) (*model.ReportSection, error) {
	if !params.Section.Valid() {
		return nil, apperrors.ValidationField("section", "invalid section")
	}
	var section model.ReportSection
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, sectionUpsertQuery,
			params.ReportID, params.Section, params.Payload,
			params.AIAnalysisUsed, params.Model, r.timeProvider.Now())
		if err != nil {
			return err
		}
		defer rows.Close()
		section, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ReportSection])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &section, nil
}
