// Package devseed populates a development database with a demo report,
// fallback-backed sections, a finished generation job and a sample
// callback so the API has data to serve right after `db-seed`.
package devseed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/readykit/report-api/internal/cost"
	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/data"
	"github.com/readykit/report-api/internal/domain/model"
	"github.com/readykit/report-api/internal/domain/parse"
)

// Fixed ids keep reseeding idempotent: the same rows are touched on
// every run instead of piling up duplicates.
const (
	devReportID           = "3f8a2c61-54d9-4b0e-9a17-c0de5eed0001"
	devExternalJobID      = "wf-run-dev-0001"
	devExternalCallbackID = "cb-dev-0001"
)

// Services bundles the repositories needed for development seeding.
type Services struct {
	DB        *sql.DB
	reports   *data.ReportRepo
	jobs      *data.JobRepo
	callbacks *data.CallbackRepo
	usage     *data.UsageRepo
}

// NewServices constructs the repositories for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	return Services{
		DB:        db,
		reports:   data.NewReportRepo(db),
		jobs:      data.NewJobRepo(db),
		callbacks: data.NewCallbackRepo(db),
		usage:     data.NewUsageRepo(db),
	}
}

// Run executes the full development seeding workflow against the provided DB.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if err := seedReport(ctx, svcs, logger); err != nil {
		return err
	}

	failures := 0
	failures += seedSections(ctx, svcs, logger)
	failures += seedJob(ctx, svcs, logger)
	failures += seedCallback(ctx, svcs, logger)
	failures += seedUsage(ctx, svcs, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedReport(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if _, err := svcs.reports.EnsureExists(ctx, devReportID); err != nil {
		return fmt.Errorf("ensure demo report: %w", err)
	}

	formData := map[string]any{
		"city":           "Portland",
		"state":          "OR",
		"household_size": 3,
		"has_pets":       true,
		"housing_type":   "apartment",
	}
	raw, err := json.Marshal(formData)
	if err != nil {
		return fmt.Errorf("marshal demo form data: %w", err)
	}

	const q = `UPDATE reports SET form_data = $2, updated_at = now() WHERE id = $1`
	if _, err := svcs.DB.ExecContext(ctx, q, devReportID, raw); err != nil {
		return fmt.Errorf("set demo form data: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "seeded demo report", "report_id", devReportID)
	}
	return nil
}

// seedSections writes the curated fallback dataset for every section
// that has one. Risk indicators stay empty on purpose: they have no
// curated dataset, so a seeded database mirrors a report whose risk
// job never ran.
func seedSections(ctx context.Context, svcs Services, logger *slog.Logger) int {
	parser := parse.NewParser(logger)
	failures := 0
	for _, feature := range model.Features {
		for _, upd := range parser.FallbackSections(feature) {
			params := core.UpsertSectionParams{
				ReportID:       devReportID,
				Section:        upd.Section,
				Payload:        upd.Payload,
				AIAnalysisUsed: upd.AIAnalysisUsed,
			}
			sec, err := svcs.reports.UpsertSection(ctx, params)
			if err != nil {
				if logger != nil {
					logger.ErrorContext(ctx, "failed to seed section", "section", upd.Section, "error", err)
				}
				failures++
				continue
			}
			if logger != nil {
				logger.InfoContext(ctx, "seeded section", "section", sec.Section, "version", sec.Version)
			}
		}
	}
	return failures
}

// seedJob records one finished contacts job so the job detail and
// usage endpoints have history. Creation is skipped when the demo
// report already has jobs from a previous seed run.
func seedJob(ctx context.Context, svcs Services, logger *slog.Logger) int {
	var existing int
	const countQ = `SELECT COUNT(*) FROM generation_jobs WHERE report_id = $1`
	if err := svcs.DB.QueryRowContext(ctx, countQ, devReportID).Scan(&existing); err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to count existing jobs", "error", err)
		}
		return 1
	}
	if existing > 0 {
		if logger != nil {
			logger.InfoContext(ctx, "demo jobs already seeded", "count", existing)
		}
		return 0
	}

	sanitized, _ := json.Marshal(map[string]any{"city": "Portland", "household_size": 3})
	job, err := svcs.jobs.Create(ctx, core.CreateJobParams{
		ReportID:         devReportID,
		Feature:          model.FeatureEmergencyContacts,
		SanitizedRequest: sanitized,
	})
	if err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to create demo job", "error", err)
		}
		return 1
	}
	if err := svcs.jobs.SetExternalJobID(ctx, job.ID, devExternalJobID); err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to link demo job", "job_id", job.ID, "error", err)
		}
		return 1
	}
	if _, err := svcs.jobs.Complete(ctx, job.ID); err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to complete demo job", "job_id", job.ID, "error", err)
		}
		return 1
	}
	if logger != nil {
		logger.InfoContext(ctx, "seeded demo job", "job_id", job.ID, "feature", job.Feature)
	}
	return 0
}

// seedCallback upserts the completion delivery for the demo job.
// Reseeding bumps delivery_count, which doubles as sample redelivery
// data for the admin callback list.
func seedCallback(ctx context.Context, svcs Services, logger *slog.Logger) int {
	externalJobID := devExternalJobID
	workflow := "generate_" + model.FeatureEmergencyContacts.String()
	event := "workflow_completed"
	raw, _ := json.Marshal(map[string]any{
		"id":     devExternalCallbackID,
		"job_id": devExternalJobID,
		"event":  event,
		"output": "seeded demo delivery",
	})

	cb, err := svcs.callbacks.Upsert(ctx, model.UpsertCallbackParams{
		ExternalCallbackID: devExternalCallbackID,
		ExternalJobID:      &externalJobID,
		WorkflowName:       &workflow,
		EventType:          &event,
		RawPayload:         raw,
		SignatureValid:     true,
	})
	if err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to seed callback", "error", err)
		}
		return 1
	}
	if logger != nil {
		logger.InfoContext(ctx, "seeded demo callback", "callback_id", cb.ID, "deliveries", cb.DeliveryCount)
	}
	return 0
}

// seedUsage appends a success and a failure row so the usage-summary
// admin command has both outcomes to render. Skipped once any usage
// exists to keep reseeding idempotent.
func seedUsage(ctx context.Context, svcs Services, logger *slog.Logger) int {
	var existing int
	const countQ = `SELECT COUNT(*) FROM model_usage`
	if err := svcs.DB.QueryRowContext(ctx, countQ).Scan(&existing); err != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to count existing usage", "error", err)
		}
		return 1
	}
	if existing > 0 {
		if logger != nil {
			logger.InfoContext(ctx, "demo usage already seeded", "count", existing)
		}
		return 0
	}

	calc := cost.NewCalculator(cost.DefaultRates())
	failures := 0
	overloaded := "model overloaded"
	records := []*model.ModelUsageRecord{
		{
			Feature:      model.FeatureEmergencyContacts,
			Model:        "claude-haiku-4-5-20251001",
			InputTokens:  1850,
			OutputTokens: 940,
			DurationMs:   4200,
			Success:      true,
		},
		{
			Feature:      model.FeatureRiskIndicators,
			Model:        "claude-sonnet-4-5-20250929",
			InputTokens:  2300,
			OutputTokens: 0,
			DurationMs:   31000,
			Success:      false,
			ErrorMessage: &overloaded,
		},
	}
	for _, rec := range records {
		if est, ok := calc.Estimate(rec.Model, rec.InputTokens, rec.OutputTokens); ok {
			rec.EstimatedCostUSD = est
		}
		if err := svcs.usage.Record(ctx, rec); err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed usage", "model", rec.Model, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded usage record", "model", rec.Model, "success", rec.Success)
		}
	}
	return failures
}
