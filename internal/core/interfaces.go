// Package core defines the ports between the service layer and its
// adapters: repository contracts, the engine client and the content
// generator. Services depend on these interfaces, never on concrete
// implementations.
package core

import (
	"context"
	"time"

	"github.com/readykit/report-api/internal/domain/model"
)

// JobRepository defines the interface for generation job data operations.
type JobRepository interface {
	Create(ctx context.Context, params CreateJobParams) (*model.GenerationJob, error)
	GetByID(ctx context.Context, id string) (*model.GenerationJob, error)
	GetByExternalJobID(ctx context.Context, externalJobID string) (*model.GenerationJob, error)
	// SetExternalJobID records the engine's job id after submission.
	SetExternalJobID(ctx context.Context, id, externalJobID string) error
	// Complete transitions a pending job to completed. Returns false
	// when the job is already terminal.
	Complete(ctx context.Context, id string) (bool, error)
	// Fail transitions a pending job to failed. Returns false when the
	// job is already terminal.
	Fail(ctx context.Context, id, errMsg string) (bool, error)
	// ExpireStale fails pending jobs older than the cutoff, at most
	// limit rows, and returns the ids it transitioned.
	ExpireStale(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}

// CreateJobParams groups parameters for JobRepository.Create.
type CreateJobParams struct {
	ReportID         string
	Feature          model.Feature
	SanitizedRequest []byte
}

// CallbackRepository defines the interface for the callback audit trail.
type CallbackRepository interface {
	// Upsert records a delivery. Redeliveries of the same external
	// callback id update the existing row and bump delivery_count.
	Upsert(ctx context.Context, params model.UpsertCallbackParams) (*model.Callback, error)
	GetByID(ctx context.Context, id string) (*model.Callback, error)
	List(ctx context.Context, opts model.CallbackListOptions) (*model.CallbackListPage, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CallbackViewRepository defines per-admin viewed state for callbacks.
type CallbackViewRepository interface {
	// MarkViewed records that the admin saw the callback. Idempotent.
	MarkViewed(ctx context.Context, callbackID, adminUserID string) error
	UnviewedCount(ctx context.Context, adminUserID string) (int, error)
}

// ReportRepository defines the interface for report and section data.
type ReportRepository interface {
	GetByID(ctx context.Context, id string) (*model.Report, error)
	// EnsureExists creates the report row if missing so section merges
	// and jobs have a parent to attach to.
	EnsureExists(ctx context.Context, id string) (*model.Report, error)
	ListSections(ctx context.Context, reportID string) ([]*model.ReportSection, error)
	// UpsertSection writes one section and bumps its version. The
	// model argument records which model produced the payload.
	UpsertSection(ctx context.Context, params UpsertSectionParams) (*model.ReportSection, error)
	// RecordGeneration stores the latest raw generation output and its
	// accounting figures on the report row.
	RecordGeneration(ctx context.Context, reportID string, outcome model.GenerationOutcome) error
}

// UpsertSectionParams groups parameters for ReportRepository.UpsertSection.
type UpsertSectionParams struct {
	ReportID       string
	Section        model.Section
	Payload        []byte
	AIAnalysisUsed bool
	Model          *string
}

// UsageRepository appends model usage accounting rows.
type UsageRepository interface {
	Record(ctx context.Context, rec *model.ModelUsageRecord) error
	ListByFeature(ctx context.Context, feature model.Feature, limit int) ([]*model.ModelUsageRecord, error)
}

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns nil when the key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes a key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Health checks the cache connection.
	Health(ctx context.Context) error
}

// EngineClient submits generation work to the external engine.
type EngineClient interface {
	// SubmitJob starts the workflow for the feature and returns the
	// engine's job id.
	SubmitJob(ctx context.Context, params SubmitEngineJobParams) (string, error)
}

// SubmitEngineJobParams groups parameters for EngineClient.SubmitJob.
type SubmitEngineJobParams struct {
	JobID       string
	Feature     model.Feature
	CallbackURL string
	Input       []byte
}

// GenerationResult is the outcome of one direct model invocation.
type GenerationResult struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// ContentGenerator produces report content by calling a model
// directly, bypassing the engine.
type ContentGenerator interface {
	Generate(ctx context.Context, feature model.Feature, input []byte) (*GenerationResult, error)
}
