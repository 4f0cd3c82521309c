// Package service implements the business logic between the HTTP
// layer and the repositories: job submission, callback processing,
// report merging, usage accounting and direct generation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/domain/model"
	apperrors "github.com/readykit/report-api/internal/errors"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Jobs        core.JobRepository // Required
	Reports     core.ReportRepository
	Engine      core.EngineClient // Required
	CallbackURL string            // Required: absolute URL the engine calls back
	Logger      *slog.Logger      // Optional
}

// JobService submits generation jobs to the engine and answers status
// queries. Submission is fire-and-forget with respect to completion;
// the engine's callback drives the rest of the lifecycle.
type JobService struct {
	jobs        core.JobRepository
	reports     core.ReportRepository
	engine      core.EngineClient
	callbackURL string
	log         *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Reports == nil {
		return nil, errors.New("ReportRepository is required")
	}
	if opts.Engine == nil {
		return nil, errors.New("EngineClient is required")
	}
	if opts.CallbackURL == "" {
		return nil, errors.New("CallbackURL is required")
	}
	return &JobService{
		jobs:        opts.Jobs,
		reports:     opts.Reports,
		engine:      opts.Engine,
		callbackURL: opts.CallbackURL,
		log:         opts.Logger,
	}, nil
}

// MustNewJobService constructs a new JobService and panics on error.
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

func (s *JobService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Submit creates a pending job and hands it to the engine. A failed
// submission marks the job failed synchronously and returns the error;
// no silent pending state survives a failed handoff.
func (s *JobService) Submit(ctx context.Context, reportID string, req *model.SubmitJobRequest) (*model.GenerationJob, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if _, err := s.reports.EnsureExists(ctx, reportID); err != nil {
		return nil, fmt.Errorf("ensure report: %w", err)
	}

	sanitized, err := SanitizeInput(req.Input)
	if err != nil {
		return nil, apperrors.ValidationField("input", "input must be a JSON object")
	}

	job, err := s.jobs.Create(ctx, core.CreateJobParams{
		ReportID:         reportID,
		Feature:          req.Feature,
		SanitizedRequest: sanitized,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	externalID, err := s.engine.SubmitJob(ctx, core.SubmitEngineJobParams{
		JobID:       job.ID,
		Feature:     req.Feature,
		CallbackURL: s.callbackURL,
		Input:       sanitized,
	})
	if err != nil {
		msg := fmt.Sprintf("engine submission failed: %v", err)
		if _, failErr := s.jobs.Fail(ctx, job.ID, msg); failErr != nil {
			s.logger().ErrorContext(ctx, "marking job failed after submission error",
				"job_id", job.ID, "error", failErr)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "submit job to engine")
	}

	if err := s.jobs.SetExternalJobID(ctx, job.ID, externalID); err != nil {
		// The engine accepted the work; losing the id only breaks
		// callback correlation, so surface it loudly.
		s.logger().ErrorContext(ctx, "recording external job id",
			"job_id", job.ID, "external_job_id", externalID, "error", err)
	}
	job.ExternalJobID = &externalID

	s.logger().InfoContext(ctx, "job submitted",
		"job_id", job.ID, "report_id", reportID,
		"feature", req.Feature, "external_job_id", externalID)
	return job, nil
}

// GetStatus returns the current state of a job.
func (s *JobService) GetStatus(ctx context.Context, id string) (*model.JobStatusResponse, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.JobStatusResponse{
		ID:            job.ID,
		ReportID:      job.ReportID,
		Feature:       job.Feature,
		Status:        job.Status,
		ExternalJobID: job.ExternalJobID,
		ErrorMessage:  job.ErrorMessage,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}, nil
}

// SanitizeInput normalizes a client input document before it is
// persisted and forwarded: client-side artifacts (underscore-prefixed
// keys) are dropped and the result is re-marshaled so only plain JSON
// survives. A nil input becomes an empty object.
func SanitizeInput(input json.RawMessage) (json.RawMessage, error) {
	if len(input) == 0 {
		return json.RawMessage(`{}`), nil
	}
	var doc map[string]any
	if err := json.Unmarshal(input, &doc); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	for k := range doc {
		if strings.HasPrefix(k, "_") {
			delete(doc, k)
		}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}
	return out, nil
}
