package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/domain/model"
	"github.com/readykit/report-api/internal/domain/parse"
	apperrors "github.com/readykit/report-api/internal/errors"
	"github.com/readykit/report-api/internal/modelpolicy"
)

// GenerateServiceOptions groups dependencies for GenerateService.
type GenerateServiceOptions struct {
	Jobs      core.JobRepository    // Required
	Reports   *ReportService        // Required
	Generator core.ContentGenerator // Required
	Usage     *UsageService         // Optional: accounting is fire-and-forget
	Parser    *parse.Parser         // Optional
	Logger    *slog.Logger          // Optional
}

// GenerateService produces report content by calling the model
// directly, bypassing the engine. The same parse, enrich and fallback
// pipeline applies, so a direct job degrades exactly like a callback-
// driven one.
type GenerateService struct {
	jobs      core.JobRepository
	reports   *ReportService
	generator core.ContentGenerator
	usage     *UsageService
	parser    *parse.Parser
	log       *slog.Logger
}

// NewGenerateService constructs a new GenerateService.
func NewGenerateService(opts GenerateServiceOptions) (*GenerateService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Reports == nil {
		return nil, errors.New("ReportService is required")
	}
	if opts.Generator == nil {
		return nil, errors.New("ContentGenerator is required")
	}
	parser := opts.Parser
	if parser == nil {
		parser = parse.NewParser(opts.Logger)
	}
	return &GenerateService{
		jobs:      opts.Jobs,
		reports:   opts.Reports,
		generator: opts.Generator,
		usage:     opts.Usage,
		parser:    parser,
		log:       opts.Logger,
	}, nil
}

// MustNewGenerateService constructs a new GenerateService and panics on error.
func MustNewGenerateService(opts GenerateServiceOptions) *GenerateService {
	svc, err := NewGenerateService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create GenerateService: %v", err))
	}
	return svc
}

func (s *GenerateService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Generate runs one synchronous generation for a report feature and
// merges the outcome before returning.
func (s *GenerateService) Generate(ctx context.Context, reportID string, req *model.SubmitJobRequest) (*model.GenerationJob, error) {
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

	result, genErr := s.generator.Generate(ctx, req.Feature, sanitized)
	s.recordUsage(ctx, req.Feature, result, genErr)

	if genErr != nil {
		s.logger().WarnContext(ctx, "direct generation failed, applying fallback",
			"job_id", job.ID, "feature", req.Feature, "error", genErr)
		if !s.applyFallback(ctx, job) {
			return nil, apperrors.Wrap(genErr, apperrors.ErrCodeInternal, "content generation failed")
		}
		return s.jobs.GetByID(ctx, job.ID)
	}

	res := s.parser.Parse(req.Feature, result.Content)
	parse.EnrichContacts(res.Contacts, lookupEntries(sanitized))
	updates, err := s.parser.BuildSections(req.Feature, res)
	if err != nil || len(updates) == 0 {
		s.logger().WarnContext(ctx, "generated output unusable, applying fallback",
			"job_id", job.ID, "feature", req.Feature, "error", err)
		if !s.applyFallback(ctx, job) {
			return nil, apperrors.Internal("generated content was unusable")
		}
		return s.jobs.GetByID(ctx, job.ID)
	}

	outcome := &model.GenerationOutcome{
		Content:    result.Content,
		Model:      result.Model,
		Tokens:     result.InputTokens + result.OutputTokens,
		DurationMs: result.Duration.Milliseconds(),
	}
	if err := s.reports.MergeSections(ctx, job.ReportID, updates, outcome); err != nil {
		if _, failErr := s.jobs.Fail(ctx, job.ID, "persisting generated content failed"); failErr != nil {
			s.logger().ErrorContext(ctx, "marking job failed", "job_id", job.ID, "error", failErr)
		}
		return nil, fmt.Errorf("merge sections: %w", err)
	}
	if _, err := s.jobs.Complete(ctx, job.ID); err != nil {
		return nil, fmt.Errorf("complete job: %w", err)
	}

	s.logger().InfoContext(ctx, "direct generation complete",
		"job_id", job.ID, "feature", req.Feature, "model", result.Model,
		"input_tokens", result.InputTokens, "output_tokens", result.OutputTokens)
	return s.jobs.GetByID(ctx, job.ID)
}

// generateAllConcurrency bounds parallel model calls for a full-report
// generation so one request cannot saturate the API quota.
const generateAllConcurrency = 3

// GenerateAll runs direct generation for every feature of a report
// concurrently and returns the jobs in feature order. Fallback
// substitution happens inside Generate; the first feature that errors
// out cancels the remaining generations and fails the batch.
func (s *GenerateService) GenerateAll(ctx context.Context, reportID string, input json.RawMessage) ([]*model.GenerationJob, error) {
	if _, err := s.reports.EnsureExists(ctx, reportID); err != nil {
		return nil, fmt.Errorf("ensure report: %w", err)
	}

	jobs := make([]*model.GenerationJob, len(model.Features))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generateAllConcurrency)
	for i, feature := range model.Features {
		g.Go(func() error {
			job, err := s.Generate(gctx, reportID, &model.SubmitJobRequest{Feature: feature, Input: input})
			if err != nil {
				return fmt.Errorf("generate %s: %w", feature, err)
			}
			jobs[i] = job
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// applyFallback merges the feature's static dataset and completes the
// job. Returns false when the feature has no fallback, in which case
// the job is failed instead.
func (s *GenerateService) applyFallback(ctx context.Context, job *model.GenerationJob) bool {
	updates := s.parser.FallbackSections(job.Feature)
	if len(updates) == 0 {
		if _, err := s.jobs.Fail(ctx, job.ID, "generation failed and no fallback dataset exists"); err != nil {
			s.logger().ErrorContext(ctx, "marking job failed", "job_id", job.ID, "error", err)
		}
		return false
	}
	if err := s.reports.MergeSections(ctx, job.ReportID, updates, nil); err != nil {
		s.logger().ErrorContext(ctx, "merging fallback sections", "job_id", job.ID, "error", err)
		if _, failErr := s.jobs.Fail(ctx, job.ID, "persisting fallback content failed"); failErr != nil {
			s.logger().ErrorContext(ctx, "marking job failed", "job_id", job.ID, "error", failErr)
		}
		return false
	}
	if _, err := s.jobs.Complete(ctx, job.ID); err != nil {
		s.logger().ErrorContext(ctx, "completing job after fallback", "job_id", job.ID, "error", err)
	}
	return true
}

func (s *GenerateService) recordUsage(ctx context.Context, feature model.Feature, result *core.GenerationResult, genErr error) {
	if s.usage == nil {
		return
	}
	params := model.RecordUsageParams{
		Feature: feature,
		Success: genErr == nil,
	}
	if result != nil {
		params.Model = result.Model
		params.InputTokens = result.InputTokens
		params.OutputTokens = result.OutputTokens
		params.DurationMs = result.Duration.Milliseconds()
	} else {
		params.Model = modelpolicy.ForFeature(feature).Primary
	}
	if genErr != nil {
		msg := genErr.Error()
		params.ErrorMessage = &msg
	}
	s.usage.Record(ctx, params)
}
