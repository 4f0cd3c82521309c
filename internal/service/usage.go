package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/cost"
	"github.com/readykit/report-api/internal/domain/model"
)

// UsageServiceOptions groups dependencies for UsageService.
type UsageServiceOptions struct {
	Usage      core.UsageRepository // Required
	Calculator *cost.Calculator     // Optional: defaults to the built-in price table
	Logger     *slog.Logger         // Optional
}

// UsageService appends model usage accounting rows. Recording is
// fire-and-forget: failures are logged and swallowed so accounting can
// never break the primary flow.
type UsageService struct {
	usage core.UsageRepository
	calc  *cost.Calculator
	log   *slog.Logger
}

// NewUsageService constructs a new UsageService.
func NewUsageService(opts UsageServiceOptions) (*UsageService, error) {
	if opts.Usage == nil {
		return nil, errors.New("UsageRepository is required")
	}
	calc := opts.Calculator
	if calc == nil {
		calc = cost.NewCalculator(cost.DefaultRates())
	}
	return &UsageService{usage: opts.Usage, calc: calc, log: opts.Logger}, nil
}

// MustNewUsageService constructs a new UsageService and panics on error.
func MustNewUsageService(opts UsageServiceOptions) *UsageService {
	svc, err := NewUsageService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create UsageService: %v", err))
	}
	return svc
}

func (s *UsageService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Record computes the cost for one invocation and appends the row.
func (s *UsageService) Record(ctx context.Context, params model.RecordUsageParams) {
	estimated, known := s.calc.Estimate(params.Model, params.InputTokens, params.OutputTokens)
	if !known {
		s.logger().WarnContext(ctx, "no pricing for model, recording zero cost",
			"model", params.Model, "feature", params.Feature)
	}

	rec := &model.ModelUsageRecord{
		Feature:          params.Feature,
		Model:            params.Model,
		InputTokens:      params.InputTokens,
		OutputTokens:     params.OutputTokens,
		DurationMs:       params.DurationMs,
		Success:          params.Success,
		ErrorMessage:     params.ErrorMessage,
		EstimatedCostUSD: estimated,
	}
	if err := s.usage.Record(ctx, rec); err != nil {
		s.logger().ErrorContext(ctx, "recording model usage",
			"model", params.Model, "feature", params.Feature, "error", err)
	}
}

// ListByFeature returns recent usage rows for a feature.
func (s *UsageService) ListByFeature(ctx context.Context, feature model.Feature, limit int) ([]*model.ModelUsageRecord, error) {
	return s.usage.ListByFeature(ctx, feature, limit)
}
