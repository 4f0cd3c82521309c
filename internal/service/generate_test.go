package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/domain/model"
	"github.com/readykit/report-api/internal/mocks"
)

type generateHarness struct {
	svc       *GenerateService
	jobs      *mocks.MockJobRepository
	reports   *mocks.MockReportRepository
	generator *mocks.MockContentGenerator
	usage     *mocks.MockUsageRepository
}

func newGenerateHarness(t *testing.T, ctrl *gomock.Controller) *generateHarness {
	t.Helper()
	h := &generateHarness{
		jobs:      mocks.NewMockJobRepository(ctrl),
		reports:   mocks.NewMockReportRepository(ctrl),
		generator: mocks.NewMockContentGenerator(ctrl),
		usage:     mocks.NewMockUsageRepository(ctrl),
	}
	reportSvc := MustNewReportService(ReportServiceOptions{Reports: h.reports})
	usageSvc := MustNewUsageService(UsageServiceOptions{Usage: h.usage})
	h.svc = MustNewGenerateService(GenerateServiceOptions{
		Jobs:      h.jobs,
		Reports:   reportSvc,
		Generator: h.generator,
		Usage:     usageSvc,
	})
	return h
}

func TestGenerateService_Generate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newGenerateHarness(t, ctrl)
	ctx := context.Background()

	req := &model.SubmitJobRequest{Feature: model.FeatureEmergencyContacts}
	created := &model.GenerationJob{
		ID:       "job-1",
		ReportID: "rep-1",
		Feature:  model.FeatureEmergencyContacts,
		Status:   model.JobStatusPending,
	}

	h.reports.EXPECT().EnsureExists(gomock.Any(), "rep-1").Return(&model.Report{ID: "rep-1"}, nil).Times(2)
	h.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(created, nil)
	h.generator.EXPECT().Generate(gomock.Any(), model.FeatureEmergencyContacts, gomock.Any()).Return(&core.GenerationResult{
		Content:      contactsOutput,
		Model:        "claude-sonnet-4-5-20250929",
		InputTokens:  1200,
		OutputTokens: 800,
		Duration:     3 * time.Second,
	}, nil)
	h.usage.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *model.ModelUsageRecord) error {
			assert.Equal(t, "claude-sonnet-4-5-20250929", rec.Model)
			assert.True(t, rec.Success)
			assert.Equal(t, 1200, rec.InputTokens)
			assert.Greater(t, rec.EstimatedCostUSD, 0.0)
			return nil
		})
	h.reports.EXPECT().UpsertSection(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.UpsertSectionParams) (*model.ReportSection, error) {
			assert.Equal(t, model.SectionContacts, params.Section)
			assert.True(t, params.AIAnalysisUsed)
			require.NotNil(t, params.Model)
			assert.Equal(t, "claude-sonnet-4-5-20250929", *params.Model)
			return &model.ReportSection{ReportID: "rep-1", Section: params.Section, Version: 1}, nil
		})
	h.reports.EXPECT().RecordGeneration(gomock.Any(), "rep-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, outcome model.GenerationOutcome) error {
			assert.Equal(t, contactsOutput, outcome.Content)
			assert.Equal(t, "claude-sonnet-4-5-20250929", outcome.Model)
			assert.Equal(t, 2000, outcome.Tokens)
			assert.Equal(t, int64(3000), outcome.DurationMs)
			return nil
		})
	h.jobs.EXPECT().Complete(gomock.Any(), "job-1").Return(true, nil)
	h.jobs.EXPECT().GetByID(gomock.Any(), "job-1").Return(&model.GenerationJob{
		ID:     "job-1",
		Status: model.JobStatusCompleted,
	}, nil)

	job, err := h.svc.Generate(ctx, "rep-1", req)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
}

func TestGenerateService_Generate_FallbackOnModelError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newGenerateHarness(t, ctrl)
	ctx := context.Background()

	req := &model.SubmitJobRequest{Feature: model.FeatureSkills}
	created := &model.GenerationJob{ID: "job-2", ReportID: "rep-1", Feature: model.FeatureSkills}

	h.reports.EXPECT().EnsureExists(gomock.Any(), "rep-1").Return(&model.Report{ID: "rep-1"}, nil).Times(2)
	h.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(created, nil)
	h.generator.EXPECT().Generate(gomock.Any(), model.FeatureSkills, gomock.Any()).Return(nil, errors.New("overloaded"))
	h.usage.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec *model.ModelUsageRecord) error {
			assert.False(t, rec.Success)
			// With no result the row is attributed to the policy's
			// primary model so spend queries stay grouped.
			assert.NotEmpty(t, rec.Model)
			require.NotNil(t, rec.ErrorMessage)
			assert.Contains(t, *rec.ErrorMessage, "overloaded")
			return nil
		})
	h.reports.EXPECT().UpsertSection(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.UpsertSectionParams) (*model.ReportSection, error) {
			assert.Equal(t, model.SectionSkills, params.Section)
			assert.False(t, params.AIAnalysisUsed)
			return &model.ReportSection{ReportID: "rep-1", Section: params.Section, Version: 1}, nil
		})
	h.jobs.EXPECT().Complete(gomock.Any(), "job-2").Return(true, nil)
	h.jobs.EXPECT().GetByID(gomock.Any(), "job-2").Return(&model.GenerationJob{
		ID:     "job-2",
		Status: model.JobStatusCompleted,
	}, nil)

	job, err := h.svc.Generate(ctx, "rep-1", req)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
}

func TestGenerateService_Generate_NoFallbackFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newGenerateHarness(t, ctrl)
	ctx := context.Background()

	req := &model.SubmitJobRequest{Feature: model.FeatureRiskIndicators}
	created := &model.GenerationJob{ID: "job-3", ReportID: "rep-1", Feature: model.FeatureRiskIndicators}

	h.reports.EXPECT().EnsureExists(gomock.Any(), "rep-1").Return(&model.Report{ID: "rep-1"}, nil)
	h.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(created, nil)
	h.generator.EXPECT().Generate(gomock.Any(), model.FeatureRiskIndicators, gomock.Any()).Return(nil, errors.New("overloaded"))
	h.usage.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	h.jobs.EXPECT().Fail(gomock.Any(), "job-3", gomock.Any()).Return(true, nil)

	job, err := h.svc.Generate(ctx, "rep-1", req)
	require.Error(t, err)
	assert.Nil(t, job)
}

func TestGenerateService_GenerateAll_AbortsWhenFeatureFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newGenerateHarness(t, ctrl)
	ctx := context.Background()

	// Every model call fails. Fallback-backed features still complete,
	// but risk indicators have no dataset, so that feature errors and
	// takes the batch down with it.
	h.reports.EXPECT().EnsureExists(gomock.Any(), "rep-1").Return(&model.Report{ID: "rep-1"}, nil).AnyTimes()
	h.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.CreateJobParams) (*model.GenerationJob, error) {
			return &model.GenerationJob{
				ID:       "job-" + params.Feature.String(),
				ReportID: params.ReportID,
				Feature:  params.Feature,
				Status:   model.JobStatusPending,
			}, nil
		}).AnyTimes()
	h.generator.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("overloaded")).AnyTimes()
	h.usage.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.reports.EXPECT().UpsertSection(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.UpsertSectionParams) (*model.ReportSection, error) {
			assert.False(t, params.AIAnalysisUsed)
			return &model.ReportSection{ReportID: "rep-1", Section: params.Section, Version: 1}, nil
		}).AnyTimes()
	h.jobs.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	h.jobs.EXPECT().Fail(gomock.Any(), "job-risk_indicators", gomock.Any()).Return(true, nil)
	h.jobs.EXPECT().GetByID(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id string) (*model.GenerationJob, error) {
			return &model.GenerationJob{ID: id, Status: model.JobStatusCompleted}, nil
		}).AnyTimes()

	jobs, err := h.svc.GenerateAll(ctx, "rep-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk_indicators")
	assert.Nil(t, jobs)
}

func TestGenerateService_GenerateAll_EnsureReportFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newGenerateHarness(t, ctrl)

	h.reports.EXPECT().EnsureExists(gomock.Any(), "rep-1").Return(nil, errors.New("db down"))

	jobs, err := h.svc.GenerateAll(context.Background(), "rep-1", nil)
	require.Error(t, err)
	assert.Nil(t, jobs)
}

func TestGenerateService_Generate_UnusableOutputFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newGenerateHarness(t, ctrl)
	ctx := context.Background()

	req := &model.SubmitJobRequest{Feature: model.FeatureSimulationDays}
	created := &model.GenerationJob{ID: "job-4", ReportID: "rep-1", Feature: model.FeatureSimulationDays}

	h.reports.EXPECT().EnsureExists(gomock.Any(), "rep-1").Return(&model.Report{ID: "rep-1"}, nil).Times(2)
	h.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(created, nil)
	h.generator.EXPECT().Generate(gomock.Any(), model.FeatureSimulationDays, gomock.Any()).Return(&core.GenerationResult{
		Content: "I can't help with that request.",
		Model:   "claude-haiku-4-5-20251001",
	}, nil)
	h.usage.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	h.reports.EXPECT().UpsertSection(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.UpsertSectionParams) (*model.ReportSection, error) {
			assert.Equal(t, model.SectionSimulationDays, params.Section)
			assert.False(t, params.AIAnalysisUsed)
			return &model.ReportSection{ReportID: "rep-1", Section: params.Section, Version: 1}, nil
		})
	h.jobs.EXPECT().Complete(gomock.Any(), "job-4").Return(true, nil)
	h.jobs.EXPECT().GetByID(gomock.Any(), "job-4").Return(&model.GenerationJob{
		ID:     "job-4",
		Status: model.JobStatusCompleted,
	}, nil)

	job, err := h.svc.Generate(ctx, "rep-1", req)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
}
