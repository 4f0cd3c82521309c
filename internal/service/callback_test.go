package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/domain/model"
	apperrors "github.com/readykit/report-api/internal/errors"
	"github.com/readykit/report-api/internal/mocks"
	"github.com/readykit/report-api/internal/webhook"
)

const testWebhookSecret = "test-secret"

// contactsOutput is the markdown shape the engine emits for
// emergency_contacts: a section heading, then one block per item with
// bold field lines.
const contactsOutput = "## Emergency Contacts Analysis\n\n" +
	"### Portland Fire Station 4\n" +
	"**Phone**: 503-555-0100\n" +
	"**Category**: fire\n" +
	"**Priority**: 1\n" +
	"**Fit Score**: 95\n" +
	"**Reasoning**: Closest engine company to the address.\n"

type callbackHarness struct {
	svc       *CallbackService
	callbacks *mocks.MockCallbackRepository
	views     *mocks.MockCallbackViewRepository
	jobs      *mocks.MockJobRepository
	reports   *mocks.MockReportRepository
	metrics   *recordingSink
}

// recordingSink captures emitted counters keyed by metric name plus
// rendered tags.
type recordingSink struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int64)
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	key := name
	for _, k := range keys {
		key += "|" + k + ":" + tags[k]
	}
	r.counts[key] += value
}

func (r *recordingSink) Timing(string, time.Duration, map[string]string) {}

func (r *recordingSink) get(key string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}

func newCallbackHarness(t *testing.T, ctrl *gomock.Controller) *callbackHarness {
	t.Helper()
	h := &callbackHarness{
		callbacks: mocks.NewMockCallbackRepository(ctrl),
		views:     mocks.NewMockCallbackViewRepository(ctrl),
		jobs:      mocks.NewMockJobRepository(ctrl),
		reports:   mocks.NewMockReportRepository(ctrl),
		metrics:   &recordingSink{},
	}
	reportSvc := MustNewReportService(ReportServiceOptions{Reports: h.reports})
	h.svc = MustNewCallbackService(CallbackServiceOptions{
		Callbacks:     h.callbacks,
		Views:         h.views,
		Jobs:          h.jobs,
		Reports:       reportSvc,
		WebhookSecret: testWebhookSecret,
		Metrics:       h.metrics,
	})
	return h
}

func signedDelivery(t *testing.T, payload map[string]any) Delivery {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return Delivery{
		Body:            body,
		SignatureHeader: webhook.Sign(testWebhookSecret, body),
	}
}

func TestCallbackService_HandleDelivery_Completed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	d := signedDelivery(t, map[string]any{
		"callback_id":   "cb-1",
		"job_id":        "ext-1",
		"event":         "workflow_completed",
		"workflow_name": "generate_emergency_contacts",
		"output":        contactsOutput,
	})

	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.UpsertCallbackParams) (*model.Callback, error) {
			assert.Equal(t, "cb-1", params.ExternalCallbackID)
			require.NotNil(t, params.ExternalJobID)
			assert.Equal(t, "ext-1", *params.ExternalJobID)
			assert.True(t, params.SignatureValid)
			require.NotNil(t, params.SignatureHeader)
			assert.Equal(t, d.SignatureHeader, *params.SignatureHeader)
			require.NotNil(t, params.PayloadPreview)
			assert.Equal(t, webhook.Preview(d.Body, payloadPreviewLen), *params.PayloadPreview)
			return &model.Callback{ID: "row-1", ExternalCallbackID: "cb-1", SignatureValid: true}, nil
		})
	h.jobs.EXPECT().GetByExternalJobID(gomock.Any(), "ext-1").Return(&model.GenerationJob{
		ID:       "job-1",
		ReportID: "rep-1",
		Feature:  model.FeatureEmergencyContacts,
		Status:   model.JobStatusPending,
	}, nil)
	h.reports.EXPECT().EnsureExists(gomock.Any(), "rep-1").Return(&model.Report{ID: "rep-1"}, nil)
	h.reports.EXPECT().UpsertSection(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.UpsertSectionParams) (*model.ReportSection, error) {
			assert.Equal(t, model.SectionContacts, params.Section)
			assert.True(t, params.AIAnalysisUsed)
			var contacts []model.Contact
			require.NoError(t, json.Unmarshal(params.Payload, &contacts))
			require.Len(t, contacts, 1)
			assert.Equal(t, "Portland Fire Station 4", contacts[0].Name)
			assert.Equal(t, "503-555-0100", contacts[0].Phone)
			assert.Equal(t, 95, contacts[0].FitScore)
			return &model.ReportSection{ReportID: "rep-1", Section: params.Section, Version: 1}, nil
		})
	h.reports.EXPECT().RecordGeneration(gomock.Any(), "rep-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, outcome model.GenerationOutcome) error {
			// The engine never reports a model or token counts, only
			// raw output.
			assert.Equal(t, contactsOutput, outcome.Content)
			assert.Empty(t, outcome.Model)
			return nil
		})
	h.jobs.EXPECT().Complete(gomock.Any(), "job-1").Return(true, nil)

	require.NoError(t, h.svc.HandleDelivery(ctx, d))
	assert.EqualValues(t, 1,
		h.metrics.get("callbacks.received|event:workflow_completed|signature:valid"))
	assert.EqualValues(t, 1,
		h.metrics.get("jobs.completed|fallback:false|feature:emergency_contacts"))
}

func TestCallbackService_HandleDelivery_InvalidSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	body := []byte(`{"callback_id":"cb-2","job_id":"ext-2","event":"workflow_completed"}`)
	d := Delivery{Body: body, SignatureHeader: "sha256=" + strings.Repeat("00", 32)}

	// Stored for audit with signature_valid=false; the job is never
	// touched.
	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.UpsertCallbackParams) (*model.Callback, error) {
			assert.False(t, params.SignatureValid)
			return &model.Callback{ID: "row-2", SignatureValid: false}, nil
		})

	require.NoError(t, h.svc.HandleDelivery(ctx, d))
	assert.EqualValues(t, 1,
		h.metrics.get("callbacks.received|event:workflow_completed|signature:invalid"))
}

func TestCallbackService_HandleDelivery_MalformedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)

	// No parseable fields, but the delivery still lands in the audit
	// trail keyed on its body digest. The body is stored as a JSON
	// string so the jsonb column accepts it.
	body := []byte("not json")
	sum := sha256.Sum256(body)
	wantID := "sha256:" + hex.EncodeToString(sum[:])

	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.UpsertCallbackParams) (*model.Callback, error) {
			assert.Equal(t, wantID, params.ExternalCallbackID)
			assert.Equal(t, json.RawMessage(`"not json"`), params.RawPayload)
			require.NotNil(t, params.PayloadPreview)
			assert.Equal(t, "not json", *params.PayloadPreview)
			assert.True(t, params.SignatureValid)
			return &model.Callback{ID: "row-raw", ExternalCallbackID: wantID, SignatureValid: true}, nil
		})

	d := Delivery{Body: body, SignatureHeader: webhook.Sign(testWebhookSecret, body)}
	require.NoError(t, h.svc.HandleDelivery(context.Background(), d))
}

func TestCallbackService_HandleDelivery_MissingCallbackID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	d := signedDelivery(t, map[string]any{
		"job_id": "ext-3",
		"event":  "workflow_completed",
	})
	sum := sha256.Sum256(d.Body)
	wantID := "sha256:" + hex.EncodeToString(sum[:])

	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.UpsertCallbackParams) (*model.Callback, error) {
			assert.Equal(t, wantID, params.ExternalCallbackID)
			return &model.Callback{ID: "row-3", ExternalCallbackID: wantID, SignatureValid: true}, nil
		})
	h.jobs.EXPECT().GetByExternalJobID(gomock.Any(), "ext-3").Return(nil, apperrors.NotFound("job not found"))

	require.NoError(t, h.svc.HandleDelivery(ctx, d))
}

func TestCallbackService_HandleDelivery_DuplicateForTerminalJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	d := signedDelivery(t, map[string]any{
		"callback_id": "cb-4",
		"job_id":      "ext-4",
		"event":       "workflow_completed",
		"output":      contactsOutput,
	})

	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(
		&model.Callback{ID: "row-4", DeliveryCount: 2, SignatureValid: true}, nil)
	h.jobs.EXPECT().GetByExternalJobID(gomock.Any(), "ext-4").Return(&model.GenerationJob{
		ID:     "job-4",
		Status: model.JobStatusCompleted,
	}, nil)
	// No section writes, no transitions.

	require.NoError(t, h.svc.HandleDelivery(ctx, d))
}

func TestCallbackService_HandleDelivery_FailedWithFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	d := signedDelivery(t, map[string]any{
		"callback_id": "cb-5",
		"job_id":      "ext-5",
		"event":       "workflow_failed",
		"output":      "upstream model overloaded",
	})

	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(
		&model.Callback{ID: "row-5", SignatureValid: true}, nil)
	h.jobs.EXPECT().GetByExternalJobID(gomock.Any(), "ext-5").Return(&model.GenerationJob{
		ID:       "job-5",
		ReportID: "rep-5",
		Feature:  model.FeatureSupplyBundles,
		Status:   model.JobStatusPending,
	}, nil)
	h.reports.EXPECT().EnsureExists(gomock.Any(), "rep-5").Return(&model.Report{ID: "rep-5"}, nil)
	h.reports.EXPECT().UpsertSection(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.UpsertSectionParams) (*model.ReportSection, error) {
			assert.Equal(t, model.SectionSupplyBundles, params.Section)
			// Static stand-in content is never attributed to a model.
			assert.False(t, params.AIAnalysisUsed)
			return &model.ReportSection{ReportID: "rep-5", Section: params.Section, Version: 1}, nil
		})
	h.jobs.EXPECT().Complete(gomock.Any(), "job-5").Return(true, nil)

	require.NoError(t, h.svc.HandleDelivery(ctx, d))
}

func TestCallbackService_HandleDelivery_FailedNoFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	d := signedDelivery(t, map[string]any{
		"callback_id": "cb-6",
		"job_id":      "ext-6",
		"event":       "workflow_failed",
		"output":      "scoring model unavailable",
	})

	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(
		&model.Callback{ID: "row-6", SignatureValid: true}, nil)
	h.jobs.EXPECT().GetByExternalJobID(gomock.Any(), "ext-6").Return(&model.GenerationJob{
		ID:       "job-6",
		ReportID: "rep-6",
		Feature:  model.FeatureRiskIndicators,
		Status:   model.JobStatusPending,
	}, nil)
	h.jobs.EXPECT().Fail(gomock.Any(), "job-6", "scoring model unavailable").Return(true, nil)

	require.NoError(t, h.svc.HandleDelivery(ctx, d))
}

func TestCallbackService_HandleDelivery_AliasedFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	// Older engine builds ship camelCase keys and nest the result under
	// data; the payload normalizer resolves both.
	d := signedDelivery(t, map[string]any{
		"callbackId": "cb-7",
		"jobId":      "ext-7",
		"event_type": "workflow_failed",
		"data":       map[string]any{"error": "boom"},
	})

	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.UpsertCallbackParams) (*model.Callback, error) {
			assert.Equal(t, "cb-7", params.ExternalCallbackID)
			require.NotNil(t, params.EventType)
			assert.Equal(t, "workflow_failed", *params.EventType)
			return &model.Callback{ID: "row-7", SignatureValid: true}, nil
		})
	h.jobs.EXPECT().GetByExternalJobID(gomock.Any(), "ext-7").Return(&model.GenerationJob{
		ID:       "job-7",
		ReportID: "rep-7",
		Feature:  model.FeatureRiskIndicators,
		Status:   model.JobStatusPending,
	}, nil)
	h.jobs.EXPECT().Fail(gomock.Any(), "job-7", gomock.Any()).Return(true, nil)

	require.NoError(t, h.svc.HandleDelivery(ctx, d))
}

func TestCallbackService_HandleDelivery_UnknownEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	d := signedDelivery(t, map[string]any{
		"callback_id": "cb-8",
		"job_id":      "ext-8",
		"event":       "workflow_heartbeat",
	})

	h.callbacks.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(
		&model.Callback{ID: "row-8", SignatureValid: true}, nil)
	h.jobs.EXPECT().GetByExternalJobID(gomock.Any(), "ext-8").Return(&model.GenerationJob{
		ID:     "job-8",
		Status: model.JobStatusPending,
	}, nil)

	require.NoError(t, h.svc.HandleDelivery(ctx, d))
}

func TestCallbackService_Admin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newCallbackHarness(t, ctrl)
	ctx := context.Background()

	t.Run("mark viewed checks existence", func(t *testing.T) {
		h.callbacks.EXPECT().GetByID(gomock.Any(), "row-1").Return(&model.Callback{ID: "row-1"}, nil)
		h.views.EXPECT().MarkViewed(gomock.Any(), "row-1", "admin-1").Return(nil)
		require.NoError(t, h.svc.MarkViewed(ctx, "row-1", "admin-1"))
	})

	t.Run("mark viewed unknown callback", func(t *testing.T) {
		h.callbacks.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, apperrors.NotFound("callback not found"))
		err := h.svc.MarkViewed(ctx, "missing", "admin-1")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("mark viewed requires admin", func(t *testing.T) {
		err := h.svc.MarkViewed(ctx, "row-1", "")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unviewed count", func(t *testing.T) {
		h.views.EXPECT().UnviewedCount(gomock.Any(), "admin-1").Return(3, nil)
		n, err := h.svc.UnviewedCount(ctx, "admin-1")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("delete missing", func(t *testing.T) {
		h.callbacks.EXPECT().Delete(gomock.Any(), "missing").Return(false, nil)
		err := h.svc.Delete(ctx, "missing")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("list passes filters through", func(t *testing.T) {
		valid := true
		opts := model.CallbackListOptions{Limit: 10, SignatureValid: &valid}
		h.callbacks.EXPECT().List(gomock.Any(), opts).Return(&model.CallbackListPage{}, nil)
		_, err := h.svc.List(ctx, opts)
		require.NoError(t, err)
	})
}
