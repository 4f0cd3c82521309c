package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/domain/model"
	"github.com/readykit/report-api/internal/domain/parse"
	apperrors "github.com/readykit/report-api/internal/errors"
	"github.com/readykit/report-api/internal/observability/statsd"
	"github.com/readykit/report-api/internal/webhook"
)

// CallbackServiceOptions groups dependencies for CallbackService.
type CallbackServiceOptions struct {
	Callbacks     core.CallbackRepository // Required
	Views         core.CallbackViewRepository
	Jobs          core.JobRepository // Required
	Reports       *ReportService     // Required
	Parser        *parse.Parser      // Optional: defaults to a fresh parser
	WebhookSecret string             // Required: HMAC key for delivery signatures
	Metrics       statsd.Sink        // Optional
	Logger        *slog.Logger       // Optional
}

// CallbackService ingests engine deliveries and drives job completion.
// Every delivery is persisted for audit, valid signature or not; only
// valid ones may mutate job or report state. Nothing past signature
// verification ever errors back to the engine, which retries
// aggressively on non-2xx.
type CallbackService struct {
	callbacks core.CallbackRepository
	views     core.CallbackViewRepository
	jobs      core.JobRepository
	reports   *ReportService
	parser    *parse.Parser
	secret    string
	metrics   statsd.Sink
	log       *slog.Logger
}

// NewCallbackService constructs a new CallbackService.
func NewCallbackService(opts CallbackServiceOptions) (*CallbackService, error) {
	if opts.Callbacks == nil {
		return nil, errors.New("CallbackRepository is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Reports == nil {
		return nil, errors.New("ReportService is required")
	}
	if opts.WebhookSecret == "" {
		return nil, errors.New("WebhookSecret is required")
	}
	parser := opts.Parser
	if parser == nil {
		parser = parse.NewParser(opts.Logger)
	}
	return &CallbackService{
		callbacks: opts.Callbacks,
		views:     opts.Views,
		jobs:      opts.Jobs,
		reports:   opts.Reports,
		parser:    parser,
		secret:    opts.WebhookSecret,
		metrics:   opts.Metrics,
		log:       opts.Logger,
	}, nil
}

// MustNewCallbackService constructs a new CallbackService and panics on error.
func MustNewCallbackService(opts CallbackServiceOptions) *CallbackService {
	svc, err := NewCallbackService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create CallbackService: %v", err))
	}
	return svc
}

func (s *CallbackService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Delivery carries one raw webhook delivery.
type Delivery struct {
	Body            []byte
	SignatureHeader string
}

// payloadPreviewLen caps the stored payload preview so the audit list
// stays readable without loading raw_payload.
const payloadPreviewLen = 256

// HandleDelivery records a delivery and, when the signature verifies,
// processes it. The returned error is only ever a storage failure; all
// domain-level problems degrade to log lines.
func (s *CallbackService) HandleDelivery(ctx context.Context, d Delivery) error {
	sigValid := webhook.Verify(s.secret, d.Body, d.SignatureHeader)

	rawPayload := json.RawMessage(d.Body)
	payload, err := webhook.ParsePayload(d.Body)
	if err != nil {
		// Undecodable bodies still get an audit row, keyed on the body
		// digest like any other keyless delivery. The body is stored as
		// a JSON string since the raw_payload column holds jsonb.
		s.logger().WarnContext(ctx, "undecodable callback body, retained for audit only",
			"error", err, "preview", webhook.Preview(d.Body, payloadPreviewLen))
		payload = &webhook.Payload{}
		rawPayload, _ = json.Marshal(string(d.Body))
	}

	externalID := payload.CallbackID
	if externalID == "" {
		// Keyless deliveries still get an audit row; identical retries
		// collapse onto the body digest.
		sum := sha256.Sum256(d.Body)
		externalID = "sha256:" + hex.EncodeToString(sum[:])
		s.logger().WarnContext(ctx, "callback without callback_id, using body digest",
			"external_callback_id", externalID)
	}

	cb, err := s.callbacks.Upsert(ctx, model.UpsertCallbackParams{
		ExternalCallbackID: externalID,
		ExternalJobID:      nilIfEmpty(payload.JobID),
		WorkflowName:       nilIfEmpty(payload.WorkflowName),
		EventType:          nilIfEmpty(payload.Event),
		RawPayload:         rawPayload,
		PayloadPreview:     nilIfEmpty(webhook.Preview(d.Body, payloadPreviewLen)),
		SignatureValid:     sigValid,
		SignatureHeader:    nilIfEmpty(d.SignatureHeader),
	})
	if err != nil {
		return fmt.Errorf("record callback: %w", err)
	}
	s.count("callbacks.received", map[string]string{
		"signature": signatureTag(sigValid),
		"event":     firstNonEmpty(payload.Event, "unknown"),
	})

	if !sigValid {
		s.logger().WarnContext(ctx, "invalid callback signature, retained without processing",
			"callback_id", cb.ID, "external_callback_id", externalID)
		return nil
	}

	s.process(ctx, cb, payload)
	return nil
}

// process applies a verified callback to its job. Redelivered events
// hit the terminal-state guard and become no-ops.
func (s *CallbackService) process(ctx context.Context, cb *model.Callback, payload *webhook.Payload) {
	log := s.logger().With("callback_id", cb.ID, "external_job_id", payload.JobID)

	if payload.JobID == "" || payload.Event == "" {
		log.WarnContext(ctx, "callback missing required fields, processing skipped",
			"have_job_id", payload.JobID != "", "have_event", payload.Event != "",
			"have_workflow", payload.WorkflowName != "")
		return
	}

	job, err := s.jobs.GetByExternalJobID(ctx, payload.JobID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.WarnContext(ctx, "callback for unknown job")
		} else {
			log.ErrorContext(ctx, "looking up job for callback", "error", err)
		}
		return
	}
	if job.Status.Terminal() {
		log.InfoContext(ctx, "duplicate callback for terminal job", "job_id", job.ID)
		return
	}

	switch payload.Event {
	case string(model.EventWorkflowCompleted):
		s.completeJob(ctx, log, job, payload.Output)
	case string(model.EventWorkflowFailed):
		s.failJob(ctx, log, job, payload.Output)
	default:
		log.WarnContext(ctx, "unknown callback event type", "event", payload.Event)
	}
}

func (s *CallbackService) completeJob(ctx context.Context, log *slog.Logger, job *model.GenerationJob, output string) {
	res := s.parser.Parse(job.Feature, output)
	parse.EnrichContacts(res.Contacts, lookupEntries(job.SanitizedRequest))

	outcome := &model.GenerationOutcome{Content: output}
	updates, err := s.parser.BuildSections(job.Feature, res)
	if err != nil {
		log.ErrorContext(ctx, "building sections", "job_id", job.ID, "error", err)
		updates = s.parser.FallbackSections(job.Feature)
		outcome = nil
	}

	if len(updates) == 0 {
		// No parsed content and no fallback dataset: the job fails
		// rather than completing with nothing to show.
		s.markFailed(ctx, log, job.ID, "no usable content in engine output")
		return
	}

	if err := s.reports.MergeSections(ctx, job.ReportID, updates, outcome); err != nil {
		log.ErrorContext(ctx, "merging sections", "job_id", job.ID, "error", err)
		s.markFailed(ctx, log, job.ID, "persisting parsed content failed")
		return
	}

	transitioned, err := s.jobs.Complete(ctx, job.ID)
	if err != nil {
		log.ErrorContext(ctx, "completing job", "job_id", job.ID, "error", err)
		return
	}
	if !transitioned {
		log.InfoContext(ctx, "job already terminal during completion", "job_id", job.ID)
		return
	}
	s.count("jobs.completed", map[string]string{"feature": job.Feature.String(), "fallback": "false"})
	log.InfoContext(ctx, "job completed", "job_id", job.ID, "sections", len(updates))
}

// failJob substitutes fallback content where a dataset exists so the
// user still gets a working section; the job only surfaces as failed
// when nothing can stand in.
func (s *CallbackService) failJob(ctx context.Context, log *slog.Logger, job *model.GenerationJob, errOutput string) {
	updates := s.parser.FallbackSections(job.Feature)
	if len(updates) == 0 {
		s.markFailed(ctx, log, job.ID, firstNonEmpty(errOutput, "engine reported workflow failure"))
		return
	}

	if err := s.reports.MergeSections(ctx, job.ReportID, updates, nil); err != nil {
		log.ErrorContext(ctx, "merging fallback sections", "job_id", job.ID, "error", err)
		s.markFailed(ctx, log, job.ID, "persisting fallback content failed")
		return
	}
	if _, err := s.jobs.Complete(ctx, job.ID); err != nil {
		log.ErrorContext(ctx, "completing job after fallback", "job_id", job.ID, "error", err)
		return
	}
	s.count("jobs.completed", map[string]string{"feature": job.Feature.String(), "fallback": "true"})
	log.InfoContext(ctx, "job completed with fallback content",
		"job_id", job.ID, "engine_error", errOutput)
}

func (s *CallbackService) markFailed(ctx context.Context, log *slog.Logger, jobID, msg string) {
	if _, err := s.jobs.Fail(ctx, jobID, msg); err != nil {
		log.ErrorContext(ctx, "marking job failed", "job_id", jobID, "error", err)
		return
	}
	s.count("jobs.failed", nil)
	log.InfoContext(ctx, "job failed", "job_id", jobID, "reason", msg)
}

func (s *CallbackService) count(name string, tags map[string]string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count(name, 1, tags)
}

func signatureTag(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}

// lookupEntries extracts the prior structured lookup carried on the
// job request, if any.
func lookupEntries(sanitized json.RawMessage) []parse.LookupEntry {
	if len(sanitized) == 0 {
		return nil
	}
	var req struct {
		Lookup []parse.LookupEntry `json:"lookup"`
	}
	if err := json.Unmarshal(sanitized, &req); err != nil {
		return nil
	}
	return req.Lookup
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
