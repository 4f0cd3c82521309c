package testutil

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/domain/model"
)

// JobParamsBuilder provides a fluent interface for building CreateJobParams for testing.
type JobParamsBuilder struct {
	params core.CreateJobParams
}

// NewJobParams creates a new JobParamsBuilder with sensible defaults.
func NewJobParams() *JobParamsBuilder {
	return &JobParamsBuilder{
		params: core.CreateJobParams{
			ReportID:         uuid.NewString(),
			Feature:          model.FeatureEmergencyContacts,
			SanitizedRequest: []byte(`{"city":"Portland","household_size":3}`),
		},
	}
}

// WithReportID sets the parent report id.
func (b *JobParamsBuilder) WithReportID(id string) *JobParamsBuilder {
	b.params.ReportID = id
	return b
}

// WithFeature sets the feature being generated.
func (b *JobParamsBuilder) WithFeature(feature model.Feature) *JobParamsBuilder {
	b.params.Feature = feature
	return b
}

// WithSanitizedRequest sets the sanitized request payload.
func (b *JobParamsBuilder) WithSanitizedRequest(payload string) *JobParamsBuilder {
	b.params.SanitizedRequest = []byte(payload)
	return b
}

// Build returns the constructed CreateJobParams.
func (b *JobParamsBuilder) Build() core.CreateJobParams {
	return b.params
}

// CallbackParamsBuilder provides a fluent interface for building UpsertCallbackParams for testing.
type CallbackParamsBuilder struct {
	params model.UpsertCallbackParams
}

// NewCallbackParams creates a new CallbackParamsBuilder with sensible defaults.
func NewCallbackParams() *CallbackParamsBuilder {
	return &CallbackParamsBuilder{
		params: model.UpsertCallbackParams{
			ExternalCallbackID: uuid.NewString(),
			RawPayload:         json.RawMessage(`{"event":"workflow_completed"}`),
			SignatureValid:     true,
		},
	}
}

// WithExternalCallbackID sets the engine's callback id.
func (b *CallbackParamsBuilder) WithExternalCallbackID(id string) *CallbackParamsBuilder {
	b.params.ExternalCallbackID = id
	return b
}

// WithExternalJobID sets the engine's job id.
func (b *CallbackParamsBuilder) WithExternalJobID(id string) *CallbackParamsBuilder {
	b.params.ExternalJobID = &id
	return b
}

// WithWorkflowName sets the workflow name.
func (b *CallbackParamsBuilder) WithWorkflowName(name string) *CallbackParamsBuilder {
	b.params.WorkflowName = &name
	return b
}

// WithEventType sets the delivery event type.
func (b *CallbackParamsBuilder) WithEventType(event string) *CallbackParamsBuilder {
	b.params.EventType = &event
	return b
}

// WithRawPayload sets the raw delivery body.
func (b *CallbackParamsBuilder) WithRawPayload(payload string) *CallbackParamsBuilder {
	b.params.RawPayload = json.RawMessage(payload)
	return b
}

// WithSignatureValid sets the signature verification outcome.
func (b *CallbackParamsBuilder) WithSignatureValid(valid bool) *CallbackParamsBuilder {
	b.params.SignatureValid = valid
	return b
}

// WithPayloadPreview sets the stored body preview.
func (b *CallbackParamsBuilder) WithPayloadPreview(preview string) *CallbackParamsBuilder {
	b.params.PayloadPreview = &preview
	return b
}

// WithSignatureHeader sets the raw signature header as delivered.
func (b *CallbackParamsBuilder) WithSignatureHeader(header string) *CallbackParamsBuilder {
	b.params.SignatureHeader = &header
	return b
}

// Build returns the constructed UpsertCallbackParams.
func (b *CallbackParamsBuilder) Build() model.UpsertCallbackParams {
	return b.params
}

// SectionParamsBuilder provides a fluent interface for building UpsertSectionParams for testing.
type SectionParamsBuilder struct {
	params core.UpsertSectionParams
}

// NewSectionParams creates a new SectionParamsBuilder with sensible defaults.
func NewSectionParams(reportID string) *SectionParamsBuilder {
	return &SectionParamsBuilder{
		params: core.UpsertSectionParams{
			ReportID:       reportID,
			Section:        model.SectionContacts,
			Payload:        []byte(`{"contacts":[]}`),
			AIAnalysisUsed: true,
		},
	}
}

// WithSection sets the report section.
func (b *SectionParamsBuilder) WithSection(section model.Section) *SectionParamsBuilder {
	b.params.Section = section
	return b
}

// WithPayload sets the section payload.
func (b *SectionParamsBuilder) WithPayload(payload string) *SectionParamsBuilder {
	b.params.Payload = []byte(payload)
	return b
}

// WithAIAnalysisUsed marks whether model output or static fallback data produced the payload.
func (b *SectionParamsBuilder) WithAIAnalysisUsed(used bool) *SectionParamsBuilder {
	b.params.AIAnalysisUsed = used
	return b
}

// WithModel records the model that produced the payload.
func (b *SectionParamsBuilder) WithModel(name string) *SectionParamsBuilder {
	b.params.Model = &name
	return b
}

// Build returns the constructed UpsertSectionParams.
func (b *SectionParamsBuilder) Build() core.UpsertSectionParams {
	return b.params
}
