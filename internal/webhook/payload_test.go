package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload_CanonicalFields(t *testing.T) {
	body := []byte(`{
		"callback_id": "cb-1",
		"job_id": "job-1",
		"event": "workflow_completed",
		"workflow_name": "generate_skills",
		"output": "## Skills"
	}`)

	p, err := ParsePayload(body)
	require.NoError(t, err)
	assert.Equal(t, "cb-1", p.CallbackID)
	assert.Equal(t, "job-1", p.JobID)
	assert.Equal(t, "workflow_completed", p.Event)
	assert.Equal(t, "generate_skills", p.WorkflowName)
	assert.Equal(t, "## Skills", p.Output)
}

func TestParsePayload_AliasSpellings(t *testing.T) {
	body := []byte(`{
		"id": "cb-2",
		"jobId": "job-2",
		"type": "workflow_failed",
		"workflow": "generate_supply_bundles",
		"result": "engine timeout"
	}`)

	p, err := ParsePayload(body)
	require.NoError(t, err)
	assert.Equal(t, "cb-2", p.CallbackID)
	assert.Equal(t, "job-2", p.JobID)
	assert.Equal(t, "workflow_failed", p.Event)
	assert.Equal(t, "generate_supply_bundles", p.WorkflowName)
	assert.Equal(t, "engine timeout", p.Output)
}

func TestParsePayload_NestedDataEnvelope(t *testing.T) {
	body := []byte(`{
		"callback_id": "cb-3",
		"data": {
			"job_id": "job-3",
			"workflow_name": "generate_risk_indicators",
			"output": "## Risk"
		},
		"event": "workflow_completed"
	}`)

	p, err := ParsePayload(body)
	require.NoError(t, err)
	assert.Equal(t, "job-3", p.JobID)
	assert.Equal(t, "generate_risk_indicators", p.WorkflowName)
	assert.Equal(t, "## Risk", p.Output)
}

func TestParsePayload_AliasOrderPrefersCanonical(t *testing.T) {
	body := []byte(`{"event": "workflow_completed", "type": "legacy"}`)

	p, err := ParsePayload(body)
	require.NoError(t, err)
	assert.Equal(t, "workflow_completed", p.Event)
}

func TestParsePayload_MissingFieldsAreEmptyNotErrors(t *testing.T) {
	p, err := ParsePayload([]byte(`{"unrelated": true}`))
	require.NoError(t, err)
	assert.Empty(t, p.CallbackID)
	assert.Empty(t, p.JobID)
	assert.Empty(t, p.Event)
}

func TestParsePayload_NonStringValuesIgnored(t *testing.T) {
	p, err := ParsePayload([]byte(`{"job_id": 42, "jobId": "job-4"}`))
	require.NoError(t, err)
	assert.Equal(t, "job-4", p.JobID)
}

func TestParsePayload_Malformed(t *testing.T) {
	_, err := ParsePayload([]byte(`{"job_id":`))
	assert.Error(t, err)

	_, err = ParsePayload([]byte(`[1,2,3]`))
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview([]byte("abc"), 10))
	assert.Equal(t, "abcde", Preview([]byte("abcdefgh"), 5))
}
