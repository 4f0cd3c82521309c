package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeature_Valid(t *testing.T) {
	for _, f := range Features {
		assert.True(t, f.Valid(), "feature %q", f)
	}
	assert.False(t, Feature("unknown").Valid())
	assert.False(t, Feature("").Valid())
}

func TestFeature_UnmarshalText(t *testing.T) {
	var f Feature
	err := f.UnmarshalText([]byte("supply_bundles"))
	require.NoError(t, err)
	assert.Equal(t, FeatureSupplyBundles, f)

	err = f.UnmarshalText([]byte("bogus"))
	require.Error(t, err)
}

func TestFeature_Sections(t *testing.T) {
	assert.Equal(t,
		[]Section{SectionContacts, SectionMeetingLocations},
		FeatureEmergencyContacts.Sections())
	assert.Equal(t, []Section{SectionRiskIndicators}, FeatureRiskIndicators.Sections())
	assert.Nil(t, Feature("unknown").Sections())
}

func TestFeatureForWorkflow(t *testing.T) {
	tests := []struct {
		workflow string
		want     Feature
		ok       bool
	}{
		{"generate_emergency_contacts", FeatureEmergencyContacts, true},
		{"generate_risk_indicators", FeatureRiskIndicators, true},
		{"generate_unknown", "", false},
		{"emergency_contacts", "", false},
		{"generate_", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.workflow, func(t *testing.T) {
			got, ok := FeatureForWorkflow(tt.workflow)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJobStatus_Terminal(t *testing.T) {
	assert.False(t, JobStatusPending.Terminal())
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
}

func TestJobStatus_UnmarshalText(t *testing.T) {
	var s JobStatus
	require.NoError(t, s.UnmarshalText([]byte("completed")))
	assert.Equal(t, JobStatusCompleted, s)
	require.Error(t, s.UnmarshalText([]byte("running")))
}

func TestSubmitJobRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		req         SubmitJobRequest
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid with input",
			req: SubmitJobRequest{
				Feature: FeatureSkills,
				Input:   json.RawMessage(`{"zip":"97201"}`),
			},
		},
		{
			name: "valid without input",
			req:  SubmitJobRequest{Feature: FeatureSimulationDays},
		},
		{
			name:        "missing feature",
			req:         SubmitJobRequest{},
			expectError: true,
			errorMsg:    "feature is required",
		},
		{
			name:        "unknown feature",
			req:         SubmitJobRequest{Feature: "weather"},
			expectError: true,
			errorMsg:    "invalid feature",
		},
		{
			name: "malformed input JSON",
			req: SubmitJobRequest{
				Feature: FeatureSkills,
				Input:   json.RawMessage(`{"zip":`),
			},
			expectError: true,
			errorMsg:    "valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
