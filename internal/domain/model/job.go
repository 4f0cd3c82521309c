package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// JobStatus represents the lifecycle state of a generation job.
type JobStatus string

const (
	// JobStatusPending means the job was submitted to the engine and no
	// terminal callback has arrived yet.
	JobStatusPending JobStatus = "pending"
	// JobStatusCompleted means a success callback was processed.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed means a failure callback arrived, the engine
	// rejected the submission, or the reconciler expired the job.
	JobStatusFailed JobStatus = "failed"
)

// Valid reports whether the status is a known value.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// UnmarshalText implements encoding.TextUnmarshaler with validation.
func (s *JobStatus) UnmarshalText(text []byte) error {
	v := JobStatus(text)
	if !v.Valid() {
		return fmt.Errorf("invalid job status: %q", text)
	}
	*s = v
	return nil
}

// String implements fmt.Stringer.
func (s JobStatus) String() string { return string(s) }

// GenerationJob tracks one asynchronous content generation request
// submitted to the engine on behalf of a report.
type GenerationJob struct {
	ID               string          `json:"id" db:"id"`
	ReportID         string          `json:"report_id" db:"report_id"`
	Feature          Feature         `json:"feature" db:"feature"`
	Status           JobStatus       `json:"status" db:"status"`
	ExternalJobID    *string         `json:"external_job_id,omitempty" db:"external_job_id"`
	SanitizedRequest json.RawMessage `json:"sanitized_request,omitempty" db:"sanitized_request"`
	ErrorMessage     *string         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// SubmitJobRequest is the payload for submitting a generation job.
type SubmitJobRequest struct {
	Feature Feature         `json:"feature"`
	Input   json.RawMessage `json:"input,omitempty"`
}

// Validate checks required fields on the request.
func (r *SubmitJobRequest) Validate() error {
	if r.Feature == "" {
		return errors.New("feature is required")
	}
	if !r.Feature.Valid() {
		return fmt.Errorf("invalid feature: %q", r.Feature)
	}
	if len(r.Input) > 0 && !json.Valid(r.Input) {
		return errors.New("input must be valid JSON")
	}
	return nil
}

// JobStatusResponse is the external shape returned by the job status
// endpoint.
type JobStatusResponse struct {
	ID            string     `json:"id"`
	ReportID      string     `json:"report_id"`
	Feature       Feature    `json:"feature"`
	Status        JobStatus  `json:"status"`
	ExternalJobID *string    `json:"external_job_id,omitempty"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
