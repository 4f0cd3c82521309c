package model

import (
	"encoding/json"
	"time"
)

// EventType classifies an engine callback. Values outside this set are
// stored verbatim for the audit trail but never mutate report state.
type EventType string

const (
	EventWorkflowCompleted EventType = "workflow_completed"
	EventWorkflowFailed    EventType = "workflow_failed"
)

// Callback is one recorded delivery from the engine, valid or not.
// Redeliveries of the same external callback id collapse into a single
// row with delivery_count incremented.
type Callback struct {
	ID                 string          `json:"id" db:"id"`
	ExternalCallbackID string          `json:"external_callback_id" db:"external_callback_id"`
	ExternalJobID      *string         `json:"external_job_id,omitempty" db:"external_job_id"`
	WorkflowName       *string         `json:"workflow_name,omitempty" db:"workflow_name"`
	EventType          *string         `json:"event_type,omitempty" db:"event_type"`
	RawPayload         json.RawMessage `json:"raw_payload" db:"raw_payload"`
	PayloadPreview     *string         `json:"payload_preview,omitempty" db:"payload_preview"`
	SignatureValid     bool            `json:"signature_valid" db:"signature_valid"`
	SignatureHeader    *string         `json:"signature_header,omitempty" db:"signature_header"`
	VerifiedAt         *time.Time      `json:"verified_at,omitempty" db:"verified_at"`
	DeliveryCount      int             `json:"delivery_count" db:"delivery_count"`
	ReceivedAt         time.Time       `json:"received_at" db:"received_at"`
	LastDeliveredAt    time.Time       `json:"last_delivered_at" db:"last_delivered_at"`
}

// UpsertCallbackParams carries the fields recorded for a delivery.
type UpsertCallbackParams struct {
	ExternalCallbackID string
	ExternalJobID      *string
	WorkflowName       *string
	EventType          *string
	RawPayload         json.RawMessage
	PayloadPreview     *string
	SignatureValid     bool
	SignatureHeader    *string
}

// CallbackListOptions filters and paginates the callback audit list.
// Cursor is an opaque token returned by a previous page.
type CallbackListOptions struct {
	Limit          int
	Cursor         *string
	EventType      *string
	WorkflowName   *string
	SignatureValid *bool
}

// CallbackListPage is one page of callbacks plus the continuation
// cursor, nil when the listing is exhausted.
type CallbackListPage struct {
	Callbacks  []*Callback `json:"callbacks"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// CallbackView marks a callback as seen by one admin user. Views are
// idempotent per (callback, admin) pair.
type CallbackView struct {
	CallbackID  string    `json:"callback_id" db:"callback_id"`
	AdminUserID string    `json:"admin_user_id" db:"admin_user_id"`
	ViewedAt    time.Time `json:"viewed_at" db:"viewed_at"`
}
