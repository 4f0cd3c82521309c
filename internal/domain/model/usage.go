package model

import "time"

// ModelUsageRecord is one append-only accounting row for a model
// invocation, successful or not.
type ModelUsageRecord struct {
	ID               string    `json:"id" db:"id"`
	Feature          Feature   `json:"feature" db:"feature"`
	Model            string    `json:"model" db:"model"`
	InputTokens      int       `json:"input_tokens" db:"input_tokens"`
	OutputTokens     int       `json:"output_tokens" db:"output_tokens"`
	DurationMs       int64     `json:"duration_ms" db:"duration_ms"`
	Success          bool      `json:"success" db:"success"`
	ErrorMessage     *string   `json:"error_message,omitempty" db:"error_message"`
	EstimatedCostUSD float64   `json:"estimated_cost_usd" db:"estimated_cost_usd"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// RecordUsageParams carries the fields for one usage row. Cost is
// computed by the service from the model's pricing.
type RecordUsageParams struct {
	Feature      Feature
	Model        string
	InputTokens  int
	OutputTokens int
	DurationMs   int64
	Success      bool
	ErrorMessage *string
}
