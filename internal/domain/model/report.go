package model

import (
	"encoding/json"
	"time"
)

// Provenance records where a report item came from.
type Provenance string

const (
	// ProvenanceModel marks content parsed from model output.
	ProvenanceModel Provenance = "model"
	// ProvenanceExternalLookup marks content filled in from a prior
	// structured lookup attached to the job request.
	ProvenanceExternalLookup Provenance = "external_lookup"
	// ProvenanceStatic marks content substituted from the curated
	// fallback datasets when model output was unusable.
	ProvenanceStatic Provenance = "static"
)

// Report is the top-level preparedness report document. Generated
// content lives in per-section rows, not on the report itself.
type Report struct {
	ID       string          `json:"id" db:"id"`
	FormData json.RawMessage `json:"form_data,omitempty" db:"form_data"`

	// Latest generation outcome. Nil until a model-backed merge lands;
	// fallback-only reports never set these.
	Content     *string    `json:"content,omitempty" db:"content"`
	Model       *string    `json:"model,omitempty" db:"model"`
	Tokens      *int       `json:"tokens,omitempty" db:"tokens"`
	DurationMs  *int64     `json:"duration_ms,omitempty" db:"duration_ms"`
	GeneratedAt *time.Time `json:"generated_at,omitempty" db:"generated_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ReportSection is one stored slice of report content. Version counts
// successful writes to the section and guards concurrent merges.
type ReportSection struct {
	ReportID       string          `json:"report_id" db:"report_id"`
	Section        Section         `json:"section" db:"section"`
	Payload        json.RawMessage `json:"payload" db:"payload"`
	AIAnalysisUsed bool            `json:"ai_analysis_used" db:"ai_analysis_used"`
	Model          *string         `json:"model,omitempty" db:"model"`
	Version        int             `json:"version" db:"version"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// GenerationOutcome carries the raw model output and its accounting
// figures into a section merge. Model, Tokens and DurationMs stay zero
// on the engine-callback path, which only sees the output text.
type GenerationOutcome struct {
	Content    string
	Model      string
	Tokens     int
	DurationMs int64
}

// SectionUpdate carries one parsed section ready to merge into a
// report. AIAnalysisUsed is false when the whole section fell back to
// the static dataset.
type SectionUpdate struct {
	Section        Section
	Payload        json.RawMessage
	AIAnalysisUsed bool
}

// Contact is one recommended emergency contact.
type Contact struct {
	Name              string     `json:"name"`
	Phone             string     `json:"phone"`
	Address           string     `json:"address,omitempty"`
	Website           string     `json:"website,omitempty"`
	Category          string     `json:"category"`
	Priority          string     `json:"priority"`
	FitScore          int        `json:"fit_score"`
	Reasoning         string     `json:"reasoning"`
	RelevantScenarios []string   `json:"relevant_scenarios,omitempty"`
	Available24Hr     bool       `json:"available_24hr"`
	Provenance        Provenance `json:"provenance"`
}

// MeetingLocationPriority orders family meeting locations.
type MeetingLocationPriority string

const (
	MeetingPrimary   MeetingLocationPriority = "primary"
	MeetingSecondary MeetingLocationPriority = "secondary"
	MeetingTertiary  MeetingLocationPriority = "tertiary"
)

// MeetingLocation is one recommended family meeting point.
type MeetingLocation struct {
	Name         string                  `json:"name"`
	Address      string                  `json:"address"`
	Priority     MeetingLocationPriority `json:"priority"`
	Description  string                  `json:"description,omitempty"`
	Reasoning    string                  `json:"reasoning"`
	SuitableFor  []string                `json:"suitable_for,omitempty"`
	HasParking   bool                    `json:"has_parking"`
	IsAccessible bool                    `json:"is_accessible"`
	Provenance   Provenance              `json:"provenance"`
}

// SupplyBundle is one recommended set of preparedness supplies.
type SupplyBundle struct {
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Items         []string   `json:"items,omitempty"`
	EstimatedCost string     `json:"estimated_cost,omitempty"`
	Priority      string     `json:"priority,omitempty"`
	Reasoning     string     `json:"reasoning,omitempty"`
	Provenance    Provenance `json:"provenance"`
}

// Skill is one recommended preparedness skill.
type Skill struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Difficulty  string     `json:"difficulty,omitempty"`
	TimeToLearn string     `json:"time_to_learn,omitempty"`
	Reasoning   string     `json:"reasoning,omitempty"`
	Resources   []string   `json:"resources,omitempty"`
	Provenance  Provenance `json:"provenance"`
}

// SimulationDay is one practice drill day plan.
type SimulationDay struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Focus      string     `json:"focus,omitempty"`
	Tasks      []string   `json:"tasks,omitempty"`
	Reasoning  string     `json:"reasoning,omitempty"`
	Provenance Provenance `json:"provenance"`
}

// RiskHazard is one assessed hazard inside the risk indicators record.
type RiskHazard struct {
	Name       string `json:"name"`
	Likelihood string `json:"likelihood"`
	Impact     string `json:"impact"`
	Reasoning  string `json:"reasoning,omitempty"`
}

// RiskIndicators is the structured risk assessment for a report.
type RiskIndicators struct {
	OverallScore int          `json:"overall_score,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	Hazards      []RiskHazard `json:"hazards"`
	Provenance   Provenance   `json:"provenance"`
}

// GenerationMetadata summarizes the most recent successful generation
// reflected in a report document.
type GenerationMetadata struct {
	Model       string    `json:"model,omitempty"`
	Tokens      int       `json:"tokens,omitempty"`
	DurationMs  int64     `json:"duration_ms,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
}

// ReportDocument is the composed external shape of a report: the form
// data, the latest raw model output, and every generated section keyed
// by section name. Version is the sum of section versions so any
// successful merge changes it.
type ReportDocument struct {
	ID       string                   `json:"id"`
	Version  int                      `json:"version"`
	Content  string                   `json:"content,omitempty"`
	FormData json.RawMessage          `json:"form_data,omitempty"`
	Sections map[Section]*SectionView `json:"sections"`
	Metadata *GenerationMetadata      `json:"metadata,omitempty"`
}

// SectionView is one section as rendered inside a report document.
type SectionView struct {
	Payload        json.RawMessage `json:"payload"`
	AIAnalysisUsed bool            `json:"ai_analysis_used"`
	Version        int             `json:"version"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
