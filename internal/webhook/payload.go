package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Payload is the canonical shape of an engine callback after
// normalization. Output is the markdown document for success events
// and the error description for failures.
type Payload struct {
	CallbackID   string `json:"callback_id"`
	JobID        string `json:"job_id"`
	Event        string `json:"event"`
	WorkflowName string `json:"workflow_name"`
	Output       string `json:"output"`
}

// Engine versions have shipped several field spellings for the same
// data. Each canonical field probes its aliases in order and takes the
// first non-empty string match.
var fieldAliases = map[string][]string{
	"callback_id":   {"callback_id", "callbackId", "id", "data.callback_id"},
	"job_id":        {"job_id", "jobId", "data.job_id"},
	"event":         {"event", "event_type", "type", "data.event"},
	"workflow_name": {"workflow_name", "workflow", "workflowName", "data.workflow_name"},
	"output":        {"output", "result", "data.output", "data.result"},
}

// ParsePayload decodes a raw delivery body and normalizes its fields.
// Only malformed JSON is an error; missing fields come back empty so
// the audit trail can still record the delivery.
func ParsePayload(body []byte) (*Payload, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		return nil, errors.New("payload must be a JSON object")
	}

	p := &Payload{
		CallbackID:   probe(doc, fieldAliases["callback_id"]),
		JobID:        probe(doc, fieldAliases["job_id"]),
		Event:        probe(doc, fieldAliases["event"]),
		WorkflowName: probe(doc, fieldAliases["workflow_name"]),
		Output:       probe(doc, fieldAliases["output"]),
	}
	return p, nil
}

func probe(doc any, exprs []string) string {
	for _, expr := range exprs {
		v, err := jmespath.Search(expr, doc)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// Preview returns the first n bytes of a body as a string, for log
// lines and audit rows that should not carry whole documents.
func Preview(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n])
}
