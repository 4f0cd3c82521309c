// Package engine provides the HTTP client for the external workflow
// engine. The engine accepts a workflow submission, returns its own
// job id, and later POSTs a signed callback to this application.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/readykit/report-api/config"
	"github.com/readykit/report-api/internal/core"
)

const submitPath = "/api/v1/workflow"

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	Config     config.EngineConfig // Required: engine base URL and timeout
	HTTPClient *http.Client        // Optional: defaults to a timeout-bounded client
	Logger     *slog.Logger        // Optional
}

// Client submits generation workflows to the engine over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient constructs a new engine Client.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Config.BaseURL == "" {
		return nil, errors.New("engine BaseURL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Config.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.Config.BaseURL, "/"),
		http:    httpClient,
		log:     opts.Logger,
	}, nil
}

// MustNewClient constructs a new engine Client and panics on error.
func MustNewClient(opts ClientOptions) *Client {
	c, err := NewClient(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create engine client: %v", err))
	}
	return c
}

func (c *Client) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return slog.Default()
}

// submitRequest is the wire shape of a workflow submission.
type submitRequest struct {
	WorkflowName string          `json:"workflow_name"`
	InputData    json.RawMessage `json:"input_data"`
	WebhookURL   string          `json:"webhook_url"`
	ClientJobID  string          `json:"client_job_id"`
}

// submitResponse is the engine's acknowledgment of a queued workflow.
type submitResponse struct {
	JobID string `json:"job_id"`
}

// SubmitJob queues the feature's workflow and returns the engine's job
// id for callback correlation.
func (c *Client) SubmitJob(ctx context.Context, params core.SubmitEngineJobParams) (string, error) {
	input := params.Input
	if len(input) == 0 {
		input = json.RawMessage(`{}`)
	}
	body, err := json.Marshal(submitRequest{
		WorkflowName: "generate_" + string(params.Feature),
		InputData:    input,
		WebhookURL:   params.CallbackURL,
		ClientJobID:  params.JobID,
	})
	if err != nil {
		return "", fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit workflow: %w", err)
	}
	defer resp.Body.Close()

	// Error bodies are short JSON documents; cap the read anyway.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read submission response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("engine rejected workflow: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var ack submitResponse
	if err := json.Unmarshal(raw, &ack); err != nil {
		return "", fmt.Errorf("decode submission response: %w", err)
	}
	if ack.JobID == "" {
		return "", errors.New("engine response missing job_id")
	}

	c.logger().DebugContext(ctx, "workflow submitted",
		"workflow", "generate_"+string(params.Feature),
		"external_job_id", ack.JobID,
		"elapsed", time.Since(start))
	return ack.JobID, nil
}
