package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readykit/report-api/config"
	"github.com/readykit/report-api/internal/core"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return MustNewClient(ClientOptions{
		Config: config.EngineConfig{
			BaseURL: baseURL,
			Timeout: 5 * time.Second,
		},
	})
}

func TestClient_SubmitJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/workflow", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "generate_emergency_contacts", req.WorkflowName)
		assert.Equal(t, "https://app.example.com/api/webhooks/engine", req.WebhookURL)
		assert.Equal(t, "job-1", req.ClientJobID)
		assert.JSONEq(t, `{"zip":"97201"}`, string(req.InputData))

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"job_id":"ext-42","status":"pending"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	id, err := c.SubmitJob(context.Background(), core.SubmitEngineJobParams{
		JobID:       "job-1",
		Feature:     "emergency_contacts",
		CallbackURL: "https://app.example.com/api/webhooks/engine",
		Input:       []byte(`{"zip":"97201"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "ext-42", id)
}

func TestClient_SubmitJob_EmptyInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.JSONEq(t, `{}`, string(req.InputData))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"job_id":"ext-1"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.SubmitJob(context.Background(), core.SubmitEngineJobParams{
		JobID:   "job-1",
		Feature: "skills",
	})
	require.NoError(t, err)
}

func TestClient_SubmitJob_Errors(t *testing.T) {
	t.Run("rejection carries status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"workflow not found"}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		_, err := c.SubmitJob(context.Background(), core.SubmitEngineJobParams{JobID: "j", Feature: "skills"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
		assert.Contains(t, err.Error(), "workflow not found")
	})

	t.Run("missing job id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"status":"pending"}`))
		}))
		defer srv.Close()

		c := newTestClient(t, srv.URL)
		_, err := c.SubmitJob(context.Background(), core.SubmitEngineJobParams{JobID: "j", Feature: "skills"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing job_id")
	})

	t.Run("unreachable engine", func(t *testing.T) {
		c := newTestClient(t, "http://127.0.0.1:1")
		_, err := c.SubmitJob(context.Background(), core.SubmitEngineJobParams{JobID: "j", Feature: "skills"})
		require.Error(t, err)
	})
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	require.Error(t, err)
	assert.Panics(t, func() { MustNewClient(ClientOptions{}) })
}
