package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/readykit/report-api/internal/domain/model"
	"github.com/readykit/report-api/internal/service"
)

// JobHandlers provides HTTP handlers for generation job operations.
type JobHandlers struct {
	Svc *service.JobService
	// Generate is nil when direct generation is disabled; the route
	// then answers 404.
	Generate *service.GenerateService
}

// SubmitJob handles POST /api/reports/{id}/jobs: queue a generation
// job with the workflow engine.
func (h *JobHandlers) SubmitJob(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")
	if reportID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("report id is required")})
		return
	}

	var req model.SubmitJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Submit(r.Context(), reportID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, job)
}

// GetStatus handles GET /api/jobs/{id}: report a job's lifecycle state.
func (h *JobHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Svc.GetStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, status)
}

// GenerateNow handles POST /api/reports/{id}/generate: synchronous
// generation that bypasses the engine.
func (h *JobHandlers) GenerateNow(w http.ResponseWriter, r *http.Request) {
	if h.Generate == nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_enabled", Err: errors.New("direct generation is not enabled")})
		return
	}
	reportID := r.PathValue("id")
	if reportID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("report id is required")})
		return
	}

	var req model.SubmitJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Generate.Generate(r.Context(), reportID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// GenerateAll handles POST /api/reports/{id}/generate-all: synchronous
// generation of every feature for the report.
func (h *JobHandlers) GenerateAll(w http.ResponseWriter, r *http.Request) {
	if h.Generate == nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_enabled", Err: errors.New("direct generation is not enabled")})
		return
	}
	reportID := r.PathValue("id")
	if reportID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("report id is required")})
		return
	}

	var req struct {
		Input json.RawMessage `json:"input,omitempty"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	jobs, err := h.Generate.GenerateAll(r.Context(), reportID, req.Input)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}
