package httpx

import (
	"errors"
	"net/http"

	"github.com/readykit/report-api/internal/domain/model"
	"github.com/readykit/report-api/internal/service"
)

// AdminUserHeader identifies the admin operating the callback audit
// surface. The identity provider in front of this service sets it.
const AdminUserHeader = "X-Admin-User"

const (
	defaultCallbackPageSize = 50
	maxCallbackPageSize     = 200
)

// CallbackAdminHandlers exposes the callback audit trail to operators.
type CallbackAdminHandlers struct {
	Svc *service.CallbackService
}

// List handles GET /api/callbacks with cursor pagination and optional
// event_type, workflow_name and signature_valid filters.
func (h *CallbackAdminHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := model.CallbackListOptions{
		Limit: clampLimit(parseIntQuery(r, "limit", defaultCallbackPageSize), maxCallbackPageSize),
	}
	if v := q.Get("cursor"); v != "" {
		opts.Cursor = &v
	}
	if v := q.Get("event_type"); v != "" {
		opts.EventType = &v
	}
	if v := q.Get("workflow_name"); v != "" {
		opts.WorkflowName = &v
	}
	if v := q.Get("signature_valid"); v != "" {
		valid := v == "true"
		opts.SignatureValid = &valid
	}

	page, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// Get handles GET /api/callbacks/{id}.
func (h *CallbackAdminHandlers) Get(w http.ResponseWriter, r *http.Request) {
	cb, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, cb)
}

// MarkViewed handles POST /api/callbacks/{id}/viewed for the admin
// named in the identity header.
func (h *CallbackAdminHandlers) MarkViewed(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	if err := h.Svc.MarkViewed(r.Context(), r.PathValue("id"), admin); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"viewed": true})
}

// UnviewedCount handles GET /api/callbacks/unviewed-count.
func (h *CallbackAdminHandlers) UnviewedCount(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	count, err := h.Svc.UnviewedCount(r.Context(), admin)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

// Delete handles DELETE /api/callbacks/{id}.
func (h *CallbackAdminHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	admin := r.Header.Get(AdminUserHeader)
	if admin == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "missing_identity",
			Err:     errors.New("admin identity header is required"),
		})
		return "", false
	}
	return admin, true
}
