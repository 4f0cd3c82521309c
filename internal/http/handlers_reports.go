package httpx

import (
	"errors"
	"net/http"

	"github.com/readykit/report-api/internal/service"
)

// ReportHandlers serves composed report documents.
type ReportHandlers struct {
	Svc *service.ReportService
}

// GetDocument handles GET /api/reports/{id}: form data plus every
// generated section, with the aggregated document version.
func (h *ReportHandlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")
	if reportID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("report id is required")})
		return
	}

	doc, err := h.Svc.GetDocument(r.Context(), reportID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}
