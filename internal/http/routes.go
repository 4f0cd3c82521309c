package httpx

import (
	"log/slog"
	"net/http"

	"github.com/readykit/report-api/internal/observability/statsd"
	"github.com/readykit/report-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs      *service.JobService
	Reports   *service.ReportService
	Callbacks *service.CallbackService
	// Optional: direct generation, nil when disabled.
	Generate *service.GenerateService
	Logger   *slog.Logger // Optional
	Metrics  statsd.Sink  // Optional
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.Jobs, Generate: services.Generate}
	reportHandlers := &ReportHandlers{Svc: services.Reports}
	webhookHandlers := &WebhookHandlers{Svc: services.Callbacks}
	callbackHandlers := &CallbackAdminHandlers{Svc: services.Callbacks}

	registerJobRoutes(mux, jobHandlers)
	registerReportRoutes(mux, reportHandlers)
	registerWebhookRoutes(mux, webhookHandlers)
	registerCallbackRoutes(mux, callbackHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Recover(logger)(Logging(logger, services.Metrics)(mux))
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("POST /api/reports/{id}/jobs", h.SubmitJob)
	mux.HandleFunc("POST /api/reports/{id}/generate", h.GenerateNow)
	mux.HandleFunc("POST /api/reports/{id}/generate-all", h.GenerateAll)
	mux.HandleFunc("GET /api/jobs/{id}", h.GetStatus)
}

func registerReportRoutes(mux *http.ServeMux, h *ReportHandlers) {
	mux.HandleFunc("GET /api/reports/{id}", h.GetDocument)
}

func registerWebhookRoutes(mux *http.ServeMux, h *WebhookHandlers) {
	mux.HandleFunc("POST /api/webhooks/engine", h.Receive)
}

func registerCallbackRoutes(mux *http.ServeMux, h *CallbackAdminHandlers) {
	// unviewed-count before {id} so the literal segment wins.
	mux.HandleFunc("GET /api/callbacks/unviewed-count", h.UnviewedCount)
	mux.HandleFunc("GET /api/callbacks", h.List)
	mux.HandleFunc("GET /api/callbacks/{id}", h.Get)
	mux.HandleFunc("POST /api/callbacks/{id}/viewed", h.MarkViewed)
	mux.HandleFunc("DELETE /api/callbacks/{id}", h.Delete)
}
