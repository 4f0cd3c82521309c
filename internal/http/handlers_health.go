package httpx

import "net/http"

// healthHandler answers liveness and readiness probes. It reports the
// process is up without touching the database, so a degraded dependency
// does not make the orchestrator restart the service.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "report-api",
	})
}
