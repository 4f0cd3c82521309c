package httpx

import (
	"errors"
	"io"
	"net/http"

	"github.com/readykit/report-api/internal/service"
	"github.com/readykit/report-api/internal/webhook"
)

// maxWebhookBody caps how much of a delivery body is read. Engine
// outputs are markdown documents, well under this.
const maxWebhookBody = 4 << 20

// WebhookHandlers receives engine callback deliveries.
type WebhookHandlers struct {
	Svc *service.CallbackService
}

// Receive handles POST deliveries from the engine. Everything past a
// readable body answers 2xx: the engine retries non-2xx responses
// aggressively, and every delivery is already persisted for audit, so
// re-sending a bad payload would only duplicate rows.
func (h *WebhookHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "unreadable_body", Err: err})
		return
	}
	if len(body) > maxWebhookBody {
		WriteError(w, ErrorParams{
			Code:    http.StatusRequestEntityTooLarge,
			ErrCode: "body_too_large",
			Err:     errors.New("delivery body exceeds limit"),
		})
		return
	}

	err = h.Svc.HandleDelivery(r.Context(), service.Delivery{
		Body:            body,
		SignatureHeader: r.Header.Get(webhook.SignatureHeader),
	})
	if err != nil {
		// Storage failure: the delivery was not recorded, so a retry
		// is the right move.
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "storage_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]bool{"received": true})
}
