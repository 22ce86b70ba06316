package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/catering-backend/internal/service/emailhook"
)

type emailHookService interface {
	Handle(ctx context.Context, req emailhook.Request) (emailhook.Outcome, error)
}

// WebhookHandler receives delivery events from the email provider.
type WebhookHandler struct {
	svc emailHookService
	log *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(svc emailHookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, log: logger.With("handler", "webhook")}
}

// Email verifies and applies one delivery event. The raw body is needed for
// the signature, so it is read before any decoding.
// POST /api/webhooks/email
func (h *WebhookHandler) Email(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	outcome, err := h.svc.Handle(r.Context(), emailhook.Request{
		ID:        r.Header.Get("webhook-id"),
		Timestamp: r.Header.Get("webhook-timestamp"),
		Signature: r.Header.Get("webhook-signature"),
		Body:      body,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": string(outcome)})
}
