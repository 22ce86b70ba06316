package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/activity"
)

type activityService interface {
	List(ctx context.Context, input activity.ListInput) ([]domain.ActivityLogEntry, error)
}

// ActivityHandler serves the audit trail of one entity.
type ActivityHandler struct {
	svc activityService
	log *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(svc activityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: logger.With("handler", "activity")}
}

// List returns entries newest first, each with a display text.
// GET /api/admin/activity/{type}/{id}?limit=
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	t := domain.EntityType(chi.URLParam(r, "type"))
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	entries, err := h.svc.List(r.Context(), activity.ListInput{EntityType: t, EntityID: id, Limit: limit})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]activityResponse, len(entries))
	for i, e := range entries {
		out[i] = toActivityResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}
