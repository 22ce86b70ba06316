package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/inbox"
	"github.com/heartmarshall/catering-backend/internal/transport/dataloader"
)

type inboxService interface {
	List(ctx context.Context, f domain.InboxFilter) (*inbox.ListResult, error)
	GetOne(ctx context.Context, t domain.EntityType, id uuid.UUID) (domain.InboxItem, error)
	Counts(ctx context.Context) (domain.InboxCounts, error)
	UpdateStatus(ctx context.Context, input inbox.UpdateStatusInput) error
	SetPriority(ctx context.Context, inquiryID uuid.UUID, p domain.Priority) error
	Assign(ctx context.Context, input inbox.AssignInput) error
	UpdateNotes(ctx context.Context, input inbox.UpdateNotesInput) error
	ConfirmMenu(ctx context.Context, bookingID uuid.UUID) error
}

// InboxHandler serves the unified back-office inbox.
type InboxHandler struct {
	svc inboxService
	log *slog.Logger
}

// NewInboxHandler creates an InboxHandler.
func NewInboxHandler(svc inboxService, logger *slog.Logger) *InboxHandler {
	return &InboxHandler{svc: svc, log: logger.With("handler", "inbox")}
}

type inboxListResponse struct {
	Items   []inboxItemResponse `json:"items"`
	Partial bool                `json:"partial"`
	Failed  []string            `json:"failedSources,omitempty"`
}

// List returns the merged feed.
// GET /api/admin/inbox?type=inquiry,order&status=new&priority=urgent&assignedTo=&from=&to=&q=&limit=
func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseInboxFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	res, err := h.svc.List(r.Context(), f)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := inboxListResponse{Items: make([]inboxItemResponse, len(res.Items)), Partial: res.Partial}
	for i, item := range res.Items {
		resp.Items[i] = toInboxItemResponse(item)
	}
	for _, t := range res.Failed {
		resp.Failed = append(resp.Failed, t.String())
	}
	h.attachOpenTasks(r.Context(), resp.Items)

	writeJSON(w, http.StatusOK, resp)
}

// attachOpenTasks fills the open task counter of inquiry rows in one batch.
// A failed count leaves the field empty rather than failing the feed.
func (h *InboxHandler) attachOpenTasks(ctx context.Context, items []inboxItemResponse) {
	loaders := dataloader.FromContext(ctx)
	if loaders == nil {
		return
	}
	thunks := make(map[int]func() (int, error))
	for i, item := range items {
		if item.Inquiry != nil {
			thunks[i] = loaders.OpenTasksByInquiryID.Load(ctx, item.ID)
		}
	}
	for i, thunk := range thunks {
		n, err := thunk()
		if err != nil {
			h.log.WarnContext(ctx, "open task count failed", slog.String("error", err.Error()))
			continue
		}
		items[i].Inquiry.OpenTasks = &n
	}
}

// Get returns one inbox item.
// GET /api/admin/inbox/{type}/{id}
func (h *InboxHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := entityTypeParam(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.svc.GetOne(r.Context(), t, id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	resp := []inboxItemResponse{toInboxItemResponse(item)}
	h.attachOpenTasks(r.Context(), resp)
	writeJSON(w, http.StatusOK, resp[0])
}

// Counts returns the badge counters.
// GET /api/admin/inbox/counts
func (h *InboxHandler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Counts(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// UpdateStatus sets the status of an inbox item.
// PUT /api/admin/inbox/{type}/{id}/status {"status":"contacted"}
func (h *InboxHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	t, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, h.svc.UpdateStatus(r.Context(), inbox.UpdateStatusInput{Type: t, ID: id, Status: req.Status}))
}

// SetPriority sets the priority of an inquiry.
// PUT /api/admin/inquiries/{id}/priority {"priority":"urgent"}
func (h *InboxHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Priority string `json:"priority"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, h.svc.SetPriority(r.Context(), id, domain.Priority(req.Priority)))
}

// Assign sets or clears the assignee of an inbox item.
// PUT /api/admin/inbox/{type}/{id}/assignee {"assignedTo":"<uuid>"|null}
func (h *InboxHandler) Assign(w http.ResponseWriter, r *http.Request) {
	t, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req struct {
		AssignedTo *uuid.UUID `json:"assignedTo"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, h.svc.Assign(r.Context(), inbox.AssignInput{Type: t, ID: id, AssignedTo: req.AssignedTo}))
}

// UpdateNotes replaces the internal notes of an inbox item.
// PUT /api/admin/inbox/{type}/{id}/notes {"notes":"..."}
func (h *InboxHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	t, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var req struct {
		Notes *string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w, r, h.svc.UpdateNotes(r.Context(), inbox.UpdateNotesInput{Type: t, ID: id, Notes: req.Notes}))
}

// ConfirmMenu marks the menu of a booking as confirmed.
// POST /api/admin/bookings/{id}/confirm-menu
func (h *InboxHandler) ConfirmMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	h.respond(w, r, h.svc.ConfirmMenu(r.Context(), id))
}

func (h *InboxHandler) target(w http.ResponseWriter, r *http.Request) (domain.EntityType, uuid.UUID, bool) {
	t, ok := entityTypeParam(w, r)
	if !ok {
		return "", uuid.Nil, false
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return "", uuid.Nil, false
	}
	return t, id, true
}

func (h *InboxHandler) respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseInboxFilter(r *http.Request) (domain.InboxFilter, error) {
	q := r.URL.Query()
	f := domain.InboxFilter{Search: strings.TrimSpace(q.Get("q"))}

	for _, v := range splitList(q.Get("type")) {
		f.Types = append(f.Types, domain.EntityType(v))
	}
	f.Statuses = splitList(q.Get("status"))
	for _, v := range splitList(q.Get("priority")) {
		f.Priorities = append(f.Priorities, domain.Priority(v))
	}

	if v := q.Get("assignedTo"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, domain.NewValidationError("assignedTo", "invalid uuid")
		}
		f.AssignedTo = &id
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, domain.NewValidationError(p.name, "must be RFC 3339")
		}
		*p.dst = &ts
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return f, err
	}
	f.Limit = limit
	return f, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
