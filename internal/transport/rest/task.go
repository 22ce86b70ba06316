package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/task"
)

type taskService interface {
	Create(ctx context.Context, input task.CreateInput) (*domain.Task, error)
	Complete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.Task, error)
	ListOpen(ctx context.Context, assignee *uuid.UUID, limit int) ([]domain.Task, error)
}

// TaskHandler serves staff follow-up tasks.
type TaskHandler struct {
	svc taskService
	log *slog.Logger
	now func() time.Time
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(svc taskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, log: logger.With("handler", "task"), now: time.Now}
}

type createTaskRequest struct {
	InquiryID   *uuid.UUID `json:"inquiryId"`
	Preset      string     `json:"preset"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  *uuid.UUID `json:"assignedTo"`
	Priority    string     `json:"priority"`
}

// Create adds a task, optionally from a preset.
// POST /api/admin/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := h.svc.Create(r.Context(), task.CreateInput{
		InquiryID:   req.InquiryID,
		Preset:      task.Preset(req.Preset),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(created, h.now()))
}

// ListOpen returns pending tasks, optionally for one assignee, soonest due first.
// GET /api/admin/tasks?assignedTo=&limit=
func (h *TaskHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	var assignee *uuid.UUID
	if v := r.URL.Query().Get("assignedTo"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("assignedTo", "invalid uuid"))
			return
		}
		assignee = &id
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	list, err := h.svc.ListOpen(r.Context(), assignee, limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskList(list, h.now()))
}

// ListByInquiry returns every task of an inquiry.
// GET /api/admin/inquiries/{id}/tasks
func (h *TaskHandler) ListByInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListByInquiry(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskList(list, h.now()))
}

// Complete closes a pending task.
// POST /api/admin/tasks/{id}/complete
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Complete)
}

// Cancel drops a pending task.
// POST /api/admin/tasks/{id}/cancel
func (h *TaskHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Cancel)
}

func (h *TaskHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*domain.Task, error)) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	t, err := fn(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t, h.now()))
}
