// Package task implements the follow-up task repository using PostgreSQL.
package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	table   = "inquiry_tasks"
	entity  = "task"
	columns = "id, inquiry_id, title, description, due_date, assigned_to, status, priority, " +
		"created_by, completed_at, completed_by, created_at"
)

// Repo provides task persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new task repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a task and returns the stored row.
func (r *Repo) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`INSERT INTO inquiry_tasks
		   (id, inquiry_id, title, description, due_date, assigned_to, status, priority, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+columns,
		t.ID, postgres.PgUUID(t.InquiryID), t.Title, t.Description, t.DueDate, postgres.PgUUID(t.AssignedTo),
		string(t.Status), string(t.Priority), t.CreatedBy, t.CreatedAt,
	)

	created, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, t.ID)
	}
	return created, nil
}

// Transition moves a pending task to a terminal status and records who did it.
// A task that already left pending yields domain.ErrConflict.
func (r *Repo) Transition(ctx context.Context, id uuid.UUID, to domain.TaskStatus, by uuid.UUID, at time.Time) (*domain.Task, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`UPDATE inquiry_tasks
		 SET status = $2, completed_at = $3, completed_by = $4
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+columns,
		id, string(to), at, by,
	)

	t, err := scan(row)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, entity, id)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inquiry_tasks WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	if exists {
		return nil, fmt.Errorf("%s %s: already closed: %w", entity, id, domain.ErrConflict)
	}
	return nil, fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a task by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	t, err := scan(q.QueryRow(ctx, `SELECT `+columns+` FROM inquiry_tasks WHERE id = $1`, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return t, nil
}

// ListByInquiry returns the tasks of an inquiry, newest first.
func (r *Repo) ListByInquiry(ctx context.Context, inquiryID uuid.UUID) ([]domain.Task, error) {
	b := postgres.Builder().Select(columns).From(table).
		Where(sq.Expr("inquiry_id = ?", inquiryID)).
		OrderBy("created_at DESC", "id ASC")
	return r.list(ctx, b)
}

// ListOpen returns pending tasks ordered by due date (undated last).
// A non-nil assignee restricts the result to that user.
func (r *Repo) ListOpen(ctx context.Context, assignee *uuid.UUID, limit int) ([]domain.Task, error) {
	b := postgres.Builder().Select(columns).From(table).
		Where(sq.Eq{"status": string(domain.TaskStatusPending)}).
		OrderBy("due_date ASC NULLS LAST", "created_at DESC", "id ASC")
	if assignee != nil {
		b = b.Where(sq.Expr("assigned_to = ?", *assignee))
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return r.list(ctx, b)
}

// CountOverdue counts pending tasks whose due date is before now.
func (r *Repo) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	b := postgres.Builder().Select("count(*)").From(table).
		Where(sq.Eq{"status": string(domain.TaskStatusPending)}).
		Where(sq.Lt{"due_date": now})

	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return 0, fmt.Errorf("count overdue tasks: %w", err)
	}
	return n, nil
}

// CountOpenByInquiries returns the number of pending tasks per inquiry.
// Inquiries without pending tasks are absent from the map.
func (r *Repo) CountOpenByInquiries(ctx context.Context, inquiryIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(inquiryIDs))
	if len(inquiryIDs) == 0 {
		return out, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT inquiry_id, count(*) FROM inquiry_tasks
		 WHERE inquiry_id = ANY($1) AND status = 'pending'
		 GROUP BY inquiry_id`,
		inquiryIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("count open tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id uuid.UUID
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan open task count: %w", err)
		}
		out[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count open tasks: %w", err)
	}
	return out, nil
}

func (r *Repo) list(ctx context.Context, b postgres.Sqlizer) ([]domain.Task, error) {
	rows, err := postgres.Query(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

func scan(row postgres.Scanner) (*domain.Task, error) {
	var (
		t                              domain.Task
		inquiry, assigned, completedBy pgtype.UUID
		status, priority               string
	)

	err := row.Scan(
		&t.ID, &inquiry, &t.Title, &t.Description, &t.DueDate, &assigned, &status, &priority,
		&t.CreatedBy, &t.CompletedAt, &completedBy, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.InquiryID = postgres.UUIDPtr(inquiry)
	t.AssignedTo = postgres.UUIDPtr(assigned)
	t.CompletedBy = postgres.UUIDPtr(completedBy)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	return &t, nil
}
