// Package inquiry implements the event inquiry repository using PostgreSQL.
package inquiry

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	table   = "event_inquiries"
	entity  = "event_inquiry"
	columns = "id, contact_name, company_name, email, phone, guest_count, event_type, preferred_date, " +
		"message, language, status, priority, assigned_to, notes, created_at, updated_at"
)

var sourceColumns = postgres.SourceColumns{
	Status:     "status",
	Assignee:   "assigned_to",
	CreatedAt:  "created_at",
	Priority:   "priority",
	SearchCols: []string{"contact_name", "company_name", "email"},
}

// Repo provides event inquiry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new inquiry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts an inquiry and returns the stored row.
func (r *Repo) Create(ctx context.Context, e *domain.EventInquiry) (*domain.EventInquiry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`INSERT INTO event_inquiries
		   (id, contact_name, company_name, email, phone, guest_count, event_type, preferred_date,
		    message, language, status, priority, assigned_to, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
		 RETURNING `+columns,
		e.ID, e.ContactName, e.CompanyName, e.Email, e.Phone, e.GuestCount, e.EventType, e.PreferredDate,
		e.Message, string(e.Language), string(e.Status), string(e.Priority), postgres.PgUUID(e.AssignedTo),
		e.Notes, e.CreatedAt,
	)

	created, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, e.ID)
	}
	return created, nil
}

// UpdateStatus sets the status and returns the previous one.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.InquiryStatus, error) {
	var old string
	err := postgres.SwapColumn(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, "status", id, string(status), &old)
	if err != nil {
		return "", postgres.MapError(err, entity, id)
	}
	return domain.InquiryStatus(old), nil
}

// UpdatePriority sets the priority and returns the previous one.
func (r *Repo) UpdatePriority(ctx context.Context, id uuid.UUID, p domain.Priority) (domain.Priority, error) {
	var old string
	err := postgres.SwapColumn(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, "priority", id, string(p), &old)
	if err != nil {
		return "", postgres.MapError(err, entity, id)
	}
	return domain.Priority(old), nil
}

// UpdateAssignee sets or clears the assignee and returns the previous one.
func (r *Repo) UpdateAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*uuid.UUID, error) {
	var old pgtype.UUID
	err := postgres.SwapColumn(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, "assigned_to", id, postgres.PgUUID(assignee), &old)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return postgres.UUIDPtr(old), nil
}

// UpdateNotes replaces the internal notes and returns the previous text.
func (r *Repo) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*string, error) {
	var old *string
	err := postgres.SwapColumn(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, "notes", id, notes, &old)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return old, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an inquiry by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventInquiry, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	e, err := scan(q.QueryRow(ctx, `SELECT `+columns+` FROM event_inquiries WHERE id = $1`, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return e, nil
}

// ListInbox returns inquiries matching query, newest first (priority first when ranked).
func (r *Repo) ListInbox(ctx context.Context, query domain.SourceQuery) ([]domain.EventInquiry, error) {
	b := postgres.ApplySourceQuery(postgres.Builder().Select(columns).From(table), query, sourceColumns)

	rows, err := postgres.Query(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list event_inquiries: %w", err)
	}
	defer rows.Close()

	var out []domain.EventInquiry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event_inquiry: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event_inquiries: %w", err)
	}
	return out, nil
}

// CountByStatus counts inquiries in status.
func (r *Repo) CountByStatus(ctx context.Context, status domain.InquiryStatus) (int, error) {
	b := postgres.Builder().Select("count(*)").From(table).Where(sq.Eq{"status": string(status)})

	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return 0, fmt.Errorf("count event_inquiries by status: %w", err)
	}
	return n, nil
}

// CountOpenByPriority counts inquiries with priority p that are not yet confirmed or declined.
func (r *Repo) CountOpenByPriority(ctx context.Context, p domain.Priority) (int, error) {
	b := postgres.Builder().Select("count(*)").From(table).
		Where(sq.Eq{"priority": string(p)}).
		Where(sq.NotEq{"status": []string{string(domain.InquiryStatusConfirmed), string(domain.InquiryStatusDeclined)}})

	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return 0, fmt.Errorf("count open event_inquiries by priority: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scan(row postgres.Scanner) (*domain.EventInquiry, error) {
	var (
		e                          domain.EventInquiry
		language, status, priority string
		assigned                   pgtype.UUID
	)

	err := row.Scan(
		&e.ID, &e.ContactName, &e.CompanyName, &e.Email, &e.Phone, &e.GuestCount, &e.EventType,
		&e.PreferredDate, &e.Message, &language, &status, &priority, &assigned, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Language = domain.Language(language)
	e.Status = domain.InquiryStatus(status)
	e.Priority = domain.Priority(priority)
	e.AssignedTo = postgres.UUIDPtr(assigned)
	return &e, nil
}
