// Package booking implements the event booking repository using PostgreSQL.
package booking

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
	table   = "event_bookings"
	entity  = "event_booking"
	columns = "id, booking_number, inquiry_id, customer_name, guest_count, event_date, menu_confirmed, " +
		"status, assigned_to, notes, created_at, updated_at"
)

var sourceColumns = postgres.SourceColumns{
	Status:     "status",
	Assignee:   "assigned_to",
	CreatedAt:  "created_at",
	EventDate:  "event_date",
	SearchCols: []string{"booking_number", "customer_name"},
}

// Repo provides event booking persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new booking repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a booking and returns the stored row.
func (r *Repo) Create(ctx context.Context, b *domain.EventBooking) (*domain.EventBooking, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`INSERT INTO event_bookings
		   (id, booking_number, inquiry_id, customer_name, guest_count, event_date, menu_confirmed,
		    status, assigned_to, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		 RETURNING `+columns,
		b.ID, b.BookingNumber, postgres.PgUUID(b.InquiryID), b.CustomerName, b.GuestCount, b.EventDate,
		b.MenuConfirmed, string(b.Status), postgres.PgUUID(b.AssignedTo), b.Notes, b.CreatedAt,
	)

	created, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, b.ID)
	}
	return created, nil
}

// UpdateStatus sets the status and returns the previous one.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.BookingStatus, error) {
	var old string
	err := postgres.SwapColumn(ctx, postgres.QuerierFromCtx(ctx, r.pool), table, "status", id, string(status), &old)
	if err != nil {
		return "", postgres.MapError(err, entity, id)
	}
	return domain.BookingStatus(old), nil
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

// ConfirmMenu marks the menu as confirmed and moves a menu_pending booking to ready.
// It returns the booking before the change.
func (r *Repo) ConfirmMenu(ctx context.Context, id uuid.UUID) (*domain.EventBooking, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`UPDATE event_bookings b
		 SET menu_confirmed = true,
		     status = CASE WHEN b.status = 'menu_pending' THEN 'ready' ELSE b.status END,
		     updated_at = now()
		 FROM (SELECT `+columns+` FROM event_bookings WHERE id = $1 FOR UPDATE) prev
		 WHERE b.id = prev.id
		 RETURNING prev.id, prev.booking_number, prev.inquiry_id, prev.customer_name, prev.guest_count,
		           prev.event_date, prev.menu_confirmed, prev.status, prev.assigned_to, prev.notes,
		           prev.created_at, prev.updated_at`,
		id,
	)

	old, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return old, nil
}

// GetByID returns a booking by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EventBooking, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	b, err := scan(q.QueryRow(ctx, `SELECT `+columns+` FROM event_bookings WHERE id = $1`, id))
	if err != nil {
		return nil, postgres.MapError(err, entity, id)
	}
	return b, nil
}

// ListInbox returns bookings matching query ordered by the configured time key, newest first.
func (r *Repo) ListInbox(ctx context.Context, query domain.SourceQuery) ([]domain.EventBooking, error) {
	b := postgres.ApplySourceQuery(postgres.Builder().Select(columns).From(table), query, sourceColumns)

	rows, err := postgres.Query(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return nil, fmt.Errorf("list event_bookings: %w", err)
	}
	defer rows.Close()

	var out []domain.EventBooking
	for rows.Next() {
		bk, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event_booking: %w", err)
		}
		out = append(out, *bk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event_bookings: %w", err)
	}
	return out, nil
}

// CountPendingMenu counts active bookings whose menu is not confirmed yet.
func (r *Repo) CountPendingMenu(ctx context.Context) (int, error) {
	b := postgres.Builder().Select("count(*)").From(table).
		Where(sq.Eq{"menu_confirmed": false}).
		Where(sq.NotEq{"status": []string{string(domain.BookingStatusCompleted), string(domain.BookingStatusCancelled)}})

	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.pool), b)
	if err != nil {
		return 0, fmt.Errorf("count pending menu event_bookings: %w", err)
	}
	return n, nil
}

func scan(row postgres.Scanner) (*domain.EventBooking, error) {
	var (
		b                 domain.EventBooking
		inquiry, assigned pgtype.UUID
		status            string
	)

	err := row.Scan(
		&b.ID, &b.BookingNumber, &inquiry, &b.CustomerName, &b.GuestCount, &b.EventDate,
		&b.MenuConfirmed, &status, &assigned, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.InquiryID = postgres.UUIDPtr(inquiry)
	b.AssignedTo = postgres.UUIDPtr(assigned)
	b.Status = domain.BookingStatus(status)
	return &b, nil
}
