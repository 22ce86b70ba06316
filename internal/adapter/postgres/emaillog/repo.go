// Package emaillog implements outbound email tracking using PostgreSQL.
package emaillog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	"github.com/heartmarshall/catering-backend/internal/domain"
)

const columns = "id, provider_message_id, recipient, subject, entity_type, entity_id, status, last_event_at, created_at"

// Repo provides email log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new email log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create records an outbound email.
func (r *Repo) Create(ctx context.Context, l *domain.EmailLog) (*domain.EmailLog, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var entityType *string
	if l.EntityType != nil {
		s := string(*l.EntityType)
		entityType = &s
	}

	row := q.QueryRow(ctx,
		`INSERT INTO email_logs (id, provider_message_id, recipient, subject, entity_type, entity_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+columns,
		l.ID, l.ProviderMessageID, l.Recipient, l.Subject, entityType, postgres.PgUUID(l.EntityID),
		string(l.Status), l.CreatedAt,
	)

	created, err := scan(row)
	if err != nil {
		return nil, postgres.MapError(err, "email_log", l.ID)
	}
	return created, nil
}

// UpdateStatus applies a delivery event by provider message id.
// Events older than the last applied one are ignored; applied reports whether the row changed.
// A missing message id yields domain.ErrNotFound.
func (r *Repo) UpdateStatus(ctx context.Context, providerMessageID string, status domain.DeliveryStatus, at time.Time) (applied bool, err error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE email_logs SET status = $2, last_event_at = $3
		 WHERE provider_message_id = $1 AND (last_event_at IS NULL OR last_event_at <= $3)`,
		providerMessageID, string(status), at,
	)
	if err != nil {
		return false, fmt.Errorf("update email_log %s: %w", providerMessageID, err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM email_logs WHERE provider_message_id = $1)`, providerMessageID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("update email_log %s: %w", providerMessageID, err)
	}
	if !exists {
		return false, fmt.Errorf("email_log %s: %w", providerMessageID, domain.ErrNotFound)
	}
	return false, nil
}

// GetByProviderID returns the log row of a provider message id.
func (r *Repo) GetByProviderID(ctx context.Context, providerMessageID string) (*domain.EmailLog, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	l, err := scan(q.QueryRow(ctx, `SELECT `+columns+` FROM email_logs WHERE provider_message_id = $1`, providerMessageID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("email_log %s: %w", providerMessageID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("email_log %s: %w", providerMessageID, err)
	}
	return l, nil
}

func scan(row postgres.Scanner) (*domain.EmailLog, error) {
	var (
		l          domain.EmailLog
		entityType *string
		entityID   pgtype.UUID
		status     string
	)
	if err := row.Scan(&l.ID, &l.ProviderMessageID, &l.Recipient, &l.Subject, &entityType, &entityID,
		&status, &l.LastEventAt, &l.CreatedAt); err != nil {
		return nil, err
	}

	if entityType != nil {
		et := domain.EntityType(*entityType)
		l.EntityType = &et
	}
	l.EntityID = postgres.UUIDPtr(entityID)
	l.Status = domain.DeliveryStatus(status)
	return &l, nil
}
