package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if got := MapError(nil, "event_inquiry", uuid.New()); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapError_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan row: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"unique_violation", &pgconn.PgError{Code: "23505"}, domain.ErrAlreadyExists},
		{"foreign_key_violation", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"check_violation", &pgconn.PgError{Code: "23514"}, domain.ErrValidation},
		{"not_null_violation", &pgconn.PgError{Code: "23502"}, domain.ErrValidation},
		{"invalid enum value", &pgconn.PgError{Code: "22P02"}, domain.ErrValidation},
		{"serialization_failure", &pgconn.PgError{Code: "40001"}, domain.ErrConflict},
		{"lock_not_available", &pgconn.PgError{Code: "55P03"}, domain.ErrConflict},
		{"wrapped unique_violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), domain.ErrAlreadyExists},
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded},
		{"canceled", context.Canceled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapError(tt.err, "catering_order", uuid.New())
			if !errors.Is(got, tt.wantErr) {
				t.Errorf("MapError(%v) does not wrap %v: %v", tt.err, tt.wantErr, got)
			}
		})
	}
}

func TestMapError_ContextNotMapped(t *testing.T) {
	t.Parallel()

	got := MapError(context.Canceled, "event_booking", uuid.New())
	if errors.Is(got, domain.ErrNotFound) {
		t.Error("MapError(Canceled) should not wrap domain.ErrNotFound")
	}
}

func TestMapError_UnknownPgError(t *testing.T) {
	t.Parallel()

	got := MapError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"}, "inquiry_task", uuid.New())

	var unwrapped *pgconn.PgError
	if !errors.As(got, &unwrapped) {
		t.Errorf("MapError(unknown PgError) does not wrap *pgconn.PgError: %v", got)
	}
	if errors.Is(got, domain.ErrNotFound) || errors.Is(got, domain.ErrAlreadyExists) || errors.Is(got, domain.ErrValidation) {
		t.Error("MapError(unknown PgError) should not map to a domain error")
	}
}

func TestMapError_EntityAndIDInMessage(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got := MapError(pgx.ErrNoRows, "event_inquiry", id)

	if want := fmt.Sprintf("event_inquiry %s: not found", id); got.Error() != want {
		t.Errorf("MapError message = %q, want %q", got.Error(), want)
	}
}
