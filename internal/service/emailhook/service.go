// Package emailhook applies delivery events from the email provider to the email log.
package emailhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

type emailLogRepo interface {
	UpdateStatus(ctx context.Context, providerMessageID string, status domain.DeliveryStatus, at time.Time) (bool, error)
}

var eventStatus = map[string]domain.DeliveryStatus{
	"email.sent":             domain.DeliveryStatusSent,
	"email.delivered":        domain.DeliveryStatusDelivered,
	"email.delivery_delayed": domain.DeliveryStatusDelayed,
	"email.bounced":          domain.DeliveryStatusBounced,
	"email.complained":       domain.DeliveryStatusComplained,
	"email.opened":           domain.DeliveryStatusOpened,
	"email.clicked":          domain.DeliveryStatusClicked,
}

// Request is one webhook delivery as received over HTTP.
type Request struct {
	ID        string
	Timestamp string
	Signature string
	Body      []byte
}

// Outcome says what happened to an accepted event.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeStale   Outcome = "stale"
	OutcomeUnknown Outcome = "unknown_message"
	OutcomeIgnored Outcome = "ignored"
)

type event struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Data      struct {
		EmailID string `json:"email_id"`
	} `json:"data"`
}

// Service verifies and applies email delivery events.
type Service struct {
	logs     emailLogRepo
	verifier *Verifier
	log      *slog.Logger
	now      func() time.Time
}

// NewService creates a new email webhook service.
func NewService(log *slog.Logger, logs emailLogRepo, verifier *Verifier) *Service {
	return &Service{
		logs:     logs,
		verifier: verifier,
		log:      log.With("service", "emailhook"),
		now:      time.Now,
	}
}

// Handle verifies req and updates the matching email log. Unknown event types
// and messages without a log row are acknowledged so the provider stops retrying.
func (s *Service) Handle(ctx context.Context, req Request) (Outcome, error) {
	if err := s.verifier.Verify(req.ID, req.Timestamp, req.Body, req.Signature, s.now()); err != nil {
		return "", err
	}

	var ev event
	if err := json.Unmarshal(req.Body, &ev); err != nil {
		return "", domain.NewValidationError("body", "invalid json")
	}

	status, ok := eventStatus[ev.Type]
	if !ok {
		s.log.DebugContext(ctx, "email event ignored", slog.String("type", ev.Type))
		return OutcomeIgnored, nil
	}
	if ev.Data.EmailID == "" {
		return "", domain.NewValidationError("data.email_id", "required")
	}

	at := ev.CreatedAt
	if at.IsZero() {
		at = s.now()
	}

	applied, err := s.logs.UpdateStatus(ctx, ev.Data.EmailID, status, at.UTC())
	if errors.Is(err, domain.ErrNotFound) {
		s.log.InfoContext(ctx, "email event for unknown message",
			slog.String("type", ev.Type),
			slog.String("email_id", ev.Data.EmailID),
		)
		return OutcomeUnknown, nil
	}
	if err != nil {
		return "", fmt.Errorf("update email log: %w", err)
	}
	if !applied {
		return OutcomeStale, nil
	}

	if status == domain.DeliveryStatusBounced || status == domain.DeliveryStatusComplained {
		s.log.WarnContext(ctx, "email not deliverable",
			slog.String("status", string(status)),
			slog.String("email_id", ev.Data.EmailID),
		)
	}
	return OutcomeApplied, nil
}
