package inbox

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	maxSearchLength = 200
	maxNotesLength  = 5000
)

// validateFilter checks f against the configured limits and collects all errors.
func (s *Service) validateFilter(f domain.InboxFilter) error {
	var errs []domain.FieldError

	if len(strings.TrimSpace(f.Search)) > maxSearchLength {
		errs = append(errs, domain.FieldError{Field: "search", Message: fmt.Sprintf("max %d characters", maxSearchLength)})
	}
	for _, t := range f.Types {
		if !t.IsInboxType() {
			errs = append(errs, domain.FieldError{Field: "types", Message: fmt.Sprintf("unknown type %q", t)})
		}
	}
	for _, st := range f.Statuses {
		if !knownStatus(st) {
			errs = append(errs, domain.FieldError{Field: "statuses", Message: fmt.Sprintf("unknown status %q", st)})
		}
	}
	for _, p := range f.Priorities {
		if !p.IsValid() {
			errs = append(errs, domain.FieldError{Field: "priorities", Message: fmt.Sprintf("unknown priority %q", p)})
		}
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		errs = append(errs, domain.FieldError{Field: "from", Message: "must be before to"})
	}
	if f.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if f.Limit > s.cfg.MaxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("max %d", s.cfg.MaxLimit)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func knownStatus(status string) bool {
	for _, t := range domain.InboxEntityTypes {
		if domain.IsValidStatus(t, status) {
			return true
		}
	}
	return false
}

// UpdateStatusInput changes the status of one inbox item.
type UpdateStatusInput struct {
	Type   domain.EntityType
	ID     uuid.UUID
	Status string
}

// Validate checks all fields and collects all errors.
func (i UpdateStatusInput) Validate() error {
	var errs []domain.FieldError
	if !i.Type.IsInboxType() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown inbox type"})
	}
	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Type.IsInboxType() && !domain.IsValidStatus(i.Type, i.Status) {
		errs = append(errs, domain.FieldError{Field: "status", Message: fmt.Sprintf("invalid status %q for %s", i.Status, i.Type)})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AssignInput sets or clears the assignee of one inbox item.
type AssignInput struct {
	Type       domain.EntityType
	ID         uuid.UUID
	AssignedTo *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i AssignInput) Validate() error {
	var errs []domain.FieldError
	if !i.Type.IsInboxType() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown inbox type"})
	}
	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.AssignedTo != nil && *i.AssignedTo == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "assigned_to", Message: "must be a user id or null"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateNotesInput replaces the internal notes of one inbox item.
type UpdateNotesInput struct {
	Type  domain.EntityType
	ID    uuid.UUID
	Notes *string
}

// Validate checks all fields and collects all errors.
func (i UpdateNotesInput) Validate() error {
	var errs []domain.FieldError
	if !i.Type.IsInboxType() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown inbox type"})
	}
	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Notes != nil && len(*i.Notes) > maxNotesLength {
		errs = append(errs, domain.FieldError{Field: "notes", Message: fmt.Sprintf("max %d characters", maxNotesLength)})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
