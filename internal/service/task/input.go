package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// CreateInput creates a task either from a preset or from an explicit title.
// Explicit fields override the preset's defaults.
type CreateInput struct {
	InquiryID   *uuid.UUID
	Preset      Preset
	Title       string
	Description *string
	DueDate     *time.Time
	AssignedTo  *uuid.UUID
	Priority    domain.Priority
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	title := strings.TrimSpace(i.Title)
	if i.Preset == "" && title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if i.Preset != "" && !i.Preset.IsValid() {
		errs = append(errs, domain.FieldError{Field: "preset", Message: fmt.Sprintf("unknown preset %q", i.Preset)})
	}
	if len(title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: fmt.Sprintf("max %d characters", maxTitleLength)})
	}
	if i.Description != nil && len(*i.Description) > maxDescriptionLength {
		errs = append(errs, domain.FieldError{Field: "description", Message: fmt.Sprintf("max %d characters", maxDescriptionLength)})
	}
	if i.Priority != "" && !i.Priority.IsValid() {
		errs = append(errs, domain.FieldError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", i.Priority)})
	}
	if i.InquiryID != nil && *i.InquiryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "inquiry_id", Message: "must be an inquiry id or null"})
	}
	if i.AssignedTo != nil && *i.AssignedTo == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "assigned_to", Message: "must be a user id or null"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
