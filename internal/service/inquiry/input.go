package inquiry

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	maxNameLength    = 200
	maxMessageLength = 5000
	maxGuestCount    = 5000
)

// SubmitInput is the public inquiry form.
type SubmitInput struct {
	ContactName   string
	CompanyName   *string
	Email         string
	Phone         *string
	GuestCount    *int
	EventType     *string
	PreferredDate *time.Time
	Message       *string
	Language      domain.Language
}

// Validate checks all fields and collects all errors.
func (i SubmitInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.ContactName)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "contactName", Message: "required"})
	}
	if len(name) > maxNameLength {
		errs = append(errs, domain.FieldError{Field: "contactName", Message: fmt.Sprintf("max %d characters", maxNameLength)})
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(i.Email)); err != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email"})
	}
	if i.GuestCount != nil && (*i.GuestCount < 1 || *i.GuestCount > maxGuestCount) {
		errs = append(errs, domain.FieldError{Field: "guestCount", Message: fmt.Sprintf("must be between 1 and %d", maxGuestCount)})
	}
	if i.Message != nil && len(*i.Message) > maxMessageLength {
		errs = append(errs, domain.FieldError{Field: "message", Message: fmt.Sprintf("max %d characters", maxMessageLength)})
	}
	if i.Language != "" && !i.Language.IsValid() {
		errs = append(errs, domain.FieldError{Field: "language", Message: fmt.Sprintf("unsupported language %q", i.Language)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
