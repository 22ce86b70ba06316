package checkout

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

// LineInput is one cart line: either a package with a guest count or a
// menu item with a quantity. Prices always come from the catalog.
type LineInput struct {
	PackageID  *uuid.UUID
	GuestCount int

	MenuItemID *uuid.UUID
	Quantity   int
}

// IsPackage reports whether the line refers to an event package.
func (l LineInput) IsPackage() bool { return l.PackageID != nil }

// PlaceOrderInput is a checkout submission.
type PlaceOrderInput struct {
	CustomerName  string
	CustomerEmail string
	DeliveryDate  *time.Time
	Language      domain.Language
	Lines         []LineInput
}

// Validate checks all fields and collects all errors.
func (i PlaceOrderInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.CustomerName) == "" {
		errs = append(errs, domain.FieldError{Field: "customerName", Message: "required"})
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(i.CustomerEmail)); err != nil {
		errs = append(errs, domain.FieldError{Field: "customerEmail", Message: "invalid email"})
	}
	if i.Language != "" && !i.Language.IsValid() {
		errs = append(errs, domain.FieldError{Field: "language", Message: fmt.Sprintf("unsupported language %q", i.Language)})
	}
	if len(i.Lines) == 0 {
		errs = append(errs, domain.FieldError{Field: "lines", Message: "cart is empty"})
	}
	if len(i.Lines) > MaxLines {
		errs = append(errs, domain.FieldError{Field: "lines", Message: fmt.Sprintf("max %d lines", MaxLines)})
	}

	for n, l := range i.Lines {
		field := fmt.Sprintf("lines[%d]", n)
		if l.IsPackage() {
			if l.MenuItemID != nil {
				errs = append(errs, domain.FieldError{Field: field, Message: "either packageId or menuItemId"})
			}
			if *l.PackageID == uuid.Nil {
				errs = append(errs, domain.FieldError{Field: field + ".packageId", Message: "required"})
			}
			if l.GuestCount < 1 {
				errs = append(errs, domain.FieldError{Field: field + ".guestCount", Message: "must be at least 1"})
			}
			continue
		}
		if l.MenuItemID == nil || *l.MenuItemID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: field + ".menuItemId", Message: "required"})
		}
		if l.Quantity < 1 || l.Quantity > MaxQuantity {
			errs = append(errs, domain.FieldError{Field: field + ".quantity", Message: fmt.Sprintf("must be between 1 and %d", MaxQuantity)})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
