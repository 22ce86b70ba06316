package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventInquiry is a request for an event offer submitted through the public site
// or created manually by staff.
type EventInquiry struct {
	ID            uuid.UUID
	ContactName   string
	CompanyName   *string
	Email         string
	Phone         *string
	GuestCount    *int
	EventType     *string
	PreferredDate *time.Time
	Message       *string
	Language      Language
	Status        InquiryStatus
	Priority      Priority
	AssignedTo    *uuid.UUID
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
