package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventBooking is a confirmed event whose menu may still be pending.
type EventBooking struct {
	ID            uuid.UUID
	BookingNumber string
	InquiryID     *uuid.UUID
	CustomerName  string
	GuestCount    int
	EventDate     time.Time
	MenuConfirmed bool
	Status        BookingStatus
	AssignedTo    *uuid.UUID
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
