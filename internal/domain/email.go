package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmailLog tracks one outbound email and its latest delivery status.
type EmailLog struct {
	ID                uuid.UUID
	ProviderMessageID string
	Recipient         string
	Subject           string
	EntityType        *EntityType
	EntityID          *uuid.UUID
	Status            DeliveryStatus
	LastEventAt       *time.Time
	CreatedAt         time.Time
}
