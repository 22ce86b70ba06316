package domain

import (
	"time"

	"github.com/google/uuid"
)

// PresenceRecord is one live viewer of an entity. It is never persisted.
// Brokers store one record per session; a user with two tabs open has two.
type PresenceRecord struct {
	SessionID uuid.UUID `json:"sessionId,omitzero"`
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	JoinedAt  time.Time `json:"joinedAt"`
	IsEditing bool      `json:"isEditing"`
}
