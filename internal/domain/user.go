package domain

import (
	"github.com/google/uuid"
)

// Identity is the authenticated caller as reported by the hosted identity provider.
type Identity struct {
	ID    uuid.UUID
	Email string
}
