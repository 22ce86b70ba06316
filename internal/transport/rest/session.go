package rest

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/pkg/ctxutil"
)

type roleInvalidator interface {
	Invalidate(userID uuid.UUID)
}

// SessionHandler handles session lifecycle hooks from the frontend.
type SessionHandler struct {
	roles roleInvalidator
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(roles roleInvalidator) *SessionHandler {
	return &SessionHandler{roles: roles}
}

// Logout drops the caller's cached role so the next sign-in re-reads it.
// Tokens are revoked by the identity provider, not here.
// POST /api/auth/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.roles.Invalidate(userID)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the identity the access token carries.
// GET /api/auth/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    userID,
		"email": ctxutil.EmailFromCtx(r.Context()),
	})
}
