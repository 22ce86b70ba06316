package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/catering-backend/pkg/ctxutil"
)

type roleChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequireUser rejects anonymous callers with 401 and the localized login path.
func RequireUser(loginPath func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
				writeUnauthorized(w, r, loginPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates back-office routes. Anonymous callers get 401 with the
// localized login path returned by loginPath; non-admins get 403.
func RequireAdmin(roles roleChecker, loginPath func(*http.Request) string, log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := ctxutil.UserIDFromCtx(r.Context())
			if !ok {
				writeUnauthorized(w, r, loginPath)
				return
			}

			isAdmin, err := roles.IsAdmin(r.Context(), userID)
			if err != nil {
				log.ErrorContext(r.Context(), "role lookup failed",
					slog.String("user_id", userID.String()),
					slog.String("error", err.Error()),
				)
				writeJSONError(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
				return
			}
			if !isAdmin {
				writeJSONError(w, http.StatusForbidden, map[string]any{"error": "forbidden"})
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxutil.WithAdmin(r.Context(), true)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, loginPath func(*http.Request) string) {
	body := map[string]any{"error": "unauthorized"}
	if loginPath != nil {
		body["redirect"] = loginPath(r)
	}
	writeJSONError(w, http.StatusUnauthorized, body)
}

func writeJSONError(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
