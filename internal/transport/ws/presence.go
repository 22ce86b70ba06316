package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/service/presence"
	"github.com/heartmarshall/catering-backend/pkg/ctxutil"
)

const leaveTimeout = 5 * time.Second

type presenceService interface {
	Join(ctx context.Context, input presence.JoinInput) (*presence.Session, error)
}

type clientFrame struct {
	Type    string `json:"type"`
	Editing bool   `json:"editing"`
}

type presenceFrame struct {
	Type    string                  `json:"type"`
	Members []domain.PresenceRecord `json:"members"`
}

// PresenceHandler shows who else has an entity open and whether they are editing it.
type PresenceHandler struct {
	svc      presenceService
	upgrader *websocket.Upgrader
	log      *slog.Logger
}

// NewPresenceHandler creates a PresenceHandler.
func NewPresenceHandler(svc presenceService, upgrader *websocket.Upgrader, logger *slog.Logger) *PresenceHandler {
	return &PresenceHandler{svc: svc, upgrader: upgrader, log: logger.With("handler", "ws_presence")}
}

// ServeHTTP joins the caller to the entity channel for the lifetime of the socket.
// GET /ws/presence?entity_type=inquiry&entity_id=<uuid>
func (h *PresenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	entityType := domain.EntityType(r.URL.Query().Get("entity_type"))
	entityID, err := uuid.Parse(r.URL.Query().Get("entity_id"))
	if !entityType.IsValid() || err != nil {
		http.Error(w, "entity_type and entity_id are required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.DebugContext(r.Context(), "upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	sess, err := h.svc.Join(ctx, presence.JoinInput{
		EntityType: entityType,
		EntityID:   entityID,
		Self:       domain.Identity{ID: userID, Email: ctxutil.EmailFromCtx(ctx)},
	})
	if err != nil {
		h.log.ErrorContext(ctx, "presence join failed", slog.String("error", err.Error()))
		writeClose(conn, websocket.CloseInternalServerErr, "presence unavailable")
		return
	}
	defer func() {
		leaveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), leaveTimeout)
		defer cancel()
		if err := sess.Leave(leaveCtx); err != nil {
			h.log.WarnContext(ctx, "presence leave failed", slog.String("error", err.Error()))
		}
	}()

	done := make(chan struct{})
	go readLoop(conn, done, func(msg []byte) {
		var f clientFrame
		if err := json.Unmarshal(msg, &f); err != nil || f.Type != "editing" {
			return
		}
		if err := sess.SetEditing(ctx, f.Editing); err != nil {
			h.log.WarnContext(ctx, "presence set editing failed", slog.String("error", err.Error()))
		}
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			writeClose(conn, websocket.CloseGoingAway, "server shutting down")
			return
		case members, ok := <-sess.Changes():
			if !ok {
				return
			}
			if members == nil {
				members = []domain.PresenceRecord{}
			}
			if err := writeFrame(conn, presenceFrame{Type: "presence", Members: members}); err != nil {
				return
			}
		case <-ticker.C:
			if err := writePing(conn); err != nil {
				return
			}
		}
	}
}
