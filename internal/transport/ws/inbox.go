package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/heartmarshall/catering-backend/internal/realtime"
)

type invalidationSource interface {
	Subscribe() *realtime.Subscription
}

type invalidateFrame struct {
	Type  string          `json:"type"`
	Views []realtime.View `json:"views"`
}

// InboxHandler streams coalesced view invalidations to back-office clients.
// Clients refetch the named views; "*" means everything.
type InboxHandler struct {
	hub      invalidationSource
	upgrader *websocket.Upgrader
	log      *slog.Logger
}

// NewInboxHandler creates an InboxHandler.
func NewInboxHandler(hub invalidationSource, upgrader *websocket.Upgrader, logger *slog.Logger) *InboxHandler {
	return &InboxHandler{hub: hub, upgrader: upgrader, log: logger.With("handler", "ws_inbox")}
}

// ServeHTTP upgrades the request and blocks until the client goes away.
// GET /ws/inbox
func (h *InboxHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.log.DebugContext(r.Context(), "upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go readLoop(conn, done, nil)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			writeClose(conn, websocket.CloseGoingAway, "server shutting down")
			return
		case views, ok := <-sub.C():
			if !ok {
				return
			}
			if err := writeFrame(conn, invalidateFrame{Type: "invalidate", Views: views}); err != nil {
				return
			}
		case <-ticker.C:
			if err := writePing(conn); err != nil {
				return
			}
		}
	}
}
