package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/framesync/framesync/internal/delivery/ws"
)

// Handler exposes the websocket entry point and health check
type Handler struct {
	hub            *ws.Hub
	allowedOrigins []string
	upgrader       websocket.Upgrader
	log            zerolog.Logger
}

// NewHandler creates the HTTP handler for the sync server
func NewHandler(hub *ws.Hub, allowedOrigins []string, log zerolog.Logger) *Handler {
	h := &Handler{
		hub:            hub,
		allowedOrigins: allowedOrigins,
		log:            log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.isOriginAllowed(r.Header.Get("Origin"))
		},
	}
	return h
}

// isOriginAllowed checks if the origin is in the allowed list
func (h *Handler) isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// HandleWebSocket upgrades HTTP to WebSocket and hands the connection to
// the hub. Room membership happens later, via the joinRoom event.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade rejected")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleHealth answers liveness probes
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
