package ws

import (
	"encoding/json"

	"github.com/framesync/framesync/internal/domain"
)

// The signaling relay is a pure forwarder: each handshake message names a
// target connection id and is delivered unchanged. No state, no retries; a
// missing target is a silent no-op.

// RelaySignal forwards an offer/answer/ice-candidate payload to its target
func (h *Hub) RelaySignal(t domain.EventType, raw json.RawMessage) {
	var target domain.SignalTarget
	if err := json.Unmarshal(raw, &target); err != nil || target.Target == "" {
		return
	}

	data, err := json.Marshal(domain.Envelope{Type: t, Payload: raw})
	if err != nil {
		return
	}

	h.mu.RLock()
	peer, ok := h.clients[target.Target]
	h.mu.RUnlock()
	if !ok {
		return
	}
	peer.enqueue(data)
}

// HandleJoinVideo announces a peer's readiness for video to the rest of the
// room so existing peers initiate connections toward it
func (h *Hub) HandleJoinVideo(c *Client, roomCode string) {
	if roomCode == "" {
		return
	}

	h.mu.RLock()
	data, err := domain.NewEvent(domain.EventUserConnectedVideo, domain.UserConnectedVideoPayload{
		SocketID: c.ID,
		Name:     c.Name,
	})
	if err == nil {
		h.broadcastRoomLocked(roomCode, data, c.ID)
	}
	h.mu.RUnlock()
}

// HandleLeaveVideo tells the room a peer's video is gone
func (h *Hub) HandleLeaveVideo(c *Client, roomCode string) {
	if roomCode == "" {
		return
	}

	h.mu.RLock()
	data, err := domain.NewEvent(domain.EventUserDisconnectedVideo, domain.UserConnectedVideoPayload{
		SocketID: c.ID,
	})
	if err == nil {
		h.broadcastRoomLocked(roomCode, data, c.ID)
	}
	h.mu.RUnlock()
}
