package ws

import (
	"github.com/framesync/framesync/internal/domain"
)

// HandleChatMessage broadcasts one chat line to the room, sender included
func (h *Hub) HandleChatMessage(c *Client, p domain.ChatMessagePayload) {
	if p.RoomCode == "" || p.Text == "" {
		return
	}

	h.mu.RLock()
	data, err := domain.NewEvent(domain.EventChatMessage, domain.ChatMessagePayload{
		Name: c.Name,
		Text: p.Text,
	})
	if err == nil {
		h.broadcastRoomLocked(p.RoomCode, data, "")
	}
	h.mu.RUnlock()
}

// HandleReaction broadcasts an emoji reaction to the room and records it
// best-effort
func (h *Hub) HandleReaction(c *Client, p domain.ReactionPayload) {
	if p.RoomCode == "" || p.Emoji == "" {
		return
	}

	h.mu.RLock()
	userID := c.UserID
	data, err := domain.NewEvent(domain.EventReaction, domain.ReactionPayload{Emoji: p.Emoji})
	if err == nil {
		h.broadcastRoomLocked(p.RoomCode, data, "")
	}
	h.mu.RUnlock()

	if h.stats == nil || userID == "" {
		return
	}
	go func() {
		ctx, cancel := h.persistCtx()
		defer cancel()
		if err := h.stats.AddReaction(ctx, p.RoomCode, userID, p.Emoji); err != nil {
			h.log.Warn().Err(err).Str("room", p.RoomCode).Msg("reaction record failed")
		}
	}()
}
