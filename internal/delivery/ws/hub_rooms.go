package ws

import (
	"github.com/framesync/framesync/internal/auth"
	"github.com/framesync/framesync/internal/domain"
)

// HandleCreateRoom registers a room ahead of its first join. Private rooms
// only get the best-effort persistence side effect; public rooms also enter
// the discovery directory. The room itself exists the moment someone joins
// its code, with or without this call.
func (h *Hub) HandleCreateRoom(c *Client, p domain.CreateRoomPayload) {
	if p.RoomCode == "" {
		return
	}

	var ident auth.Identity
	if h.resolver != nil {
		ctx, cancel := h.persistCtx()
		ident = h.resolver.Resolve(ctx, p.Token, p.Email)
		cancel()
	}

	if ident.UserID != "" && h.rooms != nil {
		go func() {
			ctx, cancel := h.persistCtx()
			defer cancel()
			if err := h.rooms.Save(ctx, p.RoomCode, ident.UserID, p.Type == "public"); err != nil {
				h.log.Warn().Err(err).Str("room", p.RoomCode).Msg("room persist failed")
			}
		}()
	}

	if p.Type == "public" {
		capacity := p.Capacity
		if capacity <= 0 {
			capacity = domain.DefaultRoomCapacity
		}
		h.mu.Lock()
		h.listings[p.RoomCode] = &domain.RoomListing{
			RoomCode: p.RoomCode,
			Title:    p.Name,
			Host:     p.UserName,
			Users:    0,
			Max:      capacity,
			Status:   "live",
		}
		h.mu.Unlock()
		h.log.Info().Str("room", p.RoomCode).Str("title", p.Name).Msg("public room listed")
	}

	if data, err := domain.NewEvent(domain.EventRoomCreated, domain.RoomCreatedPayload{
		Success: true, RoomCode: p.RoomCode,
	}); err == nil {
		c.enqueue(data)
	}
}

// HandleGetPublicRooms answers a discovery-page fetch with the current
// directory, to the requesting connection only
func (h *Hub) HandleGetPublicRooms(c *Client) {
	h.mu.RLock()
	data := h.directoryEventLocked()
	h.mu.RUnlock()
	c.enqueue(data)
}

// directoryEventLocked builds the publicRoomsList event from the directory.
// NOTE: caller must hold at least RLock.
func (h *Hub) directoryEventLocked() []byte {
	listings := make([]domain.RoomListing, 0, len(h.listings))
	for _, l := range h.listings {
		listings = append(listings, *l)
	}
	data, err := domain.NewEvent(domain.EventPublicRoomsList, listings)
	if err != nil {
		return nil
	}
	return data
}
