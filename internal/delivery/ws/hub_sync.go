package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/framesync/framesync/internal/domain"
)

// HandleLoadVideo overwrites the room's playback state with a YouTube load
// and broadcasts it to every member, issuer included. The issuer's host flag
// is trusted as asserted at join time.
func (h *Hub) HandleLoadVideo(c *Client, p domain.LoadVideoPayload) {
	if p.RoomCode == "" || !IsValidYouTubeVideoID(p.VideoID) {
		return
	}

	state := &domain.PlaybackState{
		Mode:     domain.MediaModeYouTube,
		RoomCode: p.RoomCode,
		VideoID:  p.VideoID,
	}

	h.mu.Lock()
	h.playback[p.RoomCode] = state
	if data, err := domain.NewEvent(domain.EventLoadVideo, p); err == nil {
		h.broadcastRoomLocked(p.RoomCode, data, "")
	}
	h.mu.Unlock()

	h.recordSync(c, state)
}

// HandleLoadFile overwrites the room's playback state with a file load
func (h *Hub) HandleLoadFile(c *Client, p domain.LoadFilePayload) {
	if p.RoomCode == "" || p.URL == "" {
		return
	}

	state := &domain.PlaybackState{
		Mode:        domain.MediaModeFile,
		RoomCode:    p.RoomCode,
		URL:         p.URL,
		SubtitleURL: p.SubtitleURL,
		Filename:    p.Filename,
	}

	h.mu.Lock()
	h.playback[p.RoomCode] = state
	if data, err := domain.NewEvent(domain.EventLoadFile, p); err == nil {
		h.broadcastRoomLocked(p.RoomCode, data, "")
	}
	h.mu.Unlock()

	h.recordSync(c, state)
}

// HandleStartScreenShare records a screen-mode playback state so late
// joiners switch to the shared screen, and tells the rest of the room
func (h *Hub) HandleStartScreenShare(c *Client, p domain.ScreenSharePayload) {
	if p.RoomCode == "" || p.StreamID == "" {
		return
	}

	state := &domain.PlaybackState{
		Mode:     domain.MediaModeScreen,
		RoomCode: p.RoomCode,
		StreamID: p.StreamID,
	}

	h.mu.Lock()
	h.playback[p.RoomCode] = state
	if data, err := domain.NewEvent(domain.EventStartScreenShare, p); err == nil {
		h.broadcastRoomLocked(p.RoomCode, data, c.ID)
	}
	h.mu.Unlock()
}

// HandleStopScreenShare clears a screen-mode playback state. A state set by
// a later load event is left alone.
func (h *Hub) HandleStopScreenShare(c *Client, p domain.ScreenSharePayload) {
	if p.RoomCode == "" {
		return
	}

	h.mu.Lock()
	if state, ok := h.playback[p.RoomCode]; ok && state.Mode == domain.MediaModeScreen {
		delete(h.playback, p.RoomCode)
	}
	if data, err := domain.NewEvent(domain.EventStopScreenShare, p); err == nil {
		h.broadcastRoomLocked(p.RoomCode, data, c.ID)
	}
	h.mu.Unlock()
}

// HandleVideoState relays a play/pause/seek pulse verbatim to everyone else
// in the room. Pulses are transient: they never touch the playback store,
// and the server applies no ordering beyond arrival order.
func (h *Hub) HandleVideoState(c *Client, raw json.RawMessage) {
	var target domain.VideoStateTarget
	if err := json.Unmarshal(raw, &target); err != nil || target.RoomCode == "" {
		return
	}

	data, err := json.Marshal(domain.Envelope{Type: domain.EventVideoState, Payload: raw})
	if err != nil {
		return
	}

	h.mu.RLock()
	h.broadcastRoomLocked(target.RoomCode, data, c.ID)
	h.mu.RUnlock()
}

// recordSync appends the load event to the issuer's play history,
// best-effort and off the broadcast path
func (h *Hub) recordSync(c *Client, state *domain.PlaybackState) {
	if h.stats == nil {
		return
	}
	h.mu.RLock()
	userID := c.UserID
	h.mu.RUnlock()
	if userID == "" {
		return
	}

	go func() {
		ctx, cancel := h.persistCtx()
		defer cancel()
		if err := h.stats.AppendSync(ctx, state.RoomCode, userID, string(state.Mode), state.MediaID()); err != nil {
			h.log.Warn().Err(err).
				Str("room", state.RoomCode).
				Str("user_id", userID).
				Msg("play-history append failed")
		}
	}()
}

// RunDriftPulse asks each room's host for a playback position pulse on a
// fixed interval; the host answers with an ordinary videoState event, which
// is relayed like any other pulse. Returns when ctx is done.
func (h *Hub) RunDriftPulse(ctx context.Context) error {
	ticker := time.NewTicker(h.driftInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.pulseHosts()
		}
	}
}

// pulseHosts sends one requestVideoState to the host of every active room
func (h *Hub) pulseHosts() {
	data, err := domain.NewEvent(domain.EventRequestVideoState, nil)
	if err != nil {
		return
	}

	h.mu.RLock()
	pulsed := make(map[string]bool)
	for _, c := range h.clients {
		if c.RoomCode == "" || !c.IsHost || pulsed[c.RoomCode] {
			continue
		}
		pulsed[c.RoomCode] = true
		c.enqueue(data)
	}
	h.mu.RUnlock()
}
