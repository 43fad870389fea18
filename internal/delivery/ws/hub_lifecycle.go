package ws

import (
	"fmt"
	"time"

	"github.com/framesync/framesync/internal/auth"
	"github.com/framesync/framesync/internal/domain"
)

// HandleJoinRoom admits a connection to a room. Identity resolution runs
// first under a bounded context so a slow user store degrades the join to
// guest instead of stalling it; only then is shared state touched.
func (h *Hub) HandleJoinRoom(c *Client, p domain.JoinRoomPayload) {
	if p.RoomCode == "" {
		return
	}

	var ident auth.Identity
	if h.resolver != nil {
		ctx, cancel := h.persistCtx()
		ident = h.resolver.Resolve(ctx, p.Token, p.Email)
		cancel()
	}

	h.mu.Lock()
	c.Name = p.UserName
	c.RoomCode = p.RoomCode
	c.IsHost = p.IsHost
	c.UserID = ident.UserID
	c.Avatar = ident.Avatar
	c.JoinedAt = time.Now()

	// Snapshot co-present members with a distinct resolved identity; every
	// such pair becomes mutual friends by policy. Ids only: the goroutines
	// spawned below must not touch client fields after the lock is released.
	type friendTarget struct {
		connID string
		userID string
	}
	var friendTargets []friendTarget
	if c.UserID != "" {
		for _, m := range h.roomMembersLocked(p.RoomCode) {
			if m.ID != c.ID && m.UserID != "" && m.UserID != c.UserID {
				friendTargets = append(friendTargets, friendTarget{connID: m.ID, userID: m.UserID})
			}
		}
	}

	// Full membership recompute and broadcast, joiner included
	users := h.memberListLocked(p.RoomCode)
	if data, err := domain.NewEvent(domain.EventUpdateUsers, users); err == nil {
		h.broadcastRoomLocked(p.RoomCode, data, "")
	}

	// Keep the discovery listing's member count current
	if listing, ok := h.listings[p.RoomCode]; ok {
		listing.Users = len(users)
		h.broadcastAllLocked(h.directoryEventLocked())
	}

	if data, err := domain.NewEvent(domain.EventChatMessage, domain.ChatMessagePayload{
		Name: "System",
		Text: fmt.Sprintf("Welcome to room %s!", p.RoomCode),
	}); err == nil {
		c.enqueue(data)
	}
	if data, err := domain.NewEvent(domain.EventChatMessage, domain.ChatMessagePayload{
		Name: "System",
		Text: fmt.Sprintf("%s has joined.", p.UserName),
	}); err == nil {
		h.broadcastRoomLocked(p.RoomCode, data, c.ID)
	}

	// Late-joiner sync: the stored playback state goes to the joiner only
	if state, ok := h.playback[p.RoomCode]; ok {
		if data, err := domain.NewEvent(domain.EventRoomInitialSync, state); err == nil {
			c.enqueue(data)
		}
	}
	h.mu.Unlock()

	for _, target := range friendTargets {
		go h.autoFriend(c.ID, ident.UserID, target.connID, target.userID)
	}

	h.log.Info().
		Str("room", p.RoomCode).
		Str("conn_id", c.ID).
		Str("user_id", ident.UserID).
		Bool("host", p.IsHost).
		Msg("joined room")
}

// autoFriend records the co-presence friendship and notifies both ends.
// Best-effort: a store failure is logged and the join is unaffected. By the
// time the bounded upsert returns either connection may already be gone, so
// delivery goes through the registry, never through retained pointers.
func (h *Hub) autoFriend(aConn, aUser, bConn, bUser string) {
	if h.friends == nil {
		return
	}

	ctx, cancel := h.persistCtx()
	defer cancel()

	if err := h.friends.UpsertMutual(ctx, aUser, bUser); err != nil {
		h.log.Warn().Err(err).
			Str("user_id", aUser).
			Str("friend_id", bUser).
			Msg("auto-friend upsert failed")
		return
	}

	h.notifyFriendAccepted(aConn, aUser, bUser)
	h.notifyFriendAccepted(bConn, bUser, aUser)
}

// notifyFriendAccepted delivers the notice to connID if it is still
// registered; a gone connection is a silent skip
func (h *Hub) notifyFriendAccepted(connID, userID, friendID string) {
	data, err := domain.NewEvent(domain.EventFriendRequestAccepted, domain.FriendAcceptedPayload{
		UserID: userID, FriendID: friendID,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	if c, ok := h.clients[connID]; ok {
		c.enqueue(data)
	}
	h.mu.RUnlock()
}

// HandleLeaveRoom runs the voluntary leave transition. Watch time flushes
// before the room check: a guest evicted by a host teardown has no RoomCode
// left, but its session seconds are still owed.
func (h *Hub) HandleLeaveRoom(c *Client, roomCode string) {
	h.flushWatchTime(c)

	h.mu.RLock()
	current := c.RoomCode
	h.mu.RUnlock()
	if roomCode == "" || current != roomCode {
		return
	}
	h.exitRoom(c)
}

// exitRoom removes the connection from its room and runs the matching
// transition: host exit tears the room down, guest exit shrinks it.
// Called from HandleLeaveRoom and from the disconnect path.
func (h *Hub) exitRoom(c *Client) {
	h.flushWatchTime(c)

	h.mu.Lock()
	roomCode := c.RoomCode
	if roomCode == "" {
		h.mu.Unlock()
		return
	}
	c.RoomCode = ""

	if c.IsHost {
		// Host gone: the room ends for everyone, no tombstone remains
		members := h.roomMembersLocked(roomCode)
		if data, err := domain.NewEvent(domain.EventRoomEnded, nil); err == nil {
			for _, m := range members {
				m.enqueue(data)
			}
		}
		for _, m := range members {
			m.RoomCode = ""
		}
		delete(h.playback, roomCode)
		if _, ok := h.listings[roomCode]; ok {
			delete(h.listings, roomCode)
			h.broadcastAllLocked(h.directoryEventLocked())
		}
		h.mu.Unlock()
		h.log.Info().Str("room", roomCode).Int("evicted", len(members)).Msg("room ended")
		return
	}

	users := h.memberListLocked(roomCode)
	if data, err := domain.NewEvent(domain.EventUpdateUsers, users); err == nil {
		h.broadcastRoomLocked(roomCode, data, "")
	}
	if data, err := domain.NewEvent(domain.EventChatMessage, domain.ChatMessagePayload{
		Name: "System",
		Text: fmt.Sprintf("%s has left.", c.Name),
	}); err == nil {
		h.broadcastRoomLocked(roomCode, data, "")
	}
	if listing, ok := h.listings[roomCode]; ok {
		listing.Users = len(users)
		h.broadcastAllLocked(h.directoryEventLocked())
	}
	h.mu.Unlock()
}

// flushWatchTime accumulates the elapsed session onto the user's lifetime
// watch-time counter, once per session
func (h *Hub) flushWatchTime(c *Client) {
	h.mu.Lock()
	userID := c.UserID
	joinedAt := c.JoinedAt
	c.JoinedAt = time.Time{}
	h.mu.Unlock()

	if h.stats == nil || userID == "" || joinedAt.IsZero() {
		return
	}
	seconds := int64(time.Since(joinedAt).Seconds())
	if seconds <= 0 {
		return
	}

	go func() {
		ctx, cancel := h.persistCtx()
		defer cancel()
		if err := h.stats.AddWatchTime(ctx, userID, seconds); err != nil {
			h.log.Warn().Err(err).Str("user_id", userID).Msg("watch-time update failed")
		}
	}()
}

// HandleUpdateStatus records a user's presence status and acks the issuer
func (h *Hub) HandleUpdateStatus(c *Client, p domain.UpdateStatusPayload) {
	if p.UserID == "" {
		if data, err := domain.NewEvent(domain.EventAuthError, domain.AuthErrorPayload{
			Message: "updateStatus requires a signed-in user",
		}); err == nil {
			c.enqueue(data)
		}
		return
	}
	h.mu.Lock()
	h.statuses[p.UserID] = p.Status
	h.mu.Unlock()

	if data, err := domain.NewEvent(domain.EventStatusUpdated, domain.StatusUpdatedPayload{Success: true}); err == nil {
		c.enqueue(data)
	}
}

// StatusOf returns the recorded presence status for a user id
func (h *Hub) StatusOf(userID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.statuses[userID]
}
