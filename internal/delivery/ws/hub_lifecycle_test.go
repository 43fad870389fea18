package ws

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/framesync/framesync/internal/auth"
	"github.com/framesync/framesync/internal/domain"
)

func TestHub_JoinRoom_BroadcastsFullMemberList(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	host := newMockClient(hub, "Host")
	guest := newMockClient(hub, "Guest")
	register(t, hub, host)
	register(t, hub, guest)

	hub.HandleJoinRoom(host, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Host", IsHost: true})
	drainEvents(host)

	hub.HandleJoinRoom(guest, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Guest"})

	hostEvents := drainEvents(host)
	guestEvents := drainEvents(guest)

	if countEvents(hostEvents, domain.EventUpdateUsers) != 1 {
		t.Error("Expected host to receive one updateUsers on guest join")
	}
	if countEvents(guestEvents, domain.EventUpdateUsers) != 1 {
		t.Error("Expected joiner to receive updateUsers too")
	}

	// Joiner gets a welcome line, host gets the joined notice
	if countEvents(guestEvents, domain.EventChatMessage) != 1 {
		t.Errorf("Expected exactly one chat line for joiner, got %d", countEvents(guestEvents, domain.EventChatMessage))
	}
	if countEvents(hostEvents, domain.EventChatMessage) != 1 {
		t.Errorf("Expected exactly one chat line for host, got %d", countEvents(hostEvents, domain.EventChatMessage))
	}
}

func TestHub_JoinRoom_IdentityTimeoutDegradesToGuest(t *testing.T) {
	hub := newTestHub()
	hub.resolver = &fakeResolver{} // resolves everything to guest
	go hub.Run()

	c := newMockClient(hub, "Maybe")
	register(t, hub, c)

	hub.HandleJoinRoom(c, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Maybe", Token: "unknown-token"})

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if c.UserID != "" {
		t.Errorf("Expected guest join, got user id %q", c.UserID)
	}
	if c.RoomCode != "r1" {
		t.Error("Guest fallback must not block the join itself")
	}
}

func TestHub_AutoFriend_MutualAndIdempotent(t *testing.T) {
	friends := newFakeFriendRepo()
	hub := NewHub(Deps{
		Resolver: &fakeResolver{byToken: map[string]auth.Identity{
			"tok-a": {UserID: "user-a"},
			"tok-b": {UserID: "user-b"},
		}},
		Friends: friends,
		Log:     zerolog.Nop(),
	})
	go hub.Run()

	a := newMockClient(hub, "A")
	b := newMockClient(hub, "B")
	register(t, hub, a)
	register(t, hub, b)

	hub.HandleJoinRoom(a, domain.JoinRoomPayload{RoomCode: "r1", UserName: "A", IsHost: true, Token: "tok-a"})
	hub.HandleJoinRoom(b, domain.JoinRoomPayload{RoomCode: "r1", UserName: "B", Token: "tok-b"})

	// Upsert runs off the handler path
	for i := 0; i < 50 && friends.calls("user-a", "user-b") == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if friends.calls("user-a", "user-b") != 1 {
		t.Fatalf("Expected exactly 1 upsert for the pair, got %d", friends.calls("user-a", "user-b"))
	}

	// Both ends are notified
	if countEvents(drainEvents(a), domain.EventFriendRequestAccepted) != 1 {
		t.Error("Expected friendRequestAccepted on first member")
	}
	if countEvents(drainEvents(b), domain.EventFriendRequestAccepted) != 1 {
		t.Error("Expected friendRequestAccepted on joiner")
	}

	// Re-joining the same room repeats the upsert; the repo call count grows
	// but the operation itself is an idempotent accepted-status upsert
	hub.HandleLeaveRoom(b, "r1")
	hub.HandleJoinRoom(b, domain.JoinRoomPayload{RoomCode: "r1", UserName: "B", Token: "tok-b"})
	for i := 0; i < 50 && friends.calls("user-a", "user-b") < 2; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if friends.calls("user-a", "user-b") != 2 {
		t.Errorf("Expected repeated co-presence to re-run the upsert, got %d calls", friends.calls("user-a", "user-b"))
	}
}

func TestHub_AutoFriend_SurvivesMidUpsertDisconnect(t *testing.T) {
	friends := newFakeFriendRepo()
	friends.delay = 50 * time.Millisecond
	hub := NewHub(Deps{
		Resolver: &fakeResolver{byToken: map[string]auth.Identity{
			"tok-a": {UserID: "user-a"},
			"tok-b": {UserID: "user-b"},
		}},
		Friends: friends,
		Log:     zerolog.Nop(),
	})
	go hub.Run()

	a := newMockClient(hub, "A")
	b := newMockClient(hub, "B")
	register(t, hub, a)
	register(t, hub, b)

	hub.HandleJoinRoom(a, domain.JoinRoomPayload{RoomCode: "r1", UserName: "A", IsHost: true, Token: "tok-a"})
	hub.HandleJoinRoom(b, domain.JoinRoomPayload{RoomCode: "r1", UserName: "B", Token: "tok-b"})

	// One end disconnects while the upsert is still in flight; its send
	// channel is closed by the hub before the notification fires
	hub.Unregister(a)

	for i := 0; i < 50 && friends.calls("user-a", "user-b") == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if friends.calls("user-a", "user-b") != 1 {
		t.Fatalf("Expected the in-flight upsert to complete, got %d calls", friends.calls("user-a", "user-b"))
	}

	// The surviving end is still notified; the gone one is skipped silently
	if countEvents(drainEvents(b), domain.EventFriendRequestAccepted) != 1 {
		t.Error("Expected friendRequestAccepted on the surviving member")
	}
}

func TestHub_AutoFriend_RejoinDuringUpsert(t *testing.T) {
	friends := newFakeFriendRepo()
	friends.delay = 30 * time.Millisecond
	hub := NewHub(Deps{
		Resolver: &fakeResolver{byToken: map[string]auth.Identity{
			"tok-a":  {UserID: "user-a"},
			"tok-a2": {UserID: "user-a2"},
			"tok-b":  {UserID: "user-b"},
		}},
		Friends: friends,
		Log:     zerolog.Nop(),
	})
	go hub.Run()

	a := newMockClient(hub, "A")
	b := newMockClient(hub, "B")
	register(t, hub, a)
	register(t, hub, b)

	hub.HandleJoinRoom(a, domain.JoinRoomPayload{RoomCode: "r1", UserName: "A", IsHost: true, Token: "tok-a"})
	hub.HandleJoinRoom(b, domain.JoinRoomPayload{RoomCode: "r1", UserName: "B", Token: "tok-b"})

	// A assumes a new identity while B's upsert goroutine is still running;
	// the goroutine works on the ids snapshotted at spawn time
	hub.HandleJoinRoom(a, domain.JoinRoomPayload{RoomCode: "r1", UserName: "A", IsHost: true, Token: "tok-a2"})

	for i := 0; i < 50 && friends.calls("user-a2", "user-b") == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if friends.calls("user-b", "user-a") != 1 {
		t.Errorf("Expected the first pair recorded once, got %d", friends.calls("user-b", "user-a"))
	}
	if friends.calls("user-a2", "user-b") != 1 {
		t.Errorf("Expected the rejoin pair recorded once, got %d", friends.calls("user-a2", "user-b"))
	}
}

func TestHub_GuestsNeverAutoFriend(t *testing.T) {
	friends := newFakeFriendRepo()
	hub := NewHub(Deps{Friends: friends, Log: zerolog.Nop()})
	go hub.Run()

	a := newMockClient(hub, "A")
	b := newMockClient(hub, "B")
	register(t, hub, a)
	register(t, hub, b)

	hub.HandleJoinRoom(a, domain.JoinRoomPayload{RoomCode: "r1", UserName: "A", IsHost: true})
	hub.HandleJoinRoom(b, domain.JoinRoomPayload{RoomCode: "r1", UserName: "B"})

	time.Sleep(50 * time.Millisecond)
	friends.mu.Lock()
	defer friends.mu.Unlock()
	if len(friends.pairs) != 0 {
		t.Errorf("Expected no upserts between guests, got %v", friends.pairs)
	}
}

func TestHub_HostExit_TearsDownRoom(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	host := newMockClient(hub, "Host")
	g1 := newMockClient(hub, "G1")
	g2 := newMockClient(hub, "G2")
	register(t, hub, host)
	register(t, hub, g1)
	register(t, hub, g2)

	hub.HandleJoinRoom(host, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Host", IsHost: true})
	hub.HandleCreateRoom(host, domain.CreateRoomPayload{RoomCode: "r1", Type: "public", Name: "Movie Night", UserName: "Host"})
	hub.HandleJoinRoom(g1, domain.JoinRoomPayload{RoomCode: "r1", UserName: "G1"})
	hub.HandleJoinRoom(g2, domain.JoinRoomPayload{RoomCode: "r1", UserName: "G2"})
	hub.HandleLoadVideo(host, domain.LoadVideoPayload{RoomCode: "r1", VideoID: "dQw4w9WgXcQ"})

	drainEvents(g1)
	drainEvents(g2)

	hub.HandleLeaveRoom(host, "r1")

	for _, g := range []*Client{g1, g2} {
		events := drainEvents(g)
		if n := countEvents(events, domain.EventRoomEnded); n != 1 {
			t.Errorf("Expected exactly one roomEnded for %s, got %d", g.Name, n)
		}
	}

	hub.mu.RLock()
	_, playbackLeft := hub.playback["r1"]
	_, listingLeft := hub.listings["r1"]
	g1Room := g1.RoomCode
	hub.mu.RUnlock()

	if playbackLeft {
		t.Error("Expected playback state removed on host exit")
	}
	if listingLeft {
		t.Error("Expected public listing removed on host exit")
	}
	if g1Room != "" {
		t.Error("Expected guests force-removed from the room")
	}

	// A rejoin under the same code starts fresh: no leftover playback
	late := newMockClient(hub, "Late")
	register(t, hub, late)
	hub.HandleJoinRoom(late, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Late", IsHost: true})
	if countEvents(drainEvents(late), domain.EventRoomInitialSync) != 0 {
		t.Error("Expected no initial sync in a fresh room")
	}
}

func TestHub_GuestExit_UpdatesRoster(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	host := newMockClient(hub, "Host")
	guest := newMockClient(hub, "Guest")
	register(t, hub, host)
	register(t, hub, guest)

	hub.HandleJoinRoom(host, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Host", IsHost: true})
	hub.HandleJoinRoom(guest, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Guest"})
	drainEvents(host)

	hub.HandleLeaveRoom(guest, "r1")

	events := drainEvents(host)
	if countEvents(events, domain.EventRoomEnded) != 0 {
		t.Error("Guest exit must not end the room")
	}
	if countEvents(events, domain.EventUpdateUsers) != 1 {
		t.Error("Expected a roster broadcast after guest exit")
	}
	if countEvents(events, domain.EventChatMessage) != 1 {
		t.Error("Expected a departure notice after guest exit")
	}

	hub.mu.RLock()
	members := hub.memberListLocked("r1")
	hub.mu.RUnlock()
	if len(members) != 1 || members[0].Name != "Host" {
		t.Errorf("Expected only the host to remain, got %v", members)
	}
}

func TestHub_Disconnect_FlushesWatchTimeAndStatus(t *testing.T) {
	stats := newFakeStatsRepo()
	hub := NewHub(Deps{
		Resolver: &fakeResolver{byToken: map[string]auth.Identity{"tok": {UserID: "user-1"}}},
		Stats:    stats,
		Log:      zerolog.Nop(),
	})
	go hub.Run()

	c := newMockClient(hub, "Viewer")
	register(t, hub, c)
	hub.HandleJoinRoom(c, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Viewer", Token: "tok"})

	// Backdate the session start so elapsed time rounds above zero
	hub.mu.Lock()
	c.JoinedAt = time.Now().Add(-90 * time.Second)
	hub.mu.Unlock()

	hub.Unregister(c)

	var got int64
	for i := 0; i < 50; i++ {
		stats.mu.Lock()
		got = stats.watchSecs["user-1"]
		stats.mu.Unlock()
		if got > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got < 89 || got > 92 {
		t.Errorf("Expected ~90s of watch time, got %d", got)
	}

	if hub.StatusOf("user-1") != "offline" {
		t.Errorf("Expected status offline after disconnect, got %q", hub.StatusOf("user-1"))
	}
}

func TestHub_LeaveAfterTeardown_StillFlushesWatchTime(t *testing.T) {
	stats := newFakeStatsRepo()
	hub := NewHub(Deps{
		Resolver: &fakeResolver{byToken: map[string]auth.Identity{"tok": {UserID: "user-1"}}},
		Stats:    stats,
		Log:      zerolog.Nop(),
	})
	go hub.Run()

	host := newMockClient(hub, "Host")
	guest := newMockClient(hub, "Guest")
	register(t, hub, host)
	register(t, hub, guest)

	hub.HandleJoinRoom(host, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Host", IsHost: true})
	hub.HandleJoinRoom(guest, domain.JoinRoomPayload{RoomCode: "r1", UserName: "Guest", Token: "tok"})

	hub.mu.Lock()
	guest.JoinedAt = time.Now().Add(-60 * time.Second)
	hub.mu.Unlock()

	// Host teardown evicts the guest; its RoomCode is already cleared when
	// the guest's own leaveRoom arrives
	hub.HandleLeaveRoom(host, "r1")
	hub.HandleLeaveRoom(guest, "r1")

	var got int64
	for i := 0; i < 50; i++ {
		stats.mu.Lock()
		got = stats.watchSecs["user-1"]
		stats.mu.Unlock()
		if got > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got < 59 || got > 62 {
		t.Errorf("Expected ~60s of watch time flushed on stale leave, got %d", got)
	}
}

func TestHub_UpdateStatus(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	c := newMockClient(hub, "Viewer")
	register(t, hub, c)

	hub.HandleUpdateStatus(c, domain.UpdateStatusPayload{UserID: "user-9", Status: "busy"})

	if hub.StatusOf("user-9") != "busy" {
		t.Errorf("Expected status busy, got %q", hub.StatusOf("user-9"))
	}
	if countEvents(drainEvents(c), domain.EventStatusUpdated) != 1 {
		t.Error("Expected a statusUpdated ack")
	}
}

func TestHub_UpdateStatus_WithoutUserIsRejected(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	c := newMockClient(hub, "Guest")
	register(t, hub, c)

	hub.HandleUpdateStatus(c, domain.UpdateStatusPayload{Status: "busy"})

	events := drainEvents(c)
	if countEvents(events, domain.EventAuthError) != 1 {
		t.Error("Expected an authError for a guest updateStatus")
	}
	if countEvents(events, domain.EventStatusUpdated) != 0 {
		t.Error("Guest updateStatus must not be acked as success")
	}
}
