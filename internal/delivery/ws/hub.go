package ws

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/framesync/framesync/internal/auth"
	"github.com/framesync/framesync/internal/domain"
	"github.com/framesync/framesync/internal/repository"
)

// IdentityResolver resolves a join-time credential to a user identity
type IdentityResolver interface {
	Resolve(ctx context.Context, token, email string) auth.Identity
}

// Hub is the single in-process authority for every room. It owns the
// connection registry, the public room directory, the playback state store
// and the presence map; all of them are mutated only through its handlers.
type Hub struct {
	mu sync.RWMutex

	clients  map[string]*Client                   // connection registry, keyed by connection id
	listings map[string]*domain.RoomListing       // public room directory, keyed by room code
	playback map[string]*domain.PlaybackState     // last host load event per room code
	statuses map[string]string                    // presence, keyed by resolved user id

	register   chan *Client
	unregister chan *Client

	resolver IdentityResolver
	friends  repository.FriendRepository
	rooms    repository.RoomRepository
	stats    repository.StatsRepository

	persistTimeout time.Duration
	driftInterval  time.Duration
	maxMessageSize int64
	log            zerolog.Logger
}

// Deps carries the hub's external collaborators. Any repository may be nil;
// the corresponding side effect is then skipped entirely.
type Deps struct {
	Resolver IdentityResolver
	Friends  repository.FriendRepository
	Rooms    repository.RoomRepository
	Stats    repository.StatsRepository

	PersistTimeout time.Duration
	DriftInterval  time.Duration
	MaxMessageSize int64
	Log            zerolog.Logger
}

// NewHub creates a new Hub with empty state
func NewHub(deps Deps) *Hub {
	if deps.PersistTimeout <= 0 {
		deps.PersistTimeout = domain.PersistTimeout
	}
	if deps.DriftInterval <= 0 {
		deps.DriftInterval = domain.DriftPulseInterval
	}
	if deps.MaxMessageSize <= 0 {
		deps.MaxMessageSize = domain.MaxMessageSize
	}
	return &Hub{
		clients:        make(map[string]*Client),
		listings:       make(map[string]*domain.RoomListing),
		playback:       make(map[string]*domain.PlaybackState),
		statuses:       make(map[string]string),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		resolver:       deps.Resolver,
		friends:        deps.Friends,
		rooms:          deps.Rooms,
		stats:          deps.Stats,
		persistTimeout: deps.PersistTimeout,
		driftInterval:  deps.DriftInterval,
		maxMessageSize: deps.MaxMessageSize,
		log:            deps.Log,
	}
}

// Run starts the hub's connect/disconnect loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Debug().Str("conn_id", client.ID).Msg("connection registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; !ok {
				h.mu.Unlock()
				continue // already unregistered
			}
			delete(h.clients, client.ID)
			if client.UserID != "" {
				h.statuses[client.UserID] = "offline"
			}
			h.mu.Unlock()

			h.exitRoom(client)
			close(client.send)
			h.log.Debug().Str("conn_id", client.ID).Msg("connection unregistered")
		}
	}
}

// Register adds a connection to the registry
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a connection, running the full disconnect transition
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// ClientCount returns the number of live connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// roomMembersLocked returns every connection currently joined to the room.
// Membership is always recomputed from the registry, never cached.
// NOTE: caller must hold at least RLock.
func (h *Hub) roomMembersLocked(roomCode string) []*Client {
	var members []*Client
	for _, c := range h.clients {
		if c.RoomCode == roomCode {
			members = append(members, c)
		}
	}
	return members
}

// memberListLocked builds the updateUsers payload for a room.
// NOTE: caller must hold at least RLock.
func (h *Hub) memberListLocked(roomCode string) []domain.RoomUser {
	users := make([]domain.RoomUser, 0)
	for _, c := range h.clients {
		if c.RoomCode != roomCode {
			continue
		}
		users = append(users, domain.RoomUser{
			Name:     c.Name,
			IsHost:   c.IsHost,
			UserID:   c.UserID,
			SocketID: c.ID,
			Avatar:   c.Avatar,
		})
	}
	return users
}

// broadcastRoomLocked delivers data to every member of the room, skipping
// excludeID when non-empty.
// NOTE: caller must hold at least RLock.
func (h *Hub) broadcastRoomLocked(roomCode string, data []byte, excludeID string) {
	for _, c := range h.clients {
		if c.RoomCode != roomCode || c.ID == excludeID {
			continue
		}
		c.enqueue(data)
	}
}

// broadcastAllLocked delivers data to every live connection.
// NOTE: caller must hold at least RLock.
func (h *Hub) broadcastAllLocked(data []byte) {
	for _, c := range h.clients {
		c.enqueue(data)
	}
}

// persistCtx returns a bounded context for a best-effort persistence call
func (h *Hub) persistCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.persistTimeout)
}
