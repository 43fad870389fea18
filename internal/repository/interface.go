package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("repository: not found")

// UserRepository resolves identities. Every method is called best-effort
// from connection handlers under a bounded context.
type UserRepository interface {
	// Exists reports whether a user row with the given id is present
	Exists(ctx context.Context, userID string) (bool, error)
	// IDByEmail returns the user id for an email, or ErrNotFound
	IDByEmail(ctx context.Context, email string) (string, error)
	// AvatarByID returns the user's avatar URL, or "" when unset
	AvatarByID(ctx context.Context, userID string) (string, error)
}

// FriendRepository records room co-presence as accepted friendships
type FriendRepository interface {
	// UpsertMutual marks both directions of (a, b) as accepted friends.
	// Idempotent: repeated co-presence never duplicates rows.
	UpsertMutual(ctx context.Context, userID, friendID string) error
}

// RoomRepository persists created rooms
type RoomRepository interface {
	// Save inserts the room, silently keeping the existing row on conflict
	Save(ctx context.Context, code, hostID string, public bool) error
}

// StatsRepository records history the core never reads back
type StatsRepository interface {
	AppendSync(ctx context.Context, roomCode, userID, mediaType, mediaID string) error
	AddReaction(ctx context.Context, roomCode, userID, emoji string) error
	// AddWatchTime accumulates seconds onto the user's lifetime counter
	AddWatchTime(ctx context.Context, userID string, seconds int64) error
}
