package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket message size in bytes
const MaxMessageSize = 8192

// ==== Sync Constants ====

const (
	// DriftPulseInterval is how often the hub asks each room's host for a
	// playback position pulse to correct long-run drift between players
	DriftPulseInterval = 10 * time.Second

	// PersistTimeout bounds every persistence call made from a connection
	// handler; on expiry the operation degrades instead of blocking the caller
	PersistTimeout = 2 * time.Second
)

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket connections (req/sec)
	DefaultRateLimitWS = 5
)

// DefaultRoomCapacity is used when createRoom carries no usable capacity
const DefaultRoomCapacity = 8
