package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/framesync/framesync/internal/repository"
)

// Identity is the result of best-effort identity resolution. A zero UserID
// means the connection proceeds as a guest.
type Identity struct {
	UserID string
	Avatar string
}

// Resolver turns a join-time credential (JWT or email) into a stable user
// identity. Every failure path degrades to guest; nothing here ever blocks
// a join beyond the caller's context deadline.
type Resolver struct {
	secret []byte
	users  repository.UserRepository
	log    zerolog.Logger
}

// NewResolver creates a Resolver verifying tokens with the given HMAC secret
func NewResolver(secret string, users repository.UserRepository, log zerolog.Logger) *Resolver {
	return &Resolver{secret: []byte(secret), users: users, log: log}
}

// Resolve resolves a credential to an Identity. Token takes precedence over
// email. A verified token is additionally checked against the user store so
// tokens for deleted accounts fall back to guest; if that check itself fails
// or times out, the token's claim is trusted as-is rather than stalling the
// join.
func (r *Resolver) Resolve(ctx context.Context, token, email string) Identity {
	var id Identity

	switch {
	case token != "":
		userID, err := r.verifiedUserID(token)
		if err != nil {
			r.log.Warn().Err(err).Msg("token verification failed, proceeding as guest")
			return id
		}

		exists, err := r.users.Exists(ctx, userID)
		if err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("identity check degraded, trusting token claim")
			id.UserID = userID
		} else if exists {
			id.UserID = userID
		} else {
			r.log.Warn().Str("user_id", userID).Msg("token references missing user, proceeding as guest")
			return id
		}

	case email != "":
		userID, err := r.users.IDByEmail(ctx, email)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				r.log.Warn().Err(err).Msg("email lookup failed, proceeding as guest")
			}
			return id
		}
		id.UserID = userID

	default:
		return id
	}

	// Avatar is decoration only; a miss here never fails the join
	if id.UserID != "" {
		if avatar, err := r.users.AvatarByID(ctx, id.UserID); err == nil {
			id.Avatar = avatar
		}
	}

	return id
}

// verifiedUserID parses and verifies the token, returning its id claim
func (r *Resolver) verifiedUserID(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claimString(claims, "id")
}

// claimString normalizes a claim that may arrive as a string or a number
func claimString(claims jwt.MapClaims, key string) (string, error) {
	switch v := claims[key].(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("auth: empty %q claim", key)
		}
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("auth: missing %q claim", key)
	}
}
