package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaim is the identity assertion carried inside a session token.
type TokenClaim struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthenticatedIdentity is the user resolved from a verified token.
// It lives only for the request that presented the token.
type AuthenticatedIdentity struct {
	User  *User
	Claim *TokenClaim
}
