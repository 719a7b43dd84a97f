package service

import (
	"authsvc/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenService issues and verifies signed, self-contained session tokens.
// No session state is kept server-side; validity is recomputed from the token.
type TokenService interface {
	// Issue creates a token for the given user, expiring after the deployment-wide TTL.
	Issue(userID uuid.UUID) (string, *entity.TokenClaim, error)

	// Verify checks the token's signature and expiry and returns its claim.
	// It fails with ErrInvalidToken or ErrExpiredToken from the domain errors package.
	Verify(token string) (*entity.TokenClaim, error)
}
