// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"authsvc/config"
	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultTokenTTL is the session token lifetime used when none is configured.
const DefaultTokenTTL = 6 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte        // Process-wide HMAC key, loaded once at startup.
	ttl    time.Duration // Time-to-live for session tokens.
	issuer string
	now    func() time.Time
}

// JWTOption customizes a jwtService.
type JWTOption func(*jwtService)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) JWTOption {
	return func(s *jwtService) {
		s.now = now
	}
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	ttl := DefaultTokenTTL
	issuer := ""
	if cfg.Auth != nil {
		ttl = cfg.Auth.TokenTTL
		issuer = cfg.Auth.Issuer
	}

	return NewJWTServiceWithSecret([]byte(cfg.SecretKey.Access), ttl, issuer)
}

// NewJWTServiceWithSecret builds a token service from explicit values.
func NewJWTServiceWithSecret(secret []byte, ttl time.Duration, issuer string, opts ...JWTOption) (service.TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must be provided")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	s := &jwtService{
		secret: secret,
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Issue creates a signed token whose subject is the user's ID.
func (s *jwtService) Issue(userID uuid.UUID) (string, *entity.TokenClaim, error) {
	// JWT NumericDate has second precision.
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to sign token")
	}

	return signed, &entity.TokenClaim{
		UserID:    userID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks the signature first and the expiry second, so a tampered
// token is always reported as invalid even when it is also expired.
func (s *jwtService) Verify(tokenString string) (*entity.TokenClaim, error) {
	claims := &jwt.RegisteredClaims{}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrExpiredToken, "token expired")
		}

		return nil, errors.Wrap(domainerrors.ErrInvalidToken, err.Error())
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidToken, "token subject is not a user id")
	}

	claim := &entity.TokenClaim{
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		claim.IssuedAt = claims.IssuedAt.Time
	}

	return claim, nil
}
