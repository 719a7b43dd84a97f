// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"authsvc/internal/domain/entity"
)

// --- Input DTOs ---

// CreateAccountInput defines the data required to create an account.
// Email format is validated by the gateway before the usecase is called.
type CreateAccountInput struct {
	Email    string
	Name     string
	Password string
}

// RegisterInput defines the data required to create an account and open a session.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// AccountOutput returns the newly created user without its password hash.
type AccountOutput struct {
	User *entity.User
}

// SessionOutput returns a sanitized user together with a session token.
type SessionOutput struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// AuthUsecase defines the credential and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// CreateAccount fails with ErrDuplicateEmail or ErrPersistence.
	CreateAccount(ctx context.Context, input *CreateAccountInput) (*AccountOutput, error)

	// Login fails with ErrInvalidCredentials for an unknown email and for a
	// wrong password alike.
	Login(ctx context.Context, input *LoginInput) (*SessionOutput, error)

	// Register is CreateAccount followed by token issuance.
	Register(ctx context.Context, input *RegisterInput) (*SessionOutput, error)

	// IdentifyFromToken fails with ErrInvalidToken, ErrExpiredToken,
	// ErrUnknownSubject or ErrPersistence.
	IdentifyFromToken(ctx context.Context, token string) (*entity.AuthenticatedIdentity, error)
}

// IdentityResolver turns a raw session token into the identity it names.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*entity.AuthenticatedIdentity, error)
}
