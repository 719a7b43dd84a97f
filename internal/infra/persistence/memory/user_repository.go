// Package memory provides an in-process UserRepository used for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"authsvc/internal/domain/entity"
	"authsvc/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// userRepository keeps users in two maps guarded by one lock.
type userRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*entity.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewUserRepository creates an empty in-memory user store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:    make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

// InsertUnique checks and inserts under the write lock, so at most one of
// several concurrent inserts for the same email succeeds.
func (repo *userRepository) InsertUnique(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byEmail[user.Email]; exists {
		return errors.Wrapf(repository.ErrDuplicateKey, "email %s", user.Email)
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := repo.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	repo.byID[stored.ID] = &stored
	repo.byEmail[stored.Email] = stored.ID

	return nil
}

// FindByEmail returns a copy of the stored user.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	found := *repo.byID[id]

	return &found, nil
}

// FindByID returns a copy of the stored user.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	found := *user

	return &found, nil
}

// Delete removes the user and frees its email for a new account.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	delete(repo.byEmail, user.Email)
	delete(repo.byID, id)

	return nil
}
