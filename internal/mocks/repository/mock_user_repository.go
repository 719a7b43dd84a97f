// Package repository holds testify mocks for the domain repositories.
package repository

import (
	"context"

	"authsvc/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a testify mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock and asserts its expectations on cleanup.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockUserRepositoryExpecter builds typed expectations.
type MockUserRepositoryExpecter struct {
	mock *mock.Mock
}

func (m *MockUserRepository) EXPECT() *MockUserRepositoryExpecter {
	return &MockUserRepositoryExpecter{mock: &m.Mock}
}

func (m *MockUserRepository) InsertUnique(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (e *MockUserRepositoryExpecter) InsertUnique(ctx any, user any) *mock.Call {
	return e.mock.On("InsertUnique", ctx, user)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (e *MockUserRepositoryExpecter) FindByEmail(ctx any, email any) *mock.Call {
	return e.mock.On("FindByEmail", ctx, email)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (e *MockUserRepositoryExpecter) FindByID(ctx any, id any) *mock.Call {
	return e.mock.On("FindByID", ctx, id)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (e *MockUserRepositoryExpecter) Delete(ctx any, id any) *mock.Call {
	return e.mock.On("Delete", ctx, id)
}
