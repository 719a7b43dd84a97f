// Package service holds testify mocks for the domain services.
package service

import (
	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a testify mock of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock and asserts its expectations on cleanup.
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockPasswordHasherExpecter builds typed expectations.
type MockPasswordHasherExpecter struct {
	mock *mock.Mock
}

func (m *MockPasswordHasher) EXPECT() *MockPasswordHasherExpecter {
	return &MockPasswordHasherExpecter{mock: &m.Mock}
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (e *MockPasswordHasherExpecter) Hash(password any) *mock.Call {
	return e.mock.On("Hash", password)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

func (e *MockPasswordHasherExpecter) Check(password any, hash any) *mock.Call {
	return e.mock.On("Check", password, hash)
}
