package service

import (
	"authsvc/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a testify mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock and asserts its expectations on cleanup.
func NewMockTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// MockTokenServiceExpecter builds typed expectations.
type MockTokenServiceExpecter struct {
	mock *mock.Mock
}

func (m *MockTokenService) EXPECT() *MockTokenServiceExpecter {
	return &MockTokenServiceExpecter{mock: &m.Mock}
}

func (m *MockTokenService) Issue(userID uuid.UUID) (string, *entity.TokenClaim, error) {
	args := m.Called(userID)
	claim, _ := args.Get(1).(*entity.TokenClaim)

	return args.String(0), claim, args.Error(2)
}

func (e *MockTokenServiceExpecter) Issue(userID any) *mock.Call {
	return e.mock.On("Issue", userID)
}

func (m *MockTokenService) Verify(token string) (*entity.TokenClaim, error) {
	args := m.Called(token)
	claim, _ := args.Get(0).(*entity.TokenClaim)

	return claim, args.Error(1)
}

func (e *MockTokenServiceExpecter) Verify(token any) *mock.Call {
	return e.mock.On("Verify", token)
}
