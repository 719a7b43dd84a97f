package impl

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"authsvc/internal/domain/repository"
	"authsvc/internal/domain/service"
	"authsvc/internal/infra/auth"
	"authsvc/internal/infra/metrics"
	"authsvc/internal/infra/persistence/memory"
	"authsvc/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testTokenSecret = "usecase-test-secret-with-enough-entropy"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingHasher wraps a real hasher and counts calls.
type countingHasher struct {
	inner  service.PasswordHasher
	hashes atomic.Int32
	checks atomic.Int32
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes.Add(1)

	return h.inner.Hash(password)
}

func (h *countingHasher) Check(password, hash string) bool {
	h.checks.Add(1)

	return h.inner.Check(password, hash)
}

// authFixtures wires the usecase to real collaborators backed by the memory store.
type authFixtures struct {
	service  usecase.AuthUsecase
	userRepo repository.UserRepository
	hasher   *countingHasher
	tokens   service.TokenService
	metrics  *metrics.AuthMetrics
}

func newAuthFixtures(t *testing.T, opts ...auth.JWTOption) authFixtures {
	t.Helper()

	userRepo := memory.NewUserRepository()
	hasher := &countingHasher{inner: auth.NewBcryptHasherWithCost(bcrypt.MinCost)}
	tokens, err := auth.NewJWTServiceWithSecret([]byte(testTokenSecret), time.Hour, "authsvc-test", opts...)
	require.NoError(t, err)
	authMetrics := metrics.NewAuthMetrics(metrics.NewRegistry())
	logger := newDiscardLogger()

	resolver := NewIdentityResolver(IdentityResolverParams{
		UserRepo:     userRepo,
		TokenService: tokens,
		Logger:       logger,
	})

	svc := NewAuthService(AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokens,
		Identity:     resolver,
		Metrics:      authMetrics,
		Logger:       logger,
	})

	return authFixtures{
		service:  svc,
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		metrics:  authMetrics,
	}
}
