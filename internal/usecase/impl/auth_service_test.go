package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/infra/auth"
	"authsvc/internal/infra/metrics"
	mockRepo "authsvc/internal/mocks/repository"
	mockSvc "authsvc/internal/mocks/service"
	"authsvc/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixtures(t)

	registered, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Name: "Ann", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", registered.User.Name)
	assert.Empty(t, registered.User.PasswordHash)
	assert.NotEmpty(t, registered.Token)

	loggedIn, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)
	assert.NotEmpty(t, loggedIn.Token)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.Empty(t, loggedIn.User.PasswordHash)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "wrong"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	identity, err := fx.service.IdentifyFromToken(ctx, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ann", identity.User.Name)
	assert.Equal(t, registered.User.ID, identity.Claim.UserID)
	assert.Empty(t, identity.User.PasswordHash)
}

func TestAuthService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixtures(t)

	out, err := fx.service.CreateAccount(ctx, &usecase.CreateAccountInput{Email: "new@example.com", Name: "New", Password: "secret"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, out.User.ID)
	assert.Empty(t, out.User.PasswordHash)

	stored, err := fx.userRepo.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.True(t, fx.hasher.inner.Check("secret", stored.PasswordHash))

	_, err = fx.service.CreateAccount(ctx, &usecase.CreateAccountInput{Email: "new@example.com", Name: "Other", Password: "other"})
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))

	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.Operations.WithLabelValues(metrics.OperationCreateAccount, metrics.OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.Operations.WithLabelValues(metrics.OperationCreateAccount, metrics.OutcomeDuplicateEmail)), 0)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixtures(t)

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "dup@example.com", Name: "One", Password: "pw"})
	require.NoError(t, err)

	out, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "dup@example.com", Name: "Two", Password: "pw"})
	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestAuthService_Login_EnumerationParity(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixtures(t)

	_, err := fx.service.CreateAccount(ctx, &usecase.CreateAccountInput{Email: "known@example.com", Name: "Known", Password: "right"})
	require.NoError(t, err)
	hashesAfterSetup := fx.hasher.hashes.Load()

	checksBefore := fx.hasher.checks.Load()
	_, unknownErr := fx.service.Login(ctx, &usecase.LoginInput{Email: "unknown@example.com", Password: "right"})
	unknownChecks := fx.hasher.checks.Load() - checksBefore

	checksBefore = fx.hasher.checks.Load()
	_, wrongErr := fx.service.Login(ctx, &usecase.LoginInput{Email: "known@example.com", Password: "wrong"})
	wrongChecks := fx.hasher.checks.Load() - checksBefore

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.True(t, errors.Is(unknownErr, domainerrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(wrongErr, domainerrors.ErrInvalidCredentials))
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())

	// Both paths perform exactly one password comparison.
	assert.Equal(t, int32(1), unknownChecks)
	assert.Equal(t, int32(1), wrongChecks)

	// The dummy hash is computed once and reused.
	_, _ = fx.service.Login(ctx, &usecase.LoginInput{Email: "other-unknown@example.com", Password: "x"})
	assert.Equal(t, hashesAfterSetup+1, fx.hasher.hashes.Load())

	assert.InDelta(t, 3, testutil.ToFloat64(fx.metrics.Operations.WithLabelValues(metrics.OperationLogin, metrics.OutcomeInvalidCredentials)), 0)
}

func TestAuthService_IdentifyFromToken_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		fx := newAuthFixtures(t)

		identity, err := fx.service.IdentifyFromToken(ctx, "not-a-token")
		assert.Nil(t, identity)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		issuer := newAuthFixtures(t, auth.WithClock(func() time.Time { return past }))
		fx := newAuthFixtures(t)

		out, err := issuer.service.Register(ctx, &usecase.RegisterInput{Email: "old@example.com", Name: "Old", Password: "pw"})
		require.NoError(t, err)

		_, err = fx.service.IdentifyFromToken(ctx, out.Token)
		assert.True(t, errors.Is(err, domainerrors.ErrExpiredToken))
		assert.InDelta(t, 1, testutil.ToFloat64(fx.metrics.Operations.WithLabelValues(metrics.OperationIdentify, metrics.OutcomeExpiredToken)), 0)
	})

	t.Run("deleted subject", func(t *testing.T) {
		fx := newAuthFixtures(t)

		out, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "bye@example.com", Name: "Bye", Password: "pw"})
		require.NoError(t, err)
		require.NoError(t, fx.userRepo.Delete(ctx, out.User.ID))

		_, err = fx.service.IdentifyFromToken(ctx, out.Token)
		assert.True(t, errors.Is(err, domainerrors.ErrUnknownSubject))
		assert.True(t, domainerrors.IsUnauthorized(err))
	})
}

func TestAuthService_ConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	fx := newAuthFixtures(t)

	const workers = 16
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		winners    []*usecase.SessionOutput
		duplicates int
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			out, err := fx.service.Register(ctx, &usecase.RegisterInput{Email: "race@example.com", Name: "Racer", Password: "pw"})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, out)
			case errors.Is(err, domainerrors.ErrDuplicateEmail):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, workers-1, duplicates)

	stored, err := fx.userRepo.FindByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	assert.Equal(t, winners[0].User.ID, stored.ID)
}

func TestAuthService_PersistenceFailures(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection refused")

	newService := func(t *testing.T, userRepo repository.UserRepository) usecase.AuthUsecase {
		base := newAuthFixtures(t)

		return NewAuthService(AuthServiceParams{
			UserRepo:     userRepo,
			Hasher:       base.hasher,
			TokenService: base.tokens,
			Identity: NewIdentityResolver(IdentityResolverParams{
				UserRepo:     userRepo,
				TokenService: base.tokens,
				Logger:       newDiscardLogger(),
			}),
			Logger: newDiscardLogger(),
		})
	}

	t.Run("insert failure is not a duplicate", func(t *testing.T) {
		userRepo := mockRepo.NewMockUserRepository(t)
		userRepo.EXPECT().InsertUnique(mock.Anything, mock.AnythingOfType("*entity.User")).Return(storeErr).Once()

		_, err := newService(t, userRepo).CreateAccount(ctx, &usecase.CreateAccountInput{Email: "a@example.com", Name: "A", Password: "pw"})
		assert.True(t, errors.Is(err, domainerrors.ErrPersistence))
		assert.False(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("login lookup failure", func(t *testing.T) {
		userRepo := mockRepo.NewMockUserRepository(t)
		userRepo.EXPECT().FindByEmail(mock.Anything, "a@example.com").Return(nil, storeErr).Once()

		_, err := newService(t, userRepo).Login(ctx, &usecase.LoginInput{Email: "a@example.com", Password: "pw"})
		assert.True(t, errors.Is(err, domainerrors.ErrPersistence))
		assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("identity lookup failure", func(t *testing.T) {
		userID := uuid.New()
		base := newAuthFixtures(t)
		token, _, err := base.tokens.Issue(userID)
		require.NoError(t, err)

		userRepo := mockRepo.NewMockUserRepository(t)
		userRepo.EXPECT().FindByID(mock.Anything, userID).Return(nil, storeErr).Once()

		_, err = newService(t, userRepo).IdentifyFromToken(ctx, token)
		assert.True(t, errors.Is(err, domainerrors.ErrPersistence))
		assert.False(t, domainerrors.IsUnauthorized(err))
	})
}

func TestAuthService_HashAndIssueFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("hash failure", func(t *testing.T) {
		hasher := mockSvc.NewMockPasswordHasher(t)
		hasher.EXPECT().Hash("pw").Return("", errors.New("too long")).Once()
		userRepo := mockRepo.NewMockUserRepository(t)

		svc := NewAuthService(AuthServiceParams{
			UserRepo: userRepo,
			Hasher:   hasher,
			Logger:   newDiscardLogger(),
		})

		_, err := svc.CreateAccount(ctx, &usecase.CreateAccountInput{Email: "a@example.com", Name: "A", Password: "pw"})
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
		userRepo.AssertNotCalled(t, "InsertUnique", mock.Anything, mock.Anything)
	})

	t.Run("issue failure", func(t *testing.T) {
		user := &entity.User{ID: uuid.New(), Email: "a@example.com", Name: "A", PasswordHash: "hash"}
		userRepo := mockRepo.NewMockUserRepository(t)
		userRepo.EXPECT().FindByEmail(mock.Anything, "a@example.com").Return(user, nil).Once()
		hasher := mockSvc.NewMockPasswordHasher(t)
		hasher.EXPECT().Check("pw", "hash").Return(true).Once()
		tokens := mockSvc.NewMockTokenService(t)
		tokens.EXPECT().Issue(user.ID).Return("", nil, errors.New("signing failed")).Once()

		svc := NewAuthService(AuthServiceParams{
			UserRepo:     userRepo,
			Hasher:       hasher,
			TokenService: tokens,
			Logger:       newDiscardLogger(),
		})

		_, err := svc.Login(ctx, &usecase.LoginInput{Email: "a@example.com", Password: "pw"})
		assert.True(t, errors.Is(err, domainerrors.ErrTokenIssueFailed))
	})
}
