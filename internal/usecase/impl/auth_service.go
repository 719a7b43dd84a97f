// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/domain/service"
	"authsvc/internal/infra/metrics"
	"authsvc/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dummyPassword is hashed once and compared against when the email is
// unknown, so that both login failure paths pay for one hash comparison.
const dummyPassword = "authsvc-login-timing-parity"

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	identity     usecase.IdentityResolver
	metrics      *metrics.AuthMetrics
	logger       *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Identity     usecase.IdentityResolver
	Metrics      *metrics.AuthMetrics `optional:"true"`
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		identity:     params.Identity,
		metrics:      params.Metrics,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateAccount hashes the password and inserts the user. The store decides
// uniqueness; there is no separate existence check.
func (srv *authService) CreateAccount(ctx context.Context, input *usecase.CreateAccountInput) (*usecase.AccountOutput, error) {
	user, err := srv.createAccount(ctx, input.Email, input.Name, input.Password)
	srv.metrics.RecordOperation(metrics.OperationCreateAccount, accountOutcome(err))
	if err != nil {
		return nil, err
	}

	return &usecase.AccountOutput{User: user.Sanitized()}, nil
}

func (srv *authService) createAccount(ctx context.Context, email, name, password string) (*entity.User, error) {
	srv.log(ctx).Info("Creating account", slog.String("email", email))

	hashedPassword, err := srv.hasher.Hash(password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.String("email", email), slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user := &entity.User{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
	}

	if err := srv.userRepo.InsertUnique(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			srv.log(ctx).Warn("Email already registered", slog.String("email", email))

			return nil, domainerrors.ErrDuplicateEmail.WrapMessage("email already registered")
		}

		srv.log(ctx).Error("Failed to persist account", slog.String("email", email), slog.Any("error", err))

		return nil, domainerrors.NewPersistenceError(err, "failed to persist account")
	}

	srv.log(ctx).Debug("Account created", slog.Any("userID", user.ID))

	return user, nil
}

// Login verifies the password and issues a session token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	out, err := srv.login(ctx, input)
	srv.metrics.RecordOperation(metrics.OperationLogin, loginOutcome(err))

	return out, err
}

func (srv *authService) login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.checkPassword(input.Password, srv.loadDummyHash())
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		srv.log(ctx).Error("Login lookup failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, domainerrors.NewPersistenceError(err, "failed to load user for login")
	}

	if !srv.checkPassword(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	out, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return out, nil
}

// Register creates the account and opens a session for it.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.SessionOutput, error) {
	out, err := srv.register(ctx, input)
	srv.metrics.RecordOperation(metrics.OperationRegister, accountOutcome(err))

	return out, err
}

func (srv *authService) register(ctx context.Context, input *usecase.RegisterInput) (*usecase.SessionOutput, error) {
	user, err := srv.createAccount(ctx, input.Email, input.Name, input.Password)
	if err != nil {
		return nil, err
	}

	return srv.openSession(ctx, user)
}

// IdentifyFromToken resolves the caller behind a session token.
func (srv *authService) IdentifyFromToken(ctx context.Context, token string) (*entity.AuthenticatedIdentity, error) {
	identity, err := srv.identity.ResolveIdentity(ctx, token)
	srv.metrics.RecordOperation(metrics.OperationIdentify, identifyOutcome(err))

	return identity, err
}

func (srv *authService) openSession(ctx context.Context, user *entity.User) (*usecase.SessionOutput, error) {
	token, claim, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	return &usecase.SessionOutput{
		User:      user.Sanitized(),
		Token:     token,
		ExpiresAt: claim.ExpiresAt,
	}, nil
}

func (srv *authService) checkPassword(password, hash string) bool {
	start := time.Now()
	ok := srv.hasher.Check(password, hash)
	srv.metrics.ObservePasswordCheck(time.Since(start))

	return ok
}

// loadDummyHash computes the parity hash on first use with the same hasher,
// and therefore the same cost, as real accounts.
func (srv *authService) loadDummyHash() string {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err != nil {
			srv.logger.Error("Failed to compute dummy password hash", slog.Any("error", err))

			return
		}
		srv.dummyHash = hash
	})

	return srv.dummyHash
}

func accountOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domainerrors.ErrDuplicateEmail):
		return metrics.OutcomeDuplicateEmail
	default:
		return metrics.OutcomeError
	}
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		return metrics.OutcomeInvalidCredentials
	default:
		return metrics.OutcomeError
	}
}

func identifyOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domainerrors.ErrExpiredToken):
		return metrics.OutcomeExpiredToken
	case errors.Is(err, domainerrors.ErrInvalidToken):
		return metrics.OutcomeInvalidToken
	case errors.Is(err, domainerrors.ErrUnknownSubject):
		return metrics.OutcomeUnknownSubject
	default:
		return metrics.OutcomeError
	}
}
