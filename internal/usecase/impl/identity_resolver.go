package impl

import (
	"context"
	"log/slog"

	deliverycontext "authsvc/internal/delivery/context"
	"authsvc/internal/domain/entity"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/repository"
	"authsvc/internal/domain/service"
	"authsvc/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// identityResolver verifies a token and loads the user it names.
type identityResolver struct {
	userRepo     repository.UserRepository
	tokenService service.TokenService
	logger       *slog.Logger
}

// IdentityResolverParams holds dependencies for the identity resolver, injected by Fx.
type IdentityResolverParams struct {
	fx.In

	UserRepo     repository.UserRepository
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewIdentityResolver is the constructor for identityResolver.
func NewIdentityResolver(params IdentityResolverParams) usecase.IdentityResolver {
	return &identityResolver{
		userRepo:     params.UserRepo,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (r *identityResolver) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, r.logger)
}

// ResolveIdentity checks signature and expiry before touching the store.
// A verified token whose user no longer exists yields ErrUnknownSubject.
func (r *identityResolver) ResolveIdentity(ctx context.Context, token string) (*entity.AuthenticatedIdentity, error) {
	claim, err := r.tokenService.Verify(token)
	if err != nil {
		r.log(ctx).Debug("Token rejected", slog.Any("error", err))

		return nil, err
	}

	user, err := r.userRepo.FindByID(ctx, claim.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			r.log(ctx).Info("Token subject no longer exists", slog.Any("userID", claim.UserID))

			return nil, domainerrors.ErrUnknownSubject.WrapMessage("user for token subject not found")
		}

		r.log(ctx).Error("Failed to load token subject", slog.Any("userID", claim.UserID), slog.Any("error", err))

		return nil, domainerrors.NewPersistenceError(err, "failed to load token subject")
	}

	return &entity.AuthenticatedIdentity{
		User:  user.Sanitized(),
		Claim: claim,
	}, nil
}
