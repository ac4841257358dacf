package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/Assey1152/orders/internal/infrastructure/auth"
)

// AuthService handles registration, email confirmation and login
type AuthService struct {
	users      identity.UserRepository
	tokens     identity.VerificationTokenRepository
	jwtService *auth.JWTService
	hasher     *auth.PasswordHasher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	tokens identity.VerificationTokenRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtService: jwtService,
		hasher:     hasher,
		logger:     logger,
	}
}

// Register creates an inactive account and a confirmation token.
// The confirmation email goes out through the registration event handler.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserView, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, shared.NewDomainError("INVALID_PASSWORD", err.Error())
		}
		return nil, err
	}

	userType := input.Type
	if userType == "" {
		userType = identity.UserTypeBuyer
	}

	user, err := identity.NewUser(input.Email, hash, input.FirstName, input.LastName, userType)
	if err != nil {
		return nil, err
	}
	user.Company = input.Company
	user.Position = input.Position

	// The token must exist before the registration event is delivered,
	// so it is saved first
	token := identity.NewVerificationToken(user.ID)
	if err := s.tokens.Save(ctx, token); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("type", string(user.Type)))

	view := NewUserView(user)
	return &view, nil
}

// ConfirmEmail activates the account matching the emailed token
func (s *AuthService) ConfirmEmail(ctx context.Context, email string, tokenValue uuid.UUID) error {
	token, err := s.tokens.FindByToken(ctx, tokenValue)
	if err != nil {
		return shared.NewDomainError("INVALID_TOKEN", "Confirmation token is not valid")
	}
	if token.IsExpired() {
		return shared.NewDomainError("INVALID_TOKEN", "Confirmation token has expired")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || user.ID != token.UserID {
		return shared.NewDomainError("INVALID_TOKEN", "Confirmation token is not valid")
	}

	user.Activate()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		s.logger.Warn("failed to delete used confirmation token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("email confirmed", zap.String("user_id", user.ID.String()))
	return nil
}

// Login verifies the credentials and issues a JWT access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Warn("invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Email address is not confirmed")
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, string(user.Type))
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: NewUserView(user)}, nil
}

// GetAccount returns the caller's own account
func (s *AuthService) GetAccount(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := NewUserView(user)
	return &view, nil
}

// UpdateAccount updates the caller's profile fields
func (s *AuthService) UpdateAccount(ctx context.Context, userID uuid.UUID, firstName, lastName, company, position string) (*UserView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.UpdateProfile(firstName, lastName, company, position)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	view := NewUserView(user)
	return &view, nil
}
