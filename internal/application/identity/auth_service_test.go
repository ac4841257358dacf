package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Assey1152/orders/internal/domain/identity"
	"github.com/Assey1152/orders/internal/domain/shared"
	"github.com/Assey1152/orders/internal/infrastructure/auth"
	"github.com/Assey1152/orders/internal/infrastructure/config"
)

type fakeUserRepository struct {
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepository) Save(_ context.Context, user *identity.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeTokenRepository struct {
	tokens map[uuid.UUID]*identity.VerificationToken
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{tokens: make(map[uuid.UUID]*identity.VerificationToken)}
}

func (r *fakeTokenRepository) FindByToken(_ context.Context, token uuid.UUID) (*identity.VerificationToken, error) {
	for _, vt := range r.tokens {
		if vt.Token == token {
			return vt, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTokenRepository) FindByUser(_ context.Context, userID uuid.UUID) (*identity.VerificationToken, error) {
	for _, vt := range r.tokens {
		if vt.UserID == userID {
			return vt, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTokenRepository) Save(_ context.Context, token *identity.VerificationToken) error {
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeTokenRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.tokens[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tokens, id)
	return nil
}

type authFixture struct {
	service *AuthService
	users   *fakeUserRepository
	tokens  *fakeTokenRepository
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  newFakeUserRepository(),
		tokens: newFakeTokenRepository(),
	}
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "orders-test",
	})
	f.service = NewAuthService(f.users, f.tokens, jwtService, auth.NewPasswordHasher(), zap.NewNop())
	return f
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:     "buyer@example.com",
		Password:  "correct horse battery",
		FirstName: "Иван",
		LastName:  "Петров",
		Type:      identity.UserTypeBuyer,
	}
}

func TestAuthService_Register(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	view, err := fixture.service.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", view.Email)
	assert.False(t, view.Active)

	// A confirmation token is waiting for the notification handler
	token, err := fixture.tokens.FindByUser(ctx, view.ID)
	require.NoError(t, err)
	assert.False(t, token.IsExpired())

	// The registration event is queued on the aggregate
	user, err := fixture.users.FindByID(ctx, view.ID)
	require.NoError(t, err)
	events := user.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "identity.user.registered", events[0].EventType())
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	_, err := fixture.service.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = fixture.service.Register(ctx, registerInput())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	fixture := newAuthFixture()
	input := registerInput()
	input.Password = "short"

	_, err := fixture.service.Register(context.Background(), input)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
}

func TestAuthService_ConfirmEmail(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	view, err := fixture.service.Register(ctx, registerInput())
	require.NoError(t, err)
	token, err := fixture.tokens.FindByUser(ctx, view.ID)
	require.NoError(t, err)

	require.NoError(t, fixture.service.ConfirmEmail(ctx, view.Email, token.Token))

	user, err := fixture.users.FindByID(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, user.Active)

	// The token is single-use
	err = fixture.service.ConfirmEmail(ctx, view.Email, token.Token)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestAuthService_ConfirmEmail_WrongEmail(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	view, err := fixture.service.Register(ctx, registerInput())
	require.NoError(t, err)
	token, err := fixture.tokens.FindByUser(ctx, view.ID)
	require.NoError(t, err)

	err = fixture.service.ConfirmEmail(ctx, "someone.else@example.com", token.Token)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestAuthService_Login(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	view, err := fixture.service.Register(ctx, registerInput())
	require.NoError(t, err)

	// Unconfirmed accounts cannot log in
	_, err = fixture.service.Login(ctx, view.Email, "correct horse battery")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)

	token, err := fixture.tokens.FindByUser(ctx, view.ID)
	require.NoError(t, err)
	require.NoError(t, fixture.service.ConfirmEmail(ctx, view.Email, token.Token))

	result, err := fixture.service.Login(ctx, view.Email, "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token.AccessToken)
	assert.Equal(t, view.ID, result.User.ID)

	_, err = fixture.service.Login(ctx, view.Email, "wrong password")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)

	_, err = fixture.service.Login(ctx, "nobody@example.com", "whatever")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_UpdateAccount(t *testing.T) {
	fixture := newAuthFixture()
	ctx := context.Background()

	view, err := fixture.service.Register(ctx, registerInput())
	require.NoError(t, err)

	updated, err := fixture.service.UpdateAccount(ctx, view.ID, "Пётр", "Иванов", "Евросеть", "менеджер")
	require.NoError(t, err)
	assert.Equal(t, "Пётр", updated.FirstName)
	assert.Equal(t, "Евросеть", updated.Company)
}
