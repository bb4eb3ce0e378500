package auth

import (
	"context"
	"errors"
	"testing"

	"userhub/internal/domain"
	"userhub/internal/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mock user reader implementing the interface
type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserReader) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Mock credential repository
type mockCredentialRepo struct {
	mock.Mock
}

func (m *mockCredentialRepo) GetByID(ctx context.Context, id string) (*domain.Credential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

func (m *mockCredentialRepo) Create(ctx context.Context, actor domain.UserLogged, c *domain.Credential) error {
	args := m.Called(ctx, actor, c)
	return args.Error(0)
}

func (m *mockCredentialRepo) PartialUpdate(ctx context.Context, actor domain.UserLogged, id string, fields map[string]any) error {
	args := m.Called(ctx, actor, id, fields)
	return args.Error(0)
}

func (m *mockCredentialRepo) Delete(ctx context.Context, actor domain.UserLogged, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// Mock token blacklist
type mockBlacklist struct {
	mock.Mock
}

func (m *mockBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockBlacklist) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Mock token signer
type mockSigner struct {
	mock.Mock
}

func (m *mockSigner) SignAccess(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *mockSigner) SignRefresh(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

type serviceFixture struct {
	users     *mockUserReader
	creds     *mockCredentialRepo
	blacklist *mockBlacklist
	signer    *mockSigner
	svc       *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		users:     new(mockUserReader),
		creds:     new(mockCredentialRepo),
		blacklist: new(mockBlacklist),
		signer:    new(mockSigner),
	}
	f.svc = NewService(f.users, f.creds, f.blacklist, f.signer, events.NewBus(), bcrypt.DefaultCost)
	return f
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestService_ValidateCredentials_Success(t *testing.T) {
	f := newServiceFixture()

	f.users.On("GetByID", mock.Anything, "1").Return(&domain.User{ID: "1", Name: "John"}, nil)
	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:           "1",
		PasswordHash: hashOf(t, "password"),
		Activated:    true,
	}, nil)

	user, err := f.svc.ValidateCredentials(context.Background(), LookupByID, "1", "password")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "1", user.ID)
}

func TestService_ValidateCredentials_WrongPassword(t *testing.T) {
	f := newServiceFixture()

	f.users.On("GetByID", mock.Anything, "1").Return(&domain.User{ID: "1"}, nil)
	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:           "1",
		PasswordHash: hashOf(t, "password"),
		Activated:    true,
	}, nil)

	user, err := f.svc.ValidateCredentials(context.Background(), LookupByID, "1", "wrong")

	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestService_ValidateCredentials_UnknownUser(t *testing.T) {
	f := newServiceFixture()

	f.users.On("GetByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	user, err := f.svc.ValidateCredentials(context.Background(), LookupByID, "ghost", "password")

	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestService_ValidateCredentials_ByEmail(t *testing.T) {
	f := newServiceFixture()

	f.users.On("GetByEmail", mock.Anything, "john@example.com").Return(&domain.User{ID: "1"}, nil)
	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:           "1",
		PasswordHash: hashOf(t, "password"),
		Activated:    true,
	}, nil)

	user, err := f.svc.ValidateCredentials(context.Background(), LookupByEmail, "john@example.com", "password")

	assert.NoError(t, err)
	assert.NotNil(t, user)
}

func TestService_ValidateCredentials_DisabledNeverAuthenticates(t *testing.T) {
	f := newServiceFixture()

	f.users.On("GetByID", mock.Anything, "1").Return(&domain.User{ID: "1"}, nil)
	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:           "1",
		PasswordHash: hashOf(t, "password"),
		Activated:    true,
		Disabled:     true,
	}, nil)

	user, err := f.svc.ValidateCredentials(context.Background(), LookupByID, "1", "password")

	assert.ErrorIs(t, err, ErrUserDisabled)
	assert.Nil(t, user)
}

func TestService_ValidateCredentials_NotActivated(t *testing.T) {
	f := newServiceFixture()

	f.users.On("GetByID", mock.Anything, "1").Return(&domain.User{ID: "1"}, nil)
	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:           "1",
		PasswordHash: hashOf(t, "password"),
		Activated:    false,
	}, nil)

	user, err := f.svc.ValidateCredentials(context.Background(), LookupByID, "1", "password")

	assert.ErrorIs(t, err, ErrUserNotActivated)
	assert.Nil(t, user)
}

func TestService_ValidateCredentials_DisabledCheckedBeforeActivation(t *testing.T) {
	f := newServiceFixture()

	f.users.On("GetByID", mock.Anything, "1").Return(&domain.User{ID: "1"}, nil)
	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:           "1",
		PasswordHash: hashOf(t, "password"),
		Activated:    false,
		Disabled:     true,
	}, nil)

	_, err := f.svc.ValidateCredentials(context.Background(), LookupByID, "1", "password")

	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestService_Login_SignsBothTokens(t *testing.T) {
	f := newServiceFixture()

	f.signer.On("SignAccess", "1").Return("access-token", nil)
	f.signer.On("SignRefresh", "1").Return("refresh-token", nil)

	result, err := f.svc.Login(&domain.User{ID: "1"})

	assert.NoError(t, err)
	assert.Equal(t, "1", result.ID)
	assert.Equal(t, "access-token", result.AccessToken)
	assert.Equal(t, "refresh-token", result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)
}

func TestService_Refresh_RevokesPresentedToken(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{ID: "1", Activated: true}, nil)
	f.blacklist.On("Revoke", mock.Anything, "old-token").Return(nil)
	f.signer.On("SignAccess", "1").Return("new-token", nil)

	token, err := f.svc.Refresh(context.Background(), "1", "old-token")

	assert.NoError(t, err)
	assert.Equal(t, "new-token", token)
	assert.NotEqual(t, "old-token", token)
	f.blacklist.AssertCalled(t, "Revoke", mock.Anything, "old-token")
}

func TestService_Refresh_UnknownUser(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "999").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Refresh(context.Background(), "999", "token")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	f.blacklist.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
}

func TestService_Refresh_EmptyInput(t *testing.T) {
	f := newServiceFixture()

	var invalidErr *domain.InvalidDataError

	_, err := f.svc.Refresh(context.Background(), "", "token")
	assert.ErrorAs(t, err, &invalidErr)

	_, err = f.svc.Refresh(context.Background(), "1", "")
	assert.ErrorAs(t, err, &invalidErr)
}

func TestService_Logout_Idempotent(t *testing.T) {
	f := newServiceFixture()

	f.blacklist.On("Revoke", mock.Anything, "access").Return(nil)
	f.blacklist.On("Revoke", mock.Anything, "refresh").Return(nil)

	assert.NoError(t, f.svc.Logout(context.Background(), "access", "refresh"))
	assert.NoError(t, f.svc.Logout(context.Background(), "access", "refresh"))

	f.blacklist.AssertNumberOfCalls(t, "Revoke", 4)
}

func TestService_ChangePassword_TooShort(t *testing.T) {
	f := newServiceFixture()

	err := f.svc.ChangePassword(context.Background(), domain.SystemActor, "1", "short")

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "password must be longer than or equal to 8 characters")
	f.creds.AssertNotCalled(t, "PartialUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ChangePassword_StoresHashNotPassword(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{ID: "1"}, nil)
	f.creds.On("PartialUpdate", mock.Anything, mock.Anything, "1", mock.MatchedBy(func(fields map[string]any) bool {
		hash, ok := fields["password"].(string)
		if !ok || hash == "newpassword" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")) == nil
	})).Return(nil)

	err := f.svc.ChangePassword(context.Background(), domain.SystemActor, "1", "newpassword")

	assert.NoError(t, err)
	f.creds.AssertExpectations(t)
}

func TestService_ChangePassword_UnknownUser(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "999").Return(nil, gorm.ErrRecordNotFound)

	err := f.svc.ChangePassword(context.Background(), domain.SystemActor, "999", "newpassword")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestService_Activate_Success(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:              "1",
		ActivationToken: "correct-token",
	}, nil)
	f.creds.On("PartialUpdate", mock.Anything, mock.Anything, "1",
		map[string]any{"activated": true}).Return(nil)

	err := f.svc.Activate(context.Background(), "1", "correct-token")

	assert.NoError(t, err)
	f.creds.AssertExpectations(t)
}

func TestService_Activate_WrongTokenDoesNotMutate(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:              "1",
		ActivationToken: "correct-token",
	}, nil)

	err := f.svc.Activate(context.Background(), "1", "wrong-token")

	assert.ErrorIs(t, err, ErrInvalidActivationToken)
	f.creds.AssertNotCalled(t, "PartialUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Activate_UnknownID(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "999").Return(nil, gorm.ErrRecordNotFound)

	err := f.svc.Activate(context.Background(), "999", "anytoken")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestService_Activate_AlreadyActiveSucceeds(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{
		ID:              "1",
		Activated:       true,
		ActivationToken: "correct-token",
	}, nil)
	f.creds.On("PartialUpdate", mock.Anything, mock.Anything, "1",
		map[string]any{"activated": true}).Return(nil)

	assert.NoError(t, f.svc.Activate(context.Background(), "1", "correct-token"))
}

func TestService_EnableDisable(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("PartialUpdate", mock.Anything, mock.Anything, "1",
		map[string]any{"disabled": true}).Return(nil)
	f.creds.On("PartialUpdate", mock.Anything, mock.Anything, "1",
		map[string]any{"disabled": false}).Return(nil)

	assert.NoError(t, f.svc.Disable(context.Background(), domain.SystemActor, "1"))
	assert.NoError(t, f.svc.Enable(context.Background(), domain.SystemActor, "1"))
	f.creds.AssertExpectations(t)
}

func TestService_CreateCredential_HashesPassword(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(c *domain.Credential) bool {
		return c.ID == "1" &&
			c.PasswordHash != "password123" &&
			bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("password123")) == nil
	})).Return(nil)

	err := f.svc.CreateCredential(context.Background(), domain.SystemActor, "1", "password123", "token")

	assert.NoError(t, err)
	f.creds.AssertExpectations(t)
}

func TestService_Refresh_PropagatesRevokeError(t *testing.T) {
	f := newServiceFixture()

	f.creds.On("GetByID", mock.Anything, "1").Return(&domain.Credential{ID: "1"}, nil)
	f.blacklist.On("Revoke", mock.Anything, "old").Return(errors.New("store down"))

	_, err := f.svc.Refresh(context.Background(), "1", "old")

	assert.Error(t, err)
	f.signer.AssertNotCalled(t, "SignAccess", mock.Anything)
}
