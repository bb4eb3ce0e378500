package auth

import (
	"context"
	"errors"
	"strings"

	"userhub/internal/domain"
	"userhub/internal/pkg/events"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LookupKey selects how ValidateCredentials resolves the identity record.
type LookupKey string

const (
	LookupByID    LookupKey = "id"
	LookupByEmail LookupKey = "email"
)

type tokenSigner interface {
	SignAccess(userID string) (string, error)
	SignRefresh(userID string) (string, error)
}

// Service orchestrates login, token refresh, logout, password change and
// account activation over the identity store, the credential store and the
// revocation ledger.
type Service struct {
	users      UserReader
	creds      CredentialRepository
	blacklist  TokenBlacklist
	tokens     tokenSigner
	bus        *events.Bus
	bcryptCost int
}

type LoginResult struct {
	ID           string
	AccessToken  string
	RefreshToken string
}

func NewService(
	users UserReader,
	creds CredentialRepository,
	blacklist TokenBlacklist,
	tokens tokenSigner,
	bus *events.Bus,
	bcryptCost int,
) *Service {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		creds:      creds,
		blacklist:  blacklist,
		tokens:     tokens,
		bus:        bus,
		bcryptCost: bcryptCost,
	}
}

// ValidateCredentials resolves the identity by id or email and checks the
// password against the credential record. Lookup misses and password
// mismatches both come back as (nil, nil) so this path cannot be used to
// enumerate accounts; disabled and not-yet-activated accounts fail loudly,
// disabled checked first.
func (s *Service) ValidateCredentials(ctx context.Context, by LookupKey, value, password string) (*domain.User, error) {
	var (
		user *domain.User
		err  error
	)
	switch by {
	case LookupByEmail:
		user, err = s.users.GetByEmail(ctx, value)
	default:
		user, err = s.users.GetByID(ctx, value)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	cred, err := s.creds.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}

	if cred.Disabled {
		return nil, ErrUserDisabled
	}
	if !cred.Activated {
		return nil, ErrUserNotActivated
	}

	return user, nil
}

// Login mints the access/refresh token pair for an already-validated
// identity. Pure token issuance; the stores are not touched again.
func (s *Service) Login(user *domain.User) (*LoginResult, error) {
	accessToken, err := s.tokens.SignAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.SignRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{ID: user.ID, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh revokes the presented access token and mints a new one. The
// presented token is revoked unconditionally; its signature was already
// checked (or not) at the gateway, not here.
func (s *Service) Refresh(ctx context.Context, id, presentedToken string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", &domain.InvalidDataError{Message: "invalid user id"}
	}
	if presentedToken == "" {
		return "", &domain.InvalidDataError{Message: "invalid token"}
	}

	if _, err := s.creds.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}

	if err := s.blacklist.Revoke(ctx, presentedToken); err != nil {
		return "", err
	}

	return s.tokens.SignAccess(id)
}

// Logout revokes both tokens. No existence checks; once both strings are in
// the ledger the logout has succeeded, repeated calls included.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.blacklist.Revoke(ctx, accessToken); err != nil {
		return err
	}
	return s.blacklist.Revoke(ctx, refreshToken)
}

// ChangePassword validates the new password against the credential rule
// table (partial mode), hashes it and persists only the hash column.
func (s *Service) ChangePassword(ctx context.Context, actor domain.UserLogged, id, password string) error {
	fields := domain.CredentialFields{ID: &id, Password: &password}
	if err := domain.ValidateCredentialFields(fields, true); err != nil {
		return err
	}

	if _, err := s.creds.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	return s.creds.PartialUpdate(ctx, actor, id, map[string]any{"password": string(hash)})
}

// Activate compares the presented token verbatim against the stored one and
// flips the activated flag. Re-activating an already active account with a
// valid token silently succeeds.
func (s *Service) Activate(ctx context.Context, id, activationToken string) error {
	cred, err := s.creds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if cred.ActivationToken != activationToken {
		return ErrInvalidActivationToken
	}

	actor := domain.UserLogged{ID: cred.ID}
	if err := s.creds.PartialUpdate(ctx, actor, id, map[string]any{"activated": true}); err != nil {
		return err
	}

	s.bus.Publish(ctx, domain.EventAuthActivated, domain.AuthActivatedEvent{Actor: actor, ID: id})
	return nil
}

// Enable clears the disabled flag. Outstanding tokens are not revoked; they
// stay honorable until natural expiry.
func (s *Service) Enable(ctx context.Context, actor domain.UserLogged, id string) error {
	return s.creds.PartialUpdate(ctx, actor, id, map[string]any{"disabled": false})
}

// Disable sets the disabled flag.
func (s *Service) Disable(ctx context.Context, actor domain.UserLogged, id string) error {
	return s.creds.PartialUpdate(ctx, actor, id, map[string]any{"disabled": true})
}

// CreateCredential hashes the password and inserts the secret record.
// Consumed by the user.added listener.
func (s *Service) CreateCredential(ctx context.Context, actor domain.UserLogged, id, password, activationToken string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.creds.Create(ctx, actor, &domain.Credential{
		ID:              id,
		PasswordHash:    string(hash),
		ActivationToken: activationToken,
	})
}

// DeleteCredential removes the secret record. Consumed by the user.deleted
// listener.
func (s *Service) DeleteCredential(ctx context.Context, actor domain.UserLogged, id string) error {
	return s.creds.Delete(ctx, actor, id)
}
