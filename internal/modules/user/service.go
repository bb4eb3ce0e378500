package user

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"userhub/internal/domain"
	"userhub/internal/pkg/events"
	"userhub/internal/repository"

	"gorm.io/gorm"
)

// Service owns the public identity records: admin CRUD, self-registration
// and role management. Credential-side effects (password hashes, activation
// state) happen in the auth module, driven by the events published here.
type Service struct {
	users    Repository
	bus      *events.Bus
	imageDir string
}

func NewService(users Repository, bus *events.Bus, imageDir string) *Service {
	return &Service{users: users, bus: bus, imageDir: imageDir}
}

func (s *Service) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.users.GetAll(ctx)
}

func (s *Service) Find(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create adds an account on behalf of an admin. The raw password travels
// only on the user.added event, straight into the credential listener.
func (s *Service) Create(ctx context.Context, actor domain.UserLogged, req CreateUserRequest) (*domain.User, error) {
	roles := domain.ParseRoles(req.Roles)
	if err := validateNewUser(req.ID, req.Name, req.Last, req.Email, req.Password, roles); err != nil {
		return nil, err
	}

	u, err := s.insert(ctx, actor, req.ID, req.Name, req.Last, req.Email, req.Password, roles)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, domain.EventUserCreated, domain.UserCreatedEvent{
		Actor:           actor,
		ID:              u.user.ID,
		Name:            u.user.Name,
		Last:            u.user.Last,
		Email:           u.user.Email,
		Roles:           u.user.Roles,
		ActivationToken: u.activationToken,
	})

	return u.user, nil
}

// Register is the public self-registration path. Roles are forced to the
// plain user role regardless of what the caller sends.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	roles := domain.RoleList{domain.RoleUser}
	if err := validateNewUser(req.ID, req.Name, req.Last, req.Email, req.Password, roles); err != nil {
		return nil, err
	}

	actor := domain.SystemActor
	u, err := s.insert(ctx, actor, req.ID, req.Name, req.Last, req.Email, req.Password, roles)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, domain.EventUserRegistered, domain.UserRegisteredEvent{
		Actor:           actor,
		ID:              u.user.ID,
		Name:            u.user.Name,
		Last:            u.user.Last,
		Email:           u.user.Email,
		Roles:           u.user.Roles,
		ActivationToken: u.activationToken,
	})

	return u.user, nil
}

type insertedUser struct {
	user            *domain.User
	activationToken string
}

func (s *Service) insert(ctx context.Context, actor domain.UserLogged, id, name, last, email, password string, roles domain.RoleList) (*insertedUser, error) {
	// Pre-insert duplicate check; the unique constraint still backstops
	// concurrent inserts.
	if _, err := s.users.GetByID(ctx, id); err == nil {
		return nil, repository.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	activationToken, err := newActivationToken(id)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:    id,
		Name:  name,
		Last:  last,
		Email: email,
		Roles: roles,
	}
	if err := s.users.Create(ctx, actor, u); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, domain.EventUserAdded, domain.UserAddedEvent{
		Actor:           actor,
		ID:              u.ID,
		Password:        password,
		ActivationToken: activationToken,
	})

	return &insertedUser{user: u, activationToken: activationToken}, nil
}

// Update patches the mutable identity fields. Absent fields keep their
// stored values.
func (s *Service) Update(ctx context.Context, actor domain.UserLogged, id string, req UpdateUserRequest) (*domain.User, error) {
	fields := domain.UserFields{Name: req.Name, Last: req.Last, Email: req.Email}
	if err := domain.ValidateUserFields(fields, true); err != nil {
		return nil, err
	}

	u, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Last != nil {
		u.Last = *req.Last
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	if err := s.users.Update(ctx, actor, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateRoles replaces the role list. An empty result after normalization
// is rejected; an account always holds at least one role.
func (s *Service) UpdateRoles(ctx context.Context, actor domain.UserLogged, id string, raw []string) (*domain.User, error) {
	roles := domain.ParseRoles(raw)
	if len(roles) == 0 {
		return nil, &domain.InvalidDataError{Message: "roles should not be empty"}
	}

	u, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Roles = roles
	if err := s.users.Update(ctx, actor, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, actor domain.UserLogged, id string) error {
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, actor, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, domain.EventUserDeleted, domain.UserDeletedEvent{Actor: actor, ID: id})
	return nil
}

func (s *Service) Enable(ctx context.Context, actor domain.UserLogged, id string) error {
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	if err := s.users.SetDisabled(ctx, actor, id, false); err != nil {
		return err
	}
	s.bus.Publish(ctx, domain.EventUserEnabled, domain.UserEnabledEvent{Actor: actor, ID: id})
	return nil
}

func (s *Service) Disable(ctx context.Context, actor domain.UserLogged, id string) error {
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	if err := s.users.SetDisabled(ctx, actor, id, true); err != nil {
		return err
	}
	s.bus.Publish(ctx, domain.EventUserDisabled, domain.UserDisabledEvent{Actor: actor, ID: id})
	return nil
}

func validateNewUser(id, name, last, email, password string, roles domain.RoleList) error {
	userErr := domain.ValidateUserFields(domain.UserFields{
		ID:    &id,
		Name:  &name,
		Last:  &last,
		Email: &email,
		Roles: &roles,
	}, false)
	credErr := domain.ValidateCredentialFields(domain.CredentialFields{Password: &password}, true)

	var parts []string
	var vErr *domain.ValidationError
	if errors.As(userErr, &vErr) {
		parts = append(parts, vErr.Message)
	} else if userErr != nil {
		return userErr
	}
	if errors.As(credErr, &vErr) {
		parts = append(parts, vErr.Message)
	} else if credErr != nil {
		return credErr
	}
	if len(parts) == 0 {
		return nil
	}
	return &domain.ValidationError{Message: strings.Join(parts, ", ")}
}

// newActivationToken derives a 64-char hex token from the account id, the
// clock and fresh randomness.
func newActivationToken(id string) (string, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", id, time.Now().UnixNano(), seed)))
	return hex.EncodeToString(sum[:]), nil
}
