package user

import (
	"context"

	"userhub/internal/domain"
)

// Repository is the identity store as the user service consumes it. Every
// mutating call is audited by the implementation.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, actor domain.UserLogged, u *domain.User) error
	Update(ctx context.Context, actor domain.UserLogged, u *domain.User) error
	Delete(ctx context.Context, actor domain.UserLogged, id string) error
	SetDisabled(ctx context.Context, actor domain.UserLogged, id string, disabled bool) error
}
