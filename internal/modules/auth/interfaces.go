package auth

import (
	"context"

	"userhub/internal/domain"
)

// UserReader — read-only identity lookups the auth service needs.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CredentialRepository — storage for the secret auth records.
type CredentialRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Credential, error)
	Create(ctx context.Context, actor domain.UserLogged, c *domain.Credential) error
	PartialUpdate(ctx context.Context, actor domain.UserLogged, id string, fields map[string]any) error
	Delete(ctx context.Context, actor domain.UserLogged, id string) error
}

// TokenBlacklist — the revocation ledger. Revoke is idempotent; IsRevoked
// on an empty token is false without a store round trip.
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) error
}
