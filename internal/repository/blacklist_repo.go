package repository

import (
	"context"
	"errors"

	"userhub/internal/domain"

	"gorm.io/gorm"
)

// BlacklistRepository is the database-backed token revocation ledger.
// Membership is checked before insert so revoking twice is a no-op rather
// than a duplicate-key failure.
type BlacklistRepository struct {
	db *gorm.DB
}

func NewBlacklistRepository(db *gorm.DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

func (r *BlacklistRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var entry domain.RevokedToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BlacklistRepository) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	revoked, err := r.IsRevoked(ctx, token)
	if err != nil {
		return err
	}
	if revoked {
		return nil
	}
	err = r.db.WithContext(ctx).Create(&domain.RevokedToken{Token: token}).Error
	if isUniqueViolation(err) {
		// concurrent revoke of the same token; already in the ledger
		return nil
	}
	return err
}
