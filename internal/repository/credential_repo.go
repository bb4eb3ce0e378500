package repository

import (
	"context"

	"userhub/internal/domain"

	"gorm.io/gorm"
)

// CredentialRepository owns the secret auth records. Mutations are audited
// into auth_logs; partial updates touch only the given columns.
type CredentialRepository struct {
	db   *gorm.DB
	logs *LogRepository
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db, logs: NewLogRepository(db, "auth_logs")}
}

func (r *CredentialRepository) GetByID(ctx context.Context, id string) (*domain.Credential, error) {
	var c domain.Credential
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&c)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

func (r *CredentialRepository) Create(ctx context.Context, actor domain.UserLogged, c *domain.Credential) error {
	if err := r.logs.Save(ctx, "save", actor, c); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// PartialUpdate changes only the listed columns. Keys are column names
// ("password", "activated", "disabled").
func (r *CredentialRepository) PartialUpdate(ctx context.Context, actor domain.UserLogged, id string, fields map[string]any) error {
	detail := map[string]any{"id": id}
	for k, v := range fields {
		if k == "password" {
			// never write hash material to the audit trail
			detail[k] = "[redacted]"
			continue
		}
		detail[k] = v
	}
	if err := r.logs.Save(ctx, "update", actor, detail); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&domain.Credential{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *CredentialRepository) Delete(ctx context.Context, actor domain.UserLogged, id string) error {
	if err := r.logs.Save(ctx, "delete", actor, map[string]string{"id": id}); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Credential{}).Error
}
