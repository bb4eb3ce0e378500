package repository

import (
	"context"
	"strings"

	"userhub/internal/domain"

	"gorm.io/gorm"
)

// UserRepository provides DB access for the public identity records. Every
// mutating call writes an audit row to user_logs first.
type UserRepository struct {
	db   *gorm.DB
	logs *LogRepository
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db, logs: NewLogRepository(db, "user_logs")}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, actor domain.UserLogged, u *domain.User) error {
	if err := r.logs.Save(ctx, "save", actor, u); err != nil {
		return err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, actor domain.UserLogged, u *domain.User) error {
	if err := r.logs.Save(ctx, "update", actor, u); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) Delete(ctx context.Context, actor domain.UserLogged, id string) error {
	if err := r.logs.Save(ctx, "delete", actor, map[string]string{"id": id}); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}

func (r *UserRepository) SetDisabled(ctx context.Context, actor domain.UserLogged, id string, disabled bool) error {
	detail := map[string]any{"id": id, "disabled": disabled}
	if err := r.logs.Save(ctx, "update", actor, detail); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("disabled", disabled).Error
}
