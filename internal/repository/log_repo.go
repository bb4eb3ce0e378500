package repository

import (
	"context"
	"encoding/json"

	"userhub/internal/domain"

	"gorm.io/gorm"
)

// LogRepository appends audit rows to a fixed table (auth_logs or
// user_logs). Writes are not atomic with the business write they accompany.
type LogRepository struct {
	db    *gorm.DB
	table string
}

func NewLogRepository(db *gorm.DB, table string) *LogRepository {
	return &LogRepository{db: db, table: table}
}

func (r *LogRepository) Save(ctx context.Context, action string, actor domain.UserLogged, detail any) error {
	actorJSON, err := json.Marshal(actor)
	if err != nil {
		return err
	}
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	entry := domain.LogEntry{
		Action: action,
		Actor:  string(actorJSON),
		Detail: string(detailJSON),
	}
	return r.db.WithContext(ctx).Table(r.table).Create(&entry).Error
}
