package domain

import "time"

// LogEntry is an append-only audit row written next to every mutating store
// operation. Actor and Detail are JSON snapshots; the table (auth_logs or
// user_logs) is chosen by the repository.
type LogEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Action    string    `gorm:"size:20;not null"`
	Actor     string    `gorm:"type:text"`
	Detail    string    `gorm:"type:text"`
	CreatedAt time.Time
}
