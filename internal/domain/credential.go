package domain

import "time"

// Credential is the secret record for an account, keyed by the same id as
// the User record. The password hash never leaves the repository/service
// boundary.
type Credential struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	PasswordHash    string    `json:"-" gorm:"column:password;size:100;not null"`
	Activated       bool      `json:"activated" gorm:"default:false"`
	Disabled        bool      `json:"disabled" gorm:"default:false"`
	ActivationToken string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Credential) TableName() string { return "auth" }
