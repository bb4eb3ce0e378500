package domain

import "time"

// RevokedToken is an entry in the token blacklist. Tokens land here on
// logout and on refresh; a listed token is rejected by the auth middleware
// even while its signature is still valid. Entries are never deleted.
type RevokedToken struct {
	Token     string    `json:"token" gorm:"primaryKey;size:200"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string { return "auth_token_black_list" }
