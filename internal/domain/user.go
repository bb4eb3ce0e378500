package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// ParseRoles normalizes raw role strings and drops anything that is not a
// known role. Unknown values are silently ignored, not an error.
func ParseRoles(values []string) RoleList {
	known := []Role{RoleAdmin, RoleUser, RoleGuest}
	var roles RoleList
	for _, v := range values {
		normalized := strings.ToLower(strings.TrimSpace(v))
		for _, r := range known {
			if string(r) == normalized {
				roles = append(roles, r)
				break
			}
		}
	}
	return roles
}

// RoleList is stored as a comma-separated string (simple-array column).
type RoleList []Role

func (l RoleList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	parts := make([]string, len(l))
	for i, r := range l {
		parts[i] = string(r)
	}
	return strings.Join(parts, ","), nil
}

func (l *RoleList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into RoleList", src)
	}
	if raw == "" {
		*l = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	roles := make(RoleList, 0, len(parts))
	for _, p := range parts {
		roles = append(roles, Role(strings.TrimSpace(p)))
	}
	*l = roles
	return nil
}

func (l RoleList) Contains(role Role) bool {
	for _, r := range l {
		if r == role {
			return true
		}
	}
	return false
}

// User is the public identity record. Secret auth state (password hash,
// activation, disabled flag) lives in Credential under the same id.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Name         string    `json:"name" gorm:"size:50;not null"`
	Last         string    `json:"last" gorm:"size:50;not null"`
	Email        string    `json:"email" gorm:"size:100;not null"`
	ProfileImage string    `json:"profile_image,omitempty" gorm:"size:255"`
	Roles        RoleList  `json:"roles" gorm:"type:text"`
	Disabled     bool      `json:"-" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserLogged is the acting-identity snapshot attached to audit logs and
// domain events.
type UserLogged struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Last  string   `json:"last"`
	Email string   `json:"email"`
	Roles RoleList `json:"roles"`
}

// SystemActor is used when an operation runs without an authenticated caller
// (self-registration, event listeners).
var SystemActor = UserLogged{
	ID:    "0",
	Name:  "System",
	Last:  "System",
	Email: "email@mail.com",
	Roles: RoleList{},
}

func (u *User) AsActor() UserLogged {
	return UserLogged{ID: u.ID, Name: u.Name, Last: u.Last, Email: u.Email, Roles: u.Roles}
}
