package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserDisabled           = errors.New("user disabled")
	ErrUserNotActivated       = errors.New("user not activated")
	ErrInvalidActivationToken = errors.New("invalid activation token")
)
