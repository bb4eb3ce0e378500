package domain

import "errors"

// InvalidDataError marks malformed or missing input caught at the boundary
// before any store is touched. The message names the offending field.
type InvalidDataError struct {
	Message string
}

func (e *InvalidDataError) Error() string { return e.Message }

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrResourceNotFound = errors.New("resource not found")
)
