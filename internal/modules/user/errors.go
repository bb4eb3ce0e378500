package user

import "errors"

var (
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidMimeType = errors.New("unsupported file type")
)
