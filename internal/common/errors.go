package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Validation errors.
	ErrInvalidPath = errors.New("invalid path")
	ErrValidation  = errors.New("validation error")
)
