package apperr

import "errors"

// Sentinel errors shared by services and controllers. Controllers map them to
// HTTP status codes; services never touch HTTP concerns directly.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNotFound           = errors.New("not found")
)
