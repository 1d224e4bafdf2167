package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)
