package errs

import (
	"errors"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("service temporarily unavailable")
	ErrDefault     = errors.New("some error")
)
