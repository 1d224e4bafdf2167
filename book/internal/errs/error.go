package errs

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("book not found")
	ErrISBNExists = errors.New("book with this isbn already exists")
	// ErrCopiesConflict: the requested delta would drive availableCopies
	// outside [0, totalCopies].
	ErrCopiesConflict = errors.New("copies delta rejected")
)
