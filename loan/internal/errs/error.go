package errs

import (
	"errors"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrBookNotFound     = errors.New("book not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrBookNotAvailable = errors.New("book is not available")
	// ErrCopiesConflict: the inventory authority rejected a delta that
	// would drive available copies outside [0, totalCopies].
	ErrCopiesConflict = errors.New("copies delta rejected")
	// ErrInventoryUnavailable: the book service could not be reached.
	ErrInventoryUnavailable = errors.New("book service unavailable")
)
