package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is one consumed loan event, stored verbatim. event_id dedupes
// redelivered messages.
type Event struct {
	EventID       uuid.UUID `db:"event_id"`
	EventType     string    `db:"event_type"`
	Timestamp     time.Time `db:"ts"`
	Username      string    `db:"username"`
	UserID        int64     `db:"user_id"`
	BookID        int64     `db:"book_id"`
	LoanID        int64     `db:"loan_id"`
	ReservationID int64     `db:"reservation_id"`
}

type UserStats struct {
	UserID   int64  `json:"userId" db:"user_id"`
	Username string `json:"username" db:"username"`
	Borrowed int64  `json:"borrowed" db:"borrowed"`
	Returned int64  `json:"returned" db:"returned"`
	Reserved int64  `json:"reserved" db:"reserved"`
}

type Stats struct {
	TotalEvents int64       `json:"totalEvents"`
	Users       []UserStats `json:"users"`
}
