package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusReturned Status = "RETURNED"
)

type ReservationStatus string

const (
	ReservationRequested ReservationStatus = "REQUESTED"
)

// Loan is one borrow cycle of one book by one user. PENDING is a
// degraded-mode placeholder that is never persisted.
type Loan struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"userId" db:"user_id"`
	BookID     int64      `json:"bookId" db:"book_id"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate,omitempty" db:"return_date"`
	Status     Status     `json:"status" db:"status"`
	Message    string     `json:"message,omitempty" db:"-"`
}

// Reservation is a hold request. It never moves inventory.
type Reservation struct {
	ID        int64             `json:"id" db:"id"`
	UserID    int64             `json:"userId" db:"user_id"`
	BookID    int64             `json:"bookId" db:"book_id"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	Status    ReservationStatus `json:"status" db:"status"`
}

type BorrowRequest struct {
	UserID int64 `json:"userId" validate:"required"`
	BookID int64 `json:"bookId" validate:"required"`
}

type ReturnRequest struct {
	ReturnDate *Date `json:"returnDate"`
}

type Date struct {
	time.Time `json:",inline"`
}

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	s := strings.Trim(string(b), "\"")
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = date
	return
}
