package model

import "time"

// Mirrors of the downstream payloads, kept to the fields the gateway
// aggregates.

type Loan struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	BookID     int64      `json:"bookId"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
}

type Book struct {
	ID              int64  `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category,omitempty"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoanDetail is the aggregated loan view. Book and User stay nil when
// the owning service cannot be reached; the loan itself is always
// present.
type LoanDetail struct {
	Loan Loan  `json:"loan"`
	Book *Book `json:"book,omitempty"`
	User *User `json:"user,omitempty"`
}
