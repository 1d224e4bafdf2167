package handler

import (
	"context"
	"time"

	"github.com/aterekhov/library-system/loan/internal/model"
	"github.com/aterekhov/library-system/loan/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ LoanService = (*service.Service)(nil)

type LoanService interface {
	Borrow(ctx context.Context, req model.BorrowRequest) (model.Loan, error)
	ReturnLoan(ctx context.Context, id int64, returnDate *time.Time) (model.Loan, error)
	Reserve(ctx context.Context, req model.BorrowRequest) (model.Reservation, error)
	ListLoans(ctx context.Context) ([]model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	ListLoansByUser(ctx context.Context, userID int64) ([]model.Loan, error)
	ListLoansByBook(ctx context.Context, bookID int64) ([]model.Loan, error)
}
