package handler

import (
	"context"

	"github.com/aterekhov/library-system/gateway/internal/model"
	"github.com/aterekhov/library-system/pkg/resilience"
	"github.com/labstack/echo/v4"

	"github.com/aterekhov/library-system/gateway/internal/service/book"
	"github.com/aterekhov/library-system/gateway/internal/service/loan"
	"github.com/aterekhov/library-system/gateway/internal/service/user"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ LoanService = (*loan.Service)(nil)
	_ BookService = (*book.Service)(nil)
	_ UserService = (*user.Service)(nil)
)

type LoanService interface {
	Proxy(c echo.Context) ([]byte, int, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, int, error)
	CB() *resilience.CircuitBreaker
}

type BookService interface {
	Proxy(c echo.Context) ([]byte, int, error)
	GetBook(ctx context.Context, id int64) (model.Book, int, error)
	CB() *resilience.CircuitBreaker
}

type UserService interface {
	Proxy(c echo.Context) ([]byte, int, error)
	GetUser(ctx context.Context, id int64) (model.User, int, error)
	CB() *resilience.CircuitBreaker
}
