package handler

import (
	"context"

	"github.com/aterekhov/library-system/book/internal/model"
	"github.com/aterekhov/library-system/book/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var _ BookService = (*service.Service)(nil)

type BookService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (model.Book, error)
	ListBooks(ctx context.Context, filter model.ListFilter) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	ApplyCopiesDelta(ctx context.Context, id int64, deltaAvailable, deltaTotal int) (model.Book, error)
}
