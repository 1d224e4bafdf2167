package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aterekhov/library-system/book/internal/model"
	bookRepo "github.com/aterekhov/library-system/book/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo bookRepo.Repository
}

func NewService(repo bookRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

// CreateBook registers a new title; all copies start available.
func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, model.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Description:     req.Description,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Category:        req.Category,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
	})
}

// UpdateBook patches the descriptive fields. Copy counts are not
// touched here; those go through ApplyCopiesDelta only.
func (s *Service) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PublicationYear != nil {
		book.PublicationYear = *req.PublicationYear
	}
	if req.Category != nil {
		book.Category = *req.Category
	}

	return s.repo.UpdateBook(ctx, book)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) GetBookByISBN(ctx context.Context, isbn string) (model.Book, error) {
	return s.repo.GetBookByISBN(ctx, isbn)
}

func (s *Service) ListBooks(ctx context.Context, filter model.ListFilter) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) ApplyCopiesDelta(ctx context.Context, id int64, deltaAvailable, deltaTotal int) (model.Book, error) {
	return s.repo.ApplyCopiesDelta(ctx, id, deltaAvailable, deltaTotal)
}
