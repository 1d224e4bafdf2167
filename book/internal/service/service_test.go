package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aterekhov/library-system/book/internal/errs"
	"github.com/aterekhov/library-system/book/internal/model"
	"github.com/aterekhov/library-system/book/internal/service"

	repo_mocks "github.com/aterekhov/library-system/book/internal/repository/mocks"
)

func TestService_CreateBook(t *testing.T) {
	ctx := context.Background()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	svc := service.NewService(repo, zap.NewExample().Named("test"))

	req := model.CreateBookRequest{
		ISBN:        "978-3-16-148410-0",
		Title:       "The Go Programming Language",
		Author:      "Alan A. A. Donovan",
		TotalCopies: 3,
	}

	// a new title starts with every copy on the shelf
	repo.EXPECT().CreateBook(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, book model.Book) (model.Book, error) {
			require.Equal(t, book.TotalCopies, book.AvailableCopies)
			book.ID = 42
			return book, nil
		})

	book, err := svc.CreateBook(ctx, req)
	require.NoError(t, err)
	require.Equal(t, int64(42), book.ID)
	require.Equal(t, 3, book.AvailableCopies)
}

func TestService_UpdateBook(t *testing.T) {
	ctx := context.Background()

	existing := model.Book{
		ID:              42,
		ISBN:            "978-3-16-148410-0",
		Title:           "The Go Programming Language",
		Author:          "Alan A. A. Donovan",
		Category:        "programming",
		TotalCopies:     3,
		AvailableCopies: 2,
	}

	t.Run("patches only provided fields", func(t *testing.T) {
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		svc := service.NewService(repo, zap.NewExample().Named("test"))

		title := "The Go Programming Language, 2nd ed."
		repo.EXPECT().GetBook(ctx, existing.ID).Return(existing, nil)
		repo.EXPECT().UpdateBook(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, book model.Book) (model.Book, error) {
				require.Equal(t, title, book.Title)
				require.Equal(t, existing.Author, book.Author)
				require.Equal(t, existing.Category, book.Category)
				require.Equal(t, existing.AvailableCopies, book.AvailableCopies)
				return book, nil
			})

		book, err := svc.UpdateBook(ctx, existing.ID, model.UpdateBookRequest{Title: &title})
		require.NoError(t, err)
		require.Equal(t, title, book.Title)
	})

	t.Run("unknown book", func(t *testing.T) {
		c := gomock.NewController(t)
		defer c.Finish()
		repo := repo_mocks.NewMockRepository(c)
		svc := service.NewService(repo, zap.NewExample().Named("test"))

		repo.EXPECT().GetBook(ctx, int64(404)).Return(model.Book{}, errs.ErrNotFound)

		_, err := svc.UpdateBook(ctx, 404, model.UpdateBookRequest{})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}
