package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aterekhov/library-system/loan/internal/client"
	"github.com/aterekhov/library-system/loan/internal/errs"
	"github.com/aterekhov/library-system/loan/internal/model"
	"github.com/aterekhov/library-system/loan/internal/service"
	"github.com/aterekhov/library-system/pkg/resilience"

	repo_mocks "github.com/aterekhov/library-system/loan/internal/repository/mocks"
	service_mocks "github.com/aterekhov/library-system/loan/internal/service/mocks"
)

type fixture struct {
	svc   *service.Service
	repo  *repo_mocks.MockRepository
	books *service_mocks.MockBookClient
	users *service_mocks.MockUserClient
}

func newFixture(t *testing.T) fixture {
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)

	repo := repo_mocks.NewMockRepository(c)
	books := service_mocks.NewMockBookClient(c)
	users := service_mocks.NewMockUserClient(c)
	log := zap.NewExample().Named("test")

	policy := resilience.NewPolicy(resilience.Config{
		RecordLength:     4,
		Timeout:          time.Minute,
		Percentile:       0.5,
		RecoveryRequests: 1,
		Attempts:         3,
		Backoff:          time.Millisecond,
	}, log)

	return fixture{
		svc:   service.NewService(repo, books, users, policy, service.NewPublisher(nil), log),
		repo:  repo,
		books: books,
		users: users,
	}
}

func TestService_Borrow(t *testing.T) {
	ctx := context.Background()
	req := model.BorrowRequest{UserID: 1, BookID: 42}

	t.Run("success decrements and persists an active loan", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{ID: 1, Username: "reader"}, nil)
		f.books.EXPECT().GetBook(ctx, req.BookID).
			Return(client.Book{ID: 42, TotalCopies: 3, AvailableCopies: 3}, nil)
		f.books.EXPECT().ApplyCopiesDelta(ctx, req.BookID, -1).
			Return(client.Book{ID: 42, TotalCopies: 3, AvailableCopies: 2}, nil)
		f.repo.EXPECT().CreateLoan(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, loan model.Loan) (model.Loan, error) {
				require.Equal(t, model.StatusActive, loan.Status)
				require.Equal(t, loan.BorrowDate.AddDate(0, 0, 21), loan.DueDate)
				require.Nil(t, loan.ReturnDate)
				loan.ID = 7
				return loan, nil
			})

		loan, err := f.svc.Borrow(ctx, req)
		require.NoError(t, err)
		require.Equal(t, int64(7), loan.ID)
		require.Equal(t, model.StatusActive, loan.Status)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{}, errs.ErrUserNotFound)

		_, err := f.svc.Borrow(ctx, req)
		require.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("unknown book", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{ID: 1}, nil)
		f.books.EXPECT().GetBook(ctx, req.BookID).Return(client.Book{}, errs.ErrBookNotFound)

		_, err := f.svc.Borrow(ctx, req)
		require.ErrorIs(t, err, errs.ErrBookNotFound)
	})

	t.Run("no available copies fails without a delta", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{ID: 1}, nil)
		f.books.EXPECT().GetBook(ctx, req.BookID).
			Return(client.Book{ID: 42, TotalCopies: 3, AvailableCopies: 0}, nil)

		_, err := f.svc.Borrow(ctx, req)
		require.ErrorIs(t, err, errs.ErrBookNotAvailable)
	})

	t.Run("rejected decrement surfaces as not available", func(t *testing.T) {
		// two borrows raced for the last copy; this one lost at the
		// inventory boundary despite a positive availability read
		f := newFixture(t)
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{ID: 1}, nil)
		f.books.EXPECT().GetBook(ctx, req.BookID).
			Return(client.Book{ID: 42, TotalCopies: 1, AvailableCopies: 1}, nil)
		f.books.EXPECT().ApplyCopiesDelta(ctx, req.BookID, -1).
			Return(client.Book{}, errs.ErrCopiesConflict)

		_, err := f.svc.Borrow(ctx, req)
		require.ErrorIs(t, err, errs.ErrBookNotAvailable)
	})

	t.Run("inventory outage degrades to a pending placeholder", func(t *testing.T) {
		f := newFixture(t)
		outage := errors.Wrap(errs.ErrInventoryUnavailable, "connection refused")

		// two failures cross the breaker threshold, the third attempt
		// short-circuits on the open circuit
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{ID: 1}, nil).Times(2)
		f.books.EXPECT().GetBook(ctx, req.BookID).Return(client.Book{}, outage).Times(2)

		loan, err := f.svc.Borrow(ctx, req)
		require.NoError(t, err)
		require.Equal(t, model.StatusPending, loan.Status)
		require.NotEmpty(t, loan.Message)
		require.Zero(t, loan.ID)

		// circuit is open: no calls reach the book service at all, and
		// nothing is persisted
		loan, err = f.svc.Borrow(ctx, req)
		require.NoError(t, err)
		require.Equal(t, model.StatusPending, loan.Status)
		require.NotEmpty(t, loan.Message)
	})

	t.Run("outage on the decrement also degrades", func(t *testing.T) {
		f := newFixture(t)
		outage := errors.Wrap(errs.ErrInventoryUnavailable, "status 503")

		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{ID: 1}, nil)
		f.books.EXPECT().GetBook(ctx, req.BookID).
			Return(client.Book{ID: 42, TotalCopies: 3, AvailableCopies: 3}, nil)
		f.books.EXPECT().ApplyCopiesDelta(ctx, req.BookID, -1).Return(client.Book{}, outage).Times(2)

		loan, err := f.svc.Borrow(ctx, req)
		require.NoError(t, err)
		require.Equal(t, model.StatusPending, loan.Status)
		require.Equal(t, req.UserID, loan.UserID)
		require.Equal(t, req.BookID, loan.BookID)
	})
}

func TestService_ReturnLoan(t *testing.T) {
	ctx := context.Background()
	borrowDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	active := model.Loan{
		ID:         7,
		UserID:     1,
		BookID:     42,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.AddDate(0, 0, 21),
		Status:     model.StatusActive,
	}

	t.Run("sets return date and increments copies", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetLoan(ctx, active.ID).Return(active, nil)
		f.books.EXPECT().ApplyCopiesDelta(ctx, active.BookID, 1).
			Return(client.Book{ID: 42, TotalCopies: 3, AvailableCopies: 3}, nil)
		f.repo.EXPECT().UpdateLoan(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, loan model.Loan) (model.Loan, error) {
				require.Equal(t, model.StatusReturned, loan.Status)
				require.NotNil(t, loan.ReturnDate)
				require.WithinDuration(t, time.Now(), *loan.ReturnDate, time.Minute)
				return loan, nil
			})

		loan, err := f.svc.ReturnLoan(ctx, active.ID, nil)
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, loan.Status)
	})

	t.Run("explicit return date is honored", func(t *testing.T) {
		f := newFixture(t)
		returnDate := borrowDate.AddDate(0, 0, 10)
		f.repo.EXPECT().GetLoan(ctx, active.ID).Return(active, nil)
		f.books.EXPECT().ApplyCopiesDelta(ctx, active.BookID, 1).Return(client.Book{}, nil)
		f.repo.EXPECT().UpdateLoan(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, loan model.Loan) (model.Loan, error) {
				require.Equal(t, returnDate, *loan.ReturnDate)
				return loan, nil
			})

		_, err := f.svc.ReturnLoan(ctx, active.ID, &returnDate)
		require.NoError(t, err)
	})

	t.Run("second return is a no-op", func(t *testing.T) {
		f := newFixture(t)
		returnDate := borrowDate.AddDate(0, 0, 10)
		returned := active
		returned.Status = model.StatusReturned
		returned.ReturnDate = &returnDate

		f.repo.EXPECT().GetLoan(ctx, returned.ID).Return(returned, nil)

		loan, err := f.svc.ReturnLoan(ctx, returned.ID, nil)
		require.NoError(t, err)
		require.Equal(t, returned, loan)
	})

	t.Run("unknown loan", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetLoan(ctx, int64(404)).Return(model.Loan{}, errs.ErrLoanNotFound)

		_, err := f.svc.ReturnLoan(ctx, 404, nil)
		require.ErrorIs(t, err, errs.ErrLoanNotFound)
	})

	t.Run("inventory outage propagates as a hard failure", func(t *testing.T) {
		// the increment is deliberately outside the breaker; the loan
		// stays ACTIVE when the book service is down
		f := newFixture(t)
		f.repo.EXPECT().GetLoan(ctx, active.ID).Return(active, nil)
		f.books.EXPECT().ApplyCopiesDelta(ctx, active.BookID, 1).
			Return(client.Book{}, errors.Wrap(errs.ErrInventoryUnavailable, "connection refused"))

		_, err := f.svc.ReturnLoan(ctx, active.ID, nil)
		require.ErrorIs(t, err, errs.ErrInventoryUnavailable)
	})
}

func TestService_Reserve(t *testing.T) {
	ctx := context.Background()
	req := model.BorrowRequest{UserID: 1, BookID: 42}

	t.Run("creates a requested reservation without touching stock", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{ID: 1}, nil)
		// zero availability does not matter for a hold
		f.books.EXPECT().GetBook(ctx, req.BookID).
			Return(client.Book{ID: 42, TotalCopies: 3, AvailableCopies: 0}, nil)
		f.repo.EXPECT().CreateReservation(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, rsv model.Reservation) (model.Reservation, error) {
				require.Equal(t, model.ReservationRequested, rsv.Status)
				rsv.ID = 3
				return rsv, nil
			})

		rsv, err := f.svc.Reserve(ctx, req)
		require.NoError(t, err)
		require.Equal(t, int64(3), rsv.ID)
		require.Equal(t, model.ReservationRequested, rsv.Status)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{}, errs.ErrUserNotFound)

		_, err := f.svc.Reserve(ctx, req)
		require.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("unknown book", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().GetUser(ctx, req.UserID).Return(client.User{ID: 1}, nil)
		f.books.EXPECT().GetBook(ctx, req.BookID).Return(client.Book{}, errs.ErrBookNotFound)

		_, err := f.svc.Reserve(ctx, req)
		require.ErrorIs(t, err, errs.ErrBookNotFound)
	})
}
