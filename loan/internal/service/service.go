package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aterekhov/library-system/loan/internal/client"
	"github.com/aterekhov/library-system/loan/internal/errs"
	"github.com/aterekhov/library-system/loan/internal/model"
	"github.com/aterekhov/library-system/loan/internal/repository"
	"github.com/aterekhov/library-system/pkg/auth"
	"github.com/aterekhov/library-system/pkg/kafka"
	"github.com/aterekhov/library-system/pkg/resilience"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ BookClient = (*client.BookClient)(nil)
	_ UserClient = (*client.UserClient)(nil)
)

// BookClient is the boundary to the inventory authority. Copy counts
// are owned there and only ever mutated through signed deltas.
type BookClient interface {
	GetBook(ctx context.Context, id int64) (client.Book, error)
	ApplyCopiesDelta(ctx context.Context, id int64, deltaAvailable int) (client.Book, error)
}

// UserClient is the boundary to the identity authority.
type UserClient interface {
	GetUser(ctx context.Context, id int64) (client.User, error)
}

const (
	loanPeriodDays = 21

	degradedMessage = "book service temporarily unavailable"
)

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	books     BookClient
	users     UserClient
	policy    *resilience.Policy
	publisher Publisher
}

func NewService(repo repository.Repository, books BookClient, users UserClient, policy *resilience.Policy, publisher Publisher, log *zap.Logger) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		books:     books,
		users:     users,
		policy:    policy,
		publisher: publisher,
	}
}

// Borrow runs the borrow workflow: identity check, availability read,
// copies decrement, loan insert. The two inventory calls go through
// the resilience policy; when the policy reports the authority as
// unavailable the caller gets a PENDING placeholder instead of an
// error, with nothing persisted and no inventory mutated.
func (s *Service) Borrow(ctx context.Context, req model.BorrowRequest) (model.Loan, error) {
	if _, err := s.users.GetUser(ctx, req.UserID); err != nil {
		return model.Loan{}, err
	}

	err := s.policy.Do(ctx, func() error {
		book, err := s.books.GetBook(ctx, req.BookID)
		if err != nil {
			if errors.Is(err, errs.ErrBookNotFound) {
				return resilience.Permanent(err)
			}
			return err
		}
		if book.AvailableCopies < 1 {
			return resilience.Permanent(errs.ErrBookNotAvailable)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			s.log.Warn("borrow degraded on availability read", zap.Int64("bookId", req.BookID), zap.Error(err))
			return s.pendingLoan(req), nil
		}
		return model.Loan{}, err
	}

	now := time.Now()
	loan := model.Loan{
		UserID:     req.UserID,
		BookID:     req.BookID,
		BorrowDate: now,
		DueDate:    now.AddDate(0, 0, loanPeriodDays),
		Status:     model.StatusActive,
	}

	err = s.policy.Do(ctx, func() error {
		if _, err := s.books.ApplyCopiesDelta(ctx, req.BookID, -1); err != nil {
			// a rejected decrement means another borrow won the last copy
			if errors.Is(err, errs.ErrCopiesConflict) {
				return resilience.Permanent(errs.ErrBookNotAvailable)
			}
			if errors.Is(err, errs.ErrBookNotFound) {
				return resilience.Permanent(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			s.log.Warn("borrow degraded on copies decrement", zap.Int64("bookId", req.BookID), zap.Error(err))
			return s.pendingLoan(req), nil
		}
		return model.Loan{}, err
	}

	created, err := s.repo.CreateLoan(ctx, loan)
	if err != nil {
		return model.Loan{}, err
	}
	s.publish(ctx, kafka.EventBorrowed, created.UserID, created.BookID, created.ID, 0)
	return created, nil
}

func (s *Service) pendingLoan(req model.BorrowRequest) model.Loan {
	return model.Loan{
		UserID:  req.UserID,
		BookID:  req.BookID,
		Status:  model.StatusPending,
		Message: degradedMessage,
	}
}

// ReturnLoan is idempotent: a loan already RETURNED is handed back
// unchanged, with no second increment. The increment itself is not
// wrapped by the resilience policy; an inventory outage here surfaces
// to the caller as a hard failure.
func (s *Service) ReturnLoan(ctx context.Context, id int64, returnDate *time.Time) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}
	if loan.Status == model.StatusReturned {
		return loan, nil
	}

	rd := time.Now()
	if returnDate != nil {
		rd = *returnDate
	}
	loan.ReturnDate = &rd
	loan.Status = model.StatusReturned

	if _, err := s.books.ApplyCopiesDelta(ctx, loan.BookID, 1); err != nil {
		return model.Loan{}, err
	}

	updated, err := s.repo.UpdateLoan(ctx, loan)
	if err != nil {
		return model.Loan{}, err
	}
	s.publish(ctx, kafka.EventReturned, updated.UserID, updated.BookID, updated.ID, 0)
	return updated, nil
}

// Reserve verifies that the user and the book exist and persists a
// REQUESTED reservation. No availability check, no inventory mutation.
func (s *Service) Reserve(ctx context.Context, req model.BorrowRequest) (model.Reservation, error) {
	if _, err := s.users.GetUser(ctx, req.UserID); err != nil {
		return model.Reservation{}, err
	}
	if _, err := s.books.GetBook(ctx, req.BookID); err != nil {
		return model.Reservation{}, err
	}

	created, err := s.repo.CreateReservation(ctx, model.Reservation{
		UserID:    req.UserID,
		BookID:    req.BookID,
		CreatedAt: time.Now(),
		Status:    model.ReservationRequested,
	})
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(ctx, kafka.EventReserved, created.UserID, created.BookID, 0, created.ID)
	return created, nil
}

func (s *Service) ListLoans(ctx context.Context) ([]model.Loan, error) {
	return s.repo.ListLoans(ctx)
}

func (s *Service) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

func (s *Service) ListLoansByUser(ctx context.Context, userID int64) ([]model.Loan, error) {
	return s.repo.ListLoansByUser(ctx, userID)
}

func (s *Service) ListLoansByBook(ctx context.Context, bookID int64) ([]model.Loan, error) {
	return s.repo.ListLoansByBook(ctx, bookID)
}

func (s *Service) publish(ctx context.Context, event kafka.EventType, userID, bookID, loanID, reservationID int64) {
	if err := s.publisher.Publish(kafka.LoanEvent{
		EventType:     event,
		Timestamp:     time.Now(),
		Username:      auth.Username(ctx),
		UserID:        userID,
		BookID:        bookID,
		LoanID:        loanID,
		ReservationID: reservationID,
	}); err != nil {
		s.log.Warn("publish loan event", zap.String("event", string(event)), zap.Error(err))
	}
}
