package repository

import (
	"context"
	"database/sql"

	"github.com/aterekhov/library-system/loan/internal/errs"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/aterekhov/library-system/loan/internal/model"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.Loan, error)
	UpdateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	ListLoans(ctx context.Context) ([]model.Loan, error)
	ListLoansByUser(ctx context.Context, userID int64) ([]model.Loan, error)
	ListLoansByBook(ctx context.Context, bookID int64) ([]model.Loan, error)
	CreateReservation(ctx context.Context, rsv model.Reservation) (model.Reservation, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	loanTableName        = `loans`
	reservationTableName = `reservations`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var loanColumns = []string{"id", "user_id", "book_id", "borrow_date", "due_date", "return_date", "status"}

func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	q, args, err := qb.Insert(loanTableName).
		Columns("user_id", "book_id", "borrow_date", "due_date", "status").
		Values(loan.UserID, loan.BookID, loan.BorrowDate, loan.DueDate, loan.Status).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var created model.Loan
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		r.log.Error("CreateLoan", zap.String("q", q), zap.Any("args", args))
		return model.Loan{}, err
	}
	return created, nil
}

func (r *repository) GetLoan(ctx context.Context, id int64) (model.Loan, error) {
	q, args, err := qb.Select(loanColumns...).
		From(loanTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) UpdateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	q, args, err := qb.Update(loanTableName).
		Set("return_date", loan.ReturnDate).
		Set("status", loan.Status).
		Where(sq.Eq{"id": loan.ID}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var updated model.Loan
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return updated, nil
}

func (r *repository) ListLoans(ctx context.Context) ([]model.Loan, error) {
	return r.listLoans(ctx, nil)
}

func (r *repository) ListLoansByUser(ctx context.Context, userID int64) ([]model.Loan, error) {
	return r.listLoans(ctx, sq.Eq{"user_id": userID})
}

func (r *repository) ListLoansByBook(ctx context.Context, bookID int64) ([]model.Loan, error) {
	return r.listLoans(ctx, sq.Eq{"book_id": bookID})
}

func (r *repository) listLoans(ctx context.Context, where any) ([]model.Loan, error) {
	b := qb.Select(loanColumns...).
		From(loanTableName).
		OrderBy("id")
	if where != nil {
		b = b.Where(where)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Loan
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateReservation(ctx context.Context, rsv model.Reservation) (model.Reservation, error) {
	q, args, err := qb.Insert(reservationTableName).
		Columns("user_id", "book_id", "created_at", "status").
		Values(rsv.UserID, rsv.BookID, rsv.CreatedAt, rsv.Status).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var created model.Reservation
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		r.log.Error("CreateReservation", zap.String("q", q), zap.Any("args", args))
		return model.Reservation{}, err
	}
	return created, nil
}
