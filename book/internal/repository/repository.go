package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/aterekhov/library-system/book/internal/errs"
	"github.com/aterekhov/library-system/book/internal/model"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (model.Book, error)
	ListBooks(ctx context.Context, filter model.ListFilter) ([]model.Book, error)
	UpdateBook(ctx context.Context, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	ApplyCopiesDelta(ctx context.Context, id int64, deltaAvailable, deltaTotal int) (model.Book, error)
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

const booksTableName = `books`

const bookColumns = `id, isbn, title, description, author, publisher, publication_year, category, total_copies, available_copies`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("isbn", "title", "description", "author", "publisher", "publication_year", "category", "total_copies", "available_copies").
		Values(book.ISBN, book.Title, book.Description, book.Author, book.Publisher, book.PublicationYear, book.Category, book.TotalCopies, book.AvailableCopies).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Book{}, errs.ErrISBNExists
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBookByISBN(ctx context.Context, isbn string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"isbn": isbn}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, filter model.ListFilter) ([]model.Book, error) {
	q := qb.Select(bookColumns).
		From(booksTableName).
		OrderBy("id")

	if filter.Title != "" {
		q = q.Where(sq.ILike{"title": "%" + filter.Title + "%"})
	}
	if filter.Author != "" {
		q = q.Where(sq.ILike{"author": "%" + filter.Author + "%"})
	}
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": filter.Category})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		r.log.Error("ListBooks", zap.String("q", query), zap.Any("args", args))
		return nil, err
	}
	return books, nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("title", book.Title).
		Set("description", book.Description).
		Set("author", book.Author).
		Set("publisher", book.Publisher).
		Set("publication_year", book.PublicationYear).
		Set("category", book.Category).
		Where(sq.Eq{"id": book.ID}).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var updated model.Book
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return updated, nil
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ApplyCopiesDelta moves both copy counters in a single statement; the
// table's check constraints reject any delta that would leave
// available_copies outside [0, total_copies], so two racing borrows
// cannot both take the last copy.
func (r *repository) ApplyCopiesDelta(ctx context.Context, id int64, deltaAvailable, deltaTotal int) (model.Book, error) {
	q := `
update books
    set available_copies = available_copies + $2,
        total_copies     = total_copies + $3
where id = $1
returning ` + bookColumns

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, id, deltaAvailable, deltaTotal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
			return model.Book{}, errs.ErrCopiesConflict
		}
		return model.Book{}, err
	}
	return book, nil
}
