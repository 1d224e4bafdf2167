package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/aterekhov/library-system/user/internal/errs"
	"github.com/aterekhov/library-system/user/internal/model"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
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

const usersTableName = `users`

const userColumns = `id, username, email, role, created_at, password_hash`

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("username", "email", "role", "password_hash").
		Values(user.Username, user.Email, user.Role, user.PasswordHash).
		Suffix("returning " + userColumns).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errs.ErrUserExists
		}
		r.log.Error("CreateUser", zap.String("q", query))
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	query, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	query, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select(userColumns).
		From(usersTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0)
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		r.log.Error("ListUsers", zap.String("q", query))
		return nil, err
	}
	return users, nil
}

func (r *repository) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Update(usersTableName).
		Set("email", user.Email).
		Set("role", user.Role).
		Where(sq.Eq{"id": user.ID}).
		Suffix("returning " + userColumns).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var updated model.User
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errs.ErrUserExists
		}
		return model.User{}, err
	}
	return updated, nil
}

func (r *repository) DeleteUser(ctx context.Context, id int64) error {
	query, args, err := qb.Delete(usersTableName).
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
