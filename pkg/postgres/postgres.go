package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Config struct {
	Host     string `envconfig:"PG_HOST" default:"localhost"`
	Port     string `envconfig:"PG_PORT" default:"5432"`
	User     string `envconfig:"PG_USER" default:"postgres"`
	Password string `envconfig:"PG_PASSWORD" default:"postgres"`
	DBName   string `envconfig:"PG_DATABASE" default:"postgres"`
	SSLMode  string `envconfig:"PG_SSLMODE" default:"disable"`
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// NewPostgresDB opens a pool via the pgx stdlib driver and applies
// embedded goose migrations.
func NewPostgresDB(ctx context.Context, cfg *Config, migrations fs.FS) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := migrate(db, migrations); err != nil {
		return nil, err
	}
	return db, nil
}

// NewPool is used by pgx-native repositories.
func NewPool(ctx context.Context, cfg *Config, migrations fs.FS) (*pgxpool.Pool, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open: %w", err)
	}
	if err := migrate(db, migrations); err != nil {
		return nil, err
	}
	if err := db.Close(); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pool ping: %w", err)
	}
	return pool, nil
}

func migrate(db *sqlx.DB, migrations fs.FS) error {
	if migrations == nil {
		return nil
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose.SetDialect: %w", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("goose.Up: %w", err)
	}
	return nil
}
