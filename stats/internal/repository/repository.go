package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/aterekhov/library-system/stats/internal/model"
)

type Repository interface {
	SaveEvent(ctx context.Context, event model.Event) error
	GetStats(ctx context.Context) (model.Stats, error)
}

type repository struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewRepository(pool *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		pool: pool,
		log:  log.Named("repo"),
	}, nil
}

func (r *repository) SaveEvent(ctx context.Context, event model.Event) error {
	q := `
insert into loan_events (event_id, event_type, ts, username, user_id, book_id, loan_id, reservation_id)
values (@eventId, @eventType, @ts, @username, @userId, @bookId, @loanId, @reservationId)
on conflict (event_id) do nothing`

	_, err := r.pool.Exec(ctx, q, pgx.NamedArgs{
		"eventId":       event.EventID,
		"eventType":     event.EventType,
		"ts":            event.Timestamp,
		"username":      event.Username,
		"userId":        event.UserID,
		"bookId":        event.BookID,
		"loanId":        event.LoanID,
		"reservationId": event.ReservationID,
	})
	return err
}

func (r *repository) GetStats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	if err := r.pool.QueryRow(ctx, `select count(*) from loan_events`).Scan(&stats.TotalEvents); err != nil {
		return model.Stats{}, err
	}

	q := `
select user_id,
       max(username)                                   as username,
       count(*) filter (where event_type = 'BORROWED') as borrowed,
       count(*) filter (where event_type = 'RETURNED') as returned,
       count(*) filter (where event_type = 'RESERVED') as reserved
from loan_events
group by user_id
order by user_id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return model.Stats{}, err
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.UserStats])
	if err != nil {
		return model.Stats{}, err
	}
	stats.Users = users
	return stats, nil
}
