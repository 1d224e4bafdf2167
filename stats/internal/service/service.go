package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aterekhov/library-system/pkg/kafka"
	"github.com/aterekhov/library-system/stats/internal/model"
	statsRepo "github.com/aterekhov/library-system/stats/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo statsRepo.Repository
}

func NewService(repo statsRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

func (s *Service) SaveEvent(ctx context.Context, event kafka.LoanEvent) error {
	return s.repo.SaveEvent(ctx, model.Event{
		EventID:       event.EventID,
		EventType:     string(event.EventType),
		Timestamp:     event.Timestamp,
		Username:      event.Username,
		UserID:        event.UserID,
		BookID:        event.BookID,
		LoanID:        event.LoanID,
		ReservationID: event.ReservationID,
	})
}

func (s *Service) GetStats(ctx context.Context) (model.Stats, error) {
	return s.repo.GetStats(ctx)
}
