package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	LoanEventsTopic    = "loan-events"
	StatsConsumerGroup = "stats-group"
)

type EventType string

const (
	EventBorrowed EventType = "BORROWED"
	EventReturned EventType = "RETURNED"
	EventReserved EventType = "RESERVED"
)

// LoanEvent is what the loan service publishes after a successful
// state change and what the stats service consumes.
type LoanEvent struct {
	EventID       uuid.UUID `json:"eventId"`
	EventType     EventType `json:"eventType"`
	Timestamp     time.Time `json:"timestamp"`
	Username      string    `json:"username"`
	UserID        int64     `json:"userId"`
	BookID        int64     `json:"bookId"`
	LoanID        int64     `json:"loanId,omitempty"`
	ReservationID int64     `json:"reservationId,omitempty"`
}

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the handler against the topic until the context is
// canceled. Consume sessions are re-entered on rebalance.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) {
	for {
		if err := consumer.Consume(ctx, topics, handler); err != nil {
			log.Error("consumer.Consume", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
