package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aterekhov/library-system/pkg/kafka"
	"github.com/aterekhov/library-system/pkg/logger"
	"github.com/aterekhov/library-system/pkg/postgres"
	"github.com/aterekhov/library-system/pkg/server"
	"github.com/aterekhov/library-system/stats/config"
	"github.com/aterekhov/library-system/stats/internal/handler"
	"github.com/aterekhov/library-system/stats/internal/repository"
	"github.com/aterekhov/library-system/stats/internal/service"
	"github.com/aterekhov/library-system/stats/migrations"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "stats")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	repo, err := repository.NewRepository(pool, log)
	if err != nil {
		return fmt.Errorf("repo events %w", err)
	}
	svc := service.NewService(repo, log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumer %w", err)
	}
	go kafka.Consume(ctx, consumer, handler.NewConsumer(svc.SaveEvent, log), log, kafka.LoanEventsTopic)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err = srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	cancel()
	_ = consumer.Close()
	pool.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
