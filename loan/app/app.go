package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aterekhov/library-system/loan/config"
	"github.com/aterekhov/library-system/loan/internal/client"
	"github.com/aterekhov/library-system/loan/internal/handler"
	"github.com/aterekhov/library-system/loan/internal/repository"
	"github.com/aterekhov/library-system/loan/internal/service"
	"github.com/aterekhov/library-system/loan/migrations"
	"github.com/aterekhov/library-system/pkg/kafka"
	"github.com/aterekhov/library-system/pkg/logger"
	"github.com/aterekhov/library-system/pkg/postgres"
	"github.com/aterekhov/library-system/pkg/resilience"
	"github.com/aterekhov/library-system/pkg/server"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "loan")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo loans %w", err)
	}

	books := client.NewBookClient(log, client.Addr{
		Host: cfg.BookHTTPServer.Host,
		Port: cfg.BookHTTPServer.Port,
	}, cfg.ClientTimeout)
	users := client.NewUserClient(log, client.Addr{
		Host: cfg.UserHTTPServer.Host,
		Port: cfg.UserHTTPServer.Port,
	}, cfg.ClientTimeout)
	policy := resilience.NewPolicy(cfg.Resilience, log)

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Warn("kafka producer unavailable, loan events disabled", zap.Error(err))
	}

	svc := service.NewService(repo, books, users, policy, service.NewPublisher(producer), log)
	h := handler.New(svc, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if producer != nil {
		_ = producer.Close()
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
