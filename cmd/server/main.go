package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/accounts-ledger-service/internal/api"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/config"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/events/kafka"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/notification"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/transfer"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Use(zl)
	defer func() { _ = logger.Sync() }()

	notifier, closeNotifier := buildNotifier(cfg)
	defer closeNotifier()

	accounts := ledger.NewLedger()
	service := transfer.NewService(accounts, notifier)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewHandler(service).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", logger.Fields{"addr": cfg.HTTPAddr, "notifier": cfg.Notifier})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server", nil)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildNotifier(cfg config.Config) (interfaces.Notifier, func()) {
	if cfg.Notifier == config.NotifierKafka {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				logger.Error("close kafka publisher", err, nil)
			}
		}
	}

	return notification.NewLogNotifier(), func() {}
}
