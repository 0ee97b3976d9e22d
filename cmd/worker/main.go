package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/letservice/config"
	"github.com/Domenick1991/letservice/internal/email"
	"github.com/Domenick1991/letservice/internal/kafka"
	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			cfgPath = "config.yaml"
		}
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.NewZeroLog("").Error("load config", logger.F("error", err))
		os.Exit(1)
	}
	log := logger.NewZeroLog(cfg.App.Env)

	if len(cfg.Kafka.Brokers) == 0 {
		log.Error("no kafka brokers configured, nothing to consume")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("connect postgres", logger.F("error", err))
		os.Exit(1)
	}
	defer db.Close()

	conn := kafka.NewProducer(cfg.Kafka.Brokers, log)
	if err := conn.CheckConnection(ctx); err != nil {
		log.Warn("kafka check failed", logger.F("error", err))
	}
	_ = conn.Close()

	notifier := email.NewCancellationNotifier(repository.NewPurchaseRepository(db), email.NewSender(log), log.With(logger.F("component", "cancellation_notifier")))

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.FlightEventsTopic, log)
	defer consumer.Close()

	log.Info("notification worker started", logger.F("topic", cfg.Kafka.FlightEventsTopic))
	if err := consumer.Consume(ctx, notifier.HandleMessage); err != nil {
		log.Error("consumer stopped", logger.F("error", err))
		os.Exit(1)
	}
	log.Info("notification worker stopped")
}
