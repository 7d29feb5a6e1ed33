package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Domenick1991/tickettoride/config"
	"github.com/Domenick1991/tickettoride/internal/kafka"
	"github.com/Domenick1991/tickettoride/internal/logger"
	"github.com/Domenick1991/tickettoride/internal/metrics"
	"github.com/Domenick1991/tickettoride/internal/notify"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log, "tickettoride-worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		log.Error("kafka.brokers is empty, nothing to consume")
		_ = log.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ReservationTopic, log)
	defer consumer.Close()

	sender := notify.NewSender(log)

	log.Info("consuming reservation events",
		zap.String("topic", cfg.Kafka.ReservationTopic),
		zap.String("group", cfg.Kafka.GroupID),
	)
	err = consumer.Consume(ctx, kafka.ReservationHandler(log, sender.Send))
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("worker stopped")
}
