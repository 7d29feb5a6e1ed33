package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Domenick1991/tickettoride/config"
	"github.com/Domenick1991/tickettoride/internal/bootstrap"
	"github.com/Domenick1991/tickettoride/internal/cache"
	"github.com/Domenick1991/tickettoride/internal/itinerary"
	"github.com/Domenick1991/tickettoride/internal/kafka"
	"github.com/Domenick1991/tickettoride/internal/logger"
	"github.com/Domenick1991/tickettoride/internal/manager"
	"github.com/Domenick1991/tickettoride/internal/metrics"
	"github.com/Domenick1991/tickettoride/internal/repository"
	"github.com/Domenick1991/tickettoride/internal/service/flights"
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

	log, err := logger.New(cfg.Log, "tickettoride")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("app stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []manager.Option{manager.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ReservationTopic, log)
		defer producer.Close()
		opts = append(opts, manager.WithPublisher(producer))
	}

	m := manager.New(store, opts...)
	if err := m.Load(ctx); err != nil {
		return err
	}

	var flightCache flights.FlightCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.SearchTTLSeconds)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			flightCache = redisCache
		}
	}

	svc := bootstrap.Services{
		Flights:      flights.NewFlightService(m, flightCache, log),
		Reservations: m,
		Itinerary:    itinerary.NewService(m, m),
	}
	serveErr := bootstrap.Run(ctx, cfg, log, svc)

	persistCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.Persist(persistCtx); err != nil {
		if serveErr != nil {
			return fmt.Errorf("%v; persist: %w", serveErr, err)
		}
		return err
	}
	log.Info("snapshot persisted")
	return serveErr
}

func openStore(ctx context.Context, cfg *config.Config) (repository.SnapshotStore, func(), error) {
	var (
		primary repository.SnapshotStore
		closeFn = func() {}
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := repository.NewPool(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		pg := repository.NewPGSnapshotStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		primary, closeFn = pg, pool.Close
	default:
		primary = repository.NewFileStore(cfg.Storage.Path)
	}

	if cfg.Storage.SeedAirports != "" {
		return repository.NewSeededStore(primary, cfg.Storage.SeedAirports, cfg.Storage.SeedFlights), closeFn, nil
	}
	return primary, closeFn, nil
}
