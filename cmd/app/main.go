package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/letservice/api"
	"github.com/Domenick1991/letservice/config"
	"github.com/Domenick1991/letservice/internal/bootstrap"
	"github.com/Domenick1991/letservice/internal/cache"
	"github.com/Domenick1991/letservice/internal/kafka"
	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/internal/ratelimit"
	"github.com/Domenick1991/letservice/internal/repository"
	"github.com/Domenick1991/letservice/internal/service/airlines"
	"github.com/Domenick1991/letservice/internal/service/flights"
	"github.com/Domenick1991/letservice/internal/service/purchase"
	"github.com/Domenick1991/letservice/internal/service/ratings"
	"github.com/Domenick1991/letservice/internal/worker"
	"github.com/gin-gonic/gin"
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
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("connect postgres", logger.F("error", err))
		os.Exit(1)
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	airlineRepo := repository.NewAirlineRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	var (
		flightOpts   []flights.Option
		purchaseOpts []purchase.Option
	)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log, kafka.WithRetries(3, 200*time.Millisecond))
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.Warn("kafka unreachable, events will be retried per publish", logger.F("error", err))
		}
		flightOpts = append(flightOpts, flights.WithEvents(producer, cfg.Kafka.FlightEventsTopic))
		purchaseOpts = append(purchaseOpts, purchase.WithEvents(producer, cfg.Kafka.PurchaseEventsTopic))
	}

	pool := worker.NewPool(cfg.Worker.PoolSize, cfg.Worker.QueueSize, log.With(logger.F("component", "settlement_pool")),
		worker.WithTaskTimeout(time.Duration(cfg.Worker.TaskTimeoutSeconds)*time.Second))
	pool.Start()

	airlineService := airlines.NewAirlineService(airlineRepo, log,
		airlines.WithCache(cache.NewRedisCache(redisClient, time.Duration(cfg.Cache.AirlinesTTLSeconds)*time.Second)))
	flightService := flights.NewFlightService(flightRepo, airlineRepo, purchaseRepo, log, flightOpts...)
	purchaseService := purchase.NewPurchaseService(purchaseRepo, flightRepo, pool, cfg.Purchase.ProcessingDelay(), log, purchaseOpts...)
	ratingService := ratings.NewRatingService(ratingRepo, flightRepo, purchaseRepo, log)

	var counter ratelimit.Counter
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	switch cfg.RateLimit.Backend {
	case "redis":
		counter = ratelimit.NewRedisCounter(redisClient, window)
	default:
		counter = ratelimit.NewMemoryCounter(window, cfg.RateLimit.Capacity)
	}

	guard := api.NewRoleGuard(cfg.Auth.EnforceRoles)
	router := api.NewRouter(log, cfg.HTTP.SwaggerDir, api.Handlers{
		Airlines: api.NewAirlineHandler(airlineService, guard),
		Flights:  api.NewFlightHandler(flightService, guard),
		Purchases: api.NewPurchaseHandler(purchaseService,
			api.Throttle(counter, cfg.RateLimit.PurchaseLimit, api.CallerKey("purchase"), log)),
		Ratings: api.NewRatingHandler(ratingService, guard),
	})

	log.Info("starting let service",
		logger.F("env", cfg.App.Env),
		logger.F("processing_seconds", cfg.Purchase.ProcessingSeconds),
		logger.F("enforce_roles", cfg.Auth.EnforceRoles))

	if err := bootstrap.NewServer(cfg, router, log, pool).Run(ctx); err != nil {
		log.Error("server error", logger.F("error", err))
		os.Exit(1)
	}
}
