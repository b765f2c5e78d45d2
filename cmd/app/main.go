package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecarponi/obsbook/config"
	"github.com/ecarponi/obsbook/internal/bootstrap"
	"github.com/ecarponi/obsbook/internal/cache"
	"github.com/ecarponi/obsbook/internal/kafka"
	"github.com/ecarponi/obsbook/internal/ratelimit"
	"github.com/ecarponi/obsbook/internal/repository"
	"github.com/ecarponi/obsbook/internal/service/booking"
	"github.com/ecarponi/obsbook/internal/service/forecast"
	"github.com/ecarponi/obsbook/internal/service/scheduler"
	"github.com/ecarponi/obsbook/internal/weather"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.InitSchema(ctx, pool); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	configRepo := repository.NewConfigurationRepository(pool)

	forecastTTL := time.Duration(cfg.Weather.CacheTTLHours) * time.Hour
	var forecastCache forecast.Cache
	if cfg.Redis.Addr != "" {
		forecastCache = cache.NewRedisCache(cfg.Redis, forecastTTL)
	} else {
		forecastCache = cache.NewMemoryCache(forecastTTL)
	}

	clientOpts := []weather.ClientOption{}
	if cfg.Weather.Endpoint != "" {
		clientOpts = append(clientOpts, weather.WithEndpoint(cfg.Weather.Endpoint))
	}
	forecastSvc := forecast.NewForecastService(weather.NewClient(clientOpts...), forecastCache, slotRepo, configRepo)

	schedulerSvc := scheduler.NewSchedulerService(slotRepo, userRepo, configRepo, forecastSvc)

	bookingOpts := []booking.BookingServiceOption{
		booking.WithRateLimiter(ratelimit.NewPerUserLimiter(10, 20)),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		bookingOpts = append(bookingOpts, booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic))
	}
	bookingSvc := booking.NewBookingService(bookingRepo, slotRepo, userRepo, configRepo, bookingOpts...)

	if err := bootstrap.Run(ctx, cfg, bookingSvc, schedulerSvc, slotRepo, configRepo); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
