package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecarponi/obsbook/config"
	"github.com/ecarponi/obsbook/internal/cache"
	"github.com/ecarponi/obsbook/internal/email"
	"github.com/ecarponi/obsbook/internal/kafka"
	"github.com/ecarponi/obsbook/internal/repository"
	"github.com/ecarponi/obsbook/internal/service/forecast"
	"github.com/ecarponi/obsbook/internal/weather"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
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

	slotRepo := repository.NewSlotRepository(pool)
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

	refresh := func() {
		if err := forecastSvc.RefreshUpcoming(ctx); err != nil {
			log.Printf("weather refresh error: %v", err)
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Worker.RefreshEvery, refresh); err != nil {
		log.Fatalf("schedule weather refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// One immediate pass so freshly deployed workers do not wait a full
	// interval for ratings.
	refresh()

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		sender := email.NewSender()
		go func() {
			if err := consumer.Consume(ctx, sender.Send); err != nil {
				log.Printf("consumer stopped: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Println("shutting down worker")
}
