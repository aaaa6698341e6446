package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/audit"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/cache"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/calendar"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/config"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/content"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/db"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/fulfillment"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/kafka"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/logger"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/notify"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository/postgresql"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/server"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	var (
		orderStore    fulfillment.OrderStore
		orderDir      server.OrderDirectory
		apptStore     calendar.AppointmentStore
		apptDir       server.AppointmentDirectory
		notifications notify.RecordStore
	)
	switch cfg.StoreBackend {
	case "file":
		fileStore, err := storage.Open(cfg.FileStorePath)
		if err != nil {
			log.Fatalf("File store init error: %v", err)
		}
		log.Printf("Using file store at %s", cfg.FileStorePath)

		orders := storage.NewOrderRepo(fileStore, cfg.ClaimLease)
		appts := storage.NewAppointmentRepo(fileStore)
		orderStore, orderDir = orders, orders
		apptStore, apptDir = appts, appts
		notifications = storage.NewNotificationRepo(fileStore)

	default:
		database, err := db.NewDb(ctx, cfg.DSN())
		if err != nil {
			log.Fatalf("Database init error: %v", err)
		}
		defer database.Close()

		orders := postgresql.NewOrderRepo(database, cfg.ClaimLease)
		appts := postgresql.NewAppointmentRepo(database)
		orderStore, orderDir = orders, orders
		apptStore, apptDir = appts, appts
		notifications = postgresql.NewNotificationRepo(database)
	}

	var tokens notify.TokenStore
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisTokenStore(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Redis init error: %v", err)
		}
		defer redisStore.Close()
		tokens = redisStore
	} else {
		memStore := cache.NewMemoryTokenStore()
		defer memStore.Close()
		tokens = memStore
	}

	var producer kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewKafkaProducer(cfg.KafkaBrokers)
	} else {
		log.Println("KAFKA_BROKERS not set, notifications go to stdout")
		producer = kafka.NewConsoleProducer()
	}
	defer producer.Close()

	var generator fulfillment.ContentGenerator
	if cfg.ContentEndpoint != "" {
		generator = content.NewService(cfg.ContentEndpoint, cfg.ContentAPIKey, lg)
	} else {
		generator = content.Local{}
	}

	auditManager := audit.NewManager(producer, cfg.AuditTopic, 0, 0, 0)
	auditManager.Start(ctx)

	channel := notify.NewChannel(notifications, tokens, producer, cfg.NotifyTopic)
	orchestrator := fulfillment.New(
		orderStore,
		calendar.NewScheduler(apptStore, loc),
		channel,
		generator,
		auditManager,
		lg,
		fulfillment.Config{
			Worker:       cfg.Worker,
			SlotLength:   cfg.SlotLength,
			DayStartHour: cfg.DayStartHour,
			DayEndHour:   cfg.DayEndHour,
			Location:     loc,
		},
	)

	srv := server.New(orderDir, apptDir, channel, orchestrator, server.StaticCredentials{
		Username:     cfg.AdminUser,
		PasswordHash: cfg.AdminPasswordHash,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, cfg.HTTPPort) })
	g.Go(func() error { return orchestrator.RunLoop(gctx, cfg.PollInterval) })

	log.Printf("Fulfillment agent started as %q, polling every %s", cfg.Worker, cfg.PollInterval)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Agent stopped with error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	auditManager.Shutdown(shutdownCtx)

	log.Println("Agent gracefully stopped")
}
