package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Linn-Htet123/mini-gym-api/internal/checkin"
	"github.com/Linn-Htet123/mini-gym-api/internal/config"
	"github.com/Linn-Htet123/mini-gym-api/internal/db"
	"github.com/Linn-Htet123/mini-gym-api/internal/logger"
	"github.com/Linn-Htet123/mini-gym-api/internal/member"
	"github.com/Linn-Htet123/mini-gym-api/internal/membership"
	"github.com/Linn-Htet123/mini-gym-api/internal/notification"
	"github.com/Linn-Htet123/mini-gym-api/internal/registration"
	"github.com/Linn-Htet123/mini-gym-api/internal/scheduler"
	"github.com/Linn-Htet123/mini-gym-api/internal/server"
	"github.com/Linn-Htet123/mini-gym-api/internal/storage"
	"github.com/Linn-Htet123/mini-gym-api/internal/subscription"
	"github.com/Linn-Htet123/mini-gym-api/internal/trainer"
	"github.com/Linn-Htet123/mini-gym-api/internal/trainersub"
	"github.com/Linn-Htet123/mini-gym-api/internal/user"

	"github.com/redis/go-redis/v9"
)

func main() {

	logger.Init()
	logger.Info("Starting mini-gym-api")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	uploads, err := storage.NewService(cfg.UploadDir)
	if err != nil {
		logger.Fatalf("Failed to prepare upload directory: %v", err)
	}

	hub := notification.NewHub()
	dispatcher := notification.NewDispatcher(rdb, notification.NewRepository(database), hub)
	sink := notification.NewService(dispatcher, user.NewRepository(database))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx)
	logger.Info("Notification dispatcher started")

	memberRepo := member.NewRepository(database)
	packageRepo := membership.NewRepository(database)

	subscriptions := subscription.NewService(subscription.NewRepository(database), packageRepo, memberRepo, sink)
	trainerSubs := trainersub.NewService(trainersub.NewRepository(database), trainer.NewRepository(database), memberRepo, sink)
	registrations := registration.NewService(registration.NewRepository(database), memberRepo, packageRepo, subscriptions, sink)
	checkIns := checkin.NewService(checkin.NewRepository(database), memberRepo, packageRepo, subscriptions, sink)

	schedulerService := scheduler.NewService(subscriptions, trainerSubs, sink)
	cron := scheduler.New(schedulerService)
	if err := cron.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	logger.Info("Expiration scheduler started")

	srv := server.New(database, cfg, server.Deps{
		Hub:           hub,
		Sink:          sink,
		Uploads:       uploads,
		Subscriptions: subscriptions,
		TrainerSubs:   trainerSubs,
		Registrations: registrations,
		CheckIns:      checkIns,
		Scheduler:     schedulerService,
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cron.Stop()
	cancel()
	dispatcher.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
