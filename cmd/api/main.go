package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/usuarios/users-service/internal/api"
	"github.com/usuarios/users-service/internal/core/domain"
	"github.com/usuarios/users-service/internal/core/service"
	"github.com/usuarios/users-service/internal/infrastructure/config"
	mongodb "github.com/usuarios/users-service/internal/infrastructure/db/mongo"
	redisdb "github.com/usuarios/users-service/internal/infrastructure/db/redis"
	"github.com/usuarios/users-service/internal/infrastructure/queue"
	"github.com/usuarios/users-service/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Env:    cfg.Env,
		Pretty: cfg.Env == "development",
	})

	// --- Stores ---
	writeClient, writeDB, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.WriteDB.URI, Database: cfg.WriteDB.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("write store connection failed")
	}
	defer func() { _ = writeClient.Disconnect(context.Background()) }()

	readClient, readDB, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.ReadDB.URI, Database: cfg.ReadDB.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("read store connection failed")
	}
	defer func() { _ = readClient.Disconnect(context.Background()) }()

	activityClient, activityDB, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.ActivityDB.URI, Database: cfg.ActivityDB.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("activity store connection failed")
	}
	defer func() { _ = activityClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	userWrite := mongodb.NewUserWriteRepository(writeDB)
	roleWrite := mongodb.NewRoleWriteRepository(writeDB)
	outboxRepo := mongodb.NewOutboxRepository(writeDB)
	userRead := mongodb.NewUserReadRepository(readDB)
	roleRead := mongodb.NewRoleReadRepository(readDB)
	activityRepo := mongodb.NewUserActivityRepository(activityDB)

	if err := userWrite.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("write store index creation failed")
	}
	if err := userRead.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("read store index creation failed")
	}
	if err := activityRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("activity store index creation failed")
	}

	// --- Messaging ---
	bindings := queue.Bindings{
		domain.EventUserCreated:       cfg.Rabbit.QueueUserCreated,
		domain.EventUserUpdated:       cfg.Rabbit.QueueUserUpdated,
		domain.EventUserActivityMade:  cfg.Rabbit.QueueUserActivity,
		domain.EventUserRoleUpdated:   cfg.Rabbit.QueueUserRoleUpdated,
		domain.EventPermissionAdded:   cfg.Rabbit.QueuePermissionAdded,
		domain.EventPermissionRemoved: cfg.Rabbit.QueuePermissionRemoved,
	}

	publisher, err := queue.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Username, cfg.Rabbit.Password, bindings, log)
	if err != nil {
		log.Fatal().Err(err).Msg("broker connection failed")
	}
	defer publisher.Close()

	dedup := redisdb.NewEventDedup(rdb)
	projector := service.NewProjector(userRead, roleRead, activityRepo, dedup, log)

	consumer, err := queue.NewConsumer(
		cfg.Rabbit.URL, cfg.Rabbit.Username, cfg.Rabbit.Password,
		bindings, projector,
		queue.RetryPolicy{Attempts: cfg.Rabbit.RetryAttempts, Interval: cfg.Rabbit.RetryInterval},
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("consumer setup failed")
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("consumer start failed")
	}

	relay := queue.NewRelay(outboxRepo, publisher, cfg.Outbox.Interval, cfg.Outbox.BatchSize, log)
	go relay.Start(ctx)

	// --- Services & HTTP ---
	commands := service.NewCommandService(userWrite, roleWrite, outboxRepo, log)
	queries := service.NewQueryService(userRead, roleRead, activityRepo, log)

	e := api.NewRouter(api.RouterDeps{
		Commands:    commands,
		Queries:     queries,
		WriteDB:     writeDB,
		ReadDB:      readDB,
		Redis:       rdb,
		BrokerAlive: publisher.Alive,
		Logger:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("users service started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
