// Command api serves the collections REST API.
//
//	@title						Collections API
//	@version					1.0
//	@description				Debt collection backend: clients, invoices, payments and recovery actions.
//	@BasePath					/
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						token
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/recoverydesk/collections-api/docs"
	"github.com/recoverydesk/collections-api/internal/api"
	"github.com/recoverydesk/collections-api/internal/api/handler"
	"github.com/recoverydesk/collections-api/internal/core/ports"
	"github.com/recoverydesk/collections-api/internal/core/service"
	"github.com/recoverydesk/collections-api/internal/infrastructure/db/mongo"
	"github.com/recoverydesk/collections-api/internal/infrastructure/db/redis"
	"github.com/recoverydesk/collections-api/internal/infrastructure/lock"
	"github.com/recoverydesk/collections-api/internal/pkg/config"
	"github.com/recoverydesk/collections-api/pkg/logger"
)

const (
	serviceName     = "collections-api"
	shutdownTimeout = 10 * time.Second
	lockStripes     = 64
)

var indexesOnlyFlag = flag.Bool("indexes-only", false, "Create MongoDB indexes and exit")

func main() {
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	ctx := context.Background()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect")
		}
	}()

	users := mongo.NewUserRepository(db)
	clients := mongo.NewClientRepository(db)
	invoices := mongo.NewInvoiceRepository(db)
	payments := mongo.NewPaymentRepository(db)
	actions := mongo.NewRecoveryActionRepository(db)

	if err := mongo.EnsureIndexes(ctx, users, clients, invoices, payments, actions); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	if *indexesOnlyFlag {
		log.Info().Msg("indexes created")
		return
	}

	readiness := []handler.DependencyCheck{handler.MongoCheck(db)}

	var locker ports.Locker
	if cfg.UsesRedis() {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer closeRedis(rdb, log)

		locker = redis.NewInvoiceLocker(rdb, cfg.Lock.TTL, cfg.Lock.Wait, logger.Component("lock"))
		readiness = append(readiness, handler.RedisCheck(rdb))
	} else {
		log.Warn().Msg("using in-process invoice locks; run a single instance only")
		locker = lock.NewStriped(lockStripes, cfg.Lock.Wait)
	}

	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := api.NewRouter(api.Deps{
		Auth:     service.NewAuthService(users, tokens, logger.Component("auth")),
		Users:    service.NewUserService(users, logger.Component("users")),
		Clients:  service.NewClientService(clients, invoices, actions, locker, logger.Component("clients")),
		Invoices: service.NewInvoiceService(invoices, clients, payments, actions, locker, logger.Component("invoices")),
		Payments: service.NewPaymentService(payments, invoices, locker, logger.Component("payments")),
		Recovery: service.NewRecoveryActionService(actions, invoices, clients, logger.Component("recovery")),
		Stats:    service.NewStatsService(mongo.NewStatsRepository(db)),

		Logger:      logger.Component("http"),
		Cookie:      handler.CookieOptions{Name: cfg.Auth.CookieName, Secure: !cfg.IsDevelopment()},
		Development: cfg.IsDevelopment(),
		Readiness:   readiness,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
