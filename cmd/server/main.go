// @title                       Car Rental Admin API
// @version                     1.0
// @description                 Authentication and user administration for the car rental admin console.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/pflag"

	_ "github.com/carrental/admin-api/docs"
	"github.com/carrental/admin-api/internal/api"
	"github.com/carrental/admin-api/internal/api/handler"
	"github.com/carrental/admin-api/internal/api/session"
	"github.com/carrental/admin-api/internal/core/ports"
	"github.com/carrental/admin-api/internal/core/service"
	"github.com/carrental/admin-api/internal/infrastructure/config"
	"github.com/carrental/admin-api/internal/infrastructure/db"
	"github.com/carrental/admin-api/internal/infrastructure/db/redis"
	"github.com/carrental/admin-api/internal/infrastructure/password"
	"github.com/carrental/admin-api/internal/infrastructure/queue"
	"github.com/carrental/admin-api/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

var version = "dev"

func main() {
	addr := pflag.String("addr", "", "listen address; overrides PORT")
	migrate := pflag.Bool("migrate", true, "create tables or indexes on startup")
	banner := pflag.Bool("banner", true, "print the startup banner")
	showVersion := pflag.Bool("version", false, "print the version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}
	if *banner {
		figure.NewFigure("carrental admin", "cybermedium", true).Print()
		fmt.Println()
	}

	if err := run(*addr, *migrate); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(addr string, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "carrental-admin",
	})
	log := logger.Get()
	if cfg.InsecureSecret {
		log.Warn().Msg("JWT_SECRET is not set; using the development secret")
	}

	store, err := db.Open(ctx, db.Options{
		Driver:           cfg.Store.Driver,
		Timeout:          cfg.Store.Timeout,
		PostgresDSN:      cfg.Postgres.DSN,
		PostgresMaxConns: cfg.Postgres.MaxConns,
		MongoURI:         cfg.Mongo.URI,
		MongoDB:          cfg.Mongo.Database,
		Migrate:          migrate,
	}, logger.Component("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	pingers := map[string]ports.Pinger{"store": store.Pinger}
	authOpts := []service.AuthOption{
		service.WithStoreTimeout(cfg.Store.Timeout),
		service.WithRegisterRoles(cfg.Login.Roles()...),
	}

	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable; login attempts are not limited")
		} else {
			defer client.Close()
			authOpts = append(authOpts, service.WithLoginLimiter(redis.NewLoginLimiter(client, cfg.Login.MaxAttempts, cfg.Login.Lockout)))
			pingers["redis"] = redis.NewPinger(client)
		}
	} else {
		log.Warn().Msg("REDIS_ADDR is empty; login attempts are not limited")
	}

	audit := queue.NewDispatcher(cfg.Audit.Workers, store.Events, logger.Component("audit"))
	audit.Start()
	authOpts = append(authOpts, service.WithAuditor(audit))

	tokens, err := service.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	hasher := password.NewHasher()
	authService := service.NewAuthService(store.Users, hasher, tokens, logger.Component("auth"), authOpts...)
	userService := service.NewUserService(store.Users, hasher, audit, cfg.Store.Timeout, logger.Component("users"))

	e := api.NewRouter(api.Deps{
		Auth:         authService,
		Users:        userService,
		Tokens:       tokens,
		Accounts:     authService,
		Health:       handler.NewHealthHandler(pingers, store.Users, !cfg.IsProduction()),
		Cookies:      session.Cookies{Secure: cfg.SecureCookies()},
		ExposeErrors: !cfg.IsProduction(),
		Logger:       logger.Component("http"),
	})

	if addr == "" {
		addr = ":" + cfg.Port
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.Store.Driver).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := audit.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("audit queue did not drain")
	}
	return nil
}
