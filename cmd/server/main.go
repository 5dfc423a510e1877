package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/useradmin/user-admin-dashboard/internal/api"
	"github.com/useradmin/user-admin-dashboard/internal/api/handler"
	"github.com/useradmin/user-admin-dashboard/internal/core/ports"
	"github.com/useradmin/user-admin-dashboard/internal/core/service"
	"github.com/useradmin/user-admin-dashboard/internal/infrastructure/db/mongo"
	"github.com/useradmin/user-admin-dashboard/internal/infrastructure/db/redis"
	"github.com/useradmin/user-admin-dashboard/internal/infrastructure/queue"
	"github.com/useradmin/user-admin-dashboard/internal/infrastructure/token"
	"github.com/useradmin/user-admin-dashboard/internal/pkg/config"
	"github.com/useradmin/user-admin-dashboard/pkg/logger"
)

const (
	serviceName     = "user-admin-dashboard"
	shutdownTimeout = 10 * time.Second
)

// @title                       User Admin Dashboard API
// @version                     1.0
// @description                 Sign-in, session and user directory management for the admin dashboard.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer closeWithTimeout(log, "mongo", store.Close)

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	userRepo := mongo.NewUserRepository(store.Database())
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	lastLogin := queue.NewDispatcher(0, userRepo, log)
	lastLogin.Start()
	defer closeWithTimeout(log, "last-login dispatcher", lastLogin.Close)

	hasher := service.NewHasher(cfg.Login.BcryptCost)
	tokens := token.NewManager(cfg.Session.JWTSecret, cfg.Session.Issuer, cfg.Session.TTL)
	authService := service.NewAuthService(userRepo, tokens, hasher, log,
		service.WithThrottle(redis.NewLoginThrottle(rdb, cfg.Login.MaxFailures, cfg.Login.Lockout)),
		service.WithLoginRecorder(lastLogin),
	)
	userService := service.NewUserService(userRepo, hasher, log)

	if cfg.SeedAdmin() {
		created, err := userService.Seed(ctx, ports.CreateUserInput{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
			Role:     "admin",
		})
		if err != nil {
			return err
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("seeded admin account")
		}
	}

	e, err := api.NewRouter(api.Deps{
		Auth:   authService,
		Users:  userService,
		Logger: log,
		Checks: map[string]handler.PingFunc{
			"mongodb": store.Ping,
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		CookieSecure: cfg.Session.CookieSecure,
		LoginRate:    cfg.Login.Rate,
		LoginBurst:   cfg.Login.Burst,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func closeWithTimeout(log zerolog.Logger, name string, closeFn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := closeFn(ctx); err != nil {
		log.Warn().Err(err).Str("component", name).Msg("close failed")
	}
}
