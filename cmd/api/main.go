package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fichajeapp/fichaje-backend/api/routes"
	"github.com/fichajeapp/fichaje-backend/internal/auth"
	"github.com/fichajeapp/fichaje-backend/internal/roles"
	"github.com/fichajeapp/fichaje-backend/internal/timeclock"
	"github.com/fichajeapp/fichaje-backend/internal/users"
	"github.com/fichajeapp/fichaje-backend/pkg/auth/session"
	"github.com/fichajeapp/fichaje-backend/pkg/config"
	"github.com/fichajeapp/fichaje-backend/pkg/db"
	"github.com/fichajeapp/fichaje-backend/pkg/logger"
	"github.com/fichajeapp/fichaje-backend/pkg/metrics"
	"github.com/fichajeapp/fichaje-backend/pkg/migrate"
	"github.com/fichajeapp/fichaje-backend/pkg/redis"
	"github.com/joho/godotenv"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	roleRepo := roles.NewRepository(dbClient.DB())
	recordRepo := timeclock.NewRepository(dbClient)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		RoleRepo:       roleRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	signupService, err := auth.NewSignupService(auth.SignupServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create signup service", err)
		os.Exit(1)
	}

	timeclockService, err := timeclock.NewService(timeclock.ServiceParams{RecordRepo: recordRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create timeclock service", err)
		os.Exit(1)
	}

	adminRecordService, err := timeclock.NewAdminService(timeclock.AdminServiceParams{RecordRepo: recordRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin record service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.ServiceParams{
		DB:             dbClient,
		Records:        timeclockService,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			metrics.NewHTTPMetrics(),
			dbClient,
			redisClient,
			sessionManager,
			roleRepo,
			authService,
			signupService,
			userService,
			timeclockService,
			adminRecordService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
