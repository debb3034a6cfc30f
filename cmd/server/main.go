package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clinicsuite/clinic-portal/internal/api"
	"github.com/clinicsuite/clinic-portal/internal/bootstrap"
	"github.com/clinicsuite/clinic-portal/internal/core/service"
	"github.com/clinicsuite/clinic-portal/internal/infrastructure/config"
	mongodb "github.com/clinicsuite/clinic-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/clinicsuite/clinic-portal/internal/infrastructure/db/redis"
	"github.com/clinicsuite/clinic-portal/internal/infrastructure/email"
	"github.com/clinicsuite/clinic-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		fallback := logger.Get()
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}
	admins := cfg.AdminSet()
	if len(admins.Emails()) == 0 {
		log.Fatal().Msg("ADMIN_EMAIL must be set: at least one privileged address is required")
	}

	// --- Datastores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	invitationRepo := mongodb.NewInvitationRepository(db)
	linkStore := redisdb.NewLinkStore(rdb, cfg.LinkTTL)

	// --- Services ---
	sender := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	}, log)

	policy := service.NewAccessPolicy(admins, userRepo, roleRepo, invitationRepo, log)
	sessions := service.NewSessionService(userRepo, roleRepo, admins, cfg.JWTSecret, cfg.SessionTTL, log)
	signIn := service.NewSignInService(policy, userRepo, linkStore, sender, sessions, cfg.SMTP.From, cfg.BaseURL, cfg.LinkTTL, log)
	invitations := service.NewInvitationService(invitationRepo, sender, cfg.SMTP.From, cfg.BaseURL, log)

	if err := bootstrap.Provision(ctx, userRepo, roleRepo, admins, log); err != nil {
		log.Fatal().Err(err).Msg("bootstrap provisioning failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		DB:          db,
		Redis:       rdb,
		JWTSecret:   cfg.JWTSecret,
		SignIn:      signIn,
		Invitations: invitations,
		Sessions:    sessions,
		Log:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
