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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/careconnect-health/careconnect-api/internal/config"
	"github.com/careconnect-health/careconnect-api/internal/database"
	"github.com/careconnect-health/careconnect-api/internal/handler"
	"github.com/careconnect-health/careconnect-api/internal/repository"
	"github.com/careconnect-health/careconnect-api/internal/usecase"
	"github.com/careconnect-health/careconnect-api/shared/auth"
	"github.com/careconnect-health/careconnect-api/shared/mailer"
	"github.com/careconnect-health/careconnect-api/shared/storage"
	"github.com/careconnect-health/careconnect-api/shared/validator"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.New(&logger)
	if cfg.Environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")

	uploader, err := storage.NewUploader(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage uploader")
	}

	valid, err := validator.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize validator")
	}

	mail := mailer.NewMailer(cfg.Mail)
	tokenIssuer := auth.NewTokenIssuer(
		cfg.Token.Secret,
		cfg.Token.Issuer,
		cfg.Token.SessionTokenExpiresIn,
		cfg.Token.ResetTokenExpiresIn,
	)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)

	authUsecase := usecase.NewAuthUsecase(userRepo, tokenIssuer, mail, cfg, &logger)
	passwordUsecase := usecase.NewPasswordUsecase(userRepo, tokenIssuer, mail, cfg, &logger)
	userUsecase := usecase.NewUserUsecase(userRepo, uploader)

	authHandler := handler.NewAuthHandler(authUsecase, passwordUsecase, valid, cfg, &logger)
	userHandler := handler.NewUserHandler(userUsecase, &logger)

	router := handler.NewRouter(authHandler, userHandler, tokenIssuer)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
