package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatterbox/auth-api/internal/config"
	"github.com/chatterbox/auth-api/internal/infrastructure/dynamo"
	googleinfra "github.com/chatterbox/auth-api/internal/infrastructure/google"
	jwtinfra "github.com/chatterbox/auth-api/internal/infrastructure/jwt"
	"github.com/chatterbox/auth-api/internal/infrastructure/mail"
	s3infra "github.com/chatterbox/auth-api/internal/infrastructure/s3"
	"github.com/chatterbox/auth-api/internal/infrastructure/sns"
	transporthttp "github.com/chatterbox/auth-api/internal/transport/http"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	// Bootstrap the users table (creates it if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.UsersTable, logger)

	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret, cfg.JWTExpiry())
	if err != nil {
		logger.Fatal().Err(err).Msg("jwt provider")
	}

	s3Client := s3infra.NewClient(cfg)
	blobStore := s3infra.NewStore(s3Client, cfg.S3BucketName, cfg.AWSRegion)

	mailer := mail.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback, phone OTP then 400s).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		logger.Warn().Err(err).Msg("SNS sender not available")
	}

	// Google OAuth (optional — graceful fallback, google routes then 503).
	var googleProvider *googleinfra.Provider
	if p, err := googleinfra.NewProvider(cfg); err == nil {
		googleProvider = p
	} else {
		logger.Warn().Err(err).Msg("google provider not available")
	}

	deps := &transporthttp.Deps{
		UserRepo:       dynamo.NewUserRepo(dynamoClient, cfg.UsersTable),
		Mailer:         mailer,
		SMSSender:      smsSender,
		BlobStore:      blobStore,
		JWTProvider:    jwtProvider,
		GoogleProvider: googleProvider,
		Logger:         logger,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
