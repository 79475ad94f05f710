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
	"github.com/rs/zerolog/log"

	"github.com/go-video-api/internal/application/media"
	"github.com/go-video-api/internal/application/video"
	"github.com/go-video-api/internal/config"
	"github.com/go-video-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-video-api/internal/infrastructure/jwt"
	s3infra "github.com/go-video-api/internal/infrastructure/s3"
	snsinfra "github.com/go-video-api/internal/infrastructure/sns"
	"github.com/go-video-api/internal/logging"
	transporthttp "github.com/go-video-api/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info().Msg("no .env file found, reading from environment")
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("token provider")
	}

	s3Store := s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3BucketName, s3infra.PublicBaseURL(cfg))

	// SNS events are optional.
	var events video.EventPublisher
	if cfg.SNSTopicARN != "" {
		client, err := snsinfra.NewClient(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("SNS publisher not available, video events disabled")
		} else {
			events = snsinfra.NewPublisher(client, cfg.SNSTopicARN)
		}
	}

	deps := transporthttp.NewDeps(cfg, transporthttp.Infra{
		Dynamo: dynamoClient,
		Media:  media.NewService(s3Store),
		Events: events,
		JWT:    jwtProvider,
	})
	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Media uploads need long read and write budgets.
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
