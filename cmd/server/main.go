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

	"github.com/paintassist/backend/config"
	"github.com/paintassist/backend/internal/app"
	httpDelivery "github.com/paintassist/backend/internal/delivery/http"
	"github.com/paintassist/backend/internal/infrastructure/logger"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(logger.Options{
		Environment: logger.ParseEnvironment(cfg.Server.Environment),
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})

	log.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("Starting PaintAssist backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}
	defer application.Close()

	log.Info().
		Float64("name_threshold", cfg.Matching.NameThreshold).
		Float64("code_threshold", cfg.Matching.CodeThreshold).
		Float64("size_threshold", cfg.Matching.SizeThreshold).
		Bool("auto_substitute_closest_size", cfg.Matching.AutoSubstituteClosestSize).
		Msg("Matching configured")

	handler := httpDelivery.NewHandler(application.Assistant, application.Quotes)
	router := httpDelivery.SetupRouter(cfg, handler, application.Metrics)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
