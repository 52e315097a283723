package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"jewelry-studio/internal/http/handlers"
	httpapi "jewelry-studio/internal/http/httpapi"
	"jewelry-studio/internal/infra"
	"jewelry-studio/internal/studio"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	pipeline, err := studio.NewPipeline(cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation pipeline")
	}

	app, err := handlers.NewApp(cfg, &logger, pipeline.Generator, pipeline.Resolver, pipeline.Downloads, pipeline.Uploads)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build handlers")
	}
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app))

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("model", cfg.GeminiModel).
			Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
