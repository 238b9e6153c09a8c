package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"campaigngen/internal/adapter/repo"
	"campaigngen/internal/campaign"
	"campaigngen/internal/http/handlers"
	"campaigngen/internal/http/httpapi"
	"campaigngen/internal/infra"
	"campaigngen/internal/providers/genai"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	usage, err := repo.OpenUsageRepository(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open usage store")
	}
	defer usage.Close()

	backendLogger := logger.With().Str("component", "genai").Logger()
	connect := func(ctx context.Context) (campaign.TextBackend, error) {
		client, err := genai.New(ctx, cfg.BackendOptions(&backendLogger))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	gen := campaign.NewGenerator(ctx, connect,
		campaign.WithLogger(logger.With().Str("component", "campaign").Logger()),
		campaign.WithVariationConcurrency(cfg.VariationConcurrency),
		campaign.WithMaxVariations(cfg.MaxVariations),
		campaign.WithCallTimeout(cfg.GenerationTimeout),
	)
	if err := gen.InitError(); err != nil {
		logger.Warn().Err(err).Msg("serving in degraded mode; generation endpoints return an error text")
	}

	app := handlers.NewApp(gen, usage, logger)
	app.MaxVariations = cfg.MaxVariations
	router := httpapi.NewRouter(app, logger, cfg.CORSAllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("provider", cfg.PromptProvider).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
