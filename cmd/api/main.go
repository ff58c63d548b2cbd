package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"paperag/internal/api"
	"paperag/internal/config"
	"paperag/internal/logging"
	"paperag/internal/providers"
	"paperag/internal/rag"
	"paperag/internal/storage"
	"paperag/internal/vector"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := storage.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	store := vector.NewStore(db, cfg.EmbedDim)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}
	index := vector.NewManager(store)

	embedder, err := providers.NewEmbedder(cfg.EmbedProvider, cfg.EmbedModel, cfg.OllamaBaseURL, cfg.EmbedAPIKey, cfg.EmbedDim)
	if err != nil {
		logger.Fatal("init embedder", zap.Error(err))
	}
	registry := providers.NewRegistry(cfg.OllamaBaseURL)
	ollama := providers.NewOllamaProvider(cfg.OllamaBaseURL)

	temporalClient, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal("dial temporal", zap.Error(err))
	}
	defer temporalClient.Close()

	engine := rag.NewEngine(index, embedder, registry, logger)
	server := api.NewServer(cfg, engine, index, registry, ollama, temporalClient, logger)

	logger.Info("api listening", zap.String("addr", cfg.APIAddr))
	if err := http.ListenAndServe(cfg.APIAddr, server.Handler()); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
