package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"paperag/internal/activities"
	"paperag/internal/config"
	"paperag/internal/logging"
	"paperag/internal/metadata"
	"paperag/internal/providers"
	"paperag/internal/storage"
	"paperag/internal/vector"
	"paperag/internal/workflows"
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

	resolver := metadata.NewResolver(
		metadata.NewCrossrefClient(cfg.CrossrefBaseURL),
		metadata.NewArxivClient(cfg.ArxivBaseURL),
	)

	temporalClient, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		logger.Fatal("dial temporal", zap.Error(err))
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)
	activities.New(cfg, index, embedder, resolver, logger).Register(w)

	logger.Info("worker starting", zap.String("task_queue", cfg.TemporalTaskQueue))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("worker stopped", zap.Error(err))
	}
}
