package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovn531/faisal/internal/api"
	"github.com/ovn531/faisal/internal/config"
	"github.com/ovn531/faisal/internal/conversation"
	"github.com/ovn531/faisal/internal/db"
	"github.com/ovn531/faisal/internal/llm"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}
	defer database.Close()

	completer, err := llm.New(context.Background(), llm.Config{
		OpenAIKey:     cfg.OpenAIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		AnthropicKey:  cfg.AnthropicKey,
		GoogleKey:     cfg.GoogleKey,
	})
	if err != nil {
		logger.Fatal("failed to initialize completion clients", zap.Error(err))
	}

	svc := conversation.New(database, completer, logger)
	handler := api.NewHandler(svc, logger)

	mux := http.NewServeMux()
	handler.Register(mux)

	// Serve the web frontend
	mux.Handle("/", http.FileServer(http.Dir("web")))

	logger.Info("Starting server", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, api.WithCORS(mux)); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
