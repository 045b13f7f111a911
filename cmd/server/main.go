package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/katakuxiko/askexperts/internal/api"
	"github.com/katakuxiko/askexperts/internal/config"
	"github.com/katakuxiko/askexperts/internal/logger"
	"github.com/katakuxiko/askexperts/internal/search"
	"github.com/katakuxiko/askexperts/internal/service"
	"github.com/katakuxiko/askexperts/internal/store"
)

func main() {
	// config
	cfg, err := config.Load()
	if err != nil {
		_ = logger.Init("info")
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		_ = logger.Init("info")
		logger.Warn("unknown LOG_LEVEL, using info", zap.String("level", cfg.LogLevel))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// store
	facts, err := store.Open(ctx, cfg.Facts)
	if err != nil {
		logger.Fatal("fact store unavailable", zap.String("backend", cfg.Facts.Backend), zap.Error(err))
	}
	defer facts.Close(context.Background())

	// services
	llm := service.NewLLMClient(cfg.OpenAI)
	searchClient := search.NewClient(cfg.Search)
	qa := service.NewQAService(llm, searchClient, llm, cfg.Generation)

	// api
	app := api.NewApp(api.NewHandler(qa, facts), cfg.RoutePrefix)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	logger.Info("server started",
		zap.String("addr", cfg.ServerAddr),
		zap.String("route", cfg.RoutePrefix+"/AskQuestion"),
		zap.String("facts_backend", cfg.Facts.Backend),
	)
	if err := app.Listen(cfg.ServerAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
