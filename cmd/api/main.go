package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantrisk/var-engine/config"
	"github.com/quantrisk/var-engine/internal/engine"
	"github.com/quantrisk/var-engine/internal/marketdata"
	"github.com/quantrisk/var-engine/internal/store"
	"github.com/quantrisk/var-engine/internal/websocket"
	"github.com/quantrisk/var-engine/pkg/api"
	"github.com/quantrisk/var-engine/pkg/metrics"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger("api.main").Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel, cfg.App.Environment)
	log := logger.GetLogger("api.main")
	log.Infof("starting %s API server", cfg.App.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := metrics.NewRecorder()
	priceStore := marketdata.NewStore()
	portfolioStore := store.NewInMemoryPortfolioStore()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	service := engine.NewService(
		engine.ServiceConfig{MaxConcurrent: cfg.Risk.MaxConcurrent},
		portfolioStore,
		priceStore,
	).WithBroadcaster(hub).WithRecorder(recorder)

	handlers := api.NewHandlers(service, portfolioStore)
	server := api.NewServer(api.Config{
		Host:         cfg.API.Host,
		Port:         cfg.API.Port,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		Environment:  cfg.App.Environment,
	}, handlers, hub, recorder)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Errorf("API server failed: %v", err)
	case sig := <-sigCh:
		log.Infof("received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
	log.Info("API server stopped")
}
