package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantrisk/var-engine/config"
	"github.com/quantrisk/var-engine/internal/engine"
	"github.com/quantrisk/var-engine/internal/kafka"
	"github.com/quantrisk/var-engine/internal/marketdata"
	"github.com/quantrisk/var-engine/internal/store"
	"github.com/quantrisk/var-engine/pkg/metrics"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger("risk-engine.main").Fatalf("failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel, cfg.App.Environment)
	log := logger.GetLogger("risk-engine.main")
	log.Infof("starting %s risk engine", cfg.App.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := metrics.NewRecorder()
	priceStore := marketdata.NewStore()
	portfolioStore := store.NewInMemoryPortfolioStore()

	kafkaConfig := kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
	}

	consumer := kafka.NewConsumer(kafkaConfig, cfg.Kafka.Topics.PriceBars)
	defer consumer.Close()

	producer := kafka.NewProducer(kafkaConfig, cfg.Kafka.Topics.RiskReports)
	defer producer.Close()

	ingestor := marketdata.NewIngestor(priceStore, consumer)
	go func() {
		if err := ingestor.Run(ctx); err != nil {
			log.Errorf("price ingestion stopped: %v", err)
			cancel()
		}
	}()

	service := engine.NewService(
		engine.ServiceConfig{MaxConcurrent: cfg.Risk.MaxConcurrent},
		portfolioStore,
		priceStore,
	).WithPublisher(producer).WithRecorder(recorder)

	go evaluateLoop(ctx, service, cfg.Risk.Interval, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("received signal %v, shutting down", sig)
	case <-ctx.Done():
	}

	cancel()
	log.Info("risk engine stopped")
}

// evaluateLoop periodically evaluates every stored portfolio and lets
// the service publish the reports.
func evaluateLoop(ctx context.Context, service *engine.Service, interval time.Duration, log *logger.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reports, err := service.EvaluateAll(ctx)
			if err != nil {
				log.Warnf("evaluation cycle finished with errors: %v", err)
			}
			log.Infof("evaluation cycle complete: %d reports", len(reports))
		}
	}
}
