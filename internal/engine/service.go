package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantrisk/var-engine/pkg/models"
	"github.com/quantrisk/var-engine/pkg/utils/errors"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// PortfolioStore is the subset of portfolio storage the service needs.
type PortfolioStore interface {
	Get(id string) (*models.Portfolio, error)
	List() ([]*models.Portfolio, error)
}

// PriceSource supplies date-aligned price tables. It stands in for the
// external market-data collaborator; ticker and date-range validation
// happens behind this boundary, not in the engine.
type PriceSource interface {
	Table(symbols []string, from, to time.Time) (models.PriceTable, error)
}

// Publisher delivers serialized risk reports to a message broker.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Broadcaster pushes serialized risk reports to streaming clients.
type Broadcaster interface {
	Broadcast(message []byte)
}

// Recorder receives evaluation metrics.
type Recorder interface {
	RecordEvaluation(portfolioID string, report *models.RiskReport, duration time.Duration)
	RecordEvaluationError(portfolioID string)
}

// ServiceConfig configures the evaluation service.
type ServiceConfig struct {
	// MaxConcurrent bounds how many portfolios EvaluateAll computes in
	// parallel. The estimators are pure, so parallelism is safe.
	MaxConcurrent int
}

// Service evaluates stored portfolios against the price source and
// fans the resulting reports out to the optional collaborators.
type Service struct {
	config     ServiceConfig
	engine     *Engine
	portfolios PortfolioStore
	prices     PriceSource
	publisher  Publisher
	streamer   Broadcaster
	recorder   Recorder
	log        *logger.Logger
}

// NewService creates an evaluation service. publisher, streamer and
// recorder may be nil; the corresponding fan-out is skipped.
func NewService(config ServiceConfig, portfolios PortfolioStore, prices PriceSource) *Service {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 4
	}
	return &Service{
		config:     config,
		engine:     New(),
		portfolios: portfolios,
		prices:     prices,
		log:        logger.GetLogger("engine.service"),
	}
}

// WithPublisher attaches a report publisher.
func (s *Service) WithPublisher(p Publisher) *Service {
	s.publisher = p
	return s
}

// WithBroadcaster attaches a streaming broadcaster.
func (s *Service) WithBroadcaster(b Broadcaster) *Service {
	s.streamer = b
	return s
}

// WithRecorder attaches a metrics recorder.
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// EvaluatePortfolio computes the risk report for one stored portfolio
// over its full available price history.
func (s *Service) EvaluatePortfolio(ctx context.Context, id string) (*models.RiskReport, error) {
	start := time.Now()

	portfolio, err := s.portfolios.Get(id)
	if err != nil {
		return nil, err
	}

	table, err := s.prices.Table(portfolio.Symbols, time.Time{}, time.Time{})
	if err != nil {
		if s.recorder != nil {
			s.recorder.RecordEvaluationError(id)
		}
		return nil, errors.Wrap(err, "loading price table for portfolio "+id)
	}

	report, err := s.engine.Evaluate(table, portfolio.Params())
	if err != nil {
		if s.recorder != nil {
			s.recorder.RecordEvaluationError(id)
		}
		return nil, err
	}
	report.PortfolioID = id

	if s.recorder != nil {
		s.recorder.RecordEvaluation(id, report, time.Since(start))
	}
	s.distribute(ctx, report)

	return report, nil
}

// EvaluateAll evaluates every stored portfolio, at most MaxConcurrent
// at a time, and returns the reports keyed by portfolio ID. A failure
// for one portfolio does not stop the others; the first error is
// returned alongside the successful reports.
func (s *Service) EvaluateAll(ctx context.Context) (map[string]*models.RiskReport, error) {
	portfolios, err := s.portfolios.List()
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		reports  = make(map[string]*models.RiskReport, len(portfolios))
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MaxConcurrent)

	for _, p := range portfolios {
		p := p
		g.Go(func() error {
			report, err := s.EvaluatePortfolio(gctx, p.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Errorf("evaluation failed for portfolio %s: %v", p.ID, err)
				if firstErr == nil {
					firstErr = err
				}
				return nil
			}
			reports[p.ID] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, firstErr
}

// distribute serializes the report once and hands it to the attached
// publisher and broadcaster.
func (s *Service) distribute(ctx context.Context, report *models.RiskReport) {
	if s.publisher == nil && s.streamer == nil {
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		s.log.Errorf("failed to marshal risk report for %s: %v", report.PortfolioID, err)
		return
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, []byte(report.PortfolioID), payload); err != nil {
			s.log.Errorf("failed to publish risk report for %s: %v", report.PortfolioID, err)
		}
	}
	if s.streamer != nil {
		s.streamer.Broadcast(payload)
	}
}
