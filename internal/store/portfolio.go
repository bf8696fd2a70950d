// Package store provides portfolio definition storage.
package store

import (
	"sync"
	"time"

	"github.com/quantrisk/var-engine/internal/engine"
	"github.com/quantrisk/var-engine/pkg/models"
	"github.com/quantrisk/var-engine/pkg/utils/errors"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// InMemoryPortfolioStore keeps portfolio definitions in memory.
// Safe for concurrent use.
type InMemoryPortfolioStore struct {
	portfolios map[string]*models.Portfolio
	mu         sync.RWMutex
	log        *logger.Logger
}

// NewInMemoryPortfolioStore creates an empty portfolio store.
func NewInMemoryPortfolioStore() *InMemoryPortfolioStore {
	return &InMemoryPortfolioStore{
		portfolios: make(map[string]*models.Portfolio),
		log:        logger.GetLogger("store.portfolio"),
	}
}

// Get retrieves a portfolio by ID.
func (s *InMemoryPortfolioStore) Get(id string) (*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	portfolio, exists := s.portfolios[id]
	if !exists {
		return nil, errors.NotFound("portfolio not found: " + id)
	}
	return portfolio, nil
}

// List returns all stored portfolios.
func (s *InMemoryPortfolioStore) List() ([]*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	portfolios := make([]*models.Portfolio, 0, len(s.portfolios))
	for _, p := range s.portfolios {
		portfolios = append(portfolios, p)
	}
	return portfolios, nil
}

// Save validates and stores a portfolio definition. Weight sum,
// confidence level and window are checked here, at the boundary, so
// stored portfolios always carry evaluable parameters; the engine
// still re-checks on every evaluation.
func (s *InMemoryPortfolioStore) Save(portfolio *models.Portfolio) error {
	if portfolio == nil {
		return errors.InvalidArgument("cannot save nil portfolio")
	}
	if portfolio.ID == "" {
		return errors.InvalidArgument("portfolio ID cannot be empty")
	}
	if len(portfolio.Symbols) == 0 {
		return errors.InvalidArgument("portfolio must reference at least one symbol")
	}
	if len(portfolio.WeightsPct) != len(portfolio.Symbols) {
		return errors.DimensionMismatch("number of weights must match number of symbols")
	}
	if err := engine.ValidateParams(portfolio.Params()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.portfolios[portfolio.ID]; ok {
		portfolio.Created = existing.Created
	} else {
		portfolio.Created = now
	}
	portfolio.Updated = now

	s.portfolios[portfolio.ID] = portfolio
	return nil
}

// Delete removes a portfolio by ID.
func (s *InMemoryPortfolioStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.portfolios[id]; !exists {
		return errors.NotFound("portfolio not found: " + id)
	}
	delete(s.portfolios, id)
	return nil
}
