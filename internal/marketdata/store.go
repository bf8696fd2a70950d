// Package marketdata holds ingested price history and builds the
// date-aligned tables the risk engine consumes. It is the in-process
// stand-in for the external market-data fetch collaborator.
package marketdata

import (
	"sort"
	"sync"
	"time"

	"github.com/quantrisk/var-engine/pkg/models"
	"github.com/quantrisk/var-engine/pkg/utils/errors"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// Store is an in-memory price history store keyed by symbol and date.
// Safe for concurrent use.
type Store struct {
	bars map[string]map[time.Time]models.PriceBar
	mu   sync.RWMutex
	log  *logger.Logger
}

// NewStore creates an empty price store.
func NewStore() *Store {
	return &Store{
		bars: make(map[string]map[time.Time]models.PriceBar),
		log:  logger.GetLogger("marketdata.store"),
	}
}

// Add inserts or replaces one price bar. Dates are truncated to the
// day so intraday duplicates collapse to the latest observation.
func (s *Store) Add(bar models.PriceBar) error {
	if bar.Symbol == "" {
		return errors.InvalidArgument("price bar symbol cannot be empty")
	}
	if bar.Price() <= 0 {
		return errors.InvalidArgument("price bar must carry a positive close")
	}

	day := bar.Date.UTC().Truncate(24 * time.Hour)
	bar.Date = day

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bars[bar.Symbol] == nil {
		s.bars[bar.Symbol] = make(map[time.Time]models.PriceBar)
	}
	s.bars[bar.Symbol][day] = bar
	return nil
}

// AddSeries inserts a sequence of bars, stopping at the first invalid one.
func (s *Store) AddSeries(bars []models.PriceBar) error {
	for _, bar := range bars {
		if err := s.Add(bar); err != nil {
			return err
		}
	}
	return nil
}

// Symbols returns the symbols with at least one stored bar.
func (s *Store) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, 0, len(s.bars))
	for symbol := range s.bars {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Table builds a date-aligned price table for the given symbols over
// [from, to]. Zero bounds mean unbounded. Only dates on which every
// requested symbol has a bar are included, so the columns share one
// strictly increasing date index. Returns a not-found error when no
// common dates exist or a symbol is entirely absent.
func (s *Store) Table(symbols []string, from, to time.Time) (models.PriceTable, error) {
	if len(symbols) == 0 {
		return models.PriceTable{}, errors.InvalidArgument("at least one symbol is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, symbol := range symbols {
		if len(s.bars[symbol]) == 0 {
			return models.PriceTable{}, errors.NotFound("no price history for symbol " + symbol)
		}
	}

	// Intersect the date sets, seeded from the first symbol.
	var dates []time.Time
	for date := range s.bars[symbols[0]] {
		if !from.IsZero() && date.Before(from) {
			continue
		}
		if !to.IsZero() && date.After(to) {
			continue
		}
		onAll := true
		for _, symbol := range symbols[1:] {
			if _, ok := s.bars[symbol][date]; !ok {
				onAll = false
				break
			}
		}
		if onAll {
			dates = append(dates, date)
		}
	}

	if len(dates) == 0 {
		return models.PriceTable{}, errors.NotFound("no overlapping price dates for requested symbols")
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	prices := make([][]float64, len(dates))
	for i, date := range dates {
		row := make([]float64, len(symbols))
		for j, symbol := range symbols {
			row[j] = s.bars[symbol][date].Price()
		}
		prices[i] = row
	}

	table := models.PriceTable{
		Dates:   dates,
		Symbols: append([]string(nil), symbols...),
		Prices:  prices,
	}
	s.log.Debugf("built price table: %d symbols, %d rows", len(symbols), len(dates))
	return table, nil
}
