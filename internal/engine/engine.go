// Package engine implements the portfolio risk estimation core: price
// table to weighted daily returns, to rolling compounded returns, to
// historical, parametric and conditional Value at Risk.
//
// All computations are pure functions of their inputs. The Engine type
// only adds parameter validation, logging and timing around them, so
// evaluations for independent inputs may run concurrently without
// synchronization.
package engine

import (
	"time"

	"github.com/quantrisk/var-engine/pkg/models"
	"github.com/quantrisk/var-engine/pkg/utils/errors"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// Engine evaluates risk reports from price tables.
type Engine struct {
	log *logger.Logger
}

// New creates a risk engine.
func New() *Engine {
	return &Engine{log: logger.GetLogger("engine")}
}

// ValidateParams checks the caller-supplied evaluation parameters.
// Weight percentages are checked for sum and parseability here
// (InvalidWeights); the weight/column dimension check happens inside
// the aggregation step against the actual table.
func ValidateParams(p models.Params) error {
	if _, err := NormalizeWeights(p.WeightsPct); err != nil {
		return err
	}
	if p.Window < 1 {
		return errors.InvalidArgument("window must be a positive integer")
	}
	if p.Confidence <= 0 || p.Confidence >= 100 {
		return errors.UnsupportedConfidenceLevel("confidence level must be in (0, 100)")
	}
	if p.PortfolioValue <= 0 {
		return errors.InvalidArgument("portfolio value must be positive")
	}
	return nil
}

// Evaluate computes the three risk estimates for one portfolio over
// one price table.
//
// Dimension and parameter errors abort before any estimate is
// produced. A rolling series shorter than the window is not an error:
// the report carries sentinel (0.0) historical and conditional
// estimates with InsufficientData set, and the caller decides whether
// to halt or display "no data".
func (e *Engine) Evaluate(table models.PriceTable, params models.Params) (*models.RiskReport, error) {
	start := time.Now()

	if err := ValidateParams(params); err != nil {
		return nil, err
	}

	weights, err := NormalizeWeights(params.WeightsPct)
	if err != nil {
		return nil, err
	}

	daily, err := PortfolioReturns(table, weights)
	if err != nil {
		return nil, err
	}

	rolling := RollingCompound(daily, params.Window)

	histPct := HistoricalVaR(rolling, params.Confidence)
	paraPct := ParametricVaR(daily, params.Confidence, params.Window)
	condPct := ConditionalVaR(rolling, params.Confidence)

	report := &models.RiskReport{
		Timestamp:        time.Now().UTC(),
		Historical:       newEstimate(models.MethodHistorical, histPct, params),
		Parametric:       newEstimate(models.MethodParametric, paraPct, params),
		Conditional:      newEstimate(models.MethodConditional, condPct, params),
		RollingReturns:   rollingPoints(table, rolling, params.Window),
		Observations:     len(rolling),
		InsufficientData: len(rolling) == 0,
	}

	if report.InsufficientData {
		e.log.Warnf("rolling series empty: %d daily returns for window %d, returning sentinel estimates",
			len(daily), params.Window)
	}
	e.log.Debugf("evaluated %d assets over %d rows in %v",
		len(table.Symbols), table.Rows(), time.Since(start))

	return report, nil
}

func newEstimate(method models.EstimatorMethod, pct float64, p models.Params) models.RiskEstimate {
	return models.RiskEstimate{
		Method:     method,
		Confidence: p.Confidence,
		Window:     p.Window,
		Pct:        pct,
		Amount:     Amount(pct, p.PortfolioValue),
	}
}

// rollingPoints pairs each rolling return with the date its window
// ends on. Daily return t covers the step into price row t+1, so the
// window starting at daily index k ends on price row k+window.
func rollingPoints(table models.PriceTable, rolling []float64, window int) []models.RollingPoint {
	points := make([]models.RollingPoint, len(rolling))
	for k, v := range rolling {
		points[k] = models.RollingPoint{Date: table.Dates[k+window], Value: v}
	}
	return points
}
