package models

import (
	"time"
)

// EstimatorMethod identifies one of the supported VaR methodologies.
type EstimatorMethod string

const (
	MethodHistorical  EstimatorMethod = "historical"
	MethodParametric  EstimatorMethod = "parametric"
	MethodConditional EstimatorMethod = "conditional"
)

// PriceTable is a date-aligned table of per-asset prices. Rows are
// dates in strictly increasing order; Prices[i][j] is the price of
// Symbols[j] on Dates[i]. Read-only once constructed.
type PriceTable struct {
	Dates   []time.Time `json:"dates"`
	Symbols []string    `json:"symbols"`
	Prices  [][]float64 `json:"prices"`
}

// Rows returns the number of date rows in the table.
func (t PriceTable) Rows() int { return len(t.Dates) }

// Params are the caller-supplied inputs for one risk evaluation.
// Weights are percentages summing to 100; they are normalized to
// fractions before the aggregation step.
type Params struct {
	WeightsPct     []float64 `json:"weightsPct"`
	Window         int       `json:"window"`
	Confidence     float64   `json:"confidence"`
	PortfolioValue float64   `json:"portfolioValue"`
}

// RiskEstimate is a single risk figure: a signed return fraction
// (negative = loss) and its currency equivalent, tagged with the
// confidence level and window that produced it.
type RiskEstimate struct {
	Method     EstimatorMethod `json:"method"`
	Confidence float64         `json:"confidence"`
	Window     int             `json:"window"`
	Pct        float64         `json:"pct"`
	Amount     float64         `json:"amount"`
}

// RollingPoint is one entry of the rolling return series keyed by the
// window end date. The presentation layer renders these as a histogram
// or exports them as a two-column table.
type RollingPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// RiskReport holds the three estimates for one evaluation together
// with the rolling series they were derived from. InsufficientData is
// the side channel distinguishing "zero risk" from "no data": when set,
// the historical and conditional figures are the 0.0 sentinel.
type RiskReport struct {
	PortfolioID      string         `json:"portfolioId,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
	Historical       RiskEstimate   `json:"historical"`
	Parametric       RiskEstimate   `json:"parametric"`
	Conditional      RiskEstimate   `json:"conditional"`
	RollingReturns   []RollingPoint `json:"rollingReturns"`
	Observations     int            `json:"observations"`
	InsufficientData bool           `json:"insufficientData"`
}

// PriceBar is one ingested price observation for a symbol. AdjClose is
// preferred for return computation; Close is the fallback when the
// source provides no adjusted series.
type PriceBar struct {
	Symbol   string    `json:"symbol"`
	Date     time.Time `json:"date"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjClose,omitempty"`
}

// Price returns the adjusted close when present, else the close.
func (b PriceBar) Price() float64 {
	if b.AdjClose != 0 {
		return b.AdjClose
	}
	return b.Close
}

// Portfolio is a stored risk-evaluation definition: which assets, at
// which percentage weights, over which window and confidence, scaled
// to which notional value.
type Portfolio struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Symbols    []string  `json:"symbols"`
	WeightsPct []float64 `json:"weightsPct"`
	Window     int       `json:"window"`
	Confidence float64   `json:"confidence"`
	Value      float64   `json:"value"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
}

// Params returns the evaluation parameters encoded in the portfolio.
func (p *Portfolio) Params() Params {
	return Params{
		WeightsPct:     p.WeightsPct,
		Window:         p.Window,
		Confidence:     p.Confidence,
		PortfolioValue: p.Value,
	}
}
