package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrisk/var-engine/internal/engine"
	"github.com/quantrisk/var-engine/internal/marketdata"
	"github.com/quantrisk/var-engine/internal/store"
	"github.com/quantrisk/var-engine/pkg/models"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prices := marketdata.NewStore()
	require.NoError(t, prices.AddSeries([]models.PriceBar{
		{Symbol: "AAA", Date: day(1), Close: 100},
		{Symbol: "AAA", Date: day(2), Close: 101},
		{Symbol: "AAA", Date: day(3), Close: 102},
		{Symbol: "AAA", Date: day(4), Close: 101},
		{Symbol: "BBB", Date: day(1), Close: 50},
		{Symbol: "BBB", Date: day(2), Close: 49},
		{Symbol: "BBB", Date: day(3), Close: 51},
		{Symbol: "BBB", Date: day(4), Close: 52},
	}))

	portfolios := store.NewInMemoryPortfolioStore()
	service := engine.NewService(engine.ServiceConfig{MaxConcurrent: 2}, portfolios, prices)
	handlers := NewHandlers(service, portfolios)

	return NewServer(Config{Environment: "test"}, handlers, nil, nil)
}

func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	server := testServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestPortfolioLifecycle(t *testing.T) {
	server := testServer(t)

	portfolio := models.Portfolio{
		ID:         "growth",
		Name:       "Growth",
		Symbols:    []string{"AAA", "BBB"},
		WeightsPct: []float64{60, 40},
		Window:     2,
		Confidence: 90,
		Value:      100000,
	}

	rec := doJSON(t, server, http.MethodPost, "/api/v1/portfolios", portfolio)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/portfolios/growth", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Portfolio
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, portfolio.Symbols, got.Symbols)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/portfolios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodDelete, "/api/v1/portfolios/growth", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/portfolios/growth", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSavePortfolioRejectsBadWeights(t *testing.T) {
	server := testServer(t)

	portfolio := models.Portfolio{
		ID:         "bad",
		Symbols:    []string{"AAA", "BBB"},
		WeightsPct: []float64{60, 60},
		Window:     2,
		Confidence: 90,
		Value:      100000,
	}

	rec := doJSON(t, server, http.MethodPost, "/api/v1/portfolios", portfolio)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "weights")
}

func TestGetPortfolioRisk(t *testing.T) {
	server := testServer(t)

	portfolio := models.Portfolio{
		ID:         "growth",
		Symbols:    []string{"AAA", "BBB"},
		WeightsPct: []float64{60, 40},
		Window:     2,
		Confidence: 90,
		Value:      100000,
	}
	rec := doJSON(t, server, http.MethodPost, "/api/v1/portfolios", portfolio)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/portfolios/growth/risk", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.RiskReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "growth", report.PortfolioID)
	assert.Equal(t, 2, report.Observations)
	assert.False(t, report.InsufficientData)
	assert.Positive(t, report.Historical.Pct)
	assert.NotZero(t, report.Historical.Amount)
}

func TestGetPortfolioRiskUnknownID(t *testing.T) {
	server := testServer(t)

	rec := doJSON(t, server, http.MethodGet, "/api/v1/portfolios/nope/risk", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPortfolioRolling(t *testing.T) {
	server := testServer(t)

	portfolio := models.Portfolio{
		ID:         "growth",
		Symbols:    []string{"AAA", "BBB"},
		WeightsPct: []float64{60, 40},
		Window:     2,
		Confidence: 90,
		Value:      100000,
	}
	rec := doJSON(t, server, http.MethodPost, "/api/v1/portfolios", portfolio)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/portfolios/growth/rolling", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		PortfolioID    string                `json:"portfolioId"`
		Window         int                   `json:"window"`
		RollingReturns []models.RollingPoint `json:"rollingReturns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "growth", payload.PortfolioID)
	assert.Equal(t, 2, payload.Window)
	assert.Len(t, payload.RollingReturns, 2)
}

func TestEvaluateInlineTable(t *testing.T) {
	server := testServer(t)

	req := EvaluateRequest{
		Table: models.PriceTable{
			Dates:   []time.Time{day(1), day(2), day(3), day(4)},
			Symbols: []string{"AAA", "BBB"},
			Prices: [][]float64{
				{100, 50},
				{101, 49},
				{102, 51},
				{101, 52},
			},
		},
		Params: models.Params{
			WeightsPct:     []float64{60, 40},
			Window:         2,
			Confidence:     90,
			PortfolioValue: 100000,
		},
	}

	rec := doJSON(t, server, http.MethodPost, "/api/v1/risk/evaluate", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.RiskReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.InDelta(t, 0.0206, report.Historical.Pct, 1e-4)
}

func TestEvaluateRejectsInvalidParams(t *testing.T) {
	server := testServer(t)

	req := EvaluateRequest{
		Table: models.PriceTable{
			Dates:   []time.Time{day(1), day(2)},
			Symbols: []string{"AAA"},
			Prices:  [][]float64{{100}, {101}},
		},
		Params: models.Params{
			WeightsPct:     []float64{50},
			Window:         1,
			Confidence:     95,
			PortfolioValue: 100000,
		},
	}

	rec := doJSON(t, server, http.MethodPost, "/api/v1/risk/evaluate", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req.Params.WeightsPct = []float64{100}
	req.Params.Confidence = 100
	rec = doJSON(t, server, http.MethodPost, "/api/v1/risk/evaluate", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
