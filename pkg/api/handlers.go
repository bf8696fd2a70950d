package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantrisk/var-engine/internal/engine"
	"github.com/quantrisk/var-engine/pkg/models"
	"github.com/quantrisk/var-engine/pkg/utils/errors"
	"github.com/quantrisk/var-engine/pkg/utils/logger"
)

// PortfolioStore is the portfolio storage surface the handlers need.
type PortfolioStore interface {
	Get(id string) (*models.Portfolio, error)
	List() ([]*models.Portfolio, error)
	Save(portfolio *models.Portfolio) error
	Delete(id string) error
}

// Handlers contains all HTTP handlers for the API.
type Handlers struct {
	service    *engine.Service
	engine     *engine.Engine
	portfolios PortfolioStore
	log        *logger.Logger
}

// NewHandlers creates the API handlers.
func NewHandlers(service *engine.Service, portfolios PortfolioStore) *Handlers {
	return &Handlers{
		service:    service,
		engine:     engine.New(),
		portfolios: portfolios,
		log:        logger.GetLogger("api.handlers"),
	}
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListPortfolios returns all stored portfolio definitions.
func (h *Handlers) ListPortfolios(c *gin.Context) {
	portfolios, err := h.portfolios.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolios)
}

// SavePortfolio stores a portfolio definition.
func (h *Handlers) SavePortfolio(c *gin.Context) {
	var portfolio models.Portfolio
	if err := c.ShouldBindJSON(&portfolio); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid portfolio: %v", err)})
		return
	}

	if err := h.portfolios.Save(&portfolio); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// GetPortfolio returns one portfolio definition.
func (h *Handlers) GetPortfolio(c *gin.Context) {
	portfolio, err := h.portfolios.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// DeletePortfolio removes a portfolio definition.
func (h *Handlers) DeletePortfolio(c *gin.Context) {
	if err := h.portfolios.Delete(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetPortfolioRisk evaluates a stored portfolio and returns the full
// risk report.
func (h *Handlers) GetPortfolioRisk(c *gin.Context) {
	report, err := h.service.EvaluatePortfolio(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetPortfolioRolling returns only the rolling (date, value) series
// for a stored portfolio, the shape the presentation layer exports.
func (h *Handlers) GetPortfolioRolling(c *gin.Context) {
	report, err := h.service.EvaluatePortfolio(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"portfolioId":      report.PortfolioID,
		"window":           report.Historical.Window,
		"observations":     report.Observations,
		"insufficientData": report.InsufficientData,
		"rollingReturns":   report.RollingReturns,
	})
}

// EvaluateRequest is an ad-hoc evaluation over an inline price table.
type EvaluateRequest struct {
	Table  models.PriceTable `json:"table"`
	Params models.Params     `json:"params"`
}

// Evaluate runs the engine over a caller-supplied price table without
// touching stored portfolios or the price store.
func (h *Handlers) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	report, err := h.engine.Evaluate(req.Table, req.Params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// fail maps application error kinds onto HTTP statuses.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.KindOf(err) {
	case errors.KindDimensionMismatch,
		errors.KindInvalidWeights,
		errors.KindUnsupportedConfidenceLevel,
		errors.KindInvalidArgument:
		status = http.StatusBadRequest
	case errors.KindNotFound:
		status = http.StatusNotFound
	default:
		h.log.Errorf("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
