package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/costeo/internal/domain/models"
	"github.com/mamadbah2/costeo/internal/engine"
	"github.com/mamadbah2/costeo/internal/repository/mongodb"
	"github.com/mamadbah2/costeo/internal/repository/sqlite"
	"github.com/mamadbah2/costeo/internal/service/costing"
)

const apiTrigger = "api"

// CostingService is the service surface exposed over HTTP.
type CostingService interface {
	Calculate(in engine.Input) (models.AllocationResult, error)
	MonthlyAllocation(ctx context.Context, req costing.AllocationRequest) (models.AllocationResult, error)
	Publish(ctx context.Context, result models.AllocationResult, trigger string) error
	PublishedAllocation(ctx context.Context, target models.Month) (models.AllocationReport, error)
	RequirementsFor(ctx context.Context, base, target models.Month) (models.Requirements, error)
	CreateScenario(ctx context.Context, sc models.Scenario) (models.Scenario, error)
	ListScenarios(ctx context.Context) ([]models.Scenario, error)
	DeleteScenario(ctx context.Context, id int64) error
	CompareScenarios(ctx context.Context, req costing.CompareRequest) (models.ScenarioComparison, error)
	Project(ctx context.Context, req costing.ProjectionRequest) (models.Projection, error)
}

// CostingHandler adapts the costing service to HTTP.
type CostingHandler struct {
	svc    CostingService
	logger *zap.Logger
}

// NewCostingHandler constructs the HTTP handler adapter.
func NewCostingHandler(svc CostingService, logger *zap.Logger) *CostingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CostingHandler{svc: svc, logger: logger}
}

// Calculate allocates a snapshot supplied in the request body.
func (h *CostingHandler) Calculate(c *gin.Context) {
	var in engine.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid allocation payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Calculate(in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Monthly allocates the backend's scheduled production for a month.
func (h *CostingHandler) Monthly(c *gin.Context) {
	req := costing.AllocationRequest{
		CostBaseMonth: models.Month(c.Query("mes_base")),
		TargetMonth:   models.Month(c.Query("mes_produccion")),
	}

	result, err := h.svc.MonthlyAllocation(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Publish computes a month's allocation and publishes it to the configured sinks.
func (h *CostingHandler) Publish(c *gin.Context) {
	var req costing.AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid publish payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.MonthlyAllocation(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.svc.Publish(c.Request.Context(), result, apiTrigger); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, result)
}

// Published returns the latest stored report for a month.
func (h *CostingHandler) Published(c *gin.Context) {
	report, err := h.svc.PublishedAllocation(c.Request.Context(), models.Month(c.Query("mes")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Requirements lists the raw materials a month's plan consumes.
func (h *CostingHandler) Requirements(c *gin.Context) {
	req, err := h.svc.RequirementsFor(c.Request.Context(), models.Month(c.Query("mes_base")), models.Month(c.Query("mes")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListScenarios returns the stored scenarios.
func (h *CostingHandler) ListScenarios(c *gin.Context) {
	scenarios, err := h.svc.ListScenarios(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scenarios)
}

// CreateScenario stores a named scenario.
func (h *CostingHandler) CreateScenario(c *gin.Context) {
	var sc models.Scenario
	if err := c.ShouldBindJSON(&sc); err != nil {
		h.logger.Warn("invalid scenario payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.svc.CreateScenario(c.Request.Context(), sc)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteScenario removes a stored scenario.
func (h *CostingHandler) DeleteScenario(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario id"})
		return
	}

	if err := h.svc.DeleteScenario(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompareScenarios evaluates scenarios against the base allocation.
func (h *CostingHandler) CompareScenarios(c *gin.Context) {
	var req costing.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid compare payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comparison, err := h.svc.CompareScenarios(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// Project costs a range of months.
func (h *CostingHandler) Project(c *gin.Context) {
	var req costing.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid projection payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	projection, err := h.svc.Project(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, projection)
}

func (h *CostingHandler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status < http.StatusInternalServerError {
		h.logger.Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrReference), errors.Is(err, costing.ErrNoBaseMonth):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sqlite.ErrNotFound), errors.Is(err, mongodb.ErrNoReport):
		return http.StatusNotFound
	case errors.Is(err, costing.ErrBackendUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, costing.ErrPublishingDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
