package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tasador/server/internal/history"
	"tasador/server/internal/market"
	"tasador/server/internal/models"
	"tasador/server/internal/valuation"
)

// RegistryLookup is the slice of the price registry the handlers need.
type RegistryLookup interface {
	Lookup(postalCode string) *float64
}

type Handler struct {
	registry   RegistryLookup
	resolver   *market.Resolver
	calculator *valuation.Calculator
	auditor    *valuation.AuditGenerator
	store      *history.Store
	usage      *history.UsageTracker
	logger     *logrus.Logger
}

type DetailedRequest struct {
	Property models.PropertyData     `json:"property"`
	Detail   models.DetailAttributes `json:"detail"`
}

type PrecisionRequest struct {
	Property   models.PropertyData `json:"property"`
	PhotoCount int                 `json:"photo_count"`
}

func NewHandler(registry RegistryLookup, resolver *market.Resolver, calculator *valuation.Calculator, auditor *valuation.AuditGenerator, store *history.Store, usage *history.UsageTracker, logger *logrus.Logger) *Handler {
	return &Handler{
		registry:   registry,
		resolver:   resolver,
		calculator: calculator,
		auditor:    auditor,
		store:      store,
		usage:      usage,
		logger:     logger,
	}
}

// CreateValuation runs the basic valuation variant for one property.
func (h *Handler) CreateValuation(c *gin.Context) {
	var property models.PropertyData
	if err := c.ShouldBindJSON(&property); err != nil {
		h.logger.WithError(err).Error("Failed to parse valuation request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := property.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	registryPrice := h.registry.Lookup(property.PostalCode)
	resolution := h.resolver.Resolve(c.Request.Context(), property, registryPrice)

	result, err := h.calculator.Calculate(property, resolution.Market, resolution.RegistryPrice)
	if err != nil {
		h.logger.WithError(err).Error("Valuation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute valuation"})
		return
	}

	entry := h.record(property, resolution, result, time.Since(start))
	c.JSON(http.StatusOK, gin.H{"id": entry.ID, "result": result})
}

// CreateDetailedValuation runs the detailed variant: extended adjustment
// rules, zone capping and an uncertainty narrowed by photographic evidence.
func (h *Handler) CreateDetailedValuation(c *gin.Context) {
	var req DetailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse detailed valuation request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := req.Property.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	registryPrice := h.registry.Lookup(req.Property.PostalCode)
	resolution := h.resolver.Resolve(c.Request.Context(), req.Property, registryPrice)

	result, err := h.calculator.CalculateDetailed(req.Property, req.Detail, resolution.Market, resolution.RegistryPrice)
	if err != nil {
		h.logger.WithError(err).Error("Detailed valuation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute valuation"})
		return
	}

	entry := h.record(req.Property, resolution, result, time.Since(start))
	c.JSON(http.StatusOK, gin.H{"id": entry.ID, "result": result})
}

// record appends the completed valuation to the history store.
func (h *Handler) record(property models.PropertyData, resolution market.Resolution, result *models.ValuationResult, duration time.Duration) models.HistoryEntry {
	return h.store.Append(models.HistoryEntry{
		Property:        property,
		Market:          resolution.Market,
		Result:          *result,
		FromRegistry:    resolution.RegistryPrice != nil,
		OracleCalled:    resolution.OracleCalled,
		RegistryPrice:   resolution.RegistryPrice,
		EstimatedTokens: resolution.EstimatedTokens,
		EstimatedCost:   resolution.EstimatedCost,
		OracleQuery:     resolution.OracleQuery,
		Duration:        duration,
	})
}

// ScorePrecision grades input completeness without running a valuation.
func (h *Handler) ScorePrecision(c *gin.Context) {
	var req PrecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse precision request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	c.JSON(http.StatusOK, valuation.ScorePrecision(req.Property, req.PhotoCount))
}

// GetAudit regenerates the audit trail for a stored valuation.
func (h *Handler) GetAudit(c *gin.Context) {
	id := c.Param("id")
	entry := h.store.Get(id)
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown valuation id"})
		return
	}

	report := h.auditor.Generate(entry.Property, entry.Market, entry.Result)
	if ok, errs := valuation.ValidateAuditReport(report); !ok {
		h.logger.WithField("errors", errs).Error("Audit report failed validation")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Audit replay disagrees with stored valuation",
			"errors": errs,
		})
		return
	}

	if c.DefaultQuery("format", "json") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=audit-"+id+".csv")
		if err := valuation.WriteAuditCSV(report, c.Writer); err != nil {
			h.logger.WithError(err).Error("Failed to write audit CSV")
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetHistory returns the retained valuations, most recent first.
func (h *Handler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// ClearHistory drops all retained valuations.
func (h *Handler) ClearHistory(c *gin.Context) {
	h.store.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "History cleared"})
}

// GetStats reports oracle usage counters and history aggregates.
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"usage":   h.usage.Stats(),
		"history": h.store.Stats(),
	})
}

// ResetStats zeroes the oracle usage counters.
func (h *Handler) ResetStats(c *gin.Context) {
	h.usage.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "Usage statistics reset"})
}
