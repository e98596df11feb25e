package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"rentware/internal/core/apperror"
	"rentware/internal/core/id"
	"rentware/internal/domain/reports"
)

// ReportsHandler serves read-only reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	summary, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

// MostRented handles GET /reports/most-rented.
func (h *ReportsHandler) MostRented(c *gin.Context) {
	filter := reports.MostRentedFilter{
		Limit: h.ParseIntQuery(c, "limit", 10),
	}

	var ok bool
	if filter.From, ok = h.parseTimeQuery(c, "from"); !ok {
		return
	}
	if filter.To, ok = h.parseTimeQuery(c, "to"); !ok {
		return
	}

	rows, err := h.service.GetMostRented(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": rows})
}

// MovementSummary handles GET /reports/movement-summary.
func (h *ReportsHandler) MovementSummary(c *gin.Context) {
	var filter reports.MovementSummaryFilter

	var ok bool
	if filter.From, ok = h.parseTimeQuery(c, "from"); !ok {
		return
	}
	if filter.To, ok = h.parseTimeQuery(c, "to"); !ok {
		return
	}

	if whStr := c.Query("warehouseId"); whStr != "" {
		whID, err := id.Parse(whStr)
		if err != nil {
			h.Error(c, invalidIDError("warehouseId"))
			return
		}
		filter.WarehouseID = &whID
	}

	rows, err := h.service.GetMovementSummary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": rows})
}

// ConditionBreakdown handles GET /reports/condition-breakdown.
func (h *ReportsHandler) ConditionBreakdown(c *gin.Context) {
	rows, err := h.service.GetConditionBreakdown(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": rows})
}

func (h *ReportsHandler) parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}

	parsed, err := time.Parse(time.RFC3339, val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key+" date, RFC3339 expected"))
		return nil, false
	}
	return &parsed, true
}
