package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/internal/service"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
	"github.com/evolvehq/perf-review-api/pkg/response"
)

// AnalyticsHandler exposes dashboard-ready analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Goal godoc
// @Summary Goal analytics
// @Description Blended score, rating, potential breakdown and recommendations for a goal
// @Tags Analytics
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/goals/{id} [get]
func (h *AnalyticsHandler) Goal(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.analytics.GoalAnalytics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil, analyticsMeta(start, cacheHit))
}

// Employee godoc
// @Summary Employee summary
// @Description Per-goal scores and the aggregate rating for one employee
// @Tags Analytics
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /analytics/employees/{id} [get]
func (h *AnalyticsHandler) Employee(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	employeeID := c.Param("id")
	if employeeID == "me" {
		employeeID = claims.UserID
	}
	if employeeID != claims.UserID && claims.Role != models.RoleManager {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	start := time.Now()
	summary, cacheHit, err := h.analytics.EmployeeSummary(c.Request.Context(), employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, analyticsMeta(start, cacheHit))
}

// Team godoc
// @Summary Team summary
// @Description Summaries for every direct report of the authenticated manager
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /analytics/team [get]
func (h *AnalyticsHandler) Team(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	start := time.Now()
	summary, err := h.analytics.TeamSummary(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, analyticsMeta(start, false))
}

// System godoc
// @Summary System metrics snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	metrics := h.analytics.SystemMetrics()
	response.JSON(c, http.StatusOK, metrics, nil, analyticsMeta(start, false))
}

func analyticsMeta(start time.Time, cacheHit bool) map[string]interface{} {
	return map[string]interface{}{
		"cache_hit":          cacheHit,
		"processing_time_ms": time.Since(start).Milliseconds(),
	}
}
