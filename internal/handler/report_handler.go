package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/internal/service"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
	"github.com/evolvehq/perf-review-api/pkg/response"
)

// ReportHandler exposes file export endpoints.
type ReportHandler struct {
	exports *service.ExportService
}

// NewReportHandler constructs the report handler.
func NewReportHandler(exports *service.ExportService) *ReportHandler {
	return &ReportHandler{exports: exports}
}

// EmployeeCSV godoc
// @Summary Export employee summary as CSV
// @Tags Reports
// @Produce text/csv
// @Param id path string true "Employee ID"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /reports/employees/{id}/csv [get]
func (h *ReportHandler) EmployeeCSV(c *gin.Context) {
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

	data, err := h.exports.EmployeeSummaryCSV(c.Request.Context(), employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, data, "text/csv", fmt.Sprintf("employee-summary-%s.csv", employeeID))
}

// TeamCSV godoc
// @Summary Export team summary as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /reports/team/csv [get]
func (h *ReportHandler) TeamCSV(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	data, err := h.exports.TeamSummaryCSV(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, data, "text/csv", "team-summary.csv")
}

// TeamPDF godoc
// @Summary Export team summary as PDF
// @Tags Reports
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /reports/team/pdf [get]
func (h *ReportHandler) TeamPDF(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	data, err := h.exports.TeamSummaryPDF(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, data, "application/pdf", "team-summary.pdf")
}

func serveFile(c *gin.Context, data []byte, mimeType, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimeType, data)
}
