package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/internal/service"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
	"github.com/evolvehq/perf-review-api/pkg/response"
)

// GoalHandler exposes goal management endpoints.
type GoalHandler struct {
	service *service.GoalService
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(svc *service.GoalService) *GoalHandler {
	return &GoalHandler{service: svc}
}

// Create godoc
// @Summary Create goal
// @Description Create a goal for the authenticated employee
// @Tags Goals
// @Accept json
// @Produce json
// @Param payload body models.CreateGoalRequest true "Goal payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid goal payload"))
		return
	}

	goal, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, goal)
}

// Get godoc
// @Summary Get goal
// @Description Get goal detail with steps and respondents
// @Tags Goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	goal, err := h.service.Get(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, goal, nil)
}

// Respondents godoc
// @Summary List goal respondents
// @Description List the user profiles assigned as respondents of a goal
// @Tags Goals
// @Produce json
// @Param id path string true "Goal ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /goals/{id}/respondents [get]
func (h *GoalHandler) Respondents(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	respondents, err := h.service.Respondents(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, respondents, nil)
}

// List godoc
// @Summary List goals
// @Description List goals visible to the authenticated user
// @Tags Goals
// @Produce json
// @Param employee_id query string false "Employee filter"
// @Param period query string false "Review period filter"
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.GoalFilter{
		EmployeeID: c.Query("employee_id"),
		Period:     c.Query("period"),
		Status:     models.GoalStatus(c.Query("status")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20")); err == nil {
		filter.PerPage = perPage
	}

	goals, total, err := h.service.List(c.Request.Context(), filter, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PerPage, TotalCount: total}
	response.JSON(c, http.StatusOK, goals, pagination)
}

// Update godoc
// @Summary Update goal
// @Description Update goal fields or transition its status
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param payload body models.UpdateGoalRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /goals/{id} [patch]
func (h *GoalHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	goal, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, goal, nil)
}

// SetStepDone godoc
// @Summary Toggle goal step completion
// @Tags Goals
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param stepId path string true "Step ID"
// @Param payload body map[string]bool true "Done flag"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /goals/{id}/steps/{stepId} [patch]
func (h *GoalHandler) SetStepDone(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		Done bool `json:"done"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid step payload"))
		return
	}

	if err := h.service.SetStepDone(c.Request.Context(), c.Param("id"), c.Param("stepId"), payload.Done, claims); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
