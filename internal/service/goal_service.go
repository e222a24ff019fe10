package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/pkg/config"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
)

type goalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	FindByID(ctx context.Context, id string) (*models.Goal, error)
	List(ctx context.Context, filter models.GoalFilter) ([]models.Goal, int, error)
	CountByEmployee(ctx context.Context, employeeID string) (int, error)
	Update(ctx context.Context, goal *models.Goal) error
	SetStepDone(ctx context.Context, goalID, stepID string, done bool) error
	IsRespondent(ctx context.Context, goalID, userID string) (bool, error)
}

type goalUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type goalNotifier interface {
	GoalStatusChanged(ctx context.Context, goal *models.Goal, actorID string)
}

// GoalService implements goal lifecycle use cases.
type GoalService struct {
	repo      goalRepository
	users     goalUserRepository
	notifier  goalNotifier
	validator *validator.Validate
	logger    *zap.Logger
	limits    config.GoalsConfig
}

// NewGoalService constructs a GoalService instance.
func NewGoalService(repo goalRepository, users goalUserRepository, notifier goalNotifier, validate *validator.Validate, logger *zap.Logger, limits config.GoalsConfig) *GoalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GoalService{repo: repo, users: users, notifier: notifier, validator: validate, logger: logger, limits: limits}
}

// Create opens a new goal for the employee. The per-employee goal
// limit, the step limit and the respondent limit are all enforced here.
func (s *GoalService) Create(ctx context.Context, employeeID string, req models.CreateGoalRequest) (*models.Goal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}
	if len(req.Steps) > s.limits.MaxSteps {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("a goal may have at most %d steps", s.limits.MaxSteps))
	}
	if len(req.Respondents) > s.limits.MaxRespondents {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("a goal may have at most %d respondents", s.limits.MaxRespondents))
	}

	count, err := s.repo.CountByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count goals")
	}
	if count >= s.limits.MaxPerEmployee {
		return nil, appErrors.Clone(appErrors.ErrGoalLimit, fmt.Sprintf("employee already has %d goals", count))
	}

	for _, respondentID := range req.Respondents {
		if respondentID == employeeID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "employee cannot be their own respondent")
		}
		if _, err := s.users.FindByID(ctx, respondentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "respondent does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load respondent")
		}
	}

	goal := &models.Goal{
		EmployeeID:  employeeID,
		Title:       req.Title,
		Description: req.Description,
		Period:      req.Period,
		Status:      models.GoalStatusActive,
		Respondents: req.Respondents,
	}
	for _, step := range req.Steps {
		goal.Steps = append(goal.Steps, models.GoalStep{
			Title:       step.Title,
			Description: step.Description,
		})
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create goal")
	}

	s.logger.Info("goal created",
		zap.String("goal_id", goal.ID),
		zap.String("employee_id", employeeID),
		zap.Int("steps", len(goal.Steps)),
		zap.Int("respondents", len(goal.Respondents)))
	return goal, nil
}

// Get returns a goal if the caller is its owner, the owner's manager or
// an assigned respondent.
func (s *GoalService) Get(ctx context.Context, goalID string, actor *models.JWTClaims) (*models.Goal, error) {
	goal, err := s.load(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, goal, actor); err != nil {
		return nil, err
	}
	return goal, nil
}

// List returns the caller's own goals, or a direct report's goals when
// requested by their manager.
func (s *GoalService) List(ctx context.Context, filter models.GoalFilter, actor *models.JWTClaims) ([]models.Goal, int, error) {
	if filter.EmployeeID == "" {
		filter.EmployeeID = actor.UserID
	}
	if filter.EmployeeID != actor.UserID {
		if err := s.requireManagerOf(ctx, filter.EmployeeID, actor); err != nil {
			return nil, 0, err
		}
	}
	goals, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list goals")
	}
	return goals, total, nil
}

// Update applies title/description edits and status transitions. Only
// the owner or the owner's manager may update, and a goal may only move
// from active to completed or cancelled.
func (s *GoalService) Update(ctx context.Context, goalID string, req models.UpdateGoalRequest, actor *models.JWTClaims) (*models.Goal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal update payload")
	}

	goal, err := s.load(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(ctx, goal, actor); err != nil {
		return nil, err
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	statusChanged := false
	if req.Status != nil && *req.Status != goal.Status {
		if !goal.Status.CanTransitionTo(*req.Status) {
			return nil, appErrors.Clone(appErrors.ErrStatusTransition,
				fmt.Sprintf("cannot move goal from %s to %s", goal.Status, *req.Status))
		}
		goal.Status = *req.Status
		statusChanged = true
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update goal")
	}

	if statusChanged && s.notifier != nil {
		s.notifier.GoalStatusChanged(ctx, goal, actor.UserID)
	}
	return goal, nil
}

// Respondents resolves the user profiles assigned as respondents of a
// goal. Visibility follows the same rules as Get.
func (s *GoalService) Respondents(ctx context.Context, goalID string, actor *models.JWTClaims) ([]models.User, error) {
	goal, err := s.load(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeView(ctx, goal, actor); err != nil {
		return nil, err
	}

	respondents := make([]models.User, 0, len(goal.Respondents))
	for _, id := range goal.Respondents {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn("respondent account missing", zap.String("goal_id", goal.ID), zap.String("user_id", id))
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load respondent")
		}
		user.PasswordHash = ""
		respondents = append(respondents, *user)
	}
	return respondents, nil
}

// SetStepDone toggles a goal step's completion flag.
func (s *GoalService) SetStepDone(ctx context.Context, goalID, stepID string, done bool, actor *models.JWTClaims) error {
	goal, err := s.load(ctx, goalID)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(ctx, goal, actor); err != nil {
		return err
	}
	if err := s.repo.SetStepDone(ctx, goalID, stepID, done); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "goal step not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update goal step")
	}
	return nil
}

func (s *GoalService) load(ctx context.Context, goalID string) (*models.Goal, error) {
	goal, err := s.repo.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "goal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load goal")
	}
	return goal, nil
}

func (s *GoalService) authorizeView(ctx context.Context, goal *models.Goal, actor *models.JWTClaims) error {
	if goal.EmployeeID == actor.UserID {
		return nil
	}
	if err := s.requireManagerOf(ctx, goal.EmployeeID, actor); err == nil {
		return nil
	}
	isRespondent, err := s.repo.IsRespondent(ctx, goal.ID, actor.UserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check respondent assignment")
	}
	if isRespondent {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "no access to this goal")
}

func (s *GoalService) authorizeManage(ctx context.Context, goal *models.Goal, actor *models.JWTClaims) error {
	if goal.EmployeeID == actor.UserID {
		return nil
	}
	return s.requireManagerOf(ctx, goal.EmployeeID, actor)
}

func (s *GoalService) requireManagerOf(ctx context.Context, employeeID string, actor *models.JWTClaims) error {
	if actor.Role != models.RoleManager {
		return appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}
	employee, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	if employee.ManagerID == nil || *employee.ManagerID != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "not the employee's manager")
	}
	return nil
}
