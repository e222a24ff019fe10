package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/evolvehq/perf-review-api/internal/models"
)

// GoalRepository provides database access for goals, their steps and
// assigned respondents.
type GoalRepository struct {
	db *sqlx.DB
}

// NewGoalRepository creates a new instance of GoalRepository.
func NewGoalRepository(db *sqlx.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, employee_id, title, description, period, status, created_at, updated_at`

// Create inserts a goal together with its steps and respondent
// assignments in one transaction.
func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	if goal.Status == "" {
		goal.Status = models.GoalStatusActive
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin goal tx: %w", err)
	}
	defer tx.Rollback()

	const goalQuery = `INSERT INTO goals (id, employee_id, title, description, period, status, created_at, updated_at) VALUES (:id, :employee_id, :title, :description, :period, :status, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, goalQuery, goal); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	const stepQuery = `INSERT INTO goal_steps (id, goal_id, title, description, order_index, done, created_at) VALUES (:id, :goal_id, :title, :description, :order_index, :done, :created_at)`
	for i := range goal.Steps {
		step := &goal.Steps[i]
		if step.ID == "" {
			step.ID = uuid.NewString()
		}
		step.GoalID = goal.ID
		step.OrderIndex = i
		step.CreatedAt = now
		if _, err := tx.NamedExecContext(ctx, stepQuery, step); err != nil {
			return fmt.Errorf("create goal step: %w", err)
		}
	}

	const respondentQuery = `INSERT INTO goal_respondents (goal_id, respondent_id, created_at) VALUES ($1, $2, $3)`
	for _, respondentID := range goal.Respondents {
		if _, err := tx.ExecContext(ctx, respondentQuery, goal.ID, respondentID, now); err != nil {
			return fmt.Errorf("assign goal respondent: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit goal tx: %w", err)
	}
	return nil
}

// FindByID returns a goal with its steps and respondent ids loaded.
func (r *GoalRepository) FindByID(ctx context.Context, id string) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 LIMIT 1`
	var goal models.Goal
	if err := r.db.GetContext(ctx, &goal, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find goal by id: %w", err)
	}

	const stepsQuery = `SELECT id, goal_id, title, description, order_index, done, created_at FROM goal_steps WHERE goal_id = $1 ORDER BY order_index ASC`
	if err := r.db.SelectContext(ctx, &goal.Steps, stepsQuery, id); err != nil {
		return nil, fmt.Errorf("load goal steps: %w", err)
	}

	const respondentsQuery = `SELECT respondent_id FROM goal_respondents WHERE goal_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &goal.Respondents, respondentsQuery, id); err != nil {
		return nil, fmt.Errorf("load goal respondents: %w", err)
	}
	return &goal, nil
}

// List returns goals matching the filter with total count.
func (r *GoalRepository) List(ctx context.Context, filter models.GoalFilter) ([]models.Goal, int, error) {
	baseQuery := `FROM goals WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.Period != "" {
		conditions = append(conditions, fmt.Sprintf("period = $%d", len(args)+1))
		args = append(args, filter.Period)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", goalColumns, baseQuery, perPage, offset)

	var goals []models.Goal
	if err := r.db.SelectContext(ctx, &goals, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list goals: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count goals: %w", err)
	}
	return goals, total, nil
}

// ListByEmployee returns every goal owned by the employee, newest first.
func (r *GoalRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE employee_id = $1 ORDER BY created_at DESC`
	var goals []models.Goal
	if err := r.db.SelectContext(ctx, &goals, query, employeeID); err != nil {
		return nil, fmt.Errorf("list goals by employee: %w", err)
	}
	return goals, nil
}

// CountByEmployee returns the number of goals owned by the employee.
func (r *GoalRepository) CountByEmployee(ctx context.Context, employeeID string) (int, error) {
	const query = `SELECT COUNT(*) FROM goals WHERE employee_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, employeeID); err != nil {
		return 0, fmt.Errorf("count goals by employee: %w", err)
	}
	return total, nil
}

// Update updates mutable fields of a goal.
func (r *GoalRepository) Update(ctx context.Context, goal *models.Goal) error {
	goal.UpdatedAt = time.Now().UTC()
	const query = `UPDATE goals SET title = :title, description = :description, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, goal); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// SetStepDone toggles a step's completion flag.
func (r *GoalRepository) SetStepDone(ctx context.Context, goalID, stepID string, done bool) error {
	const query = `UPDATE goal_steps SET done = $3 WHERE id = $2 AND goal_id = $1`
	res, err := r.db.ExecContext(ctx, query, goalID, stepID, done)
	if err != nil {
		return fmt.Errorf("update goal step: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsRespondent reports whether the user is assigned as a respondent of
// the goal.
func (r *GoalRepository) IsRespondent(ctx context.Context, goalID, userID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM goal_respondents WHERE goal_id = $1 AND respondent_id = $2`
	var n int
	if err := r.db.GetContext(ctx, &n, query, goalID, userID); err != nil {
		return false, fmt.Errorf("check goal respondent: %w", err)
	}
	return n > 0, nil
}
