package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvehq/perf-review-api/internal/models"
)

func TestCreateGoalWithStepsAndRespondents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO goals").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO goal_steps").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO goal_steps").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO goal_respondents").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	goal := &models.Goal{
		EmployeeID: "emp-1",
		Title:      "Improve onboarding docs",
		Period:     "2026-H1",
		Steps: []models.GoalStep{
			{Title: "Audit current docs"},
			{Title: "Rewrite quickstart"},
		},
		Respondents: []string{"peer-1"},
	}
	err := repo.Create(context.Background(), goal)
	require.NoError(t, err)
	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, models.GoalStatusActive, goal.Status)
	assert.Equal(t, goal.ID, goal.Steps[0].GoalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindGoalByIDLoadsStepsAndRespondents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	now := time.Now()
	goalRows := sqlmock.NewRows([]string{"id", "employee_id", "title", "description", "period", "status", "created_at", "updated_at"}).
		AddRow("g1", "emp-1", "Title", "", "2026-H1", string(models.GoalStatusActive), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, employee_id, title, description, period, status, created_at, updated_at FROM goals WHERE id = $1 LIMIT 1")).
		WithArgs("g1").
		WillReturnRows(goalRows)

	stepRows := sqlmock.NewRows([]string{"id", "goal_id", "title", "description", "order_index", "done", "created_at"}).
		AddRow("s1", "g1", "Step", "", 0, false, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, goal_id, title, description, order_index, done, created_at FROM goal_steps WHERE goal_id = $1 ORDER BY order_index ASC")).
		WithArgs("g1").
		WillReturnRows(stepRows)

	respondentRows := sqlmock.NewRows([]string{"respondent_id"}).AddRow("peer-1").AddRow("peer-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT respondent_id FROM goal_respondents WHERE goal_id = $1 ORDER BY created_at ASC")).
		WithArgs("g1").
		WillReturnRows(respondentRows)

	goal, err := repo.FindByID(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, goal.Steps, 1)
	assert.Equal(t, []string{"peer-1", "peer-2"}, goal.Respondents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByEmployee(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM goals WHERE employee_id = $1")).
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.CountByEmployee(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsRespondent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM goal_respondents WHERE goal_id = $1 AND respondent_id = $2")).
		WithArgs("g1", "peer-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.IsRespondent(context.Background(), "g1", "peer-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
