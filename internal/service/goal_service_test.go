package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/pkg/config"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
)

func goalLimits() config.GoalsConfig {
	return config.GoalsConfig{MaxPerEmployee: 5, MaxSteps: 3, MaxRespondents: 5}
}

func goalFixtures(t *testing.T) (*GoalService, *mockGoalRepo, *mockNotifier) {
	t.Helper()
	manager, employee := managedEmployee()
	peer := models.User{ID: "peer-1", Email: "peer@example.com", FullName: "Peer", Role: models.RoleEmployee, Active: true}
	users := newMockUserRepo(manager, employee, peer)
	goals := newMockGoalRepo()
	notifier := &mockNotifier{}
	svc := NewGoalService(goals, users, notifier, nil, nil, goalLimits())
	return svc, goals, notifier
}

func TestCreateGoal(t *testing.T) {
	svc, _, _ := goalFixtures(t)

	goal, err := svc.Create(context.Background(), "emp-1", models.CreateGoalRequest{
		Title:       "Выучить Go",
		Period:      "2026-H1",
		Steps:       []models.CreateGoalStepRequest{{Title: "Прочитать книгу"}},
		Respondents: []string{"peer-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusActive, goal.Status)
	assert.Len(t, goal.Steps, 1)
}

func TestCreateGoalEnforcesLimit(t *testing.T) {
	svc, _, _ := goalFixtures(t)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), "emp-1", models.CreateGoalRequest{
			Title:  fmt.Sprintf("Цель номер %d", i),
			Period: "2026-H1",
		})
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), "emp-1", models.CreateGoalRequest{
		Title:  "Шестая цель",
		Period: "2026-H1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGoalLimit.Code, appErrors.FromError(err).Code)
}

func TestCreateGoalRejectsTooManySteps(t *testing.T) {
	svc, _, _ := goalFixtures(t)

	steps := make([]models.CreateGoalStepRequest, 4)
	for i := range steps {
		steps[i] = models.CreateGoalStepRequest{Title: fmt.Sprintf("Шаг номер %d", i)}
	}
	_, err := svc.Create(context.Background(), "emp-1", models.CreateGoalRequest{
		Title:  "Слишком много шагов",
		Period: "2026-H1",
		Steps:  steps,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateGoalRejectsSelfRespondent(t *testing.T) {
	svc, _, _ := goalFixtures(t)

	_, err := svc.Create(context.Background(), "emp-1", models.CreateGoalRequest{
		Title:       "Сам себе респондент",
		Period:      "2026-H1",
		Respondents: []string{"emp-1"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateGoalStatusTransitions(t *testing.T) {
	svc, _, notifier := goalFixtures(t)
	actor := claims("emp-1", models.RoleEmployee)

	goal, err := svc.Create(context.Background(), "emp-1", models.CreateGoalRequest{
		Title:  "Переходы статусов",
		Period: "2026-H1",
	})
	require.NoError(t, err)

	completed := models.GoalStatusCompleted
	updated, err := svc.Update(context.Background(), goal.ID, models.UpdateGoalRequest{Status: &completed}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusCompleted, updated.Status)
	assert.Equal(t, 1, notifier.statusChanged)

	// Terminal states accept no further transitions.
	cancelled := models.GoalStatusCancelled
	_, err = svc.Update(context.Background(), goal.ID, models.UpdateGoalRequest{Status: &cancelled}, actor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStatusTransition.Code, appErrors.FromError(err).Code)
}

func TestGoalRespondentsResolvesProfiles(t *testing.T) {
	svc, _, _ := goalFixtures(t)

	goal, err := svc.Create(context.Background(), "emp-1", models.CreateGoalRequest{
		Title:       "Список респондентов",
		Period:      "2026-H1",
		Respondents: []string{"peer-1"},
	})
	require.NoError(t, err)

	respondents, err := svc.Respondents(context.Background(), goal.ID, claims("emp-1", models.RoleEmployee))
	require.NoError(t, err)
	require.Len(t, respondents, 1)
	assert.Equal(t, "peer-1", respondents[0].ID)
	assert.Empty(t, respondents[0].PasswordHash)

	_, err = svc.Respondents(context.Background(), goal.ID, claims("stranger", models.RoleEmployee))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGetGoalAuthorization(t *testing.T) {
	svc, _, _ := goalFixtures(t)

	goal, err := svc.Create(context.Background(), "emp-1", models.CreateGoalRequest{
		Title:       "Доступ к цели",
		Period:      "2026-H1",
		Respondents: []string{"peer-1"},
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), goal.ID, claims("emp-1", models.RoleEmployee))
	assert.NoError(t, err, "owner can view")

	_, err = svc.Get(context.Background(), goal.ID, claims("mgr-1", models.RoleManager))
	assert.NoError(t, err, "manager can view")

	_, err = svc.Get(context.Background(), goal.ID, claims("peer-1", models.RoleEmployee))
	assert.NoError(t, err, "assigned respondent can view")

	_, err = svc.Get(context.Background(), goal.ID, claims("stranger", models.RoleEmployee))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
