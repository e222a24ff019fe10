package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/internal/scoring"
)

func analyticsFixtures(t *testing.T) (*AnalyticsService, *mockReviewRepo, *mockGoalRepo) {
	t.Helper()
	manager, employee := managedEmployee()
	users := newMockUserRepo(manager, employee)
	goals := newMockGoalRepo(models.Goal{
		ID:         "g1",
		EmployeeID: employee.ID,
		Title:      "Цель",
		Period:     "2026-H1",
		Status:     models.GoalStatusActive,
	})
	questions := &mockQuestionRepo{questions: []models.QuestionTemplate{
		{ID: "resp-1", Type: models.ReviewTypeRespondent, Weight: 1.0, MaxScore: 5, TriggerWords: models.StringList{"развитие"}, Active: true},
		{ID: "pot-1", Type: models.ReviewTypePotential, Section: models.SectionProfessional, Weight: 1.0, MaxScore: 5, Active: true},
	}}
	reviews := newMockReviewRepo()
	svc := NewAnalyticsService(reviews, goals, questions, users, nil, scoring.DefaultBlendWeights, nil, nil, nil)
	return svc, reviews, goals
}

func TestGoalAnalyticsSingleManagerComponent(t *testing.T) {
	svc, reviews, _ := analyticsFixtures(t)

	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID:        "g1",
		ReviewerID:    "mgr-1",
		Type:          models.ReviewTypeManager,
		WeightedScore: fp(4.0),
	}))

	got, cached, err := svc.GoalAnalytics(context.Background(), "g1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.InDelta(t, 4.0, got.FinalScore, 1e-9)
	assert.Equal(t, models.RatingB, got.Rating)
	assert.Nil(t, got.Components.Self)
	require.NotNil(t, got.Components.Manager)
}

func TestGoalAnalyticsBlendsAllComponents(t *testing.T) {
	svc, reviews, _ := analyticsFixtures(t)

	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID: "g1", ReviewerID: "emp-1", Type: models.ReviewTypeSelf, WeightedScore: fp(5.0),
	}))
	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID: "g1", ReviewerID: "mgr-1", Type: models.ReviewTypeManager, WeightedScore: fp(4.0),
	}))
	require.NoError(t, reviews.CreateRespondentReview(context.Background(), &models.RespondentReview{
		GoalID:       "g1",
		RespondentID: "peer-1",
		Answers:      models.NewAnswerSet([]models.Answer{{QuestionID: "resp-1", Score: fp(3)}}),
	}))

	got, _, err := svc.GoalAnalytics(context.Background(), "g1")
	require.NoError(t, err)

	want := (5.0*1.0 + 4.0*1.8 + 3.0*0.7) / (1.0 + 1.8 + 0.7)
	assert.InDelta(t, want, got.FinalScore, 1e-9)
	require.NotNil(t, got.Components.Respondent)
	assert.InDelta(t, 3.0, *got.Components.Respondent, 1e-9)
	assert.NotEmpty(t, got.Recommendations)
}

func TestGoalAnalyticsCountsReviews(t *testing.T) {
	svc, reviews, _ := analyticsFixtures(t)

	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID: "g1", ReviewerID: "mgr-1", Type: models.ReviewTypeManager, WeightedScore: fp(4.0),
	}))
	require.NoError(t, reviews.CreateRespondentReview(context.Background(), &models.RespondentReview{
		GoalID:       "g1",
		RespondentID: "peer-1",
		Answers:      models.NewAnswerSet([]models.Answer{{QuestionID: "resp-1", Score: fp(3)}}),
	}))

	got, _, err := svc.GoalAnalytics(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReviewCount)
	assert.Equal(t, 1, got.RespondentCount)
}

func TestGoalAnalyticsZeroComponentExcluded(t *testing.T) {
	svc, reviews, _ := analyticsFixtures(t)

	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID: "g1", ReviewerID: "emp-1", Type: models.ReviewTypeSelf, WeightedScore: fp(0.0),
	}))
	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID: "g1", ReviewerID: "mgr-1", Type: models.ReviewTypeManager, WeightedScore: fp(4.0),
	}))

	got, _, err := svc.GoalAnalytics(context.Background(), "g1")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.FinalScore, 1e-9)
}

func TestGoalAnalyticsIncludesPotentialBreakdown(t *testing.T) {
	svc, reviews, _ := analyticsFixtures(t)

	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID:        "g1",
		ReviewerID:    "mgr-1",
		Type:          models.ReviewTypePotential,
		Answers:       models.NewAnswerSet([]models.Answer{{QuestionID: "pot-1", Score: fp(4)}}),
		WeightedScore: fp(4.0),
	}))

	got, _, err := svc.GoalAnalytics(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, got.Potential)
	assert.InDelta(t, 8.0, got.Potential.Professional, 1e-9)
}

func TestEmployeeSummaryExcludesZeroScoreGoals(t *testing.T) {
	svc, reviews, goals := analyticsFixtures(t)

	require.NoError(t, goals.Create(context.Background(), &models.Goal{
		ID: "g2", EmployeeID: "emp-1", Title: "Вторая цель", Period: "2026-H1", Status: models.GoalStatusActive,
	}))
	// Only g1 carries any review; g2 stays unscored.
	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID: "g1", ReviewerID: "mgr-1", Type: models.ReviewTypeManager, WeightedScore: fp(4.6),
	}))

	summary, _, err := svc.EmployeeSummary(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.GoalCount)
	assert.Equal(t, 1, summary.ScoredGoals)
	assert.InDelta(t, 4.6, summary.AverageScore, 1e-9)
	assert.Equal(t, models.RatingA, summary.Rating)
}

func TestEmployeeSummaryCountsCompletedGoals(t *testing.T) {
	svc, _, goals := analyticsFixtures(t)

	require.NoError(t, goals.Create(context.Background(), &models.Goal{
		ID: "g2", EmployeeID: "emp-1", Title: "Завершённая цель", Period: "2026-H1", Status: models.GoalStatusCompleted,
	}))

	summary, _, err := svc.EmployeeSummary(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.GoalCount)
	assert.Equal(t, 1, summary.CompletedGoals)
}

func TestTeamSummary(t *testing.T) {
	svc, reviews, _ := analyticsFixtures(t)

	require.NoError(t, reviews.Create(context.Background(), &models.Review{
		GoalID: "g1", ReviewerID: "mgr-1", Type: models.ReviewTypeManager, WeightedScore: fp(3.5),
	}))

	summary, err := svc.TeamSummary(context.Background(), "mgr-1")
	require.NoError(t, err)
	require.Len(t, summary.Employees, 1)
	assert.Equal(t, "emp-1", summary.Employees[0].EmployeeID)
	assert.Equal(t, models.RatingC, summary.Employees[0].Rating)
}
