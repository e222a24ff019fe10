package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/internal/scoring"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
)

type analyticsReviewRepository interface {
	ListByGoal(ctx context.Context, goalID string) ([]models.Review, error)
	ListRespondentReviews(ctx context.Context, goalID string) ([]models.RespondentReview, error)
}

type analyticsGoalRepository interface {
	FindByID(ctx context.Context, id string) (*models.Goal, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Goal, error)
}

type analyticsQuestionRepository interface {
	List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionTemplate, error)
}

type analyticsUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListDirectReports(ctx context.Context, managerID string) ([]models.User, error)
}

// AnalyticsService blends per-goal review scores into overall ratings
// and rolls them up per employee and per team, with cache integration.
type AnalyticsService struct {
	reviews    analyticsReviewRepository
	goals      analyticsGoalRepository
	questions  analyticsQuestionRepository
	users      analyticsUserRepository
	calculator *scoring.Calculator
	weights    scoring.BlendWeights
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(
	reviews analyticsReviewRepository,
	goals analyticsGoalRepository,
	questions analyticsQuestionRepository,
	users analyticsUserRepository,
	calculator *scoring.Calculator,
	weights scoring.BlendWeights,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calculator == nil {
		calculator = scoring.NewCalculator(logger)
	}
	if weights == (scoring.BlendWeights{}) {
		weights = scoring.DefaultBlendWeights
	}
	return &AnalyticsService{
		reviews:    reviews,
		goals:      goals,
		questions:  questions,
		users:      users,
		calculator: calculator,
		weights:    weights,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
	}
}

// GoalAnalytics returns the blended analytics view of a single goal.
// The boolean indicates whether the payload came from cache.
func (s *AnalyticsService) GoalAnalytics(ctx context.Context, goalID string) (*models.GoalAnalytics, bool, error) {
	cacheKey := makeAnalyticsCacheKey("goal", goalID)
	var cached models.GoalAnalytics
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	result, err := s.computeGoalAnalytics(ctx, goalID)
	if err != nil {
		return nil, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("analytics_goal", time.Since(start))
	}
	if err := s.cache.Set(ctx, cacheKey, result, 0); err != nil {
		s.logger.Warn("cache goal analytics", zap.Error(err))
	}
	return result, false, nil
}

// EmployeeSummary aggregates the blended score of every goal owned by
// the employee. Goals with a zero total are excluded from the average.
func (s *AnalyticsService) EmployeeSummary(ctx context.Context, employeeID string) (*models.EmployeeSummary, bool, error) {
	cacheKey := makeAnalyticsCacheKey("employee", employeeID)
	var cached models.EmployeeSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	employee, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	goals, err := s.goals.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list goals")
	}

	summary := &models.EmployeeSummary{
		EmployeeID:  employeeID,
		FullName:    employee.FullName,
		GoalCount:   len(goals),
		GeneratedAt: time.Now().UTC(),
	}

	var sum float64
	for _, goal := range goals {
		if goal.Status == models.GoalStatusCompleted {
			summary.CompletedGoals++
		}
		ga, err := s.computeGoalAnalytics(ctx, goal.ID)
		if err != nil {
			return nil, false, err
		}
		summary.Goals = append(summary.Goals, *ga)
		if ga.FinalScore > 0 {
			sum += ga.FinalScore
			summary.ScoredGoals++
		}
	}
	if summary.ScoredGoals > 0 {
		summary.AverageScore = sum / float64(summary.ScoredGoals)
	}
	summary.Rating = scoring.Rating(summary.AverageScore)

	if err := s.cache.Set(ctx, cacheKey, summary, 0); err != nil {
		s.logger.Warn("cache employee summary", zap.Error(err))
	}
	return summary, false, nil
}

// TeamSummary aggregates employee summaries across a manager's direct
// reports.
func (s *AnalyticsService) TeamSummary(ctx context.Context, managerID string) (*models.TeamSummary, error) {
	reports, err := s.users.ListDirectReports(ctx, managerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list direct reports")
	}

	summary := &models.TeamSummary{
		ManagerID:   managerID,
		GeneratedAt: time.Now().UTC(),
	}
	for _, report := range reports {
		es, _, err := s.EmployeeSummary(ctx, report.ID)
		if err != nil {
			return nil, err
		}
		es.Goals = nil
		summary.Employees = append(summary.Employees, *es)
	}
	return summary, nil
}

// SystemMetrics returns the instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	if s.metrics == nil {
		return models.AnalyticsSystemMetrics{}
	}
	return s.metrics.Snapshot()
}

// InvalidateGoal drops cached analytics touched by a change to the
// given goal.
func (s *AnalyticsService) InvalidateGoal(ctx context.Context, goalID, employeeID string) {
	patterns := []string{
		makeAnalyticsCacheKey("goal", goalID),
		makeAnalyticsCacheKey("employee", employeeID),
	}
	for _, pattern := range patterns {
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			s.logger.Warn("invalidate analytics cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func (s *AnalyticsService) computeGoalAnalytics(ctx context.Context, goalID string) (*models.GoalAnalytics, error) {
	goal, err := s.goals.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "goal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load goal")
	}

	reviews, err := s.reviews.ListByGoal(ctx, goalID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	respondentReviews, err := s.reviews.ListRespondentReviews(ctx, goalID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list respondent reviews")
	}

	result := &models.GoalAnalytics{
		GoalID:          goal.ID,
		EmployeeID:      goal.EmployeeID,
		Period:          goal.Period,
		ReviewCount:     len(reviews),
		RespondentCount: len(respondentReviews),
		GeneratedAt:     time.Now().UTC(),
	}

	selfScores := collectScores(reviews, models.ReviewTypeSelf)
	managerScores := collectScores(reviews, models.ReviewTypeManager)
	potentialScores := collectScores(reviews, models.ReviewTypePotential)

	result.Components.Self = mean(selfScores)
	result.Components.Manager = mean(managerScores)
	result.Components.Potential = mean(potentialScores)

	if len(respondentReviews) > 0 {
		respondentCatalog, err := s.catalogFor(ctx, models.ReviewTypeRespondent)
		if err != nil {
			return nil, err
		}
		var scores []float64
		var allAnswers []models.Answer
		for _, rr := range respondentReviews {
			scores = append(scores, s.calculator.WeightedScore(respondentCatalog, rr.Answers.Answers))
			allAnswers = append(allAnswers, rr.Answers.Answers...)
		}
		result.Components.Respondent = mean(scores)
		result.Recommendations = s.calculator.Recommendations(respondentCatalog, allAnswers)
	}

	if latest := latestOfType(reviews, models.ReviewTypePotential); latest != nil {
		potentialCatalog, err := s.catalogFor(ctx, models.ReviewTypePotential)
		if err != nil {
			return nil, err
		}
		breakdown := s.calculator.PotentialScore(potentialCatalog, latest.Answers.Answers)
		result.Potential = &breakdown
	}

	result.FinalScore = scoring.Blend(result.Components, s.weights)
	result.Rating = scoring.Rating(result.FinalScore)
	return result, nil
}

func (s *AnalyticsService) catalogFor(ctx context.Context, reviewType models.ReviewType) (scoring.Catalog, error) {
	questions, err := s.questions.List(ctx, models.QuestionFilter{Type: reviewType})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question catalog")
	}
	return scoring.NewCatalog(questions), nil
}

func collectScores(reviews []models.Review, reviewType models.ReviewType) []float64 {
	var scores []float64
	for _, r := range reviews {
		if r.Type != reviewType || r.WeightedScore == nil {
			continue
		}
		scores = append(scores, *r.WeightedScore)
	}
	return scores
}

func latestOfType(reviews []models.Review, reviewType models.ReviewType) *models.Review {
	for i := len(reviews) - 1; i >= 0; i-- {
		if reviews[i].Type == reviewType {
			return &reviews[i]
		}
	}
	return nil
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

func makeAnalyticsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
