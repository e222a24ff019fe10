package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/internal/scoring"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id string) (*models.Review, error)
	Find(ctx context.Context, goalID, reviewerID string, reviewType models.ReviewType) (*models.Review, error)
	ListByGoal(ctx context.Context, goalID string) ([]models.Review, error)
	UpdateScores(ctx context.Context, review *models.Review) error
	Finalize(ctx context.Context, id string, rating models.Rating, feedback string) error
	CreateRespondentReview(ctx context.Context, review *models.RespondentReview) error
	FindRespondentReview(ctx context.Context, goalID, respondentID string) (*models.RespondentReview, error)
	ListRespondentReviews(ctx context.Context, goalID string) ([]models.RespondentReview, error)
}

type reviewQuestionRepository interface {
	List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionTemplate, error)
}

type reviewGoalRepository interface {
	FindByID(ctx context.Context, id string) (*models.Goal, error)
	IsRespondent(ctx context.Context, goalID, userID string) (bool, error)
}

type reviewUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type reviewNotifier interface {
	ReviewSubmitted(ctx context.Context, goal *models.Goal, review *models.Review)
	RespondentSubmitted(ctx context.Context, goal *models.Goal, review *models.RespondentReview)
	ScoringRequired(ctx context.Context, goal *models.Goal, review *models.Review, pending []string)
	ReviewFinalized(ctx context.Context, goal *models.Goal, review *models.Review)
}

type analyticsInvalidator interface {
	InvalidateGoal(ctx context.Context, goalID, employeeID string)
}

// ReviewService implements review submission and scoring use cases.
type ReviewService struct {
	reviews    reviewRepository
	questions  reviewQuestionRepository
	goals      reviewGoalRepository
	users      reviewUserRepository
	notifier   reviewNotifier
	calculator *scoring.Calculator
	cache      analyticsInvalidator
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewReviewService constructs a ReviewService instance.
func NewReviewService(
	reviews reviewRepository,
	questions reviewQuestionRepository,
	goals reviewGoalRepository,
	users reviewUserRepository,
	notifier reviewNotifier,
	calculator *scoring.Calculator,
	cache analyticsInvalidator,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if calculator == nil {
		calculator = scoring.NewCalculator(logger)
	}
	return &ReviewService{
		reviews:    reviews,
		questions:  questions,
		goals:      goals,
		users:      users,
		notifier:   notifier,
		calculator: calculator,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

// Submit stores a self, manager or potential review of a goal and
// computes its scores. At most one review may exist per
// (goal, reviewer, type).
func (s *ReviewService) Submit(ctx context.Context, actor *models.JWTClaims, req models.SubmitReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	goal, err := s.loadGoal(ctx, req.GoalID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeSubmit(ctx, goal, actor, req.Type); err != nil {
		return nil, err
	}

	if _, err := s.reviews.Find(ctx, goal.ID, actor.UserID, req.Type); err == nil {
		return nil, appErrors.Clone(appErrors.ErrReviewExists, "review already submitted for this goal")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing review")
	}

	answers := models.NewAnswerSet(req.Answers)
	if len(answers.ByQuestion()) != len(answers.Answers) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate answers for the same question")
	}

	cat, err := s.catalogFor(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		GoalID:     goal.ID,
		ReviewerID: actor.UserID,
		Type:       req.Type,
		Answers:    answers,
	}

	weighted := s.calculator.WeightedScore(cat, req.Answers)
	review.WeightedScore = &weighted
	if req.Type == models.ReviewTypePotential {
		breakdown := s.calculator.PotentialScore(cat, req.Answers)
		review.PotentialScore = &breakdown.Total
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store review")
	}

	s.logger.Info("review submitted",
		zap.String("goal_id", goal.ID),
		zap.String("reviewer_id", actor.UserID),
		zap.String("review_type", string(req.Type)),
		zap.Float64("weighted_score", weighted))
	s.metrics.CountReview(req.Type)

	if s.notifier != nil {
		s.notifier.ReviewSubmitted(ctx, goal, review)
		if pending := s.calculator.PendingManagerQuestions(cat, req.Answers); len(pending) > 0 {
			s.notifier.ScoringRequired(ctx, goal, review, pending)
		}
	}
	if s.cache != nil {
		s.cache.InvalidateGoal(ctx, goal.ID, goal.EmployeeID)
	}
	return review, nil
}

// ScoreAnswers lets the employee's manager supply numeric scores for
// answers whose questions require manager scoring, then recomputes the
// stored scores.
func (s *ReviewService) ScoreAnswers(ctx context.Context, reviewID string, req models.ScoreAnswersRequest, actor *models.JWTClaims) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scoring payload")
	}

	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	goal, err := s.loadGoal(ctx, review.GoalID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManagerOf(ctx, goal.EmployeeID, actor); err != nil {
		return nil, err
	}

	cat, err := s.catalogFor(ctx, review.Type)
	if err != nil {
		return nil, err
	}

	scored := 0
	for i := range review.Answers.Answers {
		a := &review.Answers.Answers[i]
		value, ok := req.Scores[a.QuestionID]
		if !ok {
			continue
		}
		if value < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "scores must be non-negative")
		}
		q, ok := cat.Lookup(a.QuestionID)
		if !ok || !q.RequiresManagerScoring {
			return nil, appErrors.Clone(appErrors.ErrValidation, "question does not accept manager scoring")
		}
		v := value
		a.Score = &v
		scored++
	}
	if scored == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no matching answers to score")
	}

	weighted := s.calculator.WeightedScore(cat, review.Answers.Answers)
	review.WeightedScore = &weighted
	if review.Type == models.ReviewTypePotential {
		breakdown := s.calculator.PotentialScore(cat, review.Answers.Answers)
		review.PotentialScore = &breakdown.Total
	}

	if err := s.reviews.UpdateScores(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store scores")
	}

	s.logger.Info("manager scores applied",
		zap.String("review_id", review.ID),
		zap.Int("scored", scored),
		zap.Float64("weighted_score", weighted))

	if s.cache != nil {
		s.cache.InvalidateGoal(ctx, goal.ID, goal.EmployeeID)
	}
	return review, nil
}

// Finalize marks a review as finalized, deriving its letter rating from
// the stored score and recording the manager's closing feedback. Only
// the employee's manager may finalize, and only once.
func (s *ReviewService) Finalize(ctx context.Context, reviewID string, req models.FinalizeReviewRequest, actor *models.JWTClaims) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid finalize payload")
	}
	review, err := s.loadReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Finalized {
		return nil, appErrors.Clone(appErrors.ErrConflict, "review is already finalized")
	}
	goal, err := s.loadGoal(ctx, review.GoalID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManagerOf(ctx, goal.EmployeeID, actor); err != nil {
		return nil, err
	}

	rating := scoring.Rating(finalScoreOf(review))
	if err := s.reviews.Finalize(ctx, review.ID, rating, req.Feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize review")
	}
	review.Finalized = true
	review.FinalRating = &rating
	review.Feedback = req.Feedback
	if s.notifier != nil {
		s.notifier.ReviewFinalized(ctx, goal, review)
	}
	return review, nil
}

// finalScoreOf picks the 0-5 score a finalized rating is derived from.
// Potential reviews also carry a 0-10 potential total, but the rating
// bands apply to the weighted performance score.
func finalScoreOf(review *models.Review) float64 {
	if review.WeightedScore != nil {
		return *review.WeightedScore
	}
	return 0
}

// SubmitRespondent stores a peer review of a goal. Recommendations
// generated from the answered questions are appended to the comments.
// At most one respondent review may exist per (goal, respondent).
func (s *ReviewService) SubmitRespondent(ctx context.Context, actor *models.JWTClaims, req models.SubmitRespondentReviewRequest) (*models.RespondentReview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid respondent review payload")
	}

	goal, err := s.loadGoal(ctx, req.GoalID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.goals.IsRespondent(ctx, goal.ID, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check respondent assignment")
	}
	if !assigned {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not assigned as a respondent of this goal")
	}

	if _, err := s.reviews.FindRespondentReview(ctx, goal.ID, actor.UserID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrReviewExists, "respondent review already submitted")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing respondent review")
	}

	answers := models.NewAnswerSet(req.Answers)
	if len(answers.ByQuestion()) != len(answers.Answers) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate answers for the same question")
	}

	cat, err := s.catalogFor(ctx, models.ReviewTypeRespondent)
	if err != nil {
		return nil, err
	}

	weighted := s.calculator.WeightedScore(cat, req.Answers)
	recommendations := s.calculator.Recommendations(cat, req.Answers)

	review := &models.RespondentReview{
		GoalID:        goal.ID,
		RespondentID:  actor.UserID,
		Answers:       answers,
		WeightedScore: &weighted,
		Comments:      appendRecommendations(req.Comments, recommendations),
	}
	if err := s.reviews.CreateRespondentReview(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store respondent review")
	}

	s.logger.Info("respondent review submitted",
		zap.String("goal_id", goal.ID),
		zap.String("respondent_id", actor.UserID),
		zap.Float64("weighted_score", weighted))
	s.metrics.CountReview(models.ReviewTypeRespondent)

	if s.notifier != nil {
		s.notifier.RespondentSubmitted(ctx, goal, review)
	}
	if s.cache != nil {
		s.cache.InvalidateGoal(ctx, goal.ID, goal.EmployeeID)
	}
	return review, nil
}

// ListByGoal returns a goal's reviews and respondent reviews for its
// owner or the owner's manager.
func (s *ReviewService) ListByGoal(ctx context.Context, goalID string, actor *models.JWTClaims) ([]models.Review, []models.RespondentReview, error) {
	goal, err := s.loadGoal(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}
	if goal.EmployeeID != actor.UserID {
		if err := s.requireManagerOf(ctx, goal.EmployeeID, actor); err != nil {
			return nil, nil, err
		}
	}

	reviews, err := s.reviews.ListByGoal(ctx, goalID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	respondentReviews, err := s.reviews.ListRespondentReviews(ctx, goalID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list respondent reviews")
	}
	return reviews, respondentReviews, nil
}

func (s *ReviewService) catalogFor(ctx context.Context, reviewType models.ReviewType) (scoring.Catalog, error) {
	questions, err := s.questions.List(ctx, models.QuestionFilter{Type: reviewType})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question catalog")
	}
	return scoring.NewCatalog(questions), nil
}

func (s *ReviewService) authorizeSubmit(ctx context.Context, goal *models.Goal, actor *models.JWTClaims, reviewType models.ReviewType) error {
	switch reviewType {
	case models.ReviewTypeSelf:
		if goal.EmployeeID != actor.UserID {
			return appErrors.Clone(appErrors.ErrForbidden, "only the goal owner may self-review")
		}
		return nil
	case models.ReviewTypeManager, models.ReviewTypePotential:
		return s.requireManagerOf(ctx, goal.EmployeeID, actor)
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unsupported review type")
	}
}

func (s *ReviewService) requireManagerOf(ctx context.Context, employeeID string, actor *models.JWTClaims) error {
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

func (s *ReviewService) loadGoal(ctx context.Context, goalID string) (*models.Goal, error) {
	goal, err := s.goals.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "goal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load goal")
	}
	return goal, nil
}

func (s *ReviewService) loadReview(ctx context.Context, reviewID string) (*models.Review, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	return review, nil
}

func appendRecommendations(comments string, recommendations []string) string {
	if len(recommendations) == 0 {
		return comments
	}
	var b strings.Builder
	b.WriteString(strings.TrimSpace(comments))
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	b.WriteString("Рекомендации:")
	for _, r := range recommendations {
		b.WriteString("\n- ")
		b.WriteString(r)
	}
	return b.String()
}
