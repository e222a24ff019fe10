package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/evolvehq/perf-review-api/internal/models"
)

// ReviewRepository provides database access for reviews and peer
// respondent reviews of a goal.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, goal_id, reviewer_id, review_type, answers, weighted_score, potential_score, finalized, final_rating, feedback, created_at, updated_at`

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	const query = `INSERT INTO reviews (id, goal_id, reviewer_id, review_type, answers, weighted_score, potential_score, finalized, final_rating, feedback, created_at, updated_at) VALUES (:id, :goal_id, :reviewer_id, :review_type, :answers, :weighted_score, :potential_score, :finalized, :final_rating, :feedback, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// FindByID returns a review by identifier.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1 LIMIT 1`
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find review by id: %w", err)
	}
	return &review, nil
}

// Find returns the review keyed by (goal, reviewer, type), or
// sql.ErrNoRows when none exists yet.
func (r *ReviewRepository) Find(ctx context.Context, goalID, reviewerID string, reviewType models.ReviewType) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE goal_id = $1 AND reviewer_id = $2 AND review_type = $3 LIMIT 1`
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, goalID, reviewerID, reviewType); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &review, nil
}

// ListByGoal returns every review submitted for a goal.
func (r *ReviewRepository) ListByGoal(ctx context.Context, goalID string) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE goal_id = $1 ORDER BY created_at ASC`
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, goalID); err != nil {
		return nil, fmt.Errorf("list reviews by goal: %w", err)
	}
	return reviews, nil
}

// UpdateScores rewrites the stored answers and computed scores of a
// review, used when pending manager-scored answers arrive.
func (r *ReviewRepository) UpdateScores(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reviews SET answers = :answers, weighted_score = :weighted_score, potential_score = :potential_score, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("update review scores: %w", err)
	}
	return nil
}

// Finalize marks a review as finalized with its rating and feedback.
func (r *ReviewRepository) Finalize(ctx context.Context, id string, rating models.Rating, feedback string) error {
	const query = `UPDATE reviews SET finalized = TRUE, final_rating = $2, feedback = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, rating, feedback, time.Now().UTC()); err != nil {
		return fmt.Errorf("finalize review: %w", err)
	}
	return nil
}

const respondentColumns = `id, goal_id, respondent_id, answers, weighted_score, comments, created_at`

// CreateRespondentReview inserts a new peer review.
func (r *ReviewRepository) CreateRespondentReview(ctx context.Context, review *models.RespondentReview) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO respondent_reviews (id, goal_id, respondent_id, answers, weighted_score, comments, created_at) VALUES (:id, :goal_id, :respondent_id, :answers, :weighted_score, :comments, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create respondent review: %w", err)
	}
	return nil
}

// FindRespondentReview returns the peer review keyed by
// (goal, respondent), or sql.ErrNoRows when none exists.
func (r *ReviewRepository) FindRespondentReview(ctx context.Context, goalID, respondentID string) (*models.RespondentReview, error) {
	query := `SELECT ` + respondentColumns + ` FROM respondent_reviews WHERE goal_id = $1 AND respondent_id = $2 LIMIT 1`
	var review models.RespondentReview
	if err := r.db.GetContext(ctx, &review, query, goalID, respondentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find respondent review: %w", err)
	}
	return &review, nil
}

// ListRespondentReviews returns every peer review for a goal.
func (r *ReviewRepository) ListRespondentReviews(ctx context.Context, goalID string) ([]models.RespondentReview, error) {
	query := `SELECT ` + respondentColumns + ` FROM respondent_reviews WHERE goal_id = $1 ORDER BY created_at ASC`
	var reviews []models.RespondentReview
	if err := r.db.SelectContext(ctx, &reviews, query, goalID); err != nil {
		return nil, fmt.Errorf("list respondent reviews: %w", err)
	}
	return reviews, nil
}
