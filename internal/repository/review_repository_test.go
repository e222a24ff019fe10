package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvehq/perf-review-api/internal/models"
)

func TestCreateReview(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO reviews").WillReturnResult(sqlmock.NewResult(1, 1))

	score := 4.2
	review := &models.Review{
		GoalID:     "g1",
		ReviewerID: "emp-1",
		Type:       models.ReviewTypeSelf,
		Answers: models.NewAnswerSet([]models.Answer{
			{QuestionID: "q1", Score: &score},
		}),
		WeightedScore: &score,
	}
	err := repo.Create(context.Background(), review)
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindReviewNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery("SELECT .+ FROM reviews WHERE goal_id").
		WithArgs("g1", "emp-1", string(models.ReviewTypeSelf)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "g1", "emp-1", models.ReviewTypeSelf)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByGoalDecodesAnswers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	now := time.Now()
	answers := []byte(`{"version":1,"answers":[{"question_id":"q1","score":4}]}`)
	rows := sqlmock.NewRows([]string{"id", "goal_id", "reviewer_id", "review_type", "answers", "weighted_score", "potential_score", "finalized", "final_rating", "feedback", "created_at", "updated_at"}).
		AddRow("r1", "g1", "emp-1", string(models.ReviewTypeSelf), answers, 4.0, nil, false, nil, "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, goal_id, reviewer_id, review_type, answers, weighted_score, potential_score, finalized, final_rating, feedback, created_at, updated_at FROM reviews WHERE goal_id = $1 ORDER BY created_at ASC")).
		WithArgs("g1").
		WillReturnRows(rows)

	reviews, err := repo.ListByGoal(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Len(t, reviews[0].Answers.Answers, 1)
	assert.Equal(t, "q1", reviews[0].Answers.Answers[0].QuestionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByGoalAcceptsLegacyAnswerArrays(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	now := time.Now()
	legacy := []byte(`[{"question_id":"q1","score":3}]`)
	rows := sqlmock.NewRows([]string{"id", "goal_id", "reviewer_id", "review_type", "answers", "weighted_score", "potential_score", "finalized", "final_rating", "feedback", "created_at", "updated_at"}).
		AddRow("r1", "g1", "emp-1", string(models.ReviewTypeSelf), legacy, 3.0, nil, false, nil, "", now, now)
	mock.ExpectQuery("SELECT .+ FROM reviews WHERE goal_id").
		WithArgs("g1").
		WillReturnRows(rows)

	reviews, err := repo.ListByGoal(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 1, reviews[0].Answers.Version)
	require.Len(t, reviews[0].Answers.Answers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRespondentReview(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO respondent_reviews").WillReturnResult(sqlmock.NewResult(1, 1))

	review := &models.RespondentReview{
		GoalID:       "g1",
		RespondentID: "peer-1",
		Answers:      models.NewAnswerSet(nil),
		Comments:     "комментарий",
	}
	err := repo.CreateRespondentReview(context.Background(), review)
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeReview(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET finalized = TRUE, final_rating = $2, feedback = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("r1", string(models.RatingB), "хорошая работа", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Finalize(context.Background(), "r1", models.RatingB, "хорошая работа"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
