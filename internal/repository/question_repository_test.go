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

func questionRows(now time.Time) *sqlmock.Rows {
	triggers := []byte(`["проблемы","трудности"]`)
	options := []byte(`[{"id":"opt-1","label":"Готов","value":4,"order_index":0}]`)
	return sqlmock.NewRows([]string{"id", "question_text", "question_type", "section", "weight", "max_score", "order_index", "trigger_words", "options", "requires_manager_scoring", "active", "created_at", "updated_at"}).
		AddRow("q1", "Оцените результат", string(models.ReviewTypeSelf), "", 1.5, 10, 0, triggers, options, false, true, now, now)
}

func TestFindQuestionByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	mock.ExpectQuery("SELECT .+ FROM questions WHERE id").
		WithArgs("q1").
		WillReturnRows(questionRows(time.Now()))

	q, err := repo.FindByID(context.Background(), "q1")
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"проблемы", "трудности"}, q.TriggerWords)
	require.Len(t, q.Options, 1)
	assert.Equal(t, 4.0, q.Options[0].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQuestionsExcludesRetired(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM questions WHERE 1=1 AND active = TRUE AND question_type = $1 ORDER BY question_type ASC, order_index ASC")).
		WithArgs(models.ReviewTypeSelf).
		WillReturnRows(questionRows(time.Now()))

	questions, err := repo.List(context.Background(), models.QuestionFilter{Type: models.ReviewTypeSelf})
	require.NoError(t, err)
	assert.Len(t, questions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuestion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	mock.ExpectExec("INSERT INTO questions").WillReturnResult(sqlmock.NewResult(1, 1))

	q := &models.QuestionTemplate{
		Text:     "Новый вопрос",
		Type:     models.ReviewTypeManager,
		Weight:   2.0,
		MaxScore: 10,
		Active:   true,
	}
	err := repo.Create(context.Background(), q)
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetireQuestion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE questions SET active = FALSE, updated_at = $2 WHERE id = $1")).
		WithArgs("q1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Retire(context.Background(), "q1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
