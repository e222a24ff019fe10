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

// QuestionRepository provides database access to the question catalog.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new instance of QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionColumns = `id, question_text, question_type, section, weight, max_score, order_index, trigger_words, options, requires_manager_scoring, active, created_at, updated_at`

// FindByID returns a catalog question by identifier.
func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.QuestionTemplate, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1 LIMIT 1`
	var q models.QuestionTemplate
	if err := r.db.GetContext(ctx, &q, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find question by id: %w", err)
	}
	return &q, nil
}

// List returns catalog questions matching the filter, ordered by
// order_index. Retired questions are excluded unless requested.
func (r *QuestionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionTemplate, error) {
	baseQuery := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	var conditions []string
	var args []interface{}

	if !filter.IncludeRetired {
		conditions = append(conditions, "active = TRUE")
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("question_type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", len(args)+1))
		args = append(args, filter.Section)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY question_type ASC, order_index ASC"

	var questions []models.QuestionTemplate
	if err := r.db.SelectContext(ctx, &questions, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// ListByIDs returns the active questions with the given identifiers.
func (r *QuestionRepository) ListByIDs(ctx context.Context, ids []string) ([]models.QuestionTemplate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+questionColumns+` FROM questions WHERE active = TRUE AND id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build question id query: %w", err)
	}
	query = r.db.Rebind(query)

	var questions []models.QuestionTemplate
	if err := r.db.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, fmt.Errorf("list questions by ids: %w", err)
	}
	return questions, nil
}

// Create inserts a new catalog question.
func (r *QuestionRepository) Create(ctx context.Context, q *models.QuestionTemplate) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	const query = `INSERT INTO questions (id, question_text, question_type, section, weight, max_score, order_index, trigger_words, options, requires_manager_scoring, active, created_at, updated_at) VALUES (:id, :question_text, :question_type, :section, :weight, :max_score, :order_index, :trigger_words, :options, :requires_manager_scoring, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, q); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// Update updates mutable fields of a catalog question.
func (r *QuestionRepository) Update(ctx context.Context, q *models.QuestionTemplate) error {
	q.UpdatedAt = time.Now().UTC()
	const query = `UPDATE questions SET question_text = :question_text, section = :section, weight = :weight, max_score = :max_score, order_index = :order_index, trigger_words = :trigger_words, options = :options, requires_manager_scoring = :requires_manager_scoring, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, q); err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return nil
}

// Retire performs a soft delete by clearing the active flag. Answered
// reviews keep referencing the retired row.
func (r *QuestionRepository) Retire(ctx context.Context, id string) error {
	const query = `UPDATE questions SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("retire question: %w", err)
	}
	return nil
}

// Count returns the number of catalog rows, retired rows included.
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM questions`); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return total, nil
}
