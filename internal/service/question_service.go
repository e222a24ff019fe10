package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evolvehq/perf-review-api/internal/models"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
)

type questionRepository interface {
	FindByID(ctx context.Context, id string) (*models.QuestionTemplate, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionTemplate, error)
	Create(ctx context.Context, q *models.QuestionTemplate) error
	Update(ctx context.Context, q *models.QuestionTemplate) error
	Retire(ctx context.Context, id string) error
}

// QuestionService manages the scoring question catalog.
type QuestionService struct {
	repo      questionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(repo questionRepository, validate *validator.Validate, logger *zap.Logger) *QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &QuestionService{repo: repo, validator: validate, logger: logger}
}

// List returns catalog questions for a review type.
func (s *QuestionService) List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionTemplate, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown question type")
	}
	questions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return questions, nil
}

// Create adds a question to the catalog.
func (s *QuestionService) Create(ctx context.Context, req models.CreateQuestionRequest) (*models.QuestionTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if req.Weight == 0 {
		req.Weight = 1.0
	}

	q := &models.QuestionTemplate{
		Text:                   req.Text,
		Type:                   req.Type,
		Section:                req.Section,
		Weight:                 req.Weight,
		MaxScore:               req.MaxScore,
		OrderIndex:             req.OrderIndex,
		TriggerWords:           models.StringList(req.TriggerWords),
		Options:                models.OptionList(req.Options),
		RequiresManagerScoring: req.RequiresManagerScoring,
		Active:                 true,
	}
	for i := range q.Options {
		if q.Options[i].ID == "" {
			q.Options[i].ID = uuid.NewString()
		}
		q.Options[i].OrderIndex = i
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}
	s.logger.Info("question created",
		zap.String("question_id", q.ID),
		zap.String("question_type", string(q.Type)))
	return q, nil
}

// Update edits a catalog question.
func (s *QuestionService) Update(ctx context.Context, id string, req models.UpdateQuestionRequest) (*models.QuestionTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question update payload")
	}

	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}

	if req.Text != nil {
		q.Text = *req.Text
	}
	if req.Weight != nil {
		q.Weight = *req.Weight
	}
	if req.MaxScore != nil {
		q.MaxScore = *req.MaxScore
	}
	if req.OrderIndex != nil {
		q.OrderIndex = *req.OrderIndex
	}
	if req.TriggerWords != nil {
		q.TriggerWords = models.StringList(req.TriggerWords)
	}

	if err := s.repo.Update(ctx, q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update question")
	}
	return q, nil
}

// Retire soft-deletes a question. Existing answers keep their reference
// but future catalog lookups stop returning it.
func (s *QuestionService) Retire(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	if err := s.repo.Retire(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to retire question")
	}
	return nil
}
