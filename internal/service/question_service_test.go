package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvehq/perf-review-api/internal/models"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
)

func TestCreateQuestionDefaultsWeight(t *testing.T) {
	svc := NewQuestionService(&mockQuestionRepo{}, nil, nil)

	q, err := svc.Create(context.Background(), models.CreateQuestionRequest{
		Text:     "Опишите достигнутые результаты",
		Type:     models.ReviewTypeSelf,
		MaxScore: 5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, q.Weight, 1e-9)
}

func TestCreateQuestionKeepsExplicitWeight(t *testing.T) {
	svc := NewQuestionService(&mockQuestionRepo{}, nil, nil)

	q, err := svc.Create(context.Background(), models.CreateQuestionRequest{
		Text:     "Оцените качество работы",
		Type:     models.ReviewTypeManager,
		Weight:   2.5,
		MaxScore: 5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, q.Weight, 1e-9)
}

func TestCreateQuestionRejectsNegativeWeight(t *testing.T) {
	svc := NewQuestionService(&mockQuestionRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateQuestionRequest{
		Text:     "Оцените качество работы",
		Type:     models.ReviewTypeManager,
		Weight:   -1,
		MaxScore: 5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
