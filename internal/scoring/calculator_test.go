package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvehq/perf-review-api/internal/models"
)

func fptr(v float64) *float64 { return &v }

func question(id string, weight float64, maxScore int) models.QuestionTemplate {
	return models.QuestionTemplate{
		ID:       id,
		Text:     "q " + id,
		Type:     models.ReviewTypeSelf,
		Weight:   weight,
		MaxScore: maxScore,
		Active:   true,
	}
}

func TestWeightedScoreFullMarksHitCeiling(t *testing.T) {
	cat := NewCatalog([]models.QuestionTemplate{
		question("q1", 1.5, 10),
		question("q2", 1.1, 10),
		question("q3", 2.0, 5),
	})
	calc := NewCalculator(nil)

	got := calc.WeightedScore(cat, []models.Answer{
		{QuestionID: "q1", Score: fptr(10)},
		{QuestionID: "q2", Score: fptr(10)},
		{QuestionID: "q3", Score: fptr(5)},
	})

	require.InDelta(t, 5.0, got, 1e-9)
}

func TestWeightedScoreEmptyAnswersIsZero(t *testing.T) {
	calc := NewCalculator(nil)
	got := calc.WeightedScore(NewCatalog(nil), nil)
	assert.Zero(t, got)
}

func TestWeightedScoreSingleQuestion(t *testing.T) {
	cat := NewCatalog([]models.QuestionTemplate{question("q1", 1.0, 5)})
	calc := NewCalculator(nil)

	got := calc.WeightedScore(cat, []models.Answer{{QuestionID: "q1", Score: fptr(4)}})

	require.InDelta(t, 4.0, got, 1e-9)
}

func TestWeightedScoreEqualNormalizedValues(t *testing.T) {
	cat := NewCatalog([]models.QuestionTemplate{
		question("q1", 1.0, 5),
		question("q2", 2.0, 10),
	})
	calc := NewCalculator(nil)

	got := calc.WeightedScore(cat, []models.Answer{
		{QuestionID: "q1", Score: fptr(4)},
		{QuestionID: "q2", Score: fptr(8)},
	})

	require.InDelta(t, 4.0, got, 1e-9)
}

func TestWeightedScoreSkipsUnknownQuestions(t *testing.T) {
	cat := NewCatalog([]models.QuestionTemplate{question("q1", 1.0, 5)})
	calc := NewCalculator(nil)

	got := calc.WeightedScore(cat, []models.Answer{
		{QuestionID: "q1", Score: fptr(4)},
		{QuestionID: "missing", Score: fptr(1)},
	})

	require.InDelta(t, 4.0, got, 1e-9)
}

func TestWeightedScoreSkipsRetiredQuestions(t *testing.T) {
	retired := question("q2", 1.0, 5)
	retired.Active = false
	cat := NewCatalog([]models.QuestionTemplate{question("q1", 1.0, 5), retired})
	calc := NewCalculator(nil)

	got := calc.WeightedScore(cat, []models.Answer{
		{QuestionID: "q1", Score: fptr(4)},
		{QuestionID: "q2", Score: fptr(1)},
	})

	require.InDelta(t, 4.0, got, 1e-9)
}

func TestWeightedScorePendingManagerAnswerExcluded(t *testing.T) {
	pending := question("q2", 3.0, 10)
	pending.RequiresManagerScoring = true
	cat := NewCatalog([]models.QuestionTemplate{question("q1", 1.0, 5), pending})
	calc := NewCalculator(nil)

	answers := []models.Answer{
		{QuestionID: "q1", Score: fptr(4)},
		{QuestionID: "q2", Text: "awaiting manager"},
	}

	got := calc.WeightedScore(cat, answers)
	require.InDelta(t, 4.0, got, 1e-9, "pending answer must not shift the average")
	assert.Equal(t, []string{"q2"}, calc.PendingManagerQuestions(cat, answers))

	// Once the manager supplies a score the question counts with its weight.
	answers[1].Score = fptr(10)
	got = calc.WeightedScore(cat, answers)
	require.InDelta(t, (4.0*1.0+5.0*3.0)/4.0, got, 1e-9)
	assert.Empty(t, calc.PendingManagerQuestions(cat, answers))
}

func TestWeightedScoreUsesOptionPointValues(t *testing.T) {
	q := question("q1", 1.0, 4)
	q.Options = models.OptionList{
		{ID: "opt-high", Label: "Готов сейчас", Value: 4.0},
		{ID: "opt-low", Label: "Не готов", Value: 1.0},
	}
	cat := NewCatalog([]models.QuestionTemplate{q})
	calc := NewCalculator(nil)

	got := calc.WeightedScore(cat, []models.Answer{{QuestionID: "q1", OptionID: "opt-high"}})
	require.InDelta(t, 5.0, got, 1e-9)

	got = calc.WeightedScore(cat, []models.Answer{{QuestionID: "q1", OptionID: "opt-low"}})
	require.InDelta(t, 1.25, got, 1e-9)

	// Unknown option contributes nothing.
	got = calc.WeightedScore(cat, []models.Answer{{QuestionID: "q1", OptionID: "nope"}})
	assert.Zero(t, got)
}

func TestWeightedScoreTextOnlyAnswersAreZero(t *testing.T) {
	cat := NewCatalog([]models.QuestionTemplate{question("q1", 1.0, 5)})
	calc := NewCalculator(nil)

	got := calc.WeightedScore(cat, []models.Answer{{QuestionID: "q1", Text: "только текст"}})
	assert.Zero(t, got)
}

func TestRatingBands(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Rating
	}{
		{4.5, models.RatingA},
		{5.0, models.RatingA},
		{4.4, models.RatingB},
		{4.0, models.RatingB},
		{3.9, models.RatingC},
		{3.0, models.RatingC},
		{2.9, models.RatingD},
		{0.0, models.RatingD},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, Rating(tc.score), "score %.1f", tc.score)
	}
}
