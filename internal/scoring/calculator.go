package scoring

import (
	"go.uber.org/zap"

	"github.com/evolvehq/perf-review-api/internal/models"
)

// Calculator computes normalized weighted scores over answer sets.
// All methods are pure over their inputs and perform no I/O.
type Calculator struct {
	log *zap.Logger
}

// NewCalculator builds a calculator. A nil logger is replaced with a no-op.
func NewCalculator(log *zap.Logger) *Calculator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Calculator{log: log}
}

// WeightedScore computes the weight-averaged score of the answers on a
// 0-5 scale. Answers whose question cannot be resolved are skipped.
// Answers to questions awaiting manager scoring are excluded from both
// the numerator and the denominator until a score arrives. Returns 0.0
// when no answer contributes.
func (c *Calculator) WeightedScore(cat Catalog, answers []models.Answer) float64 {
	var sum, totalWeight float64
	for _, a := range answers {
		q, ok := cat.Lookup(a.QuestionID)
		if !ok {
			continue
		}
		if q.RequiresManagerScoring && a.Score == nil {
			c.log.Warn("answer pending manager scoring, excluded from score",
				zap.String("question_id", q.ID))
			continue
		}
		if q.MaxScore <= 0 {
			continue
		}
		raw, ok := rawValue(q, a)
		if !ok {
			continue
		}
		sum += raw / float64(q.MaxScore) * 5.0 * q.Weight
		totalWeight += q.Weight
	}
	if totalWeight == 0 {
		return 0.0
	}
	return sum / totalWeight
}

// PendingManagerQuestions returns the ids of answered questions that
// still await a manager score.
func (c *Calculator) PendingManagerQuestions(cat Catalog, answers []models.Answer) []string {
	var pending []string
	for _, a := range answers {
		q, ok := cat.Lookup(a.QuestionID)
		if !ok {
			continue
		}
		if q.RequiresManagerScoring && a.Score == nil {
			pending = append(pending, q.ID)
		}
	}
	return pending
}

// rawValue extracts the raw point value of an answer: the numeric score
// when present, otherwise the point value of the selected option.
func rawValue(q models.QuestionTemplate, a models.Answer) (float64, bool) {
	if a.Score != nil {
		return *a.Score, true
	}
	if a.OptionID != "" {
		return q.OptionValue(a.OptionID)
	}
	return 0, false
}
