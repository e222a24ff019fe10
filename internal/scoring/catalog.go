package scoring

import "github.com/evolvehq/perf-review-api/internal/models"

// Catalog is a lookup over the question templates a score is computed
// against. Implementations must apply the active predicate: retired
// questions are reported as not found.
type Catalog interface {
	Lookup(questionID string) (models.QuestionTemplate, bool)
}

// MapCatalog is an in-memory Catalog backed by a slice of templates.
type MapCatalog map[string]models.QuestionTemplate

// NewCatalog indexes the given templates by id, dropping inactive ones.
func NewCatalog(questions []models.QuestionTemplate) MapCatalog {
	cat := make(MapCatalog, len(questions))
	for _, q := range questions {
		if !q.Active {
			continue
		}
		cat[q.ID] = q
	}
	return cat
}

// Lookup implements Catalog.
func (c MapCatalog) Lookup(questionID string) (models.QuestionTemplate, bool) {
	q, ok := c[questionID]
	return q, ok
}
