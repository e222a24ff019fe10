package scoring

import "github.com/evolvehq/perf-review-api/internal/models"

// Blend proportions of the three potential sections.
const (
	professionalShare = 0.4
	personalShare     = 0.3
	developmentShare  = 0.3
)

type bucket struct {
	sum    float64
	weight float64
}

func (b bucket) avg() float64 {
	if b.weight == 0 {
		return 0
	}
	return b.sum / b.weight
}

// PotentialScore buckets the answers into the professional, personal and
// development sections and blends the section averages. Section scores
// are reported on a 0-10 scale, the total on a 0-10 scale, and the
// performance cross-check is the plain weighted score of the same
// answers. Answers whose question carries an unrecognized section tag
// are ignored for bucketing.
func (c *Calculator) PotentialScore(cat Catalog, answers []models.Answer) models.PotentialBreakdown {
	buckets := map[string]*bucket{
		models.SectionProfessional: {},
		models.SectionPersonal:     {},
		models.SectionDevelopment:  {},
	}
	for _, a := range answers {
		q, ok := cat.Lookup(a.QuestionID)
		if !ok {
			continue
		}
		b, ok := buckets[q.Section]
		if !ok {
			continue
		}
		if q.MaxScore <= 0 {
			continue
		}
		raw, ok := rawValue(q, a)
		if !ok {
			continue
		}
		b.sum += raw / float64(q.MaxScore) * 5.0 * q.Weight
		b.weight += q.Weight
	}

	prof := buckets[models.SectionProfessional].avg()
	pers := buckets[models.SectionPersonal].avg()
	dev := buckets[models.SectionDevelopment].avg()

	return models.PotentialBreakdown{
		Professional: prof * 2.0,
		Personal:     pers * 2.0,
		Development:  dev * 2.0,
		Total:        (prof*professionalShare + pers*personalShare + dev*developmentShare) * 2.0,
		Performance:  c.WeightedScore(cat, answers),
	}
}
