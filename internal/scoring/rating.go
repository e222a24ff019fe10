package scoring

import "github.com/evolvehq/perf-review-api/internal/models"

// Rating maps a blended score to its letter grade. Bands are inclusive
// on their lower edge.
func Rating(score float64) models.Rating {
	switch {
	case score >= 4.5:
		return models.RatingA
	case score >= 4.0:
		return models.RatingB
	case score >= 3.0:
		return models.RatingC
	default:
		return models.RatingD
	}
}
