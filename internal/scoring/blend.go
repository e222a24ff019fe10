package scoring

import "github.com/evolvehq/perf-review-api/internal/models"

// BlendWeights are the relative weights of the four review components
// in the overall goal score.
type BlendWeights struct {
	Self       float64
	Manager    float64
	Respondent float64
	Potential  float64
}

// DefaultBlendWeights favors the manager's assessment, discounts peer
// feedback and slightly boosts potential.
var DefaultBlendWeights = BlendWeights{
	Self:       1.0,
	Manager:    1.8,
	Respondent: 0.7,
	Potential:  1.2,
}

// Blend combines the component averages that are present into one
// weighted arithmetic mean. A nil component, or one equal to exactly
// zero, is treated as absent and excluded from the mean; a true zero
// score is indistinguishable from missing data here. Returns 0.0 when
// every component is absent.
func Blend(c models.ComponentScores, w BlendWeights) float64 {
	var sum, totalWeight float64
	take := func(v *float64, weight float64) {
		if v == nil || *v == 0 {
			return
		}
		sum += *v * weight
		totalWeight += weight
	}
	take(c.Self, w.Self)
	take(c.Manager, w.Manager)
	take(c.Respondent, w.Respondent)
	take(c.Potential, w.Potential)
	if totalWeight == 0 {
		return 0.0
	}
	return sum / totalWeight
}
