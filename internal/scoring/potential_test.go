package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolvehq/perf-review-api/internal/models"
)

func sectionQuestion(id, section string, weight float64, maxScore int) models.QuestionTemplate {
	q := question(id, weight, maxScore)
	q.Type = models.ReviewTypePotential
	q.Section = section
	return q
}

func TestPotentialScoreBlendsSections(t *testing.T) {
	cat := NewCatalog([]models.QuestionTemplate{
		sectionQuestion("prof", models.SectionProfessional, 1.0, 5),
		sectionQuestion("pers", models.SectionPersonal, 1.0, 5),
		sectionQuestion("dev", models.SectionDevelopment, 1.0, 5),
	})
	calc := NewCalculator(nil)

	got := calc.PotentialScore(cat, []models.Answer{
		{QuestionID: "prof", Score: fptr(4)},
		{QuestionID: "pers", Score: fptr(3)},
		{QuestionID: "dev", Score: fptr(5)},
	})

	require.InDelta(t, 8.0, got.Professional, 1e-9)
	require.InDelta(t, 6.0, got.Personal, 1e-9)
	require.InDelta(t, 10.0, got.Development, 1e-9)
	// (4.0*0.4 + 3.0*0.3 + 5.0*0.3) * 2.0
	require.InDelta(t, 8.0, got.Total, 1e-9)
	require.InDelta(t, 4.0, got.Performance, 1e-9)
}

func TestPotentialScoreIgnoresUnknownSections(t *testing.T) {
	cat := NewCatalog([]models.QuestionTemplate{
		sectionQuestion("prof", models.SectionProfessional, 1.0, 5),
		sectionQuestion("misc", "retention_risk", 1.0, 10),
	})
	calc := NewCalculator(nil)

	got := calc.PotentialScore(cat, []models.Answer{
		{QuestionID: "prof", Score: fptr(5)},
		{QuestionID: "misc", Score: fptr(1)},
	})

	require.InDelta(t, 10.0, got.Professional, 1e-9)
	assert.Zero(t, got.Personal)
	assert.Zero(t, got.Development)
	// The untagged answer still contributes to the performance cross-check.
	require.InDelta(t, (5.0+0.5)/2.0, got.Performance, 1e-9)
}

func TestPotentialScoreEmptyAnswers(t *testing.T) {
	calc := NewCalculator(nil)
	got := calc.PotentialScore(NewCatalog(nil), nil)
	assert.Zero(t, got.Total)
	assert.Zero(t, got.Performance)
}

func TestPotentialScoreWeightedBuckets(t *testing.T) {
	cat := NewCatalog([]models.QuestionTemplate{
		sectionQuestion("p1", models.SectionProfessional, 1.8, 5),
		sectionQuestion("p2", models.SectionProfessional, 1.2, 10),
	})
	calc := NewCalculator(nil)

	got := calc.PotentialScore(cat, []models.Answer{
		{QuestionID: "p1", Score: fptr(5)},
		{QuestionID: "p2", Score: fptr(5)},
	})

	// avg = (5.0*1.8 + 2.5*1.2) / 3.0 = 4.0, doubled to 8.0
	require.InDelta(t, 8.0, got.Professional, 1e-9)
}
