package scoring

import (
	"strings"

	"github.com/evolvehq/perf-review-api/internal/models"
)

// maxRecommendations caps the list returned for a single review.
const maxRecommendations = 5

// GenericRecommendation is returned when no trigger word classifies.
const GenericRecommendation = "Продолжайте работать над поставленными целями и регулярно запрашивайте обратную связь."

// category maps Cyrillic word stems to two canned recommendations.
type category struct {
	stems   []string
	advices [2]string
}

var categories = []category{
	{
		stems: []string{"проблем", "трудност", "сложност"},
		advices: [2]string{
			"Рекомендуется обратить внимание на выявленные проблемные зоны и составить план их устранения.",
			"Стоит обсудить возникающие трудности с руководителем на ближайшей встрече один на один.",
		},
	},
	{
		stems: []string{"коммуникац", "общени", "взаимодейств"},
		advices: [2]string{
			"Рекомендуется развивать навыки коммуникации и активного слушания.",
			"Полезно чаще участвовать в командных обсуждениях и давать обратную связь коллегам.",
		},
	},
	{
		stems: []string{"лидер", "руковод", "управлен"},
		advices: [2]string{
			"Рекомендуется развивать лидерские качества через наставничество и ведение небольших проектов.",
			"Стоит пройти обучение по управлению командой и делегированию задач.",
		},
	},
	{
		stems: []string{"развит", "обучени", "рост"},
		advices: [2]string{
			"Рекомендуется составить индивидуальный план развития на ближайший период.",
			"Полезно выделить время на профессиональное обучение и освоение новых навыков.",
		},
	},
	{
		stems: []string{"успех", "достижен", "результат"},
		advices: [2]string{
			"Рекомендуется закрепить достигнутые успехи и поделиться опытом с командой.",
			"Стоит зафиксировать успешные практики и масштабировать их на другие задачи.",
		},
	},
}

// Recommendations classifies the trigger words declared by the answered
// questions into advice categories and returns up to five deduplicated
// recommendation sentences.
//
// The classification deliberately tests the trigger-word tokens
// themselves, not the free text of the answers. Question authors steer
// the advice a review produces through the trigger words they declare.
// See DESIGN.md for the history of this behavior.
func (c *Calculator) Recommendations(cat Catalog, answers []models.Answer) []string {
	seen := make(map[string]struct{}, maxRecommendations)
	var out []string
	add := func(advice string) {
		if _, dup := seen[advice]; dup {
			return
		}
		seen[advice] = struct{}{}
		out = append(out, advice)
	}

	for _, a := range answers {
		q, ok := cat.Lookup(a.QuestionID)
		if !ok || len(q.TriggerWords) == 0 {
			continue
		}
		for _, word := range q.TriggerWords {
			token := strings.ToLower(word)
			for _, cg := range categories {
				for _, stem := range cg.stems {
					if strings.Contains(token, stem) {
						add(cg.advices[0])
						add(cg.advices[1])
						break
					}
				}
			}
		}
	}

	if len(out) == 0 {
		return []string{GenericRecommendation}
	}
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}
