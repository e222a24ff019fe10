package main

import (
	"context"
	"log"
	"time"

	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/internal/repository"
	"github.com/evolvehq/perf-review-api/pkg/config"
	"github.com/evolvehq/perf-review-api/pkg/database"
	"github.com/evolvehq/perf-review-api/pkg/logger"
)

// Seeds the default question catalog. Safe to run repeatedly: it does
// nothing when the catalog already has rows.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewQuestionRepository(db)

	existing, err := repo.Count(ctx)
	if err != nil {
		logr.Sugar().Fatalw("failed to count questions", "error", err)
	}
	if existing > 0 {
		logr.Sugar().Infow("question catalog already seeded", "count", existing)
		return
	}

	catalog := defaultQuestions()
	for i := range catalog {
		if err := repo.Create(ctx, &catalog[i]); err != nil {
			logr.Sugar().Fatalw("failed to create question", "text", catalog[i].Text, "error", err)
		}
	}

	logr.Sugar().Infow("question catalog seeded", "count", len(catalog))
}

func defaultQuestions() []models.QuestionTemplate {
	questions := []models.QuestionTemplate{
		// Self evaluation.
		{
			Text:                   "Впиши, используя шаблон, каких результатов удалось достичь (пример: выявил возможность оптимизации количества кликов при оформлении подписки и после реализации улучшения рост по оплате подписки составил +1%)",
			Type:                   models.ReviewTypeSelf,
			Section:                "achievements",
			Weight:                 1.5,
			MaxScore:               10,
			OrderIndex:             1,
			TriggerWords:           models.StringList{"достижен", "результат", "успех", "рост", "улучшен", "оптимизац"},
			RequiresManagerScoring: true,
		},
		{
			Text:                   "Какой личный вклад ты сделал в полученный результат (пример: благодаря созданной документации команда находила решения в 1,5 раза быстрее)",
			Type:                   models.ReviewTypeSelf,
			Section:                "personal_contribution",
			Weight:                 1.3,
			MaxScore:               10,
			OrderIndex:             2,
			TriggerWords:           models.StringList{"вклад", "личный", "инициатив", "ответствен"},
			RequiresManagerScoring: true,
		},
		{
			Text:                   "Что ты забираешь с собой по результатам выполнения этой задачи (например: прокачался в микросервисах, хочу это развивать дальше)",
			Type:                   models.ReviewTypeSelf,
			Section:                "skills_development",
			Weight:                 1.2,
			MaxScore:               10,
			OrderIndex:             3,
			TriggerWords:           models.StringList{"развит", "навыки", "обучен", "план"},
			RequiresManagerScoring: true,
		},
		{
			Text:                   "Что в следующий раз будешь делать по-другому",
			Type:                   models.ReviewTypeSelf,
			Section:                "improvements",
			Weight:                 1.1,
			MaxScore:               10,
			OrderIndex:             4,
			TriggerWords:           models.StringList{"улучшен", "изменен", "опыт", "ошибк"},
			RequiresManagerScoring: true,
		},
		{
			Text:         "Как ты оцениваешь качество своего взаимодействия с коллегами, командой по данной задаче",
			Type:         models.ReviewTypeSelf,
			Section:      "communication",
			Weight:       1.1,
			MaxScore:     10,
			OrderIndex:   5,
			TriggerWords: models.StringList{"коммуникац", "взаимодейств", "общен", "команд"},
		},
		{
			Text:         "Как ты оцениваешь общую удовлетворенность своим выполнением данной задачи",
			Type:         models.ReviewTypeSelf,
			Section:      "satisfaction",
			Weight:       1.1,
			MaxScore:     10,
			OrderIndex:   6,
			TriggerWords: models.StringList{"удовлетворен", "оценка", "результат", "выполнен"},
		},

		// Manager evaluation.
		{
			Text:         "Насколько удалось сотруднику достичь результатов, которые были запланированы по задаче",
			Type:         models.ReviewTypeManager,
			Section:      "results_achievement",
			Weight:       2.0,
			MaxScore:     10,
			OrderIndex:   1,
			TriggerWords: models.StringList{"результат", "достижен", "план", "KPI"},
		},
		{
			Text:                   "Прокомментируй, какие личные качества помогли сотруднику достичь результата",
			Type:                   models.ReviewTypeManager,
			Section:                "personal_qualities",
			Weight:                 1.5,
			MaxScore:               10,
			OrderIndex:             2,
			TriggerWords:           models.StringList{"качества", "личные", "ответствен", "инициатив"},
			RequiresManagerScoring: true,
		},
		{
			Text:                   "Какой личный вклад ты можешь выделить в результатах сотрудника",
			Type:                   models.ReviewTypeManager,
			Section:                "personal_contribution",
			Weight:                 1.5,
			MaxScore:               10,
			OrderIndex:             3,
			TriggerWords:           models.StringList{"вклад", "результат", "влияние", "ценность"},
			RequiresManagerScoring: true,
		},
		{
			Text:         "Оцени качество взаимодействия по общей оценке коллег",
			Type:         models.ReviewTypeManager,
			Section:      "communication",
			Weight:       1.3,
			MaxScore:     10,
			OrderIndex:   4,
			TriggerWords: models.StringList{"коммуникац", "взаимодейств", "команд", "общен"},
		},
		{
			Text:                   "Что ты порекомендуешь улучшить сотруднику в следующем цикле",
			Type:                   models.ReviewTypeManager,
			Section:                "improvement_recommendations",
			Weight:                 1.4,
			MaxScore:               10,
			OrderIndex:             5,
			TriggerWords:           models.StringList{"улучшен", "рекомендац", "развит", "рост"},
			RequiresManagerScoring: true,
		},
		{
			Text:         "Какой общий рейтинг ты можешь выделить для сотрудника",
			Type:         models.ReviewTypeManager,
			Section:      "final_rating",
			Weight:       1.4,
			MaxScore:     10,
			OrderIndex:   6,
			TriggerWords: models.StringList{"рейтинг", "оценка", "итог", "результат"},
		},

		// Potential assessment.
		{
			Text:         "Какие профессиональные качества проявил сотрудник за последний период работы",
			Type:         models.ReviewTypePotential,
			Section:      models.SectionProfessional,
			Weight:       1.8,
			MaxScore:     5,
			OrderIndex:   1,
			TriggerWords: models.StringList{"профессионал", "качества", "навыки", "компетенц"},
			Options: models.OptionList{
				{ID: "responsibility", Label: "Ответственность", Value: 1.0, OrderIndex: 1},
				{ID: "result_oriented", Label: "Ориентация на результат", Value: 1.0, OrderIndex: 2},
				{ID: "proactive", Label: "Проактивность (исследовал решение глубже, чем ожидалось)", Value: 1.0, OrderIndex: 3},
				{ID: "strategic_thinking", Label: "Стратегическое мышление (нестандартное мышление) - тестировал новые подходы", Value: 1.0, OrderIndex: 4},
				{ID: "team_player", Label: "Командный игрок (объединял команду, вел за собой)", Value: 1.0, OrderIndex: 5},
			},
		},
		{
			Text:         "Какие личные качества проявил сотрудник за последний период работы",
			Type:         models.ReviewTypePotential,
			Section:      models.SectionPersonal,
			Weight:       1.3,
			MaxScore:     4,
			OrderIndex:   2,
			TriggerWords: models.StringList{"личные", "качества", "характер"},
			Options: models.OptionList{
				{ID: "more_responsibility", Label: "Не боялся брать на себя больше ответственности в задаче", Value: 1.0, OrderIndex: 1},
				{ID: "good_communication", Label: "Выстраивал открытую прозрачную и точную коммуникацию с коллегами", Value: 1.0, OrderIndex: 2},
				{ID: "information_sharing", Label: "Оперативно делился информацией о задаче с коллегами", Value: 1.0, OrderIndex: 3},
				{ID: "task_organization", Label: "Выстраивал работу по задаче", Value: 1.0, OrderIndex: 4},
			},
		},
		{
			Text:         "Приходилось ли тебе за последние полгода проводить 1:1, на котором нужно было мотивировать сотрудника дополнительно по уже реализуемой задаче",
			Type:         models.ReviewTypePotential,
			Section:      models.SectionPersonal,
			Weight:       1.0,
			MaxScore:     1,
			OrderIndex:   3,
			TriggerWords: models.StringList{"мотивац", "1:1", "дополнительн", "руководств"},
		},
		{
			Text:         "Знаешь ли ты о случаях, когда сотрудник не делился дискоммуникацией с другими коллегами и это негативно сказывалось на результатах",
			Type:         models.ReviewTypePotential,
			Section:      models.SectionPersonal,
			Weight:       1.0,
			MaxScore:     1,
			OrderIndex:   4,
			TriggerWords: models.StringList{"информац", "проблем", "негатив", "результат"},
		},
		{
			Text:         "Знаешь ли ты о желании сотрудника развиваться дальше (в каком треке, какие роли интересны)",
			Type:         models.ReviewTypePotential,
			Section:      models.SectionDevelopment,
			Weight:       1.0,
			MaxScore:     4,
			OrderIndex:   5,
			TriggerWords: models.StringList{"развит", "трек", "роли", "интерес"},
			Options: models.OptionList{
				{ID: "proactive_development", Label: "Да, хочет развиваться и проактивно себя ведет", Value: 4.0, OrderIndex: 1},
				{ID: "needs_help_development", Label: "Да, хочет развиваться, но сам не может идти по плану развития, нужна помощь менеджера/HR", Value: 3.0, OrderIndex: 2},
				{ID: "unsure_development", Label: "Не уверен, что есть желание развиваться", Value: 2.0, OrderIndex: 3},
				{ID: "no_development", Label: "Не хочет", Value: 1.0, OrderIndex: 4},
			},
		},
		{
			Text:         "Считаешь ли ты сотрудника своим преемником",
			Type:         models.ReviewTypePotential,
			Section:      models.SectionDevelopment,
			Weight:       1.0,
			MaxScore:     1,
			OrderIndex:   6,
			TriggerWords: models.StringList{"преемник", "замена", "продолжен"},
		},
		{
			Text:         "Если да, когда он будет готов",
			Type:         models.ReviewTypePotential,
			Section:      models.SectionDevelopment,
			Weight:       1.0,
			MaxScore:     3,
			OrderIndex:   7,
			TriggerWords: models.StringList{"готов", "срок", "время", "план"},
			Options: models.OptionList{
				{ID: "ready_1_2_years", Label: "через 1-2 года", Value: 3.0, OrderIndex: 1},
				{ID: "ready_3_years", Label: "через 3 года", Value: 2.0, OrderIndex: 2},
				{ID: "ready_3_plus_years", Label: "через 3 и более лет", Value: 1.0, OrderIndex: 3},
			},
		},
		{
			Text:         "Как ты оцениваешь степень риска ухода сотрудника, где 0 - нет риска, 10 - высокая степень риска ухода даже в этом году",
			Type:         models.ReviewTypePotential,
			Section:      models.SectionDevelopment,
			Weight:       1.0,
			MaxScore:     10,
			OrderIndex:   8,
			TriggerWords: models.StringList{"риск", "уход", "удержан", "лояльност"},
		},

		// Respondent feedback.
		{
			Text:         "Насколько удалось сотруднику достичь результатов, которые были запланированы по задаче",
			Type:         models.ReviewTypeRespondent,
			Section:      "results_achievement",
			Weight:       1.5,
			MaxScore:     10,
			OrderIndex:   1,
			TriggerWords: models.StringList{"результат", "достижен", "план"},
		},
		{
			Text:                   "Прокомментируй, какие личные качества помогли достичь результата",
			Type:                   models.ReviewTypeRespondent,
			Section:                "personal_qualities",
			Weight:                 1.2,
			MaxScore:               10,
			OrderIndex:             2,
			TriggerWords:           models.StringList{"качества", "личные", "помогл"},
			RequiresManagerScoring: true,
		},
		{
			Text:         "Оцени качество взаимодействия",
			Type:         models.ReviewTypeRespondent,
			Section:      "communication",
			Weight:       1.3,
			MaxScore:     10,
			OrderIndex:   3,
			TriggerWords: models.StringList{"взаимодейств", "коммуникац", "качество"},
		},
		{
			Text:                   "Что сотрудник может улучшить в своей работе в следующем полугодии",
			Type:                   models.ReviewTypeRespondent,
			Section:                "improvements",
			Weight:                 1.1,
			MaxScore:               10,
			OrderIndex:             4,
			TriggerWords:           models.StringList{"улучшен", "рекомендац", "совет"},
			RequiresManagerScoring: true,
		},
	}

	for i := range questions {
		questions[i].Active = true
	}
	return questions
}
