package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/evolvehq/perf-review-api/internal/models"
)

type mockUserRepo struct {
	users  map[string]models.User
	tokens map[string]models.RefreshToken
}

func newMockUserRepo(users ...models.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[string]models.User), tokens: make(map[string]models.RefreshToken)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	user := u
	return &user, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.users[user.ID] = *user
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) ListDirectReports(ctx context.Context, managerID string) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if u.ManagerID != nil && *u.ManagerID == managerID && u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	m.users[id] = u
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = *token
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	stored := t
	return &stored, nil
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for key, t := range m.tokens {
		if t.ID == id {
			t.RevokedAt = &revokedAt
			m.tokens[key] = t
		}
	}
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	for key, t := range m.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
			m.tokens[key] = t
		}
	}
	return nil
}

type mockGoalRepo struct {
	goals       map[string]models.Goal
	respondents map[string][]string
}

func newMockGoalRepo(goals ...models.Goal) *mockGoalRepo {
	repo := &mockGoalRepo{goals: make(map[string]models.Goal), respondents: make(map[string][]string)}
	for _, g := range goals {
		repo.goals[g.ID] = g
		repo.respondents[g.ID] = g.Respondents
	}
	return repo
}

func (m *mockGoalRepo) Create(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = "goal-" + goal.Title
	}
	if goal.Status == "" {
		goal.Status = models.GoalStatusActive
	}
	m.goals[goal.ID] = *goal
	m.respondents[goal.ID] = goal.Respondents
	return nil
}

func (m *mockGoalRepo) FindByID(ctx context.Context, id string) (*models.Goal, error) {
	g, ok := m.goals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	goal := g
	return &goal, nil
}

func (m *mockGoalRepo) List(ctx context.Context, filter models.GoalFilter) ([]models.Goal, int, error) {
	var out []models.Goal
	for _, g := range m.goals {
		if filter.EmployeeID != "" && g.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, g)
	}
	return out, len(out), nil
}

func (m *mockGoalRepo) ListByEmployee(ctx context.Context, employeeID string) ([]models.Goal, error) {
	var out []models.Goal
	for _, g := range m.goals {
		if g.EmployeeID == employeeID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGoalRepo) CountByEmployee(ctx context.Context, employeeID string) (int, error) {
	count := 0
	for _, g := range m.goals {
		if g.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

func (m *mockGoalRepo) Update(ctx context.Context, goal *models.Goal) error {
	m.goals[goal.ID] = *goal
	return nil
}

func (m *mockGoalRepo) SetStepDone(ctx context.Context, goalID, stepID string, done bool) error {
	return nil
}

func (m *mockGoalRepo) IsRespondent(ctx context.Context, goalID, userID string) (bool, error) {
	for _, id := range m.respondents[goalID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type mockReviewRepo struct {
	reviews    map[string]models.Review
	respondent map[string]models.RespondentReview
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{
		reviews:    make(map[string]models.Review),
		respondent: make(map[string]models.RespondentReview),
	}
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = "review-" + review.GoalID + "-" + string(review.Type)
	}
	m.reviews[review.ID] = *review
	return nil
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id string) (*models.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	review := r
	return &review, nil
}

func (m *mockReviewRepo) Find(ctx context.Context, goalID, reviewerID string, reviewType models.ReviewType) (*models.Review, error) {
	for _, r := range m.reviews {
		if r.GoalID == goalID && r.ReviewerID == reviewerID && r.Type == reviewType {
			review := r
			return &review, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockReviewRepo) ListByGoal(ctx context.Context, goalID string) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.GoalID == goalID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepo) UpdateScores(ctx context.Context, review *models.Review) error {
	m.reviews[review.ID] = *review
	return nil
}

func (m *mockReviewRepo) Finalize(ctx context.Context, id string, rating models.Rating, feedback string) error {
	r, ok := m.reviews[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.Finalized = true
	r.FinalRating = &rating
	r.Feedback = feedback
	m.reviews[id] = r
	return nil
}

func (m *mockReviewRepo) CreateRespondentReview(ctx context.Context, review *models.RespondentReview) error {
	if review.ID == "" {
		review.ID = "respondent-" + review.GoalID + "-" + review.RespondentID
	}
	m.respondent[review.ID] = *review
	return nil
}

func (m *mockReviewRepo) FindRespondentReview(ctx context.Context, goalID, respondentID string) (*models.RespondentReview, error) {
	for _, r := range m.respondent {
		if r.GoalID == goalID && r.RespondentID == respondentID {
			review := r
			return &review, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockReviewRepo) ListRespondentReviews(ctx context.Context, goalID string) ([]models.RespondentReview, error) {
	var out []models.RespondentReview
	for _, r := range m.respondent {
		if r.GoalID == goalID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockQuestionRepo struct {
	questions []models.QuestionTemplate
}

func (m *mockQuestionRepo) List(ctx context.Context, filter models.QuestionFilter) ([]models.QuestionTemplate, error) {
	var out []models.QuestionTemplate
	for _, q := range m.questions {
		if !filter.IncludeRetired && !q.Active {
			continue
		}
		if filter.Type != "" && q.Type != filter.Type {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (m *mockQuestionRepo) FindByID(ctx context.Context, id string) (*models.QuestionTemplate, error) {
	for _, q := range m.questions {
		if q.ID == id {
			question := q
			return &question, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockQuestionRepo) Create(ctx context.Context, q *models.QuestionTemplate) error {
	if q.ID == "" {
		q.ID = "question-" + q.Text
	}
	m.questions = append(m.questions, *q)
	return nil
}

func (m *mockQuestionRepo) Update(ctx context.Context, q *models.QuestionTemplate) error {
	for i := range m.questions {
		if m.questions[i].ID == q.ID {
			m.questions[i] = *q
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockQuestionRepo) Retire(ctx context.Context, id string) error {
	for i := range m.questions {
		if m.questions[i].ID == id {
			m.questions[i].Active = false
			return nil
		}
	}
	return sql.ErrNoRows
}

type mockNotifier struct {
	submitted       int
	respondent      int
	scoringRequired int
	statusChanged   int
	finalized       int
	lastPending     []string
}

func (m *mockNotifier) ReviewSubmitted(ctx context.Context, goal *models.Goal, review *models.Review) {
	m.submitted++
}

func (m *mockNotifier) RespondentSubmitted(ctx context.Context, goal *models.Goal, review *models.RespondentReview) {
	m.respondent++
}

func (m *mockNotifier) ScoringRequired(ctx context.Context, goal *models.Goal, review *models.Review, pending []string) {
	m.scoringRequired++
	m.lastPending = pending
}

func (m *mockNotifier) ReviewFinalized(ctx context.Context, goal *models.Goal, review *models.Review) {
	m.finalized++
}

func (m *mockNotifier) GoalStatusChanged(ctx context.Context, goal *models.Goal, actorID string) {
	m.statusChanged++
}

type mockInvalidator struct {
	invalidated []string
}

func (m *mockInvalidator) InvalidateGoal(ctx context.Context, goalID, employeeID string) {
	m.invalidated = append(m.invalidated, goalID)
}
