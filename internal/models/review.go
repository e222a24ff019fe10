package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// answerSetVersion is bumped whenever the stored answer payload changes shape.
const answerSetVersion = 1

// Answer is a single response to a catalog question.
type Answer struct {
	QuestionID string   `json:"question_id"`
	Text       string   `json:"text,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	OptionID   string   `json:"option_id,omitempty"`
}

// AnswerSet is the versioned collection of answers stored as a single
// JSONB column.
type AnswerSet struct {
	Version int      `json:"version"`
	Answers []Answer `json:"answers"`
}

// NewAnswerSet wraps answers at the current payload version.
func NewAnswerSet(answers []Answer) AnswerSet {
	return AnswerSet{Version: answerSetVersion, Answers: answers}
}

// ByQuestion indexes the answers by question id. Later duplicates win.
func (s AnswerSet) ByQuestion() map[string]Answer {
	out := make(map[string]Answer, len(s.Answers))
	for _, a := range s.Answers {
		out[a.QuestionID] = a
	}
	return out
}

// Value implements driver.Valuer.
func (s AnswerSet) Value() (driver.Value, error) {
	if s.Version == 0 {
		s.Version = answerSetVersion
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner. Legacy rows stored a bare answer array;
// those are read back as version 1.
func (s *AnswerSet) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported answer set source type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '[' {
		var answers []Answer
		if err := json.Unmarshal(raw, &answers); err != nil {
			return err
		}
		s.Version = answerSetVersion
		s.Answers = answers
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Review is a submitted evaluation of a goal by its owner or their manager.
type Review struct {
	ID             string     `db:"id" json:"id"`
	GoalID         string     `db:"goal_id" json:"goal_id"`
	ReviewerID     string     `db:"reviewer_id" json:"reviewer_id"`
	Type           ReviewType `db:"review_type" json:"review_type"`
	Answers        AnswerSet  `db:"answers" json:"answers"`
	WeightedScore  *float64   `db:"weighted_score" json:"weighted_score,omitempty"`
	PotentialScore *float64   `db:"potential_score" json:"potential_score,omitempty"`
	Finalized      bool       `db:"finalized" json:"finalized"`
	FinalRating    *Rating    `db:"final_rating" json:"final_rating,omitempty"`
	Feedback       string     `db:"feedback" json:"feedback,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// RespondentReview is a peer evaluation attached to a goal.
type RespondentReview struct {
	ID            string    `db:"id" json:"id"`
	GoalID        string    `db:"goal_id" json:"goal_id"`
	RespondentID  string    `db:"respondent_id" json:"respondent_id"`
	Answers       AnswerSet `db:"answers" json:"answers"`
	WeightedScore *float64  `db:"weighted_score" json:"weighted_score,omitempty"`
	Comments      string    `db:"comments" json:"comments,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// SubmitReviewRequest is the payload for submitting a self, manager or
// potential review of a goal.
type SubmitReviewRequest struct {
	GoalID  string     `json:"goal_id" validate:"required"`
	Type    ReviewType `json:"review_type" validate:"required,oneof=self manager potential"`
	Answers []Answer   `json:"answers" validate:"required,min=1,dive"`
}

// SubmitRespondentReviewRequest is the payload for a peer review.
type SubmitRespondentReviewRequest struct {
	GoalID   string   `json:"goal_id" validate:"required"`
	Answers  []Answer `json:"answers" validate:"required,min=1,dive"`
	Comments string   `json:"comments" validate:"max=4000"`
}

// FinalizeReviewRequest carries the manager's closing feedback.
type FinalizeReviewRequest struct {
	Feedback string `json:"feedback" validate:"max=4000"`
}

// ScoreAnswersRequest carries retroactive manager scores for answers
// whose questions require manager scoring.
type ScoreAnswersRequest struct {
	Scores map[string]float64 `json:"scores" validate:"required,min=1"`
}
