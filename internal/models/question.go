package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReviewType identifies the evaluation flow a question belongs to.
type ReviewType string

const (
	ReviewTypeSelf       ReviewType = "self"
	ReviewTypeManager    ReviewType = "manager"
	ReviewTypePotential  ReviewType = "potential"
	ReviewTypeRespondent ReviewType = "respondent"
)

// Valid reports whether the review type is one of the known values.
func (t ReviewType) Valid() bool {
	switch t {
	case ReviewTypeSelf, ReviewTypeManager, ReviewTypePotential, ReviewTypeRespondent:
		return true
	}
	return false
}

// Potential-score section tags recognised by the potential calculator.
const (
	SectionProfessional = "professional"
	SectionPersonal     = "personal"
	SectionDevelopment  = "development"
)

// AnswerOption is a selectable answer with a point value.
type AnswerOption struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	OrderIndex int     `json:"order_index"`
}

// StringList stores a JSON-encoded list of strings in a single column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l, "string list")
}

// OptionList stores JSON-encoded answer options in a single column.
type OptionList []AnswerOption

// Value implements driver.Valuer.
func (l OptionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *OptionList) Scan(src interface{}) error {
	return scanJSON(src, l, "option list")
}

// QuestionTemplate defines a scoring question in the catalog.
type QuestionTemplate struct {
	ID                     string     `db:"id" json:"id"`
	Text                   string     `db:"question_text" json:"question_text"`
	Type                   ReviewType `db:"question_type" json:"question_type"`
	Section                string     `db:"section" json:"section,omitempty"`
	Weight                 float64    `db:"weight" json:"weight"`
	MaxScore               int        `db:"max_score" json:"max_score"`
	OrderIndex             int        `db:"order_index" json:"order_index"`
	TriggerWords           StringList `db:"trigger_words" json:"trigger_words,omitempty"`
	Options                OptionList `db:"options" json:"options,omitempty"`
	RequiresManagerScoring bool       `db:"requires_manager_scoring" json:"requires_manager_scoring"`
	Active                 bool       `db:"active" json:"active"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// OptionValue returns the point value for the option with the given id.
func (q *QuestionTemplate) OptionValue(optionID string) (float64, bool) {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt.Value, true
		}
	}
	return 0, false
}

// CreateQuestionRequest is the payload for adding a catalog question.
// A zero max score is rejected here so the calculators never divide by
// zero downstream. An omitted weight defaults to 1.0.
type CreateQuestionRequest struct {
	Text                   string         `json:"question_text" validate:"required,min=3"`
	Type                   ReviewType     `json:"question_type" validate:"required,oneof=self manager potential respondent"`
	Section                string         `json:"section"`
	Weight                 float64        `json:"weight" validate:"gte=0"`
	MaxScore               int            `json:"max_score" validate:"gte=1"`
	OrderIndex             int            `json:"order_index" validate:"gte=0"`
	TriggerWords           []string       `json:"trigger_words"`
	Options                []AnswerOption `json:"options" validate:"dive"`
	RequiresManagerScoring bool           `json:"requires_manager_scoring"`
}

// UpdateQuestionRequest carries mutable catalog question fields.
type UpdateQuestionRequest struct {
	Text         *string  `json:"question_text" validate:"omitempty,min=3"`
	Weight       *float64 `json:"weight" validate:"omitempty,gt=0"`
	MaxScore     *int     `json:"max_score" validate:"omitempty,gte=1"`
	OrderIndex   *int     `json:"order_index" validate:"omitempty,gte=0"`
	TriggerWords []string `json:"trigger_words"`
}

// QuestionFilter scopes catalog queries.
type QuestionFilter struct {
	Type           ReviewType
	Section        string
	IncludeRetired bool
}

func scanJSON(src interface{}, dest interface{}, label string) error {
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
		return fmt.Errorf("unsupported %s source type %T", label, src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
