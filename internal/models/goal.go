package models

import "time"

// GoalStatus is the lifecycle state of a performance goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// CanTransitionTo reports whether the status change is allowed.
// Only active goals may move, and only to a terminal state.
func (s GoalStatus) CanTransitionTo(next GoalStatus) bool {
	if s != GoalStatusActive {
		return false
	}
	return next == GoalStatusCompleted || next == GoalStatusCancelled
}

// Goal is a performance goal owned by an employee for a review period.
type Goal struct {
	ID          string     `db:"id" json:"id"`
	EmployeeID  string     `db:"employee_id" json:"employee_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	Period      string     `db:"period" json:"period"`
	Status      GoalStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	Steps       []GoalStep `db:"-" json:"steps,omitempty"`
	Respondents []string   `db:"-" json:"respondents,omitempty"`
}

// GoalStep is an intermediate milestone under a goal.
type GoalStep struct {
	ID          string    `db:"id" json:"id"`
	GoalID      string    `db:"goal_id" json:"goal_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	OrderIndex  int       `db:"order_index" json:"order_index"`
	Done        bool      `db:"done" json:"done"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GoalRespondent links a peer reviewer to a goal.
type GoalRespondent struct {
	GoalID       string    `db:"goal_id" json:"goal_id"`
	RespondentID string    `db:"respondent_id" json:"respondent_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CreateGoalRequest is the payload for opening a new goal.
type CreateGoalRequest struct {
	Title       string                  `json:"title" validate:"required,min=3,max=200"`
	Description string                  `json:"description" validate:"max=2000"`
	Period      string                  `json:"period" validate:"required"`
	Steps       []CreateGoalStepRequest `json:"steps" validate:"max=3,dive"`
	Respondents []string                `json:"respondents" validate:"max=5,dive,required"`
}

// CreateGoalStepRequest is one step in a goal creation payload.
type CreateGoalStepRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateGoalRequest carries mutable goal fields.
type UpdateGoalRequest struct {
	Title       *string     `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string     `json:"description" validate:"omitempty,max=2000"`
	Status      *GoalStatus `json:"status" validate:"omitempty,oneof=completed cancelled"`
}

// GoalFilter scopes goal listing.
type GoalFilter struct {
	EmployeeID string
	Period     string
	Status     GoalStatus
	Page       int
	PerPage    int
}
