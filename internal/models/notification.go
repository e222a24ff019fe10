package models

import "time"

// NotificationKind tags the event a notification was produced for.
type NotificationKind string

const (
	NotificationReviewSubmitted     NotificationKind = "review_submitted"
	NotificationRespondentSubmitted NotificationKind = "respondent_submitted"
	NotificationScoringRequired     NotificationKind = "scoring_required"
	NotificationReviewFinalized     NotificationKind = "review_finalized"
	NotificationGoalStatusChanged   NotificationKind = "goal_status_changed"
)

// Notification is an in-app message delivered to a single user.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	Kind      NotificationKind `db:"kind" json:"kind"`
	Title     string           `db:"title" json:"title"`
	Body      string           `db:"body" json:"body"`
	GoalID    *string          `db:"goal_id" json:"goal_id,omitempty"`
	Read      bool             `db:"read" json:"read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// NotificationFilter scopes notification listing.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PerPage    int
}
