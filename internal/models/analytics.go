package models

import "time"

// Rating is the letter grade derived from a final blended score.
type Rating string

const (
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
)

// ComponentScores holds the per-source scores for a goal. A nil field
// means that component has not been submitted yet.
type ComponentScores struct {
	Self       *float64 `json:"self,omitempty"`
	Manager    *float64 `json:"manager,omitempty"`
	Respondent *float64 `json:"respondent,omitempty"`
	Potential  *float64 `json:"potential,omitempty"`
}

// PotentialBreakdown is the sectioned result of a potential review.
// Section scores and the total are on a 0-10 scale.
type PotentialBreakdown struct {
	Professional float64 `json:"professional"`
	Personal     float64 `json:"personal"`
	Development  float64 `json:"development"`
	Total        float64 `json:"total"`
	Performance  float64 `json:"performance"`
}

// GoalAnalytics is the blended analytics view of one goal.
type GoalAnalytics struct {
	GoalID          string              `json:"goal_id"`
	EmployeeID      string              `json:"employee_id"`
	Period          string              `json:"period"`
	Components      ComponentScores     `json:"components"`
	FinalScore      float64             `json:"final_score"`
	Rating          Rating              `json:"rating"`
	ReviewCount     int                 `json:"review_count"`
	RespondentCount int                 `json:"respondent_count"`
	Potential       *PotentialBreakdown `json:"potential_breakdown,omitempty"`
	Recommendations []string            `json:"recommendations,omitempty"`
	GeneratedAt     time.Time           `json:"generated_at"`
}

// EmployeeSummary aggregates analytics across an employee's goals.
type EmployeeSummary struct {
	EmployeeID     string          `json:"employee_id"`
	FullName       string          `json:"full_name"`
	Period         string          `json:"period"`
	GoalCount      int             `json:"goal_count"`
	CompletedGoals int             `json:"completed_goals"`
	ScoredGoals    int             `json:"scored_goals"`
	AverageScore   float64         `json:"average_score"`
	Rating         Rating          `json:"rating"`
	Goals          []GoalAnalytics `json:"goals,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// AnalyticsSystemMetrics is a lightweight instrumentation snapshot
// served alongside the analytics endpoints.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// TeamSummary aggregates analytics across a manager's direct reports.
type TeamSummary struct {
	ManagerID   string            `json:"manager_id"`
	Period      string            `json:"period"`
	Employees   []EmployeeSummary `json:"employees"`
	GeneratedAt time.Time         `json:"generated_at"`
}
