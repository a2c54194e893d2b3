package model

const (
	TodoNotStarted = "not_started"
	TodoInProgress = "in_progress"
	TodoChecking   = "checking"
	TodoEvaluating = "evaluating"
	TodoReworked   = "reworked"
	TodoCompleted  = "completed"
)

// Todo is a task an employee files and an admin evaluates.
type Todo struct {
	ID            ID       `json:"id"`
	UserID        ID       `json:"user_id,omitempty"`
	User          *User    `json:"user,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      string   `json:"priority"`
	Status        string   `json:"status"`
	DueDate       string   `json:"due_date,omitempty"`
	TargetStartAt string   `json:"target_start_at,omitempty"`
	TargetEndAt   string   `json:"target_end_at,omitempty"`
	StartedAt     string   `json:"started_at,omitempty"`
	SubmittedAt   string   `json:"submitted_at,omitempty"`
	EvidenceFiles []string `json:"evidence_files,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	TotalWorkTime *float64 `json:"total_work_time,omitempty"`
	AdminNotes    string   `json:"admin_notes,omitempty"`
	WarningPoints int      `json:"warning_points,omitempty"`
}

// TodoInput is the create/edit form.
type TodoInput struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	Priority      string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate       string `json:"due_date"`
	TargetStartAt string `json:"target_start_at,omitempty"`
	TargetEndAt   string `json:"target_end_at,omitempty"`
}

// TodoEvaluation is the admin review payload.
type TodoEvaluation struct {
	Action        string `json:"action" binding:"required,oneof=approve rework"`
	Type          string `json:"type"`
	Notes         string `json:"notes"`
	WarningPoints int    `json:"warning_points"`
	WarningNote   string `json:"warning_note"`
}

// TodoStats is the reply of /todos/stats and /todos/stats/global.
type TodoStats struct {
	Daily              []PeriodCount `json:"daily"`
	Monthly            []PeriodCount `json:"monthly"`
	AvgDurationMinutes Number        `json:"avg_duration_minutes"`
}

// PeriodCount is one bucket of an aggregation endpoint, newest first.
type PeriodCount struct {
	Period    string `json:"period,omitempty"`
	Total     Number `json:"total"`
	Completed Number `json:"completed"`
}
