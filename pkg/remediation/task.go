package remediation

import (
	"time"
)

// Priority ranks remediation tasks
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// TaskStatus is the lifecycle state of a remediation task
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusCompleted  TaskStatus = "completed"
	StatusVerified   TaskStatus = "verified"
)

// ParseTaskStatus validates a status string from an external caller.
// Unknown values return false.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusNotStarted, StatusInProgress, StatusBlocked, StatusCompleted, StatusVerified:
		return TaskStatus(s), true
	default:
		return "", false
	}
}

// ActionItem is one checklist step within a remediation task
type ActionItem struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Hours     int    `json:"hours"`
	Completed bool   `json:"completed"`
}

// Task is an actionable unit of remediation work generated from a
// failed or needs-review control.
type Task struct {
	ID             string       `json:"id"`
	ControlID      string       `json:"control_id"`
	ControlTitle   string       `json:"control_title"`
	GapDescription string       `json:"gap_description"`
	Priority       Priority     `json:"priority"`
	Status         TaskStatus   `json:"status"`
	Category       string       `json:"category"`
	EstimatedHours int          `json:"estimated_hours"`
	AssignedTo     string       `json:"assigned_to,omitempty"`
	DueDate        time.Time    `json:"due_date"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Notes          []string     `json:"notes"`
	EvidenceLinks  []string     `json:"evidence_links"`
	ActionItems    []ActionItem `json:"action_items"`
}

// done reports whether a task no longer counts toward remaining work
func (t *Task) done() bool {
	return t.Status == StatusCompleted || t.Status == StatusVerified
}

// Plan owns the ordered remediation tasks generated from one analysis.
// Progress fields are derived from current task states on every call,
// never stored.
type Plan struct {
	ID                   string    `json:"id"`
	JobID                string    `json:"job_id"`
	Organization         string    `json:"organization_name"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	Tasks                []Task    `json:"tasks"`
	TargetCompletionDate time.Time `json:"target_completion_date"`
}

func (p *Plan) TotalTasks() int {
	return len(p.Tasks)
}

func (p *Plan) CompletedTasks() int {
	count := 0
	for i := range p.Tasks {
		if p.Tasks[i].done() {
			count++
		}
	}
	return count
}

func (p *Plan) ProgressPercentage() float64 {
	if len(p.Tasks) == 0 {
		return 100.0
	}
	return float64(p.CompletedTasks()) / float64(len(p.Tasks)) * 100
}

func (p *Plan) TotalEstimatedHours() int {
	total := 0
	for i := range p.Tasks {
		total += p.Tasks[i].EstimatedHours
	}
	return total
}

func (p *Plan) RemainingHours() int {
	total := 0
	for i := range p.Tasks {
		if !p.Tasks[i].done() {
			total += p.Tasks[i].EstimatedHours
		}
	}
	return total
}
