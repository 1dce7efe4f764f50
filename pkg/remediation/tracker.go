// Package remediation turns compliance gaps into prioritized, scheduled
// remediation tasks and tracks their lifecycle in a process-local plan
// registry.
package remediation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/shieldagent/pkg/analyzer"
)

var (
	ErrPlanNotFound = errors.New("remediation plan not found")
	ErrTaskNotFound = errors.New("remediation task not found")
)

// StatusSummary is the point-in-time rollup of a plan's tasks
type StatusSummary struct {
	PlanID             string             `json:"plan_id"`
	ProgressPercentage float64            `json:"progress_percentage"`
	TotalTasks         int                `json:"total_tasks"`
	CompletedTasks     int                `json:"completed_tasks"`
	StatusBreakdown    map[TaskStatus]int `json:"status_breakdown"`
	PriorityBreakdown  map[Priority]int   `json:"priority_breakdown"`
	TotalHours         int                `json:"total_hours"`
	RemainingHours     int                `json:"remaining_hours"`
	OverdueTasks       []Task             `json:"overdue_tasks"`
	DaysUntilTarget    int                `json:"days_until_target"`
}

// Tracker manages remediation plans in memory. Plans vanish on process
// restart; durability belongs to an external store. All registry access is
// serialized through a single mutex since callers may update tasks
// concurrently.
type Tracker struct {
	// Classify maps a gap description to an action-item template key.
	// Swappable for a better classifier without touching callers.
	Classify GapTypeFunc

	mu    sync.Mutex
	plans map[string]*Plan
	now   func() time.Time
	log   *zap.Logger
}

func NewTracker(log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		Classify: ClassifyGapType,
		plans:    make(map[string]*Plan),
		now:      time.Now,
		log:      log,
	}
}

// CreatePlanFromAnalysis builds a remediation plan from analysis results:
// one task per failed or needs-review control, prioritized, scheduled and
// stored in the registry.
func (tr *Tracker) CreatePlanFromAnalysis(jobID string, controls []analyzer.ControlResult, orgName string, weeksToComplete int) *Plan {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	now := tr.now()

	var tasks []Task
	for _, ctrl := range controls {
		if ctrl.Status != analyzer.StatusFail && ctrl.Status != analyzer.StatusNeedsReview {
			continue
		}
		tasks = append(tasks, tr.taskFromControl(ctrl, now))
	}

	// Stable sort keeps original control order within each priority band
	rank := map[Priority]int{
		PriorityCritical: 0,
		PriorityHigh:     1,
		PriorityMedium:   2,
		PriorityLow:      3,
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return rank[tasks[i].Priority] < rank[tasks[j].Priority]
	})

	assignDueDates(tasks, now, weeksToComplete)

	plan := &Plan{
		ID:                   uuid.NewString(),
		JobID:                jobID,
		Organization:         orgName,
		CreatedAt:            now,
		UpdatedAt:            now,
		Tasks:                tasks,
		TargetCompletionDate: now.AddDate(0, 0, weeksToComplete*7),
	}
	tr.plans[plan.ID] = plan

	tr.log.Info("remediation plan created",
		zap.String("plan_id", plan.ID),
		zap.String("job_id", jobID),
		zap.Int("tasks", len(tasks)))

	snapshot := clonePlan(plan)
	return &snapshot
}

func (tr *Tracker) taskFromControl(ctrl analyzer.ControlResult, now time.Time) Task {
	var priority Priority
	switch {
	case ctrl.Status == analyzer.StatusFail:
		priority = PriorityCritical
	case ctrl.Confidence < 0.5:
		priority = PriorityHigh
	default:
		priority = PriorityMedium
	}

	gapDescription := strings.Join(ctrl.Gaps, " ")
	if gapDescription == "" {
		gapDescription = ctrl.Summary
	}

	classify := tr.Classify
	if classify == nil {
		classify = ClassifyGapType
	}
	items := actionItemsFor(classify(gapDescription))

	hours := 0
	for _, item := range items {
		hours += item.Hours
	}

	return Task{
		ID:             uuid.NewString(),
		ControlID:      ctrl.ControlID,
		ControlTitle:   ctrl.Title,
		GapDescription: gapDescription,
		Priority:       priority,
		Status:         StatusNotStarted,
		Category:       ctrl.Category,
		EstimatedHours: hours,
		CreatedAt:      now,
		UpdatedAt:      now,
		Notes:          []string{},
		EvidenceLinks:  []string{},
		ActionItems:    items,
	}
}

// Due-date offsets are fixed per priority regardless of task count; only
// low-priority tasks stretch to the plan's full window.
func assignDueDates(tasks []Task, start time.Time, totalWeeks int) {
	deadlines := map[Priority]time.Time{
		PriorityCritical: start.AddDate(0, 0, 2*7),
		PriorityHigh:     start.AddDate(0, 0, 4*7),
		PriorityMedium:   start.AddDate(0, 0, 8*7),
		PriorityLow:      start.AddDate(0, 0, totalWeeks*7),
	}
	for i := range tasks {
		tasks[i].DueDate = deadlines[tasks[i].Priority]
	}
}

// GetPlan returns a snapshot of the plan with the given id
func (tr *Tracker) GetPlan(planID string) (*Plan, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	plan, ok := tr.plans[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	snapshot := clonePlan(plan)
	return &snapshot, nil
}

// ListPlans returns snapshots of all plans, newest first
func (tr *Tracker) ListPlans() []Plan {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	plans := make([]Plan, 0, len(tr.plans))
	for _, p := range tr.plans {
		plans = append(plans, clonePlan(p))
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans
}

// UpdateTaskStatus mutates a task's status, appends a timestamped note if
// provided and bumps both the task's and the plan's updated_at.
func (tr *Tracker) UpdateTaskStatus(planID, taskID string, status TaskStatus, note string) (*Task, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	plan, ok := tr.plans[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}

	for i := range plan.Tasks {
		task := &plan.Tasks[i]
		if task.ID != taskID {
			continue
		}
		now := tr.now()
		task.Status = status
		task.UpdatedAt = now
		if note != "" {
			task.Notes = append(task.Notes, fmt.Sprintf("[%s] %s", now.Format(time.RFC3339), note))
		}
		plan.UpdatedAt = now

		snapshot := cloneTask(task)
		return &snapshot, nil
	}
	return nil, ErrTaskNotFound
}

// CompleteActionItem marks one checklist step of a task as completed
func (tr *Tracker) CompleteActionItem(planID, taskID, itemID string) (*Task, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	plan, ok := tr.plans[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}

	for i := range plan.Tasks {
		task := &plan.Tasks[i]
		if task.ID != taskID {
			continue
		}
		for j := range task.ActionItems {
			if task.ActionItems[j].ID != itemID {
				continue
			}
			now := tr.now()
			task.ActionItems[j].Completed = true
			task.UpdatedAt = now
			plan.UpdatedAt = now

			snapshot := cloneTask(task)
			return &snapshot, nil
		}
		return nil, ErrTaskNotFound
	}
	return nil, ErrTaskNotFound
}

// StatusSummary derives the current status rollup for a plan. It is
// computed fresh from task states on every call.
func (tr *Tracker) StatusSummary(planID string) (*StatusSummary, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	plan, ok := tr.plans[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}

	summary := &StatusSummary{
		PlanID:             planID,
		ProgressPercentage: round1(plan.ProgressPercentage()),
		TotalTasks:         plan.TotalTasks(),
		CompletedTasks:     plan.CompletedTasks(),
		StatusBreakdown: map[TaskStatus]int{
			StatusNotStarted: 0,
			StatusInProgress: 0,
			StatusBlocked:    0,
			StatusCompleted:  0,
			StatusVerified:   0,
		},
		PriorityBreakdown: map[Priority]int{
			PriorityCritical: 0,
			PriorityHigh:     0,
			PriorityMedium:   0,
			PriorityLow:      0,
		},
		TotalHours:     plan.TotalEstimatedHours(),
		RemainingHours: plan.RemainingHours(),
	}

	now := tr.now()
	for i := range plan.Tasks {
		task := &plan.Tasks[i]
		summary.StatusBreakdown[task.Status]++
		summary.PriorityBreakdown[task.Priority]++
		if task.DueDate.Before(now) && !task.done() {
			summary.OverdueTasks = append(summary.OverdueTasks, cloneTask(task))
		}
	}
	summary.DaysUntilTarget = int(plan.TargetCompletionDate.Sub(now).Hours() / 24)

	return summary, nil
}

func clonePlan(p *Plan) Plan {
	out := *p
	out.Tasks = make([]Task, len(p.Tasks))
	for i := range p.Tasks {
		out.Tasks[i] = cloneTask(&p.Tasks[i])
	}
	return out
}

func cloneTask(t *Task) Task {
	out := *t
	out.Notes = append([]string(nil), t.Notes...)
	out.EvidenceLinks = append([]string(nil), t.EvidenceLinks...)
	out.ActionItems = append([]ActionItem(nil), t.ActionItems...)
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
