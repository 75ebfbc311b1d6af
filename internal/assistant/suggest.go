// Package assistant holds the rule based helpers behind the assistant views:
// urgency and priority filters, suggestions, task generation from a prompt,
// project summaries and chat replies. Everything is deterministic given the
// clock and the random source.
package assistant

import (
	"fmt"
	"sort"
	"time"

	"github.com/dori/projectflow/internal/model"
)

const (
	// maxListed caps the urgent and priority lists
	maxListed = 5
	// urgentWithinDays marks open tasks due this soon (or overdue) as urgent
	urgentWithinDays = 2
	// maxInProgress is the WIP count above which focusing is suggested
	maxInProgress = 5
	// maxUndated is the undated open task count above which due dates are suggested
	maxUndated = 3
	// staleAfterDays is how long a project may go without new tasks
	staleAfterDays = 7
)

const (
	msgLimitWIP    = "Consider focusing on completing current in-progress tasks before starting new ones."
	msgAddDueDates = "Adding due dates to your tasks will help with better time management and prioritization."
	msgAllGood     = "Great job! Your projects are well-organized and on track."
)

// ProjectTask is a task annotated with the project it belongs to
type ProjectTask struct {
	model.Task
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
}

// SmartSuggestions bundles the dashboard assistant output
type SmartSuggestions struct {
	UrgentTasks   []ProjectTask `json:"urgentTasks"`
	PriorityTasks []ProjectTask `json:"priorityTasks"`
	Suggestions   []string      `json:"suggestions"`
}

func allTasks(projects []model.Project) []ProjectTask {
	var out []ProjectTask
	for _, p := range projects {
		for _, t := range p.Tasks {
			out = append(out, ProjectTask{Task: t, ProjectID: p.ID, ProjectName: p.Name})
		}
	}
	return out
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

func capped(tasks []ProjectTask) []ProjectTask {
	if len(tasks) > maxListed {
		tasks = tasks[:maxListed]
	}
	if tasks == nil {
		return []ProjectTask{}
	}
	return tasks
}

// UrgentTasks returns open tasks due within two days or already overdue,
// soonest first, at most five
func UrgentTasks(projects []model.Project, now time.Time) []ProjectTask {
	var urgent []ProjectTask
	for _, t := range allTasks(projects) {
		if !t.IsOpen() {
			continue
		}
		days, ok := t.DaysUntilDue(now)
		if !ok || days > urgentWithinDays {
			continue
		}
		urgent = append(urgent, t)
	}

	sort.SliceStable(urgent, func(i, j int) bool {
		return urgent[i].DueDate.Before(*urgent[j].DueDate)
	})
	return capped(urgent)
}

// PriorityTasks returns open high priority tasks, dated ones first by due
// date, at most five
func PriorityTasks(projects []model.Project) []ProjectTask {
	var high []ProjectTask
	for _, t := range allTasks(projects) {
		if t.IsOpen() && t.Priority == model.PriorityHigh {
			high = append(high, t)
		}
	}

	sort.SliceStable(high, func(i, j int) bool {
		a, b := high[i].DueDate, high[j].DueDate
		switch {
		case a != nil && b != nil:
			return a.Before(*b)
		default:
			return a != nil && b == nil
		}
	})
	return capped(high)
}

// Suggestions returns the heuristic advice for the given projects. There is
// always at least one entry.
func Suggestions(projects []model.Project, now time.Time) []string {
	var out []string

	if n := len(UrgentTasks(projects, now)); n > 0 {
		out = append(out, fmt.Sprintf("You have %d urgent %s that need immediate attention.", n, plural(n, "task", "tasks")))
	}

	var inProgress, undated int
	for _, t := range allTasks(projects) {
		if t.Status == model.StatusInProgress {
			inProgress++
		}
		if t.IsOpen() && t.DueDate == nil {
			undated++
		}
	}
	if inProgress > maxInProgress {
		out = append(out, msgLimitWIP)
	}
	if undated > maxUndated {
		out = append(out, msgAddDueDates)
	}

	if n := staleProjects(projects, now); n > 0 {
		out = append(out, fmt.Sprintf("%d %s haven't had recent activity. Consider reviewing and updating them.", n, plural(n, "project", "projects")))
	}

	if len(out) == 0 {
		out = append(out, msgAllGood)
	}
	return out
}

// staleProjects counts projects with open work but no task created in the
// last week
func staleProjects(projects []model.Project, now time.Time) int {
	stale := 0
	for _, p := range projects {
		recent, open := false, false
		for _, t := range p.Tasks {
			if daysBetween(t.CreatedAt, now) <= staleAfterDays {
				recent = true
			}
			if t.IsOpen() {
				open = true
			}
		}
		if !recent && open {
			stale++
		}
	}
	return stale
}

// Smart computes the urgent list, the priority list and the suggestions
func Smart(projects []model.Project, now time.Time) SmartSuggestions {
	return SmartSuggestions{
		UrgentTasks:   UrgentTasks(projects, now),
		PriorityTasks: PriorityTasks(projects),
		Suggestions:   Suggestions(projects, now),
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
