package assistant

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dori/projectflow/internal/model"
)

// CompletionRate returns the rounded percentage of done tasks, 0 for an
// empty project
func CompletionRate(p *model.Project) int {
	if len(p.Tasks) == 0 {
		return 0
	}
	done := p.CountByStatus()[model.StatusDone]
	return int(math.Round(float64(done) / float64(len(p.Tasks)) * 100))
}

// SummarizeProject renders a markdown progress report for p
func SummarizeProject(p *model.Project, now time.Time) string {
	counts := p.CountByStatus()
	rate := CompletionRate(p)

	var overdue, highOpen int
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.IsOverdue(now) {
			overdue++
		}
		if t.IsOpen() && t.Priority == model.PriorityHigh {
			highOpen++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** is currently %d%% complete with %d total tasks.\n\n", p.Name, rate, len(p.Tasks))

	b.WriteString("**Progress Breakdown:**\n")
	fmt.Fprintf(&b, "• ✅ Completed: %d tasks\n", counts[model.StatusDone])
	fmt.Fprintf(&b, "• 🔄 In Progress: %d tasks\n", counts[model.StatusInProgress])
	fmt.Fprintf(&b, "• 📋 To Do: %d tasks\n\n", counts[model.StatusTodo])

	if overdue > 0 {
		fmt.Fprintf(&b, "⚠️ **Attention:** %d %s overdue and %s immediate attention.\n\n",
			overdue, plural(overdue, "task is", "tasks are"), plural(overdue, "needs", "need"))
	}
	if highOpen > 0 {
		fmt.Fprintf(&b, "🔥 **High Priority:** %d high-priority %s focus.\n\n",
			highOpen, plural(highOpen, "task requires", "tasks require"))
	}

	b.WriteString(healthLine(rate))
	return b.String()
}

func healthLine(rate int) string {
	switch {
	case rate >= 80:
		return "🎉 **Status:** Project is nearing completion! Great progress on all fronts."
	case rate >= 60:
		return "📈 **Status:** Project is making solid progress. Keep up the momentum!"
	case rate >= 40:
		return "⚡ **Status:** Project is in active development. Consider prioritizing high-impact tasks."
	case rate >= 20:
		return "🚀 **Status:** Project is in early stages. Focus on establishing core foundations."
	default:
		return "🌱 **Status:** Project is just getting started. Consider breaking down large tasks into smaller, manageable pieces."
	}
}

// Insights is the analysis shown next to a project board
type Insights struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// ProjectInsights inspects the status and priority mix and the upcoming
// deadlines of p
func ProjectInsights(p *model.Project, now time.Time) Insights {
	var out Insights
	counts := p.CountByStatus()

	if counts[model.StatusInProgress] > counts[model.StatusTodo]+counts[model.StatusDone] {
		out.Insights = append(out.Insights, "High number of tasks in progress - team might be multitasking heavily")
		out.Recommendations = append(out.Recommendations, "Consider limiting work-in-progress to improve focus and completion rate")
	}

	high := 0
	for _, t := range p.Tasks {
		if t.Priority == model.PriorityHigh {
			high++
		}
	}
	if float64(high) > float64(len(p.Tasks))*0.5 {
		out.Insights = append(out.Insights, "Over 50% of tasks are marked as high priority")
		out.Recommendations = append(out.Recommendations, "Review task priorities to ensure proper focus on truly critical items")
	}

	var upcoming, doneThisWeek int
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if days, ok := t.DaysUntilDue(now); ok && t.IsOpen() && days > 0 && days <= 7 {
			upcoming++
		}
		// Tasks carry no completion time, so creation time stands in for it
		if !t.IsOpen() && daysBetween(t.CreatedAt, now) <= 7 {
			doneThisWeek++
		}
	}
	if upcoming > 0 {
		out.Insights = append(out.Insights, fmt.Sprintf("%d %s due within the next week", upcoming, plural(upcoming, "task", "tasks")))
	}
	if doneThisWeek > 0 {
		out.Insights = append(out.Insights, fmt.Sprintf("%d %s completed this week", doneThisWeek, plural(doneThisWeek, "task", "tasks")))
	}

	if len(out.Insights) == 0 {
		out.Insights = []string{"Project is well-balanced with good task distribution"}
	}
	if len(out.Recommendations) == 0 {
		out.Recommendations = []string{"Continue with current workflow - project appears to be on track"}
	}
	return out
}
