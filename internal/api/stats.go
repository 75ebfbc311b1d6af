package api

import (
	"context"
	"time"

	"github.com/dori/projectflow/internal/latency"
	"github.com/dori/projectflow/internal/model"
)

// ProjectStats counts the tasks of one project
type ProjectStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Todo       int `json:"todo"`
	Overdue    int `json:"overdue"`
}

// OverallStats counts across every project
type OverallStats struct {
	Projects  int `json:"projects"`
	Tasks     int `json:"tasks"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// StatsFor computes the counters of p at now
func StatsFor(p *model.Project, now time.Time) ProjectStats {
	counts := p.CountByStatus()
	stats := ProjectStats{
		Total:      len(p.Tasks),
		Completed:  counts[model.StatusDone],
		InProgress: counts[model.StatusInProgress],
		Todo:       counts[model.StatusTodo],
	}
	for i := range p.Tasks {
		if p.Tasks[i].IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

// OverallStatsFor computes the counters across projects at now
func OverallStatsFor(projects []model.Project, now time.Time) OverallStats {
	stats := OverallStats{Projects: len(projects)}
	for i := range projects {
		s := StatsFor(&projects[i], now)
		stats.Tasks += s.Total
		stats.Completed += s.Completed
		stats.Overdue += s.Overdue
	}
	return stats
}

// ProjectStats returns the counters of one project. A missing project
// yields all zeros.
func (c *Client) ProjectStats(ctx context.Context, projectID string) (ProjectStats, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return ProjectStats{}, err
	}

	doc := c.store.Read(ctx)
	p := doc.FindProject(projectID)
	if p == nil {
		return ProjectStats{}, nil
	}
	return StatsFor(p, c.now()), nil
}

// AllProjectsStats returns the counters across every project
func (c *Client) AllProjectsStats(ctx context.Context) (OverallStats, error) {
	if err := c.wait(ctx, latency.Default); err != nil {
		return OverallStats{}, err
	}
	return OverallStatsFor(c.store.Read(ctx).Projects, c.now()), nil
}
