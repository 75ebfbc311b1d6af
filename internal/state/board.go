package state

import (
	"context"

	"github.com/dori/projectflow/internal/model"
)

// DragPayload is what a board carries while a card is picked up
type DragPayload struct {
	TaskID       string       `json:"taskId"`
	SourceStatus model.Status `json:"sourceStatus"`
}

// PickUp starts dragging t
func PickUp(t model.Task) DragPayload {
	return DragPayload{TaskID: t.ID, SourceStatus: t.Status}
}

// Column is one status lane of a board
type Column struct {
	Status model.Status `json:"status"`
	Title  string       `json:"title"`
	Tasks  []model.Task `json:"tasks"`
}

// BuildBoard groups the tasks of project into the three status columns,
// keeping project order within each column
func BuildBoard(project *model.Project) []Column {
	statuses := model.Statuses()
	columns := make([]Column, len(statuses))
	index := make(map[model.Status]int, len(statuses))
	for i, s := range statuses {
		columns[i] = Column{Status: s, Title: s.Label(), Tasks: []model.Task{}}
		index[s] = i
	}
	for _, t := range project.Tasks {
		if i, ok := index[t.Status]; ok {
			columns[i].Tasks = append(columns[i].Tasks, t)
		}
	}
	return columns
}

// Board returns the columns of a loaded project. The second value is false
// when the project is not loaded.
func (p *Provider) Board(projectID string) ([]Column, bool) {
	project := p.Project(projectID)
	if project == nil {
		return nil, false
	}
	return BuildBoard(project), true
}

// Drop moves the dragged task into target. The stored status decides
// whether anything changes, so a stale payload still lands the card and
// dropping it on its current column writes nothing. Unknown tasks report
// false.
func (p *Provider) Drop(ctx context.Context, projectID string, payload DragPayload, target model.Status) bool {
	return p.MoveTask(ctx, projectID, payload.TaskID, target) != nil
}
