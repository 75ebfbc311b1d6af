package model

import (
	"time"
)

// Project groups an ordered list of tasks
type Project struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	Tasks       []Task    `json:"tasks" yaml:"tasks"`
}

// FindTask returns the task with the given id, or nil
func (p *Project) FindTask(id string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// CountByStatus returns the number of tasks in each status
func (p *Project) CountByStatus() map[Status]int {
	counts := map[Status]int{
		StatusTodo:       0,
		StatusInProgress: 0,
		StatusDone:       0,
	}
	for _, t := range p.Tasks {
		counts[t.Status]++
	}
	return counts
}

// Clone returns a deep copy of the project
func (p Project) Clone() Project {
	out := p
	if p.Tasks != nil {
		out.Tasks = make([]Task, len(p.Tasks))
		for i, t := range p.Tasks {
			out.Tasks[i] = t.clone()
		}
	}
	return out
}

func (t Task) clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
