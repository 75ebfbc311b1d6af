package storage

import (
	"time"

	"github.com/dori/projectflow/internal/model"
)

const day = 24 * time.Hour

// Seed returns the sample document written on first run: two projects with
// pre-populated tasks, dated relative to now.
func Seed(now time.Time) model.Document {
	at := func(offset time.Duration) time.Time { return now.Add(offset).UTC() }
	due := func(offset time.Duration) *time.Time {
		t := at(offset)
		return &t
	}

	return model.Document{
		Users: []model.User{},
		Projects: []model.Project{
			{
				ID:          "1",
				Name:        "Website Redesign",
				Description: "Complete redesign of company website with modern UI/UX",
				CreatedAt:   at(-7 * day),
				Tasks: []model.Task{
					{
						ID:          "1",
						Title:       "Create wireframes",
						Description: "Design initial wireframes for all main pages",
						Status:      model.StatusDone,
						Priority:    model.PriorityHigh,
						CreatedAt:   at(-6 * day),
					},
					{
						ID:          "2",
						Title:       "Design homepage",
						Description: "Create high-fidelity designs for the homepage",
						Status:      model.StatusInProgress,
						Priority:    model.PriorityHigh,
						DueDate:     due(3 * day),
						CreatedAt:   at(-4 * day),
					},
					{
						ID:          "3",
						Title:       "Implement responsive design",
						Description: "Ensure all pages work perfectly on mobile devices",
						Status:      model.StatusTodo,
						Priority:    model.PriorityMedium,
						DueDate:     due(7 * day),
						CreatedAt:   at(-2 * day),
					},
				},
			},
			{
				ID:          "2",
				Name:        "Mobile App Development",
				Description: "Build native mobile app for iOS and Android",
				CreatedAt:   at(-14 * day),
				Tasks: []model.Task{
					{
						ID:          "4",
						Title:       "Setup development environment",
						Description: "Configure React Native development environment",
						Status:      model.StatusDone,
						Priority:    model.PriorityHigh,
						CreatedAt:   at(-12 * day),
					},
					{
						ID:          "5",
						Title:       "Create authentication flow",
						Description: "Implement login and registration screens",
						Status:      model.StatusInProgress,
						Priority:    model.PriorityHigh,
						DueDate:     due(5 * day),
						CreatedAt:   at(-8 * day),
					},
				},
			},
		},
		CurrentUser: nil,
	}
}
