// Package views holds the screens of the terminal front end. Each view is a
// value type with the bubbletea Init/Update/View trio plus SetSize and
// IsInputMode, and talks to storage only through the state provider.
package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// requestTimeout bounds one provider call, simulated latency included
const requestTimeout = 30 * time.Second

// Notice asks the root model to show a status or error line
type Notice struct {
	Text  string
	Error bool
}

// OpenBoardRequest asks the root model to show the board of a project
type OpenBoardRequest struct {
	ProjectID string
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return Notice{Text: text} }
}

func failure(text string) tea.Cmd {
	return func() tea.Msg { return Notice{Text: text, Error: true} }
}

// run executes fn with a bounded context
func run[T any](fn func(ctx context.Context) T) T {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return fn(ctx)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
