package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/latency"
	"github.com/dori/projectflow/internal/state"
	"github.com/dori/projectflow/internal/storage"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newProvider(t *testing.T, signIn bool) *state.Provider {
	t.Helper()
	store := storage.NewStore(storage.NewMemoryBackend(), storage.WithClock(clock))
	p := state.NewProvider(api.New(store, api.WithClock(clock)), nil)
	if signIn {
		require.True(t, p.Login(context.Background(), "ada@example.com", "pw"))
	}
	return p
}

func newService() *assistant.Service {
	return assistant.NewService(latency.Disabled(), assistant.NewRand(1), clock)
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type ownedModel interface {
	tea.Model
	Owns(tea.Msg) bool
}

// settle runs cmd and feeds every message the view owns back into it until
// no command is left. Notices are collected; anything else is dropped.
func settle[M ownedModel](v M, cmd tea.Cmd) (M, []Notice) {
	var notices []Notice
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case Notice:
			notices = append(notices, msg)
		default:
			if v.Owns(msg) {
				next, more := v.Update(msg)
				v = next.(M)
				queue = append(queue, more)
			}
		}
	}
	return v, notices
}

// send delivers a key press and settles the resulting commands
func send[M ownedModel](v M, key string) (M, []Notice) {
	next, cmd := v.Update(press(key))
	return settle(next.(M), cmd)
}

func texts(notices []Notice) []string {
	out := []string{}
	for _, n := range notices {
		out = append(out, n.Text)
	}
	return out
}
