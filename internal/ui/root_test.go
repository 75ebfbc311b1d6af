package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/projectflow/internal/app"
	"github.com/dori/projectflow/internal/config"
	"github.com/dori/projectflow/internal/ui/theme"
	"github.com/dori/projectflow/internal/ui/views"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Latency.Enabled = false
	cfg.Logging.Dir = filepath.Join(dir, "logs")
	cfg.UI.Theme = "nord"

	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a, err := app.New(cfg, app.Options{Clock: func() time.Time { return fixed }})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func update(t *testing.T, m RootModel, msg tea.Msg) (RootModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(RootModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func start(t *testing.T, a *app.App) RootModel {
	t.Helper()
	m := NewRootModel(a)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, cmd := update(t, m, m.Init()())
	if m.signedIn {
		m, _ = update(t, m, cmd())
	}
	return m
}

func TestStartWithoutSession(t *testing.T) {
	m := start(t, newTestApp(t))

	assert.False(t, m.signedIn)
	assert.True(t, m.inputMode())
	assert.Contains(t, m.View(), "Sign in to projectflow")
}

func TestStartWithSession(t *testing.T) {
	a := newTestApp(t)
	require.True(t, a.State.Login(context.Background(), "ada@example.com", "pw"))

	m := start(t, a)

	assert.True(t, m.signedIn)
	assert.Equal(t, ViewDashboard, m.currentView)
	assert.Contains(t, m.View(), "Website Redesign")
}

func TestSignedInSwitchesToDashboard(t *testing.T) {
	a := newTestApp(t)
	m := start(t, a)
	require.True(t, a.State.Login(context.Background(), "ada@example.com", "pw"))

	m, cmd := update(t, m, views.SignedInMsg{})

	assert.True(t, m.signedIn)
	assert.Equal(t, ViewDashboard, m.currentView)
	assert.Equal(t, "Signed in as ada@example.com", m.statusMsg)
	assert.NotNil(t, cmd)
}

func TestViewKeys(t *testing.T) {
	a := newTestApp(t)
	require.True(t, a.State.Login(context.Background(), "ada@example.com", "pw"))
	m := start(t, a)

	m, _ = update(t, m, runes("3"))
	assert.Equal(t, ViewAssistant, m.currentView)

	m, _ = update(t, m, runes("2"))
	assert.Equal(t, ViewBoard, m.currentView)
	assert.Contains(t, m.View(), "No project open")

	m, _ = update(t, m, runes("1"))
	assert.Equal(t, ViewDashboard, m.currentView)
}

func TestOpenBoardRequest(t *testing.T) {
	a := newTestApp(t)
	require.True(t, a.State.Login(context.Background(), "ada@example.com", "pw"))
	m := start(t, a)

	m, cmd := update(t, m, views.OpenBoardRequest{ProjectID: "2"})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, ViewBoard, m.currentView)
	assert.Equal(t, "2", m.boardView.ProjectID())
	assert.Contains(t, m.View(), "Mobile App Development")
}

func TestNotices(t *testing.T) {
	m := start(t, newTestApp(t))

	m, _ = update(t, m, views.Notice{Text: "saved"})
	assert.Equal(t, "saved", m.statusMsg)

	m, _ = update(t, m, views.Notice{Text: "boom", Error: true})
	assert.Equal(t, "boom", m.errorMsg)
	assert.Empty(t, m.statusMsg)
}

func TestQuit(t *testing.T) {
	a := newTestApp(t)
	require.True(t, a.State.Login(context.Background(), "ada@example.com", "pw"))
	m := start(t, a)

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestQuitIgnoredWhileTyping(t *testing.T) {
	m := start(t, newTestApp(t))
	require.True(t, m.inputMode())

	m, cmd := update(t, m, runes("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	assert.False(t, m.signedIn)
}

func TestThemeCycle(t *testing.T) {
	defer theme.SetTheme(theme.Nord)
	m := start(t, newTestApp(t))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, "dracula", theme.Current.Theme.Name)
	assert.Equal(t, "Theme: dracula", m.statusMsg)
}

func TestConfiguredTheme(t *testing.T) {
	defer theme.SetTheme(theme.Nord)
	a := newTestApp(t)
	a.Config.UI.Theme = "gruvbox"

	NewRootModel(a)
	assert.Equal(t, "gruvbox", theme.Current.Theme.Name)
}
