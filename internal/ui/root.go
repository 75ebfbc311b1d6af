// Package ui is the terminal front end: a bubbletea root model switching
// between the dashboard, the Kanban board and the assistant chat.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/projectflow/internal/app"
	"github.com/dori/projectflow/internal/ui/theme"
	"github.com/dori/projectflow/internal/ui/views"
)

// sessionMsg reports whether a user was signed in at startup
type sessionMsg struct {
	signedIn bool
}

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	signedIn      bool
	currentView   View
	loginView     views.LoginView
	dashboardView views.DashboardView
	boardView     views.BoardView
	assistantView views.AssistantView
	helpVisible   bool

	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	if t, ok := theme.ByName(application.Config.UI.Theme); ok {
		theme.SetTheme(t)
	}

	now := application.Now
	if now == nil {
		now = time.Now
	}

	h := help.New()
	h.ShowAll = false

	return RootModel{
		app:           application,
		keys:          DefaultKeyMap(),
		help:          h,
		currentView:   ViewDashboard,
		loginView:     views.NewLoginView(application.State),
		dashboardView: views.NewDashboardView(application.State, now),
		boardView:     views.NewBoardView(application.State, now),
		assistantView: views.NewAssistantView(application.State, application.Assistant),
	}
}

// Init restores the stored session
func (m RootModel) Init() tea.Cmd {
	provider := m.app.State
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		provider.Load(ctx)
		return sessionMsg{signedIn: provider.User() != nil}
	}
}

func (m RootModel) inputMode() bool {
	if !m.signedIn {
		return m.loginView.IsInputMode()
	}
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.IsInputMode()
	case ViewBoard:
		return m.boardView.IsInputMode()
	case ViewAssistant:
		return m.assistantView.IsInputMode()
	}
	return false
}

func (m RootModel) switchTo(v View) (RootModel, tea.Cmd) {
	m.currentView = v
	m.helpVisible = false
	switch v {
	case ViewDashboard:
		return m, m.dashboardView.Init()
	case ViewBoard:
		if m.boardView.ProjectID() == "" {
			if cur := m.app.State.Current(); cur != nil {
				var cmd tea.Cmd
				m.boardView, cmd = m.boardView.Open(cur.ID)
				return m, cmd
			}
		}
		return m, m.boardView.Init()
	case ViewAssistant:
		return m, m.assistantView.Init()
	}
	return m, nil
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Header takes one line, footer up to three
		contentHeight := m.height - 4
		m.loginView = m.loginView.SetSize(m.width, contentHeight)
		m.dashboardView = m.dashboardView.SetSize(m.width, contentHeight)
		m.boardView = m.boardView.SetSize(m.width, contentHeight)
		m.assistantView = m.assistantView.SetSize(m.width, contentHeight)
		return m, nil

	case sessionMsg:
		m.signedIn = msg.signedIn
		if !m.signedIn {
			return m, m.loginView.Init()
		}
		return m.switchTo(ViewDashboard)

	case views.SignedInMsg:
		m.signedIn = true
		if u := m.app.State.User(); u != nil {
			m.statusMsg = "Signed in as " + u.Email
		}
		return m.switchTo(ViewDashboard)

	case views.OpenBoardRequest:
		m.currentView = ViewBoard
		var cmd tea.Cmd
		m.boardView, cmd = m.boardView.Open(msg.ProjectID)
		return m, cmd

	case views.Notice:
		if msg.Error {
			m.errorMsg = msg.Text
			m.statusMsg = ""
		} else {
			m.statusMsg = msg.Text
			m.errorMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""
		isInputMode := m.inputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			next := theme.Next(theme.Current.Theme.Name)
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return m, nil
		}

		if isInputMode || !m.signedIn {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil
		case m.helpVisible && key.Matches(msg, m.keys.Back):
			m.helpVisible = false
			return m, nil
		case key.Matches(msg, m.keys.DashboardView):
			return m.switchTo(ViewDashboard)
		case key.Matches(msg, m.keys.BoardView):
			return m.switchTo(ViewBoard)
		case key.Matches(msg, m.keys.AssistantView):
			return m.switchTo(ViewAssistant)
		}
	}

	return m.delegate(msg)
}

// delegate passes msg to the active view. Replies to commands a view issued
// earlier are routed to that view even when another one is showing.
func (m RootModel) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var updated tea.Model

	if !m.signedIn {
		updated, cmd = m.loginView.Update(msg)
		m.loginView = updated.(views.LoginView)
		return m, cmd
	}

	target := m.currentView
	switch {
	case m.dashboardView.Owns(msg):
		target = ViewDashboard
	case m.boardView.Owns(msg):
		target = ViewBoard
	case m.assistantView.Owns(msg):
		target = ViewAssistant
	}

	switch target {
	case ViewDashboard:
		updated, cmd = m.dashboardView.Update(msg)
		m.dashboardView = updated.(views.DashboardView)
	case ViewBoard:
		updated, cmd = m.boardView.Update(msg)
		m.boardView = updated.(views.BoardView)
	case ViewAssistant:
		updated, cmd = m.assistantView.Update(msg)
		m.assistantView = updated.(views.AssistantView)
	}
	return m, cmd
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if !m.signedIn {
		return m.renderHeader() + "\n" + m.loginView.View()
	}

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewDashboard:
			content = m.dashboardView.View()
		case ViewBoard:
			content = m.boardView.View()
		case ViewAssistant:
			content = m.assistantView.View()
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}

	return strings.Join([]string{m.renderHeader(), content, m.renderFooter()}, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("projectflow")
	viewStyle := lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1)

	left := title
	if m.signedIn {
		left = lipgloss.JoinHorizontal(lipgloss.Center, title,
			viewStyle.Render(fmt.Sprintf("[%s]", m.currentView.String())))
	}

	right := viewStyle.Render(fmt.Sprintf("theme: %s", t.Name))
	if u := m.app.State.User(); u != nil {
		right = viewStyle.Render(u.Name) + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the status line and the key hints of the view
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	var line1 string
	switch {
	case m.inputMode():
		line1 = key("enter", "confirm") + sep + key("esc", "cancel")
	case m.currentView == ViewDashboard:
		line1 = key("j/k", "navigate") + sep +
			key("enter", "open board") + sep +
			key("a", "new project") + sep +
			key("e", "rename") + sep +
			key("d", "delete") + sep +
			key("r", "refresh")
	case m.currentView == ViewBoard && m.boardView.Carrying():
		line1 = key("h/l", "choose column") + sep +
			key("space", "drop") + sep +
			key("esc", "put back")
	case m.currentView == ViewBoard:
		line1 = key("h/l", "columns") + sep +
			key("j/k", "navigate") + sep +
			key("space", "pick up") + sep +
			key("H/L", "move") + sep +
			key("tab", "done") + sep +
			key("a", "add") + sep +
			key("enter", "edit") + sep +
			key("p", "priority") + sep +
			key("d", "delete")
	case m.currentView == ViewAssistant:
		line1 = key("i", "ask") + sep +
			key("tab", "quick prompt") + sep +
			key("n", "draft task") + sep +
			key("y", "accept draft") + sep +
			key("s", "summarize") + sep +
			key("c", "clear")
	}
	lines = append(lines, line1)
	lines = append(lines, key("1-3", "views")+sep+key("ctrl+t", "theme")+sep+key("?", "help")+sep+key("q", "quit"))

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(t.Foreground).Bold(true).Width(14)
	descStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Views", [][2]string{
			{"1", "Dashboard: projects, counters and suggestions"},
			{"2", "Board: the open project's Kanban columns"},
			{"3", "Assistant: chat, task drafts and summaries"},
		}},
		{"Board", [][2]string{
			{"space", "Pick up a card, then drop it on another column"},
			{"H / L", "Move the card one column left or right"},
			{"tab", "Toggle done"},
			{"a", "Add: Title !high due:fri @name status:doing"},
			{"enter", "Edit title"},
			{"p", "Cycle priority"},
			{"d", "Delete"},
		}},
		{"System", [][2]string{
			{"ctrl+t", "Cycle theme"},
			{"q / ctrl+c", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("projectflow help"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, kv := range s.keys {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))
	return b.String()
}
