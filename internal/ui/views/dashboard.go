package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/model"
	"github.com/dori/projectflow/internal/quickadd"
	"github.com/dori/projectflow/internal/state"
	"github.com/dori/projectflow/internal/ui/theme"
)

// DashboardMode represents the current input mode
type DashboardMode int

const (
	DashboardModeNormal DashboardMode = iota
	DashboardModeAdd
	DashboardModeRename
	DashboardModeConfirmDelete
)

type dashboardLoadedMsg struct {
	user     *model.User
	projects []model.Project
	stats    api.OverallStats
	smart    assistant.SmartSuggestions
}

type dashboardChangedMsg struct {
	text string
	err  string
}

// DashboardView lists the projects with their progress next to the overall
// counters and the assistant's suggestions
type DashboardView struct {
	state *state.Provider
	now   func() time.Time

	width  int
	height int

	user     *model.User
	projects []model.Project
	stats    api.OverallStats
	smart    assistant.SmartSuggestions
	loaded   bool

	cursor int

	mode      DashboardMode
	textInput textinput.Model
	targetID  string
}

// NewDashboardView creates a dashboard over provider
func NewDashboardView(provider *state.Provider, now func() time.Time) DashboardView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	return DashboardView{
		state:     provider,
		now:       now,
		textInput: ti,
	}
}

// Init loads the projects and counters
func (v DashboardView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v DashboardView) SetSize(width, height int) DashboardView {
	v.width = width
	v.height = height
	return v
}

func (v DashboardView) load() tea.Cmd {
	provider, now := v.state, v.now
	return func() tea.Msg {
		return run(func(ctx context.Context) tea.Msg {
			provider.RefreshProjects(ctx)
			projects := provider.Projects()
			stats, ok := provider.Stats(ctx)
			if !ok {
				stats = api.OverallStatsFor(projects, now())
			}
			return dashboardLoadedMsg{
				user:     provider.User(),
				projects: projects,
				stats:    stats,
				smart:    assistant.Smart(projects, now()),
			}
		})
	}
}

// Update handles messages
func (v DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		v.user = msg.user
		v.projects = msg.projects
		v.stats = msg.stats
		v.smart = msg.smart
		v.loaded = true
		v.cursor = clamp(v.cursor, 0, len(v.projects)-1)
		return v, nil

	case dashboardChangedMsg:
		cmds := []tea.Cmd{v.load()}
		if msg.err != "" {
			cmds = append(cmds, failure(msg.err))
		} else if msg.text != "" {
			cmds = append(cmds, notice(msg.text))
		}
		return v, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch v.mode {
		case DashboardModeAdd, DashboardModeRename:
			return v.handleInputMode(msg)
		case DashboardModeConfirmDelete:
			return v.handleConfirmDelete(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}
	return v, nil
}

func (v DashboardView) selected() *model.Project {
	if v.cursor < 0 || v.cursor >= len(v.projects) {
		return nil
	}
	p := v.projects[v.cursor]
	return &p
}

func (v DashboardView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if v.cursor < len(v.projects)-1 {
			v.cursor++
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
		}
	case "g":
		v.cursor = 0
	case "G":
		v.cursor = clamp(len(v.projects)-1, 0, len(v.projects)-1)

	case "enter":
		if p := v.selected(); p != nil {
			id := p.ID
			return v, func() tea.Msg { return OpenBoardRequest{ProjectID: id} }
		}

	case "a":
		v.mode = DashboardModeAdd
		v.textInput.SetValue("")
		v.textInput.Placeholder = "Name | description"
		v.textInput.Focus()
		return v, textinput.Blink

	case "e":
		if p := v.selected(); p != nil {
			v.mode = DashboardModeRename
			v.targetID = p.ID
			v.textInput.SetValue(p.Name)
			v.textInput.Placeholder = ""
			v.textInput.CursorEnd()
			v.textInput.Focus()
			return v, textinput.Blink
		}

	case "d":
		if p := v.selected(); p != nil {
			v.mode = DashboardModeConfirmDelete
			v.targetID = p.ID
		}

	case "r":
		return v, v.load()
	}
	return v, nil
}

// splitProjectInput splits "name | description"
func splitProjectInput(s string) (name, description string) {
	name, description, _ = strings.Cut(s, "|")
	return strings.TrimSpace(name), strings.TrimSpace(description)
}

func (v DashboardView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = DashboardModeNormal
		v.textInput.Blur()
		return v, nil

	case "enter":
		provider := v.state
		if v.mode == DashboardModeAdd {
			name, description := splitProjectInput(v.textInput.Value())
			if name == "" {
				return v, failure("Project name is required")
			}
			v.mode = DashboardModeNormal
			v.textInput.Blur()
			return v, func() tea.Msg {
				p := run(func(ctx context.Context) *model.Project {
					return provider.CreateProject(ctx, name, description)
				})
				if p == nil {
					return dashboardChangedMsg{err: "Failed to create project"}
				}
				return dashboardChangedMsg{text: "Created " + p.Name}
			}
		}

		name := strings.TrimSpace(v.textInput.Value())
		if name == "" {
			return v, failure("Project name is required")
		}
		id := v.targetID
		v.mode = DashboardModeNormal
		v.textInput.Blur()
		return v, func() tea.Msg {
			p := run(func(ctx context.Context) *model.Project {
				return provider.UpdateProject(ctx, id, api.ProjectUpdate{Name: &name})
			})
			if p == nil {
				return dashboardChangedMsg{err: "Failed to rename project"}
			}
			return dashboardChangedMsg{text: "Renamed to " + p.Name}
		}
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v DashboardView) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		provider, id := v.state, v.targetID
		v.mode = DashboardModeNormal
		return v, func() tea.Msg {
			ok := run(func(ctx context.Context) bool {
				return provider.DeleteProject(ctx, id)
			})
			if !ok {
				return dashboardChangedMsg{err: "Failed to delete project"}
			}
			return dashboardChangedMsg{text: "Project deleted"}
		}
	case "n", "N", "esc":
		v.mode = DashboardModeNormal
	}
	return v, nil
}

// View renders the dashboard
func (v DashboardView) View() string {
	if v.width == 0 || !v.loaded {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	greeting := "Welcome"
	if v.user != nil {
		greeting = "Welcome back, " + v.user.Name
	}

	counter := func(label string, n int, c lipgloss.Color) string {
		return lipgloss.NewStyle().Foreground(c).Bold(true).Render(fmt.Sprint(n)) +
			styles.Label.Render(" "+label)
	}
	sep := styles.HelpSeparator.Render("  │  ")
	statsLine := counter("projects", v.stats.Projects, t.Primary) + sep +
		counter("tasks", v.stats.Tasks, t.Info) + sep +
		counter("completed", v.stats.Completed, t.Success) + sep +
		counter("overdue", v.stats.Overdue, t.Error)

	leftWidth := v.width * 3 / 5
	if leftWidth < 40 {
		leftWidth = 40
	}
	rightWidth := v.width - leftWidth - 4
	if rightWidth < 30 {
		rightWidth = 30
	}

	left := styles.Panel.Width(leftWidth).Render(v.renderProjects(leftWidth - 4))
	right := styles.Panel.Width(rightWidth).Render(v.renderAssistant(rightWidth - 4))

	sections := []string{
		styles.Title.Render(greeting),
		statsLine,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
	}
	if footer := v.renderFooter(); footer != "" {
		sections = append(sections, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v DashboardView) renderProjects(width int) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	lines := []string{styles.Title.Render("Projects")}
	if len(v.projects) == 0 {
		lines = append(lines, styles.Label.Italic(true).Render("No projects yet. Press a to create one."))
		return strings.Join(lines, "\n")
	}

	for i := range v.projects {
		p := &v.projects[i]
		rate := assistant.CompletionRate(p)
		counts := p.CountByStatus()

		bar := progressBar(rate, 10)
		name := truncate(p.Name, width-24)
		line := fmt.Sprintf("%s %3d%%  %s", bar, rate, name)
		detail := fmt.Sprintf("     %d todo · %d in progress · %d done",
			counts[model.StatusTodo], counts[model.StatusInProgress], counts[model.StatusDone])

		style := styles.Card
		if i == v.cursor {
			style = styles.CardSelected
		}
		lines = append(lines, style.Width(width).Render(line))
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).Render(detail))
	}
	return strings.Join(lines, "\n")
}

func (v DashboardView) renderAssistant(width int) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	now := v.now()

	lines := []string{styles.Title.Render("Needs attention")}
	if len(v.smart.UrgentTasks) == 0 {
		lines = append(lines, styles.Label.Render("Nothing due in the next two days"))
	}
	for _, task := range v.smart.UrgentTasks {
		due := ""
		if task.DueDate != nil {
			due = quickadd.FormatDue(*task.DueDate, now)
		}
		style := styles.DueDate
		if task.IsOverdue(now) {
			style = styles.Overdue
		}
		lines = append(lines, truncate(task.Title, width-14)+" "+style.Render(due))
	}

	lines = append(lines, "", styles.Title.Render("High priority"))
	if len(v.smart.PriorityTasks) == 0 {
		lines = append(lines, styles.Label.Render("No open high priority tasks"))
	}
	for _, task := range v.smart.PriorityTasks {
		lines = append(lines, t.PriorityMark(task.Priority)+" "+
			truncate(task.Title, width-len(task.ProjectName)-6)+
			styles.Label.Render(" ("+task.ProjectName+")"))
	}

	lines = append(lines, "", styles.Title.Render("Suggestions"))
	for _, s := range v.smart.Suggestions {
		lines = append(lines, lipgloss.NewStyle().Width(width).Foreground(t.Info).Render("• "+s))
	}
	return strings.Join(lines, "\n")
}

func (v DashboardView) renderFooter() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	switch v.mode {
	case DashboardModeAdd:
		return styles.Input.Width(v.width - 4).Render("New project: " + v.textInput.View())
	case DashboardModeRename:
		return styles.Input.Width(v.width - 4).Render("Rename: " + v.textInput.View())
	case DashboardModeConfirmDelete:
		name := ""
		for _, p := range v.projects {
			if p.ID == v.targetID {
				name = p.Name
			}
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete '%s' and all its tasks? (y/n)", name))
	}
	return ""
}

func progressBar(rate, width int) string {
	t := theme.Current.Theme
	filled := clamp(rate*width/100, 0, width)
	return lipgloss.NewStyle().Foreground(t.Success).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(t.Subtle).Render(strings.Repeat("░", width-filled))
}

// Owns reports whether msg answers a command this view issued
func (v DashboardView) Owns(msg tea.Msg) bool {
	switch msg.(type) {
	case dashboardLoadedMsg, dashboardChangedMsg:
		return true
	}
	return false
}

// IsInputMode returns whether the view is capturing text
func (v DashboardView) IsInputMode() bool {
	return v.mode != DashboardModeNormal
}
