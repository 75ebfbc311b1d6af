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
	"github.com/dori/projectflow/internal/model"
	"github.com/dori/projectflow/internal/quickadd"
	"github.com/dori/projectflow/internal/state"
	"github.com/dori/projectflow/internal/ui/theme"
)

// BoardMode represents the current input mode
type BoardMode int

const (
	BoardModeNormal BoardMode = iota
	BoardModeAdd
	BoardModeEdit
	BoardModeConfirmDelete
)

type boardLoadedMsg struct {
	project *model.Project
}

// boardChangedMsg follows a mutation; the provider already holds the
// re-fetched project
type boardChangedMsg struct {
	text   string
	err    string
	follow string
}

// BoardView is the Kanban board of one project. Cards are moved either with
// H/L or by picking one up with space and dropping it on another column.
type BoardView struct {
	state *state.Provider
	now   func() time.Time

	width  int
	height int

	projectID   string
	projectName string
	columns     []state.Column

	currentColumn int
	cursorRow     int
	columnScroll  []int

	// Card picked up with space, waiting to be dropped
	carrying *state.DragPayload

	mode         BoardMode
	textInput    textinput.Model
	editTaskID   string
	deleteTaskID string
}

// NewBoardView creates an empty board; call Open to show a project
func NewBoardView(provider *state.Provider, now func() time.Time) BoardView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256

	return BoardView{
		state:     provider,
		now:       now,
		textInput: ti,
	}
}

// Open switches the board to projectID and loads it
func (v BoardView) Open(projectID string) (BoardView, tea.Cmd) {
	if projectID != v.projectID {
		v.currentColumn = 0
		v.cursorRow = 0
		v.columns = nil
	}
	v.projectID = projectID
	v.carrying = nil
	v.mode = BoardModeNormal
	return v, v.load()
}

// ProjectID returns the project shown, or "" when none is open
func (v BoardView) ProjectID() string {
	return v.projectID
}

// Carrying reports whether a card is picked up
func (v BoardView) Carrying() bool {
	return v.carrying != nil
}

// Init initializes the board view
func (v BoardView) Init() tea.Cmd {
	return v.load()
}

// SetSize sets the view dimensions
func (v BoardView) SetSize(width, height int) BoardView {
	v.width = width
	v.height = height
	return v
}

func (v BoardView) load() tea.Cmd {
	if v.projectID == "" {
		return nil
	}
	provider, id := v.state, v.projectID
	return func() tea.Msg {
		project := run(func(ctx context.Context) *model.Project {
			return provider.SelectProject(ctx, id)
		})
		return boardLoadedMsg{project: project}
	}
}

// Update handles messages
func (v BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		if msg.project == nil {
			v.projectID = ""
			v.projectName = ""
			v.columns = nil
			return v, failure("Project not found")
		}
		v.projectName = msg.project.Name
		v.setColumns(state.BuildBoard(msg.project))
		return v, nil

	case boardChangedMsg:
		if cols, ok := v.state.Board(v.projectID); ok {
			v.setColumns(cols)
		}
		if msg.follow != "" {
			v.focusTask(msg.follow)
		}
		if msg.err != "" {
			return v, failure(msg.err)
		}
		if msg.text != "" {
			return v, notice(msg.text)
		}
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case BoardModeAdd:
			return v.handleAddMode(msg)
		case BoardModeEdit:
			return v.handleEditMode(msg)
		case BoardModeConfirmDelete:
			return v.handleConfirmDelete(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	return v, nil
}

func (v *BoardView) setColumns(cols []state.Column) {
	v.columns = cols
	if len(v.columnScroll) != len(cols) {
		v.columnScroll = make([]int, len(cols))
	}
	v.currentColumn = clamp(v.currentColumn, 0, len(cols)-1)
	v.clampCursor()
}

func (v *BoardView) clampCursor() {
	tasks := v.columnTasks(v.currentColumn)
	v.cursorRow = clamp(v.cursorRow, 0, len(tasks)-1)
	v.ensureVisible()
}

func (v *BoardView) focusTask(id string) {
	for c, col := range v.columns {
		for r, t := range col.Tasks {
			if t.ID == id {
				v.currentColumn = c
				v.cursorRow = r
				v.ensureVisible()
				return
			}
		}
	}
}

func (v BoardView) columnTasks(i int) []model.Task {
	if i < 0 || i >= len(v.columns) {
		return nil
	}
	return v.columns[i].Tasks
}

func (v BoardView) selectedTask() *model.Task {
	tasks := v.columnTasks(v.currentColumn)
	if v.cursorRow < 0 || v.cursorRow >= len(tasks) {
		return nil
	}
	t := tasks[v.cursorRow]
	return &t
}

func (v BoardView) columnStatus(i int) model.Status {
	if i < 0 || i >= len(v.columns) {
		return model.StatusTodo
	}
	return v.columns[i].Status
}

// visibleItemCount is the number of cards that fit in a column
func (v BoardView) visibleItemCount() int {
	n := v.height - 6
	if n < 1 {
		n = 1
	}
	return n
}

func (v *BoardView) ensureVisible() {
	if v.currentColumn < 0 || v.currentColumn >= len(v.columnScroll) {
		return
	}
	visible := v.visibleItemCount()
	scroll := v.columnScroll[v.currentColumn]
	if v.cursorRow < scroll {
		scroll = v.cursorRow
	}
	if v.cursorRow >= scroll+visible {
		scroll = v.cursorRow - visible + 1
	}
	if scroll < 0 {
		scroll = 0
	}
	v.columnScroll[v.currentColumn] = scroll
}

func (v BoardView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.projectID == "" || len(v.columns) == 0 {
		return v, nil
	}

	switch msg.String() {
	case "h", "left":
		if v.currentColumn > 0 {
			v.currentColumn--
			v.clampCursor()
		}

	case "l", "right":
		if v.currentColumn < len(v.columns)-1 {
			v.currentColumn++
			v.clampCursor()
		}

	case "j", "down":
		if v.cursorRow < len(v.columnTasks(v.currentColumn))-1 {
			v.cursorRow++
			v.ensureVisible()
		}

	case "k", "up":
		if v.cursorRow > 0 {
			v.cursorRow--
			v.ensureVisible()
		}

	case "g":
		v.cursorRow = 0
		v.ensureVisible()

	case "G":
		v.cursorRow = len(v.columnTasks(v.currentColumn)) - 1
		v.clampCursor()

	case " ":
		if v.carrying != nil {
			payload := *v.carrying
			v.carrying = nil
			return v, v.drop(payload, v.columnStatus(v.currentColumn))
		}
		if task := v.selectedTask(); task != nil {
			payload := state.PickUp(*task)
			v.carrying = &payload
			return v, notice(fmt.Sprintf("Picked up %q: move to a column and press space", task.Title))
		}

	case "esc":
		if v.carrying != nil {
			v.carrying = nil
			return v, notice("Put back")
		}

	case "H":
		return v, v.shift(-1)

	case "L":
		return v, v.shift(1)

	case "tab":
		if task := v.selectedTask(); task != nil {
			target := model.StatusDone
			if task.Status == model.StatusDone {
				target = model.StatusTodo
			}
			return v, v.drop(state.PickUp(*task), target)
		}

	case "p":
		if task := v.selectedTask(); task != nil {
			next := nextPriority(task.Priority)
			return v, v.update(task.ID, api.TaskUpdate{Priority: &next},
				fmt.Sprintf("Priority: %s", next))
		}

	case "a":
		v.mode = BoardModeAdd
		v.textInput.SetValue("")
		v.textInput.Placeholder = "Title !high due:fri @name"
		v.textInput.Focus()
		return v, textinput.Blink

	case "enter":
		if task := v.selectedTask(); task != nil {
			v.mode = BoardModeEdit
			v.editTaskID = task.ID
			v.textInput.SetValue(task.Title)
			v.textInput.Placeholder = ""
			v.textInput.CursorEnd()
			v.textInput.Focus()
			return v, textinput.Blink
		}

	case "d":
		if task := v.selectedTask(); task != nil {
			v.mode = BoardModeConfirmDelete
			v.deleteTaskID = task.ID
		}

	case "r":
		return v, v.load()
	}

	return v, nil
}

// shift moves the selected card one column left or right
func (v BoardView) shift(delta int) tea.Cmd {
	task := v.selectedTask()
	target := v.currentColumn + delta
	if task == nil || target < 0 || target >= len(v.columns) {
		return nil
	}
	return v.drop(state.PickUp(*task), v.columnStatus(target))
}

func (v BoardView) drop(payload state.DragPayload, target model.Status) tea.Cmd {
	provider, projectID := v.state, v.projectID
	return func() tea.Msg {
		ok := run(func(ctx context.Context) bool {
			return provider.Drop(ctx, projectID, payload, target)
		})
		if !ok {
			return boardChangedMsg{err: "Failed to move task"}
		}
		if payload.SourceStatus == target {
			return boardChangedMsg{follow: payload.TaskID}
		}
		return boardChangedMsg{text: "Moved to " + target.Label(), follow: payload.TaskID}
	}
}

func (v BoardView) update(taskID string, update api.TaskUpdate, done string) tea.Cmd {
	provider, projectID := v.state, v.projectID
	return func() tea.Msg {
		task := run(func(ctx context.Context) *model.Task {
			return provider.UpdateTask(ctx, projectID, taskID, update)
		})
		if task == nil {
			return boardChangedMsg{err: "Failed to update task"}
		}
		return boardChangedMsg{text: done, follow: task.ID}
	}
}

func nextPriority(p model.Priority) model.Priority {
	switch p {
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}

func (v BoardView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = BoardModeNormal
		v.textInput.Blur()
		return v, nil

	case "enter":
		text := strings.TrimSpace(v.textInput.Value())
		in := quickadd.Parse(text, v.now())
		if in.Title == "" {
			return v, failure("Task title is required")
		}
		v.mode = BoardModeNormal
		v.textInput.Blur()
		// New cards land in the focused column unless the text names one
		if !strings.Contains(strings.ToLower(text), "status:") {
			in.Status = v.columnStatus(v.currentColumn)
		}
		return v, v.createTask(in)
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v BoardView) createTask(in api.TaskInput) tea.Cmd {
	provider, projectID := v.state, v.projectID
	return func() tea.Msg {
		task := run(func(ctx context.Context) *model.Task {
			return provider.AddTask(ctx, projectID, in)
		})
		if task == nil {
			return boardChangedMsg{err: "Failed to add task"}
		}
		return boardChangedMsg{text: "Added: " + task.Title, follow: task.ID}
	}
}

func (v BoardView) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = BoardModeNormal
		v.textInput.Blur()
		v.editTaskID = ""
		return v, nil

	case "enter":
		title := strings.TrimSpace(v.textInput.Value())
		if title == "" {
			return v, failure("Task title is required")
		}
		id := v.editTaskID
		v.mode = BoardModeNormal
		v.textInput.Blur()
		v.editTaskID = ""
		return v, v.update(id, api.TaskUpdate{Title: &title}, "Task updated")
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v BoardView) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		provider, projectID, taskID := v.state, v.projectID, v.deleteTaskID
		v.mode = BoardModeNormal
		v.deleteTaskID = ""
		return v, func() tea.Msg {
			ok := run(func(ctx context.Context) bool {
				return provider.DeleteTask(ctx, projectID, taskID)
			})
			if !ok {
				return boardChangedMsg{err: "Failed to delete task"}
			}
			return boardChangedMsg{text: "Task deleted"}
		}

	case "n", "N", "esc":
		v.mode = BoardModeNormal
		v.deleteTaskID = ""
	}
	return v, nil
}

// View renders the board
func (v BoardView) View() string {
	if v.width == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	if v.projectID == "" {
		return styles.Label.Render("No project open. Pick one on the dashboard (1) and press enter.")
	}
	if len(v.columns) == 0 {
		return "Loading..."
	}

	colWidth := (v.width - 2) / len(v.columns)
	if colWidth < 24 {
		colWidth = 24
	}

	title := styles.Title.Render(v.projectName)

	var headers, cols []string
	visible := v.visibleItemCount()
	for i, col := range v.columns {
		active := i == v.currentColumn

		label := fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))
		if active && v.carrying != nil && v.carrying.SourceStatus != col.Status {
			label = "↓ drop here"
		}
		hs := lipgloss.NewStyle().
			Bold(true).
			Foreground(t.StatusColor(col.Status)).
			Width(colWidth).
			Align(lipgloss.Center)
		if active {
			hs = hs.Background(t.Highlight)
		}
		headers = append(headers, hs.Render(label))

		scroll := 0
		if i < len(v.columnScroll) {
			scroll = v.columnScroll[i]
		}
		start := clamp(scroll, 0, len(col.Tasks))
		end := clamp(scroll+visible, 0, len(col.Tasks))

		var items []string
		if start > 0 {
			items = append(items, styles.Label.Width(colWidth-4).Align(lipgloss.Center).
				Render(fmt.Sprintf("↑ %d more", start)))
		}
		for j := start; j < end; j++ {
			items = append(items, v.renderCard(col.Tasks[j], active && j == v.cursorRow, colWidth-4))
		}
		if end < len(col.Tasks) {
			items = append(items, styles.Label.Width(colWidth-4).Align(lipgloss.Center).
				Render(fmt.Sprintf("↓ %d more", len(col.Tasks)-end)))
		}

		content := strings.Join(items, "\n")
		if len(col.Tasks) == 0 {
			content = lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("(empty)")
		}

		cs := lipgloss.NewStyle().
			Width(colWidth).
			Height(v.height - 4).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border)
		if active {
			cs = cs.BorderForeground(t.Primary)
			if v.carrying != nil {
				cs = cs.BorderForeground(t.Carried)
			}
		}
		cols = append(cols, cs.Render(content))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, headers...),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		v.renderFooter(),
	)
}

func (v BoardView) renderCard(task model.Task, selected bool, width int) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	now := v.now()

	style := styles.Card
	switch {
	case selected:
		style = styles.CardSelected
	case task.Status == model.StatusDone:
		style = styles.CardDone
	}
	if v.carrying != nil && v.carrying.TaskID == task.ID {
		style = style.Foreground(t.Carried).Bold(true)
	}

	var meta string
	if task.DueDate != nil && task.Status != model.StatusDone {
		due := quickadd.FormatDue(*task.DueDate, now)
		if task.IsOverdue(now) {
			meta = " " + styles.Overdue.Render("!"+due)
		} else {
			meta = " " + styles.DueDate.Render(due)
		}
	}
	if task.Assignee != "" {
		meta += " " + styles.Label.Render("@"+task.Assignee)
	}

	title := truncate(task.Title, width-4-lipgloss.Width(meta))
	return style.Width(width).Render(t.PriorityMark(task.Priority) + " " + title + meta)
}

func (v BoardView) renderFooter() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	switch v.mode {
	case BoardModeAdd:
		return styles.Input.Width(v.width - 4).Render("Add task: " + v.textInput.View())
	case BoardModeEdit:
		return styles.Input.Width(v.width - 4).Render("Edit: " + v.textInput.View())
	case BoardModeConfirmDelete:
		title := ""
		for _, col := range v.columns {
			for _, task := range col.Tasks {
				if task.ID == v.deleteTaskID {
					title = task.Title
				}
			}
		}
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true).
			Render(fmt.Sprintf("Delete '%s'? (y/n)", title))
	}
	return ""
}

// Owns reports whether msg answers a command this view issued
func (v BoardView) Owns(msg tea.Msg) bool {
	switch msg.(type) {
	case boardLoadedMsg, boardChangedMsg:
		return true
	}
	return false
}

// IsInputMode returns whether the view is capturing text
func (v BoardView) IsInputMode() bool {
	return v.mode != BoardModeNormal
}
