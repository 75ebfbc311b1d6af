package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/model"
	"github.com/dori/projectflow/internal/state"
	"github.com/dori/projectflow/internal/ui/theme"
)

// AssistantMode represents the current input mode
type AssistantMode int

const (
	AssistantModeNormal AssistantMode = iota
	AssistantModeChat
	AssistantModeGenerate
)

type chatRole int

const (
	roleAssistant chatRole = iota
	roleUser
)

type chatMessage struct {
	role chatRole
	text string
}

type chatReplyMsg struct {
	text string
	err  error
}

type draftMsg struct {
	draft assistant.Generated
	err   error
}

type draftAcceptedMsg struct {
	task *model.Task
}

// AssistantView is the chat with the project assistant. It also drafts
// tasks from a prompt and summarizes the project open on the board.
type AssistantView struct {
	state     *state.Provider
	assistant *assistant.Service

	width  int
	height int

	messages []chatMessage
	thinking bool
	draft    *assistant.Generated
	prompt   int

	mode      AssistantMode
	textInput textinput.Model
}

// NewAssistantView creates the assistant view
func NewAssistantView(provider *state.Provider, svc *assistant.Service) AssistantView {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	return AssistantView{
		state:     provider,
		assistant: svc,
		messages:  []chatMessage{{role: roleAssistant, text: assistant.Welcome}},
		textInput: ti,
	}
}

// Init initializes the assistant view
func (v AssistantView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v AssistantView) SetSize(width, height int) AssistantView {
	v.width = width
	v.height = height
	v.textInput.Width = width - 8
	return v
}

// Thinking reports whether a reply is pending
func (v AssistantView) Thinking() bool {
	return v.thinking
}

// Update handles messages
func (v AssistantView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		v.thinking = false
		if msg.err != nil {
			return v, failure("Assistant unavailable: " + msg.err.Error())
		}
		v.messages = append(v.messages, chatMessage{role: roleAssistant, text: msg.text})
		return v, nil

	case draftMsg:
		v.thinking = false
		if msg.err != nil {
			return v, failure("Assistant unavailable: " + msg.err.Error())
		}
		draft := msg.draft
		v.draft = &draft
		v.messages = append(v.messages, chatMessage{role: roleAssistant, text: draft.Response})
		return v, nil

	case draftAcceptedMsg:
		if msg.task == nil {
			return v, failure("Failed to add task")
		}
		v.draft = nil
		return v, notice("Added: " + msg.task.Title)

	case tea.KeyMsg:
		if v.mode != AssistantModeNormal {
			return v.handleInputMode(msg)
		}
		return v.handleNormalMode(msg)
	}
	return v, nil
}

func (v AssistantView) startInput(mode AssistantMode, value, placeholder string) (AssistantView, tea.Cmd) {
	v.mode = mode
	v.textInput.SetValue(value)
	v.textInput.Placeholder = placeholder
	v.textInput.CursorEnd()
	v.textInput.Focus()
	return v, textinput.Blink
}

func (v AssistantView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i", "enter":
		return v.startInput(AssistantModeChat, "", "Ask anything about your projects")

	case "tab":
		prompts := assistant.QuickPrompts()
		p := prompts[v.prompt%len(prompts)]
		v.prompt++
		return v.startInput(AssistantModeChat, p, "")

	case "n":
		return v.startInput(AssistantModeGenerate, "", "Describe the task, e.g. design the landing page")

	case "y":
		if v.draft == nil {
			return v, nil
		}
		current := v.state.Current()
		if current == nil {
			return v, failure("Open a project on the board (2) first")
		}
		provider, projectID, draft := v.state, current.ID, *v.draft
		return v, func() tea.Msg {
			task := run(func(ctx context.Context) *model.Task {
				return provider.AddGeneratedTask(ctx, projectID, draft)
			})
			return draftAcceptedMsg{task: task}
		}

	case "s":
		current := v.state.Current()
		if current == nil {
			return v, failure("Open a project on the board (2) first")
		}
		if v.thinking {
			return v, nil
		}
		v.thinking = true
		v.messages = append(v.messages, chatMessage{role: roleUser, text: "Summarize " + current.Name})
		svc := v.assistant
		return v, func() tea.Msg {
			return run(func(ctx context.Context) tea.Msg {
				text, err := svc.Summarize(ctx, current)
				return chatReplyMsg{text: text, err: err}
			})
		}

	case "c":
		v.messages = []chatMessage{{role: roleAssistant, text: assistant.Welcome}}
		v.draft = nil
	}
	return v, nil
}

func (v AssistantView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = AssistantModeNormal
		v.textInput.Blur()
		return v, nil

	case "enter":
		text := strings.TrimSpace(v.textInput.Value())
		if text == "" || v.thinking {
			return v, nil
		}
		mode := v.mode
		v.mode = AssistantModeNormal
		v.textInput.Blur()
		v.textInput.SetValue("")
		v.thinking = true
		v.messages = append(v.messages, chatMessage{role: roleUser, text: text})

		svc := v.assistant
		if mode == AssistantModeGenerate {
			return v, func() tea.Msg {
				return run(func(ctx context.Context) tea.Msg {
					g, err := svc.GenerateTask(ctx, text)
					return draftMsg{draft: g, err: err}
				})
			}
		}
		current := v.state.Current()
		return v, func() tea.Msg {
			return run(func(ctx context.Context) tea.Msg {
				reply, err := svc.Chat(ctx, text, current)
				return chatReplyMsg{text: reply, err: err}
			})
		}
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// View renders the conversation
func (v AssistantView) View() string {
	if v.width == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles
	bodyWidth := v.width - 4

	header := styles.Label.Render("No project open")
	if current := v.state.Current(); current != nil {
		header = styles.Subtitle.Render("Project: " + current.Name)
	}

	var blocks []string
	for _, m := range v.messages {
		name := styles.ChatAssistant.Render("Assistant")
		if m.role == roleUser {
			name = styles.ChatUser.Render("You")
		}
		body := lipgloss.NewStyle().Width(bodyWidth).PaddingLeft(2).Render(m.text)
		blocks = append(blocks, name+"\n"+body)
	}
	if v.thinking {
		blocks = append(blocks, lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("Assistant is thinking..."))
	}
	if v.draft != nil {
		blocks = append(blocks, v.renderDraft(bodyWidth))
	}

	// Keep the newest messages in view
	transcript := strings.Join(blocks, "\n\n")
	lines := strings.Split(transcript, "\n")
	room := v.height - 4
	if room < 1 {
		room = 1
	}
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	sections := []string{header, strings.Join(lines, "\n")}
	switch v.mode {
	case AssistantModeChat:
		sections = append(sections, styles.Input.Width(bodyWidth).Render(v.textInput.View()))
	case AssistantModeGenerate:
		sections = append(sections, styles.Input.Width(bodyWidth).Render("New task: "+v.textInput.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v AssistantView) renderDraft(width int) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	task := v.draft.Task
	lines := []string{
		styles.Title.Render("Draft: " + task.Title),
		styles.Label.Render(fmt.Sprintf("%s · %s priority", v.draft.Category, task.Priority)),
		task.Description,
		lipgloss.NewStyle().Foreground(t.Info).Render("y: add to project · n: new draft"),
	}
	return styles.Panel.Width(width).BorderForeground(t.PriorityColor(task.Priority)).
		Render(strings.Join(lines, "\n"))
}

// Owns reports whether msg answers a command this view issued
func (v AssistantView) Owns(msg tea.Msg) bool {
	switch msg.(type) {
	case chatReplyMsg, draftMsg, draftAcceptedMsg:
		return true
	}
	return false
}

// IsInputMode returns whether the view is capturing text
func (v AssistantView) IsInputMode() bool {
	return v.mode != AssistantModeNormal
}
