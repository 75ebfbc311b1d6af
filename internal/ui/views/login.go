package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/state"
	"github.com/dori/projectflow/internal/ui/theme"
)

// SignedInMsg tells the root model a session exists
type SignedInMsg struct{}

type authResultMsg struct {
	ok  bool
	err string
}

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

// LoginView signs in or registers. Sign in creates the account when the
// email is unknown, so register is only needed to pick a display name.
type LoginView struct {
	state *state.Provider

	width  int
	height int

	register bool
	focus    int
	inputs   []textinput.Model
	errMsg   string
	busy     bool
}

// NewLoginView creates the sign in form
func NewLoginView(provider *state.Provider) LoginView {
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 128
		inputs[i] = ti
	}
	inputs[fieldName].Prompt = "Name:     "
	inputs[fieldEmail].Prompt = "Email:    "
	inputs[fieldPassword].Prompt = "Password: "
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	v := LoginView{state: provider, inputs: inputs, focus: fieldEmail}
	v.inputs[fieldEmail].Focus()
	return v
}

// Init starts the cursor blinking
func (v LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v LoginView) SetSize(width, height int) LoginView {
	v.width = width
	v.height = height
	return v
}

func (v LoginView) fields() []int {
	if v.register {
		return []int{fieldName, fieldEmail, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (v *LoginView) setFocus(field int) {
	v.focus = field
	for i := range v.inputs {
		if i == field {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *LoginView) moveFocus(delta int) {
	fields := v.fields()
	pos := 0
	for i, f := range fields {
		if f == v.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	v.setFocus(fields[pos])
}

// Update handles messages
func (v LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		v.busy = false
		if !msg.ok {
			v.errMsg = msg.err
			return v, nil
		}
		v.errMsg = ""
		for i := range v.inputs {
			v.inputs[i].SetValue("")
		}
		return v, func() tea.Msg { return SignedInMsg{} }

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			v.moveFocus(1)
			return v, nil
		case "shift+tab", "up":
			v.moveFocus(-1)
			return v, nil
		case "ctrl+r":
			v.register = !v.register
			v.errMsg = ""
			if v.register {
				v.setFocus(fieldName)
			} else {
				v.setFocus(fieldEmail)
			}
			return v, nil
		case "enter":
			return v.submit()
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

func (v LoginView) submit() (tea.Model, tea.Cmd) {
	if v.busy {
		return v, nil
	}
	name := strings.TrimSpace(v.inputs[fieldName].Value())
	email := strings.TrimSpace(v.inputs[fieldEmail].Value())
	password := v.inputs[fieldPassword].Value()

	if email == "" || password == "" || (v.register && name == "") {
		v.errMsg = "Please fill in all fields"
		return v, nil
	}

	v.busy = true
	v.errMsg = ""
	provider, register := v.state, v.register
	return v, func() tea.Msg {
		return run(func(ctx context.Context) tea.Msg {
			if !register {
				if provider.Login(ctx, email, password) {
					return authResultMsg{ok: true}
				}
				return authResultMsg{err: "Invalid email or password"}
			}
			ok, err := provider.Register(ctx, name, email, password)
			if errors.Is(err, api.ErrUserExists) {
				return authResultMsg{err: "User already exists"}
			}
			if !ok {
				return authResultMsg{err: "Registration failed"}
			}
			return authResultMsg{ok: true}
		})
	}
}

// View renders the form
func (v LoginView) View() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	title := "Sign in to projectflow"
	toggle := "ctrl+r: create an account"
	if v.register {
		title = "Create your account"
		toggle = "ctrl+r: back to sign in"
	}

	lines := []string{styles.Title.Render(title), ""}
	for _, f := range v.fields() {
		lines = append(lines, v.inputs[f].View())
	}
	lines = append(lines, "")
	switch {
	case v.busy:
		lines = append(lines, styles.Label.Italic(true).Render("Signing in..."))
	case v.errMsg != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
	}
	lines = append(lines, styles.Label.Render("enter: submit · tab: next field · "+toggle))

	form := styles.Panel.Padding(1, 3).Render(strings.Join(lines, "\n"))
	if v.width == 0 {
		return form
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, form)
}

// Owns reports whether msg answers a command this view issued
func (v LoginView) Owns(msg tea.Msg) bool {
	_, ok := msg.(authResultMsg)
	return ok
}

// IsInputMode is always true: every key goes to the form
func (v LoginView) IsInputMode() bool {
	return true
}
