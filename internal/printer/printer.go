// Package printer writes colored CLI output.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/model"
	"github.com/dori/projectflow/internal/quickadd"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
	bold   = color.New(color.Bold)
)

// Printer writes to an output and an error stream
type Printer struct {
	out io.Writer
	err io.Writer
	now func() time.Time
}

// New creates a printer for stdout and stderr. NO_COLOR disables colors.
func New() *Printer {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters creates a printer over out and errOut
func NewWithWriters(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut, now: time.Now}
}

// WithClock sets the clock due dates are formatted against
func (p *Printer) WithClock(now func() time.Time) *Printer {
	p.now = now
	return p
}

// Out returns the output stream
func (p *Printer) Out() io.Writer {
	return p.out
}

// Success prints a green message with a checkmark
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Info prints a plain line
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, format+"\n", a...)
}

// Warning prints a yellow line
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.out, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

// Step prints a cyan progress line
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out, "→ %s\n", fmt.Sprintf(format, a...))
}

// Error prints title, explanation and suggestions to the error stream and
// returns an error carrying the title for cobra
func (p *Printer) Error(title, explanation string, suggestions ...string) error {
	red.Fprintf(p.err, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(p.err, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.err, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.err, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(p.err, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}

func statusMark(s model.Status) string {
	switch s {
	case model.StatusDone:
		return green.Sprint("✓")
	case model.StatusInProgress:
		return cyan.Sprint("◐")
	default:
		return "○"
	}
}

func priorityMark(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return red.Sprint("!!!")
	case model.PriorityMedium:
		return yellow.Sprint("!!")
	case model.PriorityLow:
		return faint.Sprint("!")
	default:
		return ""
	}
}

// TaskLine formats one task for a listing
func (p *Printer) TaskLine(t model.Task) string {
	parts := []string{statusMark(t.Status), t.Title}
	if mark := priorityMark(t.Priority); mark != "" {
		parts = append(parts, mark)
	}
	if t.Assignee != "" {
		parts = append(parts, faint.Sprint("@"+t.Assignee))
	}
	if t.DueDate != nil {
		due := "due " + quickadd.FormatDue(*t.DueDate, p.now())
		if t.IsOverdue(p.now()) {
			due = red.Sprint(due)
		}
		parts = append(parts, due)
	}
	return strings.Join(parts, " ")
}

// Project prints a project heading and its tasks
func (p *Printer) Project(project model.Project) {
	bold.Fprintf(p.out, "%s", project.Name)
	faint.Fprintf(p.out, " (%s)\n", project.ID)
	if len(project.Tasks) == 0 {
		faint.Fprintln(p.out, "  no tasks")
		return
	}
	for _, t := range project.Tasks {
		fmt.Fprintf(p.out, "  %s\n", p.TaskLine(t))
	}
}

// TaskList prints tasks annotated with their project under a heading
func (p *Printer) TaskList(title string, tasks []assistant.ProjectTask) {
	bold.Fprintln(p.out, title)
	if len(tasks) == 0 {
		faint.Fprintln(p.out, "  none")
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(p.out, "  %s %s\n", p.TaskLine(t.Task), faint.Sprint("["+t.ProjectName+"]"))
	}
}

// Bullets prints each line as a bullet point
func (p *Printer) Bullets(lines []string) {
	for _, l := range lines {
		fmt.Fprintf(p.out, "• %s\n", l)
	}
}
