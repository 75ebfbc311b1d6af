// Package notify sends desktop reminders for urgent tasks through notify-send.
package notify

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/dori/projectflow/internal/assistant"
)

const command = "notify-send"

var (
	// ErrDisabled is returned by Available when notifications are turned off
	ErrDisabled = errors.New("notifications are disabled")
	// ErrUnavailable is returned by Available when notify-send is missing
	ErrUnavailable = errors.New("notify-send is not installed")
)

// Urgency maps to the notify-send urgency levels
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Notification is one desktop popup
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	// Timeout of zero leaves the expiry to the notification daemon
	Timeout time.Duration
	Icon    string
}

// Runner executes the notification command
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier sends reminders. The zero value is not usable; use NewNotifier.
type Notifier struct {
	enabled  bool
	run      Runner
	lookPath func(file string) (string, error)
}

// NewNotifier creates an enabled notifier that shells out to notify-send
func NewNotifier() *Notifier {
	return &Notifier{
		enabled:  true,
		run:      execRunner,
		lookPath: exec.LookPath,
	}
}

// WithRunner replaces the command runner. The command is then assumed to
// exist.
func (n *Notifier) WithRunner(run Runner) *Notifier {
	n.run = run
	n.lookPath = func(file string) (string, error) { return file, nil }
	return n
}

// SetEnabled turns notifications on or off
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled reports whether notifications are on
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Available reports why reminders cannot be shown, or nil when they can
func (n *Notifier) Available() error {
	if !n.enabled {
		return ErrDisabled
	}
	if _, err := n.lookPath(command); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Args builds the notify-send arguments for notification
func Args(notification Notification) []string {
	args := []string{"-u", notification.Urgency.String()}
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.FormatInt(notification.Timeout.Milliseconds(), 10))
	}
	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "projectflow", notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send shows notification. A disabled notifier drops it silently.
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}
	if err := n.run(command, Args(notification)...); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// DueReminder builds the popup for a task due in dueIn; overdue tasks are
// critical
func DueReminder(task assistant.ProjectTask, dueIn time.Duration) Notification {
	reminder := Notification{
		Title:   task.Title,
		Urgency: UrgencyNormal,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	}

	switch {
	case dueIn <= 0:
		reminder.Body = "Task is now overdue!"
		reminder.Urgency = UrgencyCritical
	case dueIn < time.Hour:
		reminder.Body = "Task due in less than an hour"
	default:
		reminder.Body = "Task due soon"
	}
	reminder.Body += " (" + task.ProjectName + ")"
	return reminder
}

// RemindUrgent sends one reminder per dated task and returns how many were
// sent. It stops at the first failure.
func (n *Notifier) RemindUrgent(tasks []assistant.ProjectTask, now time.Time) (int, error) {
	sent := 0
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		if err := n.Send(DueReminder(t, t.DueDate.Sub(now))); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
