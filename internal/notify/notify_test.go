package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/model"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func urgentTask(id string, due time.Time) assistant.ProjectTask {
	return assistant.ProjectTask{
		Task:        model.Task{ID: id, Title: "Task " + id, Status: model.StatusTodo, DueDate: &due},
		ProjectID:   "1",
		ProjectName: "Launch",
	}
}

func TestArgs(t *testing.T) {
	args := Args(Notification{Title: "Hi", Body: "there", Urgency: UrgencyCritical, Timeout: 2 * time.Second, Icon: "x"})
	assert.Equal(t, []string{"-u", "critical", "-t", "2000", "-i", "x", "-a", "projectflow", "Hi", "there"}, args)

	assert.Equal(t, []string{"-u", "low", "-a", "projectflow", "Hi"}, Args(Notification{Title: "Hi", Urgency: UrgencyLow}))
}

func TestDueReminder(t *testing.T) {
	overdue := DueReminder(urgentTask("1", now.Add(-time.Hour)), -time.Hour)
	assert.Equal(t, UrgencyCritical, overdue.Urgency)
	assert.Equal(t, "Task is now overdue! (Launch)", overdue.Body)

	soon := DueReminder(urgentTask("2", now.Add(30*time.Minute)), 30*time.Minute)
	assert.Equal(t, UrgencyNormal, soon.Urgency)
	assert.Equal(t, "Task due in less than an hour (Launch)", soon.Body)
}

func TestRemindUrgent(t *testing.T) {
	var calls [][]string
	n := NewNotifier().WithRunner(func(name string, args ...string) error {
		assert.Equal(t, "notify-send", name)
		calls = append(calls, args)
		return nil
	})

	sent, err := n.RemindUrgent([]assistant.ProjectTask{
		urgentTask("1", now.Add(-time.Hour)),
		urgentTask("2", now.Add(24*time.Hour)),
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0], "Task 1")
	assert.Contains(t, calls[1], "Task due soon (Launch)")
}

func TestRemindUrgentStopsOnError(t *testing.T) {
	n := NewNotifier().WithRunner(func(string, ...string) error { return errors.New("no display") })

	sent, err := n.RemindUrgent([]assistant.ProjectTask{urgentTask("1", now)}, now)
	assert.Error(t, err)
	assert.Equal(t, 0, sent)
}

func TestDisabledNotifierSendsNothing(t *testing.T) {
	n := NewNotifier().WithRunner(func(string, ...string) error {
		t.Fatal("runner called")
		return nil
	})
	n.SetEnabled(false)

	require.NoError(t, n.Send(Notification{Title: "x"}))
}

func TestAvailable(t *testing.T) {
	n := NewNotifier().WithRunner(func(string, ...string) error { return nil })
	assert.NoError(t, n.Available())

	n.SetEnabled(false)
	assert.ErrorIs(t, n.Available(), ErrDisabled)

	missing := NewNotifier()
	missing.lookPath = func(string) (string, error) { return "", errors.New("not in PATH") }
	err := missing.Available()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "not in PATH")
}

func TestUrgencyString(t *testing.T) {
	assert.Equal(t, "low", UrgencyLow.String())
	assert.Equal(t, "normal", UrgencyNormal.String())
	assert.Equal(t, "critical", UrgencyCritical.String())
}
