// Package quickadd parses one-line task entries such as
// "Fix footer !high due:fri @sam".
package quickadd

import (
	"strings"
	"time"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/model"
)

// Parse turns text into a task. Recognised tokens are removed from the
// title; anything unrecognised stays in it.
//
//	!low !med !high      priority
//	due:<date>           due date, see ParseDate
//	@name                assignee
//	status:<s>           todo, doing or done
func Parse(text string, now time.Time) api.TaskInput {
	in := api.TaskInput{Status: model.StatusTodo}
	var titleParts []string

	for _, word := range strings.Fields(text) {
		lower := strings.ToLower(word)
		switch {
		case strings.HasPrefix(word, "@") && len(word) > 1:
			in.Assignee = strings.TrimPrefix(word, "@")

		case strings.HasPrefix(word, "!"):
			if p, ok := parsePriority(strings.TrimPrefix(lower, "!")); ok {
				in.Priority = p
			} else {
				titleParts = append(titleParts, word)
			}

		case strings.HasPrefix(lower, "due:"):
			if due := ParseDate(strings.TrimPrefix(lower, "due:"), now); due != nil {
				in.DueDate = due
			} else {
				titleParts = append(titleParts, word)
			}

		case strings.HasPrefix(lower, "status:"):
			if s, ok := parseStatus(strings.TrimPrefix(lower, "status:")); ok {
				in.Status = s
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	in.Title = strings.Join(titleParts, " ")
	return in
}

func parsePriority(s string) (model.Priority, bool) {
	switch s {
	case "low", "l":
		return model.PriorityLow, true
	case "medium", "med", "m":
		return model.PriorityMedium, true
	case "high", "hi", "h":
		return model.PriorityHigh, true
	}
	return "", false
}

func parseStatus(s string) (model.Status, bool) {
	switch s {
	case "todo":
		return model.StatusTodo, true
	case "doing", "progress", "in-progress", "wip":
		return model.StatusInProgress, true
	case "done":
		return model.StatusDone, true
	}
	return "", false
}

// ParseDate understands today, tomorrow, weekday names, nextweek and a few
// numeric formats. Relative dates land at the end of the day. Returns nil
// when s is not a date.
func ParseDate(s string, now time.Time) *time.Time {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	in := func(days int) *time.Time {
		t := endOfDay.AddDate(0, 0, days)
		return &t
	}

	switch strings.ToLower(s) {
	case "today":
		return in(0)
	case "tomorrow", "tom":
		return in(1)
	case "nextweek":
		return in(7)
	}
	if day, ok := weekdays[strings.ToLower(s)]; ok {
		return in(daysUntil(now.Weekday(), day))
	}

	for _, layout := range []string{"2006-01-02", "01/02/2006", "01-02-2006"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, now.Location())
			return &t
		}
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// daysUntil counts forward to the next occurrence of day, never today
func daysUntil(from, day time.Weekday) int {
	n := int(day - from)
	if n <= 0 {
		n += 7
	}
	return n
}

// FormatDue renders a due date relative to now
func FormatDue(t, now time.Time) string {
	t = t.In(now.Location())
	if sameDay(t, now) {
		return "today"
	}
	if sameDay(t, now.AddDate(0, 0, 1)) {
		return "tomorrow"
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return "yesterday"
	}
	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
