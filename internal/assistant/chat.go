package assistant

import (
	"fmt"
	"strings"

	"github.com/dori/projectflow/internal/model"
)

// Welcome opens every assistant conversation
const Welcome = "Hello! I'm your AI project assistant. I can help you with task suggestions, project planning, and productivity tips. How can I assist you today?"

var quickPrompts = []string{
	"How can I improve my productivity?",
	"Suggest tasks for my current project",
	"Help me prioritize my work",
	"Tips for team collaboration",
}

// QuickPrompts returns the canned questions offered under the chat input
func QuickPrompts() []string {
	out := make([]string, len(quickPrompts))
	copy(out, quickPrompts)
	return out
}

type topic struct {
	keywords []string
	reply    string
}

var topics = []topic{
	{[]string{"hello", "hi", "hey"}, "Hello! I'm here to help you manage your projects more effectively. What would you like to work on today?"},
	{[]string{"help"}, "I can help you with:\n• Project planning and task breakdown\n• Productivity tips and best practices\n• Task prioritization strategies\n• Team collaboration advice\n• Progress tracking insights\n\nWhat specific area would you like help with?"},
	{[]string{"productivity", "efficient"}, "Here are some productivity tips:\n• Break large tasks into smaller, manageable chunks\n• Use the Kanban board to visualize your workflow\n• Set realistic deadlines and stick to them\n• Focus on one task at a time to avoid context switching\n• Review and adjust your priorities regularly"},
	{[]string{"team", "collaboration"}, "For better team collaboration:\n• Assign clear ownership to each task\n• Use descriptive task titles and detailed descriptions\n• Set up regular check-ins and progress reviews\n• Encourage transparent communication\n• Celebrate completed milestones together"},
	{[]string{"priority", "important"}, "To prioritize tasks effectively:\n• Focus on high-impact, low-effort tasks first\n• Consider deadlines and dependencies\n• Align tasks with your project goals\n• Use the MoSCoW method (Must have, Should have, Could have, Won't have)\n• Review priorities weekly"},
	{[]string{"deadline", "time"}, "Time management tips:\n• Set realistic deadlines with buffer time\n• Break down large tasks with intermediate milestones\n• Use time-blocking to focus on specific tasks\n• Track time spent on different activities\n• Don't forget to account for testing and review time"},
	{[]string{"stuck", "blocked"}, "When you're stuck:\n• Break the problem into smaller parts\n• Ask for help from team members\n• Take a short break and come back with fresh eyes\n• Document what you've tried so far\n• Consider alternative approaches or solutions"},
}

var defaultReplies = []string{
	"That's an interesting point! Could you tell me more about what specific aspect you'd like help with?",
	"I'd be happy to help! Can you provide more context about your current project or challenge?",
	"Great question! Let me suggest some approaches that might work for your situation.",
	"Based on your projects, I think focusing on task organization and clear priorities would be beneficial.",
	"That sounds like a common challenge in project management. Here's what I'd recommend...",
}

func taskIdeas(name string) []string {
	return []string{
		fmt.Sprintf("For %q, consider adding a task for user research and requirements gathering.", name),
		fmt.Sprintf("You might want to add a task for testing and quality assurance in %q.", name),
		fmt.Sprintf("Consider creating a task for documentation and user guides for %q.", name),
		fmt.Sprintf("A good next task for %q could be setting up monitoring and analytics.", name),
		fmt.Sprintf("You should add a task for performance optimization in %q.", name),
	}
}

// ChatReply answers a chat message. Progress and task idea questions use the
// selected project when there is one; everything else is matched by keyword.
func ChatReply(message string, current *model.Project, rnd Rand) string {
	lower := strings.ToLower(message)

	if current != nil {
		if containsAny(lower, []string{"progress", "status"}) {
			return progressReply(current)
		}
		if strings.Contains(lower, "task") && containsAny(lower, []string{"suggest", "add", "create"}) {
			return pick(rnd, taskIdeas(current.Name))
		}
	}

	for _, t := range topics {
		if containsAny(lower, t.keywords) {
			return t.reply
		}
	}
	return pick(rnd, defaultReplies)
}

func progressReply(p *model.Project) string {
	counts := p.CountByStatus()
	parts := []string{fmt.Sprintf("Your project %q has %d out of %d tasks completed (%d%% progress).",
		p.Name, counts[model.StatusDone], len(p.Tasks), CompletionRate(p))}
	if n := counts[model.StatusInProgress]; n > 0 {
		parts = append(parts, fmt.Sprintf("You have %d tasks in progress.", n))
	}
	if len(p.Tasks) == 0 {
		parts = append(parts, "Consider adding some tasks to get started!")
	}
	return strings.Join(parts, " ")
}
