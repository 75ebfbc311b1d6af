package assistant

import (
	"strings"
	"time"

	"github.com/dori/projectflow/internal/model"
)

// Category is the template pool a prompt is matched to
type Category string

const (
	CategoryDesign      Category = "design"
	CategoryDevelopment Category = "development"
	CategoryMarketing   Category = "marketing"
	CategoryPlanning    Category = "planning"
)

type template struct {
	title       string
	description string
	priority    model.Priority
}

type keywordSet struct {
	category Category
	keywords []string
}

// Checked in order; the first set with a matching keyword wins
var categoryKeywords = []keywordSet{
	{CategoryDesign, []string{"design", "ui", "ux", "mockup", "wireframe"}},
	{CategoryDevelopment, []string{"code", "develop", "build", "implement", "program"}},
	{CategoryMarketing, []string{"market", "promote", "campaign", "social", "seo"}},
}

var templates = map[Category][]template{
	CategoryDesign: {
		{"Create wireframes", "Design initial wireframes and user flow", model.PriorityHigh},
		{"Design mockups", "Create high-fidelity visual designs", model.PriorityMedium},
		{"Create design system", "Establish colors, typography, and component library", model.PriorityMedium},
		{"User research", "Conduct user interviews and usability testing", model.PriorityHigh},
	},
	CategoryDevelopment: {
		{"Setup development environment", "Configure project structure and dependencies", model.PriorityHigh},
		{"Implement core functionality", "Build main features and business logic", model.PriorityHigh},
		{"Add responsive design", "Ensure compatibility across all device sizes", model.PriorityMedium},
		{"Write unit tests", "Create comprehensive test coverage", model.PriorityMedium},
	},
	CategoryMarketing: {
		{"Create content strategy", "Plan content calendar and messaging", model.PriorityMedium},
		{"Social media campaign", "Design and launch social media presence", model.PriorityMedium},
		{"SEO optimization", "Optimize content for search engines", model.PriorityLow},
		{"Analytics setup", "Implement tracking and measurement tools", model.PriorityHigh},
	},
	CategoryPlanning: {
		{"Define project scope", "Establish clear project boundaries and deliverables", model.PriorityHigh},
		{"Create timeline", "Develop detailed project schedule with milestones", model.PriorityHigh},
		{"Risk assessment", "Identify potential risks and mitigation strategies", model.PriorityMedium},
		{"Stakeholder alignment", "Ensure all stakeholders agree on objectives", model.PriorityHigh},
	},
}

type override struct {
	keywords    []string
	title       string
	description string
}

// Specific subjects replace the template text; first match wins
var overrides = []override{
	{[]string{"landing page"}, "Design landing page", "Create an engaging landing page design that converts visitors"},
	{[]string{"login", "auth"}, "Implement authentication", "Build secure user login and registration system"},
	{[]string{"database"}, "Setup database", "Design and implement database schema and connections"},
	{[]string{"api"}, "Build API endpoints", "Create RESTful API endpoints for data management"},
	{[]string{"test"}, "Write tests", "Create comprehensive test suite for quality assurance"},
	{[]string{"deploy"}, "Deploy application", "Set up production deployment and CI/CD pipeline"},
}

var generatedResponses = []string{
	"I've analyzed your request and created a task that should help move your project forward.",
	"Based on best practices, I've generated a task with appropriate priority and timeline.",
	"Here's a task I've created to address your needs. Feel free to modify the details as needed.",
	"I've crafted this task based on common project patterns and your specific requirements.",
	"This task should help you achieve your goal. I've set a reasonable priority based on the context.",
}

// Generated is a task drafted from a prompt. The task has no id or creation
// time until it is accepted into a project.
type Generated struct {
	Task     model.Task `json:"task"`
	Category Category   `json:"category"`
	Response string     `json:"aiResponse"`
}

// Classify returns the template pool for a prompt. Matching is by substring,
// so "build" lands in design because it contains "ui".
func Classify(prompt string) Category {
	lower := strings.ToLower(prompt)
	for _, set := range categoryKeywords {
		if containsAny(lower, set.keywords) {
			return set.category
		}
	}
	return CategoryPlanning
}

// GenerateTask drafts a todo task from free text. The due date is three,
// seven or fourteen days out for high, medium and low priority templates.
func GenerateTask(prompt string, now time.Time, rnd Rand) Generated {
	category := Classify(prompt)
	tmpl := pick(rnd, templates[category])

	title, description := tmpl.title, tmpl.description
	lower := strings.ToLower(prompt)
	for _, o := range overrides {
		if containsAny(lower, o.keywords) {
			title, description = o.title, o.description
			break
		}
	}

	due := now.Add(dueOffset(tmpl.priority)).UTC()
	return Generated{
		Task: model.Task{
			Title:       title,
			Description: description,
			Status:      model.StatusTodo,
			Priority:    tmpl.priority,
			DueDate:     &due,
		},
		Category: category,
		Response: pick(rnd, generatedResponses),
	}
}

func dueOffset(p model.Priority) time.Duration {
	switch p {
	case model.PriorityHigh:
		return 3 * 24 * time.Hour
	case model.PriorityMedium:
		return 7 * 24 * time.Hour
	default:
		return 14 * 24 * time.Hour
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
