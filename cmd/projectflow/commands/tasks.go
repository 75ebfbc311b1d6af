package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dori/projectflow/internal/app"
	"github.com/dori/projectflow/internal/quickadd"
)

var addProject string

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"ls"},
	Short:   "List projects and their tasks",
	Args:    cobra.NoArgs,
	RunE:    runProjects,
}

var addCmd = &cobra.Command{
	Use:   "add <task>",
	Short: "Quick add a task",
	Long: `Add a task to a project from one line of text.

Quick add syntax:
  !low !medium !high          priority
  @name                       assignee
  due:tomorrow due:friday     due date (also due:2026-03-20)
  status:doing status:done    start in another column

The task goes to the project named by --project (id or name), or to the
first project when omitted.

Examples:
  projectflow add "Review PR !high due:tomorrow"
  projectflow add --project "Website Redesign" "Fix footer @sam"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addProject, "project", "P", "", "Project id or name (default: first project)")

	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(addCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, err := openApp(p, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := requireUser(cmd.Context(), a, p); err != nil {
		return err
	}
	projects := a.State.Projects()
	if len(projects) == 0 {
		p.Info("No projects yet. Create one on the board or with the web API.")
		return nil
	}
	for i, project := range projects {
		if i > 0 {
			p.Info("")
		}
		p.Project(project)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, err := openApp(p, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	if _, err := requireUser(ctx, a, p); err != nil {
		return err
	}

	in := quickadd.Parse(strings.Join(args, " "), a.Now())
	if strings.TrimSpace(in.Title) == "" {
		return p.Error("Task title is required",
			"Everything in the text was read as a modifier.",
			`Add words that are not modifiers, e.g. projectflow add "Write docs !high"`)
	}

	projects := a.State.Projects()
	if len(projects) == 0 {
		return p.Error("No projects", "Tasks belong to a project and you have none.",
			"Create a project on the board first")
	}
	project := &projects[0]
	if addProject != "" {
		if project = findProject(projects, addProject); project == nil {
			return p.Error("Project not found", "No project has the id or name "+addProject+".",
				"Run `projectflow projects` to see your projects")
		}
	}

	task := a.State.AddTask(ctx, project.ID, in)
	if task == nil {
		return p.Error("Failed to add task", "See the log for details.")
	}
	p.Success("Added to %s", project.Name)
	p.Info("  %s", p.TaskLine(*task))
	return nil
}
