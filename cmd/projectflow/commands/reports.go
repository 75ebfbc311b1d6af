package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dori/projectflow/internal/app"
	"github.com/dori/projectflow/internal/assistant"
	"github.com/dori/projectflow/internal/export"
	"github.com/dori/projectflow/internal/model"
	"github.com/dori/projectflow/internal/notify"
)

var (
	exportFormat string
	exportOutput string
	remindDryRun bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary [project]",
	Short: "Summarize progress of one project or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummary,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show urgent tasks, high priority work and suggestions",
	Args:  cobra.NoArgs,
	RunE:  runSuggest,
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send a desktop notification for each task due soon",
	Long: `Send a desktop notification through notify-send for every unfinished
task due within the next two days.

Use --dry-run to list the tasks without notifying, e.g. from cron:
  */30 * * * * projectflow remind`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the signed in user's projects",
	Long: `Write the signed in user and their projects to a file.

The file is named projectflow-data-YYYY-MM-DD.<format> unless --output
is given. Use --output - to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	remindCmd.Flags().BoolVar(&remindDryRun, "dry-run", false, "List the tasks without sending notifications")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, - for stdout")

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(exportCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	projects := a.State.Projects()
	if len(args) == 1 {
		project := findProject(projects, args[0])
		if project == nil {
			return p.Error("Project not found", "No project has the id or name "+args[0]+".",
				"Run `projectflow summary` without an argument",
				"Run `projectflow projects` to see your projects")
		}
		projects = []model.Project{*project}
	}
	if len(projects) == 0 {
		p.Info("No projects to summarize.")
		return nil
	}

	for i := range projects {
		if i > 0 {
			p.Info("")
		}
		summary, err := a.Assistant.Summarize(ctx, &projects[i])
		if err != nil {
			return p.Error("Failed to summarize", err.Error())
		}
		p.Info("%s", summary)
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
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

	smart, err := a.Assistant.Suggest(ctx, a.State.Projects())
	if err != nil {
		return p.Error("Failed to build suggestions", err.Error())
	}
	p.TaskList("Needs attention", smart.UrgentTasks)
	p.Info("")
	p.TaskList("High priority", smart.PriorityTasks)
	p.Info("")
	p.Bullets(smart.Suggestions)
	return nil
}

func runRemind(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, err := openApp(p, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := requireUser(cmd.Context(), a, p); err != nil {
		return err
	}

	urgent := assistant.UrgentTasks(a.State.Projects(), a.Now())
	if len(urgent) == 0 {
		p.Success("Nothing due in the next two days")
		return nil
	}
	if remindDryRun {
		p.TaskList("Would remind", urgent)
		return nil
	}
	if err := a.Notifier.Available(); errors.Is(err, notify.ErrDisabled) {
		p.Warning("Notifications are disabled (notify.enabled is false)")
		p.TaskList("Due soon", urgent)
		return nil
	} else if err != nil {
		return p.Error("Cannot show desktop notifications", err.Error(),
			"Install notify-send (libnotify)",
			"Use --dry-run to list the tasks instead")
	}

	sent, err := a.Notifier.RemindUrgent(urgent, a.Now())
	if err != nil {
		return p.Error("Failed to send notifications",
			fmt.Sprintf("%d of %d reminders were sent: %v", sent, len(urgent), err),
			"Check that notify-send is installed",
			"Use --dry-run to list the tasks instead")
	}
	p.Success("Sent %d reminders", sent)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return p.Error("Invalid format", err.Error())
	}

	a, err := openApp(p, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := requireUser(cmd.Context(), a, p)
	if err != nil {
		return err
	}
	data := export.Build(user, a.State.Projects(), a.Now())

	if exportOutput == "-" {
		if err := export.Write(p.Out(), data, format); err != nil {
			return p.Error("Failed to export", err.Error())
		}
		return nil
	}

	path := exportOutput
	if path == "" {
		path = export.FileName(a.Now(), format)
	}
	f, err := os.Create(path)
	if err != nil {
		return p.Error("Failed to create export file", err.Error())
	}
	defer f.Close()

	if err := export.Write(f, data, format); err != nil {
		return p.Error("Failed to export", err.Error())
	}
	if err := f.Close(); err != nil {
		return p.Error("Failed to write export file", err.Error())
	}
	p.Success("Exported %d projects to %s", len(data.Projects), path)
	return nil
}
