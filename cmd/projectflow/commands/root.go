// Package commands implements the projectflow command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dori/projectflow/internal/app"
	"github.com/dori/projectflow/internal/config"
	"github.com/dori/projectflow/internal/model"
	"github.com/dori/projectflow/internal/printer"
	"github.com/dori/projectflow/internal/ui"
)

var (
	version string
	commit  string
	date    string

	cfgFile   string
	noLatency bool
)

// rootCmd starts the terminal board when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "projectflow",
	Short: "projectflow - projects, tasks and a board in your terminal",
	Long: `projectflow manages projects and their tasks.

Run without a subcommand to open the terminal board: a dashboard, a
kanban board per project and an assistant that drafts tasks and
summarizes progress. The subcommands script the same data from a shell,
and serve exposes it over HTTP.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

// Execute runs the root command. It is called by main.main.
func Execute() error {
	// Errors are printed by the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $XDG_CONFIG_HOME/projectflow/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noLatency, "no-latency", false, "Answer immediately instead of simulating network delay")
}

// loadConfig reads the config file, environment and global flags
func loadConfig() (*config.Config, error) {
	config.Init(cfgFile)
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if noLatency {
		cfg.Latency.Enabled = false
	}
	return cfg, nil
}

func newPrinter(cmd *cobra.Command) *printer.Printer {
	return printer.NewWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// openApp starts the application, printing why when it cannot
func openApp(p *printer.Printer, opts app.Options) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, p.Error("Invalid configuration", err.Error(),
			"Check the file passed with --config",
			"Check PROJECTFLOW_* environment variables")
	}

	a, err := app.New(cfg, opts)
	if errors.Is(err, app.ErrAlreadyRunning) {
		return nil, p.Error("projectflow is already running",
			"Another terminal board holds the lock on the data directory.",
			"Close the other instance and try again")
	}
	if err != nil {
		return nil, p.Error("Failed to start projectflow", err.Error())
	}
	p.WithClock(a.Now)
	return a, nil
}

// requireUser loads the stored session and returns the signed in user
func requireUser(ctx context.Context, a *app.App, p *printer.Printer) (*model.User, error) {
	a.State.Load(ctx)
	user := a.State.User()
	if user == nil {
		return nil, p.Error("Not signed in",
			"This command works on the signed in user's projects.",
			"Run `projectflow login --email you@example.com --password secret`")
	}
	return user, nil
}

// findProject resolves a project by id, falling back to a case-insensitive
// name match
func findProject(projects []model.Project, ref string) *model.Project {
	for i := range projects {
		if projects[i].ID == ref {
			return &projects[i]
		}
	}
	for i := range projects {
		if strings.EqualFold(projects[i].Name, ref) {
			return &projects[i]
		}
	}
	return nil
}

func runBoard(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, err := openApp(p, app.Options{Exclusive: true})
	if err != nil {
		return err
	}
	defer a.Close()

	program := tea.NewProgram(
		ui.NewRootModel(a),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := program.Run(); err != nil {
		return p.Error("The terminal board stopped", err.Error())
	}
	return nil
}
