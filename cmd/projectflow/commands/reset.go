package commands

import (
	"github.com/spf13/cobra"

	"github.com/dori/projectflow/internal/app"
)

var resetConfirmed bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored data and start over with the sample projects",
	Long: `Delete every user, project and task from the configured backend.

The next command reads an empty store and seeds the two sample projects
again. The session is gone too, so sign in afterwards. Refuses to run
while the terminal board is open.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetConfirmed, "yes", "y", false, "Confirm deleting all data")

	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	if !resetConfirmed {
		return p.Error("Refusing to delete data without confirmation",
			"reset removes every user, project and task.",
			"Run `projectflow reset --yes`",
			"Run `projectflow export` first to keep a copy")
	}

	a, err := openApp(p, app.Options{Exclusive: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Store.Reset(cmd.Context()); err != nil {
		return p.Error("Failed to delete data", err.Error())
	}
	p.Success("All data deleted")
	p.Info("The sample projects are restored on next use. Sign in with `projectflow login`.")
	return nil
}
