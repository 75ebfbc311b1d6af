package commands

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		p := newPrinter(cmd)
		p.Info("projectflow %s", version)
		p.Info("  commit: %s", commit)
		p.Info("  built:  %s", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
