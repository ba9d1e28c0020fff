package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the nucleus CLI's version string, set at build time via
// -ldflags the same way the teacher's CLI injects its own version.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the nucleus version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
