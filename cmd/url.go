package cmd

import (
	"fmt"

	"nucleus/kurl"

	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Parse a URL and print its scheme/authority/path decomposition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := kurl.New(args[0])
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "scheme:   %s\n", u.Scheme())
		fmt.Fprintf(out, "username: %s\n", u.Username())
		fmt.Fprintf(out, "password: %s\n", u.Password())
		fmt.Fprintf(out, "host:     %s\n", u.Host())
		fmt.Fprintf(out, "port:     %s\n", u.Port())
		fmt.Fprintf(out, "path:     %s\n", u.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
}
