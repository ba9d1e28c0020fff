// Package cmd implements the nucleus CLI: a cobra command tree exposing
// the kernel's boot sequence and a couple of debug utilities, standing in
// for the bootloader's command line and the original kernel's debug
// console commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"nucleus/logging"

	"github.com/spf13/cobra"
)

var (
	flagQuantum   int64
	flagFont      string
	flagTicks     int
	flagLog       string
	flagLogFormat string
	flagDebug     bool
)

// rootCmd is the nucleus command tree's entry point.
var rootCmd = &cobra.Command{
	Use:   "nucleus",
	Short: "A cooperative single-CPU kernel nucleus",
	Long: `nucleus simulates a small single-CPU kernel: a round-robin scheduler,
an interrupt/syscall dispatcher, and a URL-addressed resource registry,
driven by a bounded boot-and-run CLI instead of a bootloader.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logging.ParseLevel(flagLog)
		if flagDebug {
			level = slog.LevelDebug
		}
		logging.SetDefault(logging.NewLogger(logging.Config{
			Level:  level,
			Format: flagLogFormat,
			Output: os.Stderr,
		}))
		return nil
	},
}

// Execute runs the nucleus command tree, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagQuantum, "quantum", 2_250_286,
		"PIT tick duration override, in nanoseconds")
	rootCmd.PersistentFlags().StringVar(&flagFont, "font", "",
		"path to a font blob to load during boot, in place of a bootloader-supplied pointer")
	rootCmd.PersistentFlags().IntVar(&flagTicks, "ticks", 100,
		"number of PIT ticks to run before stopping (a real kernel's idle loop never returns)")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text",
		"log output format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"shorthand for --log debug")
}
