package cmd

import (
	"fmt"
	"os"

	"nucleus/boot"
	"nucleus/logging"
	"nucleus/trap"

	"github.com/spf13/cobra"
)

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Run the simulated boot sequence and a bounded number of PIT ticks",
	RunE: func(cmd *cobra.Command, args []string) error {
		var font []byte
		if flagFont != "" {
			data, err := os.ReadFile(flagFont)
			if err != nil {
				return fmt.Errorf("read font: %w", err)
			}
			font = data
		}

		k := boot.NewWithQuantum(logging.Default(), flagQuantum)
		if err := k.Boot(boot.Config{Font: font}); err != nil {
			return fmt.Errorf("boot: %w", err)
		}

		for i := 0; i < flagTicks; i++ {
			if err := k.Dispatcher.Dispatch(trap.VectorPIT, &trap.Frame{}, k.Scheduler.Current()); err != nil {
				return fmt.Errorf("dispatch pit tick %d: %w", i, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "booted, ran %d ticks, uptime=%+v, contexts=%d, schemes=%d\n",
			flagTicks, k.Clock.Monotonic(), len(k.Scheduler.Contexts()), len(k.Session.Schemes()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bootCmd)
}
