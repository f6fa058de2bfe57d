package neoclock

import (
	"fmt"

	"github.com/dasdy/neoclock/sink"
	"github.com/spf13/cobra"
)

// devicesCmd represents the devices command.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List serial ports an LED controller may be attached to",
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := sink.SerialDevices()
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found")

			return nil
		}

		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
