package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/leandrodaf/smfnotes/sdk/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List live MIDI input devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, opts := setup()
		client, err := midi.NewMIDIClient(opts...)
		if err != nil {
			return err
		}
		devices, err := client.ListDevices()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMANUFACTURER\tENTITY")
		for _, d := range devices {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", d.ID, d.Name, d.Manufacturer, d.EntityName)
		}
		return w.Flush()
	},
}
