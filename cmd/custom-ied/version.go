package main

import (
	"fmt"

	"github.com/marrasen/customied/iec61850"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the libIEC61850 version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "libIEC61850 %s\n", iec61850.GetVersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
