package main

import (
	"fmt"

	"github.com/marrasen/customied/iec61850"
	"github.com/marrasen/customied/internal/config"

	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model [file]",
	Short: "Print the data model served by the device",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 1 {
			file = args[0]
		} else {
			cfg, err := config.LoadConfig(config.LoadOptions{File: configFile, EnvFile: envFile})
			if err != nil {
				return err
			}
			file = cfg.Model.File
		}

		model, err := iec61850.CreateModelFromConfigFileEx(file)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		defer model.Destroy()

		fmt.Fprintln(cmd.OutOrStdout(), model.DataModel().String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)
}
