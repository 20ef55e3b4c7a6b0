package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/marrasen/customied/iec61850"
	"github.com/marrasen/customied/internal/config"
	"github.com/marrasen/customied/internal/device"
	"github.com/marrasen/customied/internal/logger"
	"github.com/marrasen/customied/internal/metrics"
	"github.com/marrasen/customied/internal/stack"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "custom-ied [port] [filesdir]",
	Short: "Simulated IEC 61850 field device",
	Long: `custom-ied serves an IEC 61850 data model over MMS and updates four
simulated analog inputs every period. File services are enabled when a
files directory is given; clients may never rename or delete files.`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDevice,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
}

func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig(config.LoadOptions{File: configFile, EnvFile: envFile})
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyArgs(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDevice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logg.Sync() }()

	logg.Info("Using libIEC61850 version", zap.String("version", iec61850.GetVersionString()))

	model, err := iec61850.CreateModelFromConfigFileEx(cfg.Model.File)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	defer model.Destroy()

	return device.Run(cmd.Context(), device.Options{
		Server:        cfg.IedServerConfig(),
		Factory:       stack.NewFactory(model, cfg.Model.AnalogRefs, logg.Named("stack")),
		Period:        cfg.Simulation.Period,
		Step:          cfg.Simulation.Step,
		MetricsListen: cfg.Metrics.Listen,
		MetricsPath:   cfg.Metrics.Path,
		Logger:        logg,
		Metrics:       metrics.New(),
	})
}

// Execute runs the root command and exits with the code of a failed run.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}

	code := device.ExitCodeError
	var exitErr *device.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}

	// console + debug gives readable timestamps for a CLI error
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr == nil {
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
