package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/graphgrad/internal/config"
	"github.com/born-ml/graphgrad/internal/envconfig"
)

const version = "v0.1.0-dev"

// NewCLI builds the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "graphgrad",
		Short:         "Train small networks with a static autodiff graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "HCL configuration file (env GRAPHGRAD_CONFIG)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newTrainCmd(),
		newInspectCmd(),
		newEnvCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func setupLogging(cmd *cobra.Command) {
	level := envconfig.LogLevel()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads --config, falling back to GRAPHGRAD_CONFIG and then to
// the defaults, and applies environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = envconfig.Config()
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
		slog.Debug("config loaded", "path", path)
	}

	if seed := envconfig.Seed(); seed != 0 {
		cfg.Model.Seed = seed
	}
	if dir := envconfig.DataDir(); dir != "" {
		cfg.Data.Dir = dir
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "graphgrad %s\n", version)
		},
	}
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show environment settings",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			writeEnv(cmd.OutOrStdout(), envconfig.Values())
		},
	}
}
