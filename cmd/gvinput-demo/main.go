package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gioui.org/app"
	"github.com/oligo/gvinput/config"
	"github.com/oligo/gvinput/editor"
	"github.com/oligo/gvinput/textstyle/decoration"
	gvwidget "github.com/oligo/gvinput/widget"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Flags shared by all commands
var (
	flagConfig string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gvinput-demo",
		Short: "Request editor built on gvinput text inputs",
		Long: `gvinput-demo opens a window with a single line URL input and a multi-line
request body. Enter in the URL input sends the request to the log.

Examples:
  gvinput-demo                                  # Open the window with defaults
  gvinput-demo --config inputs.toml             # Use settings from a file
  gvinput-demo config init inputs.yaml          # Write the default settings
  gvinput-demo replay --text hello left backspace`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flagConfig)
			if err != nil {
				return err
			}
			if err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
				return err
			}

			a, err := newRequestApp(cfg)
			if err != nil {
				return err
			}
			go func() {
				if err := a.run(); err != nil {
					slog.Error("window closed", "error", err)
					os.Exit(1)
				}
				os.Exit(0)
			}()

			app.Main()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Settings file (.toml, .yaml or .yml)")
	rootCmd.AddCommand(newConfigCmd(), newReplayCmd())
	return rootCmd
}

func newConfigCmd() *cobra.Command {
	var force bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage settings files",
	}
	initCmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Write the default settings to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	configCmd.AddCommand(initCmd)
	return configCmd
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setupLogging routes the logs of every package to a text handler at the
// configured level.
func setupLogging(cfg config.Config, w io.Writer) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	editor.SetLogger(log)
	decoration.SetLogger(log)
	gvwidget.SetLogger(log)
	return nil
}
