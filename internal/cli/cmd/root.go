// Package cmd provides Cobra CLI commands for dumbtile.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/dumbtile/internal/cli"
	"github.com/bnema/dumbtile/internal/domain/build"
)

var (
	app         *cli.App
	buildInfo   build.Info
	startupHook func(context.Context)
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "dumbtile",
		Short: "A tiling pane layout engine for terminal debuggers",
		Long: `dumbtile - the window layout engine of a terminal debugger front end.

Panes form a binary tree that can be split, merged, closed and navigated
like a terminal multiplexer. Named profiles hold one tree each; the
built-in "small" and "large" profiles can be edited and saved, and layout
files in the profiles directory declare more.

Use 'dumbtile preview' to drive a layout interactively, or explore the
subcommands to inspect, import and export layouts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "schema", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(cli.Options{
				ConfigFile: configFile,
				LogToFile:  cmd.Name() == "preview",
			})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			if startupHook != nil {
				startupHook(app.Ctx())
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/dumbtile/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

// SetStartupHook registers a function run once the app is initialized.
func SetStartupHook(fn func(context.Context)) {
	startupHook = fn
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
