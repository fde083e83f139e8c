package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/dumbtile/internal/cli"
	"github.com/bnema/dumbtile/internal/cli/styles"
	"github.com/bnema/dumbtile/internal/infrastructure/config"
)

var schemaWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where dumbtile reads and writes its files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		return printPaths(cmd.OutOrStdout(), app)
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of config.toml",
	Long: `Print the JSON schema of the configuration file. With --write the schema
is saved as config.schema.json next to config.toml, where editors with
TOML schema support pick it up.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if schemaWrite {
			dir := filepath.Dir(configFile)
			if configFile == "" {
				var err error
				if dir, err = config.GetConfigDir(); err != nil {
					return err
				}
			}
			path, err := config.WriteSchemaFile(dir)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		}

		data, err := config.GenerateSchema()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configSchemaCmd)
	configSchemaCmd.Flags().BoolVarP(&schemaWrite, "write", "w", false, "write config.schema.json next to config.toml")
}

func printPaths(w io.Writer, app *cli.App) error {
	cfg := app.Config
	rows := []struct{ icon, label, path string }{
		{styles.IconFolder, "config", app.ConfigManager.ConfigFile()},
		{styles.IconDatabase, "database", app.DatabasePath()},
		{styles.IconFolder, "profiles", cfg.Layout.ProfilesDir},
		{styles.IconFolder, "logs", cfg.Logging.LogDir},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s %-9s %s\n", r.icon, r.label, r.path); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d layout files declared\n", len(app.Declared))
	return err
}
