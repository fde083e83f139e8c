package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/bnema/dumbtile/internal/application/usecase"
	"github.com/bnema/dumbtile/internal/cli/styles"
)

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "Manage layout profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in, declared and stored profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		return listProfiles(app.Ctx(), cmd.OutOrStdout(), app.Theme, app.Screen, time.Now())
	},
}

var profilesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create and store a profile holding a single pane",
	Long: `Create a profile with one pane showing layout.default_view and store it.
Edit it with 'dumbtile preview --profile <name>'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		return createProfile(app.Ctx(), cmd.OutOrStdout(), app.Screen, args[0])
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored profile",
	Long: `Delete the stored copy of a profile. Deleting a stored built-in profile
restores its preset; declared layout files are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		if err := app.Screen.DeleteProfile(app.Ctx(), args[0]); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s deleted\n", args[0])
		return err
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd, profilesCreateCmd, profilesDeleteCmd)
}

func listProfiles(ctx context.Context, w io.Writer, theme *styles.Theme, uc *usecase.ManageScreenUseCase, now time.Time) error {
	infos, err := uc.ListProfiles(ctx)
	if err != nil {
		return err
	}
	rows := make([]table.Row, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, styles.ProfileRow(info, now))
	}

	// header and its border take two lines
	t := styles.NewStyledTable(theme, styles.ProfileTableColumns(), rows, 70, len(rows)+2)
	_, err = fmt.Fprintln(w, t.View())
	return err
}

func createProfile(ctx context.Context, w io.Writer, uc *usecase.ManageScreenUseCase, name string) error {
	if err := uc.NewProfile(ctx, name); err != nil {
		return err
	}
	if _, err := uc.SaveProfile(ctx, name); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s created\n", name)
	return err
}
