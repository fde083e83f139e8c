package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/dumbtile/internal/cli/model"
	"github.com/bnema/dumbtile/internal/infrastructure/config"
	"github.com/bnema/dumbtile/internal/logging"
)

var previewProfile string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Drive a layout interactively",
	Long: `Open a full-screen preview of the active profile. Each pane is drawn as a
labelled box; no pane content is rendered.

Keys:
  h/j/k/l, arrows   move focus
  | and -           split side by side or stacked
  m                 merge the focused pane with its sibling
  x                 close the focused pane
  f                 toggle full-screen
  enter / esc       capture input in the terminal pane / release it
  v                 cycle the focused pane's view
  tab               next profile
  s                 save the active profile
  ?                 help
  q                 quit

Moving the mouse focuses the pane under the pointer. While the terminal
captures input the last pointer position is kept and applied on release.
Logs go to the rotating file in logging.log_dir.`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewProfile, "profile", "p", "", "profile to open (default layout.default_profile)")
}

func runPreview(_ *cobra.Command, _ []string) error {
	app, err := requireApp()
	if err != nil {
		return err
	}
	ctx := logging.WithComponent(app.Ctx(), "preview")
	log := logging.FromContext(ctx)

	if previewProfile != "" {
		if err := app.Screen.SwitchProfile(ctx, previewProfile); err != nil {
			return err
		}
	}

	m := model.NewPreviewModel(ctx, app.Theme, model.PreviewModelConfig{
		Screen:   app.Screen,
		ShowHelp: app.Config.Appearance.ShowHelp,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	// Reloads are delivered through the program so the use case is only
	// touched from Update.
	app.ConfigManager.OnConfigChange(func(cfg *config.Config) {
		p.Send(model.ConfigChangedMsg{Config: cfg})
	})
	if err := app.ConfigManager.Watch(ctx); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}

	app.FinishStartup()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	if !app.ConfigManager.Get().Layout.PersistOnExit {
		return nil
	}
	changed, err := app.Screen.SaveProfiles(ctx)
	if err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	log.Info().Int("changed", changed).Msg("profiles saved on exit")
	return nil
}
