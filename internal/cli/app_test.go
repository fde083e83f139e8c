package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbtile/internal/cli"
	"github.com/bnema/dumbtile/internal/domain/entity"
)

func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("DUMBTILE_LOG_LEVEL", "error")
	t.Setenv("DUMBTILE_LOG_FORMAT", "")
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewApp_LoadsDeclaredAndStoredProfiles(t *testing.T) {
	root := isolate(t)
	profiles := filepath.Join(root, "config", "dumbtile", "profiles")
	writeFile(t, filepath.Join(profiles, "review.yaml"), `
name: review
layout:
  split:
    direction: vertical
    ratio: {first: 2, second: 1}
    first: {view: code}
    second: {view: terminal, focused: true}
`)
	writeFile(t, filepath.Join(root, "config", "dumbtile", "config.toml"), `
[layout]
default_profile = "review"
close_strategy = "probe"
`)

	app, err := cli.NewApp(cli.Options{})
	require.NoError(t, err)

	assert.Len(t, app.Declared, 1)
	assert.Equal(t, "review", app.Screen.Screen().ActiveProfile())
	assert.Equal(t, entity.CloseProbe, app.Screen.Screen().CloseStrategy())
	assert.Equal(t, entity.ViewTerminal, app.Screen.FocusedView())

	// store an edited copy of the declared profile
	app.Screen.SetView(app.Ctx(), entity.ViewMemory)
	changed, err := app.Screen.SaveProfiles(app.Ctx())
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	require.NoError(t, app.Close())

	reopened, err := cli.NewApp(cli.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	assert.Equal(t, entity.ViewMemory, reopened.Screen.FocusedView(), "stored copy wins over the file")
	assert.FileExists(t, reopened.DatabasePath())
}

func TestNewApp_UnknownDefaultProfileFallsBack(t *testing.T) {
	root := isolate(t)
	cfgPath := filepath.Join(root, "custom.toml")
	writeFile(t, cfgPath, "[layout]\ndefault_profile = \"ghost\"\n")

	app, err := cli.NewApp(cli.Options{ConfigFile: cfgPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Equal(t, entity.ProfileSmall, app.Screen.Screen().ActiveProfile())
	assert.Equal(t, cfgPath, app.ConfigManager.ConfigFile())
}

func TestNewApp_LogToFile(t *testing.T) {
	root := isolate(t)

	app, err := cli.NewApp(cli.Options{LogToFile: true, SkipStore: true})
	require.NoError(t, err)
	require.NoError(t, app.Close())

	assert.FileExists(t, filepath.Join(root, "state", "dumbtile", "logs", "dumbtile.log"))
}

func TestNewApp_InvalidConfig(t *testing.T) {
	root := isolate(t)
	cfgPath := filepath.Join(root, "bad.toml")
	writeFile(t, cfgPath, "[layout]\nclose_strategy = \"sideways\"\n")

	_, err := cli.NewApp(cli.Options{ConfigFile: cfgPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
