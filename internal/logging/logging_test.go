package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbtile/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"loud", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in, zerolog.WarnLevel))
		})
	}
}

func TestNewFromConfigValuesTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewFromConfigValuesTo("warn", "json", &buf)

	logger.Info().Msg("dropped")
	logger.Warn().Str("profile", "large").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "large", entry["profile"])
	assert.Equal(t, "warn", entry["level"])
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewFromConfigValuesTo("debug", "json", &buf)

	ctx := logging.WithContext(context.Background(), logger)
	ctx = logging.WithComponent(ctx, "usecase")
	ctx = logging.WithProfile(ctx, "small")
	ctx = logging.With(ctx, map[string]any{"pane_id": 3})

	logging.FromContext(ctx).Debug().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "usecase", entry["component"])
	assert.Equal(t, "small", entry["profile"])
	assert.EqualValues(t, 3, entry["pane_id"])
}

func TestFromContext_WithoutLoggerIsDisabled(t *testing.T) {
	logger := logging.FromContext(context.Background())
	require.NotNil(t, logger)
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestLogRotator_RotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	r, err := logging.NewLogRotator(logging.RotatorConfig{
		Dir:        dir,
		FileName:   "test.log",
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for i := 0; i < 3; i++ {
		n, err := r.Write(chunk)
		require.NoError(t, err)
		require.Equal(t, len(chunk), n)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "test.log.") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)

	info, err := os.Stat(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}

func TestLogRotator_Compress(t *testing.T) {
	dir := t.TempDir()
	r, err := logging.NewLogRotator(logging.RotatorConfig{Dir: dir, MaxSizeMB: 1, Compress: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	chunk := bytes.Repeat([]byte("y"), 700*1024)
	_, err = r.Write(chunk)
	require.NoError(t, err)
	_, err = r.Write(chunk)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "dumbtile.log.*.gz"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Equal(t, filepath.Join(dir, "dumbtile.log"), r.Path())
}

func TestStartupTrace(t *testing.T) {
	t.Run("disabled above debug", func(t *testing.T) {
		st := logging.NewStartupTrace("info")
		st.Mark("config_loaded")
		assert.False(t, st.Enabled())
		assert.Empty(t, st.Milestones())
	})

	t.Run("buffers until a logger is attached", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewFromConfigValuesTo("debug", "json", &buf)

		st := logging.NewStartupTrace("debug")
		st.Mark("config_loaded")
		assert.Zero(t, buf.Len())

		st.SetLogger(&logger)
		st.Mark("first_frame")
		st.Finish()
		st.Mark("ignored")

		names := make([]string, 0, 3)
		for _, m := range st.Milestones() {
			names = append(names, m.Name)
		}
		assert.Equal(t, []string{"process_start", "config_loaded", "first_frame"}, names)
		assert.Contains(t, buf.String(), "startup complete")
		assert.Equal(t, 4, strings.Count(buf.String(), "\n"))
	})

	t.Run("nil trace is a no-op", func(t *testing.T) {
		var st *logging.StartupTrace
		st.Mark("x")
		st.Finish()
		assert.False(t, st.Enabled())
	})
}
