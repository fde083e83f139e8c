package layoutfile_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
	"github.com/bnema/dumbtile/internal/infrastructure/layoutfile"
	"github.com/bnema/dumbtile/internal/logging"
)

const reviewYAML = `name: Review
description: source on the left, terminal below
layout:
  split:
    direction: vertical
    ratio: {first: 2, second: 1}
    first: {view: code}
    second: {view: terminal, focused: true}
`

const reviewJSONC = `{
  // the same profile, with comments
  "name": "review",
  "description": "source on the left, terminal below",
  "layout": {
    "split": {
      "direction": "vertical",
      "ratio": {"first": 2, "second": 1},
      "first": {"view": "code"},
      /* trailing commas are accepted */
      "second": {"view": "terminal", "focused": true},
    },
  },
}`

func reviewLayout() *entity.LayoutNode {
	return entity.VSplit(entity.Ratio{First: 2, Second: 1},
		entity.Leaf(entity.ViewCode),
		entity.FocusedLeaf(entity.ViewTerminal),
	)
}

func TestParse_TextFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format layoutfile.Format
	}{
		{name: "yaml", data: reviewYAML, format: layoutfile.FormatYAML},
		{name: "jsonc", data: reviewJSONC, format: layoutfile.FormatJSONC},
		{
			name: "json",
			data: `{"name":"review","description":"source on the left, terminal below","layout":{"split":{"direction":"v","ratio":{"first":2,"second":1},"first":{"view":"code"},"second":{"view":"terminal","focused":true}}}}`,
			format: layoutfile.FormatJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := layoutfile.Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, "review", f.Name)
			assert.Equal(t, "source on the left, terminal below", f.Description)
			assert.Equal(t, reviewLayout(), f.Layout)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format layoutfile.Format
		is     error
	}{
		{
			name:   "unknown yaml field",
			data:   "name: x\ncolour: red\nlayout: {view: code}\n",
			format: layoutfile.FormatYAML,
		},
		{
			name:   "unknown json field",
			data:   `{"name":"x","layout":{"view":"code","size":3}}`,
			format: layoutfile.FormatJSON,
		},
		{
			name:   "unknown direction",
			data:   "name: x\nlayout:\n  split:\n    direction: diagonal\n    ratio: {first: 1, second: 1}\n    first: {view: code}\n    second: {view: trace}\n",
			format: layoutfile.FormatYAML,
		},
		{
			name:   "missing name",
			data:   `{"layout":{"view":"code"}}`,
			format: layoutfile.FormatJSON,
			is:     entity.ErrInvalidOperation,
		},
		{
			name:   "missing layout",
			data:   "name: empty\n",
			format: layoutfile.FormatYAML,
			is:     entity.ErrInvalidOperation,
		},
		{
			name:   "zero ratio",
			data:   "name: x\nlayout:\n  split:\n    direction: h\n    ratio: {first: 0, second: 1}\n    first: {view: code}\n    second: {view: trace}\n",
			format: layoutfile.FormatYAML,
			is:     entity.ErrInvalidOperation,
		},
		{
			name:   "unsupported format",
			data:   "name: x",
			format: layoutfile.Format("toml"),
			is:     layoutfile.ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := layoutfile.Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	src := &layoutfile.File{Name: "large", Description: "preset", Layout: pane.LargeScreenLayout()}

	for _, format := range []layoutfile.Format{layoutfile.FormatYAML, layoutfile.FormatJSON, layoutfile.FormatCBOR} {
		t.Run(string(format), func(t *testing.T) {
			data, err := layoutfile.Marshal(src, format)
			require.NoError(t, err)

			got, err := layoutfile.Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, src.Name, got.Name)
			assert.Equal(t, src.Description, got.Description)
			assert.Equal(t, src.Layout, got.Layout)
		})
	}
}

func TestMarshal_DirectionsAreText(t *testing.T) {
	f := &layoutfile.File{Name: "review", Layout: reviewLayout()}

	yml, err := layoutfile.Marshal(f, layoutfile.FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(yml), "direction: vertical")

	js, err := layoutfile.Marshal(f, layoutfile.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"direction": "vertical"`)
}

func TestMarshal_CBORIsDeterministic(t *testing.T) {
	f := &layoutfile.File{Name: "large", Layout: pane.LargeScreenLayout()}
	a, err := layoutfile.Marshal(f, layoutfile.FormatCBOR)
	require.NoError(t, err)
	b, err := layoutfile.Marshal(&layoutfile.File{Name: "large", Layout: pane.LargeScreenLayout()}, layoutfile.FormatCBOR)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	js, err := layoutfile.Marshal(f, layoutfile.FormatJSON)
	require.NoError(t, err)
	assert.Less(t, len(a), len(js))
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, layoutfile.Encode(&buf, &layoutfile.File{Name: "small", Layout: pane.SmallScreenLayout()}, layoutfile.FormatYAML))
	assert.Equal(t, "name: small\nlayout:\n  view: terminal\n  focused: true\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    layoutfile.Format
		wantErr bool
	}{
		{in: "yaml", want: layoutfile.FormatYAML},
		{in: "YML", want: layoutfile.FormatYAML},
		{in: " json ", want: layoutfile.FormatJSON},
		{in: "jsonc", want: layoutfile.FormatJSONC},
		{in: "cbor", want: layoutfile.FormatCBOR},
		{in: "toml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := layoutfile.ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, layoutfile.ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := layoutfile.FormatFromPath("profiles/review")
	assert.ErrorIs(t, err, layoutfile.ErrUnknownFormat)
	assert.Equal(t, "review", layoutfile.NameFromPath("profiles/review.jsonc"))
}

func TestReadFile_NameFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Debug.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout: {view: code}\n"), 0o644))

	f, err := layoutfile.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", f.Name)
	assert.Equal(t, path, f.Path)
	assert.Equal(t, entity.Leaf(entity.ViewCode), f.Layout)
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := layoutfile.ReadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = layoutfile.ReadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestScanDir(t *testing.T) {
	ctx := logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
	dir := t.TempDir()

	write := func(name, data string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
	}
	write("a.yaml", reviewYAML)
	write("b.jsonc", reviewJSONC)                    // duplicate of a.yaml
	write("c.json", `{"layout":{"view":"memory"}}`) // named after the file
	write("d.yaml", "name: broken\nlayout: {}\n")
	write("notes.txt", "not a layout")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	files, err := layoutfile.ScanDir(ctx, dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "review", files[0].Name)
	assert.Equal(t, filepath.Join(dir, "a.yaml"), files[0].Path)
	assert.Equal(t, "c", files[1].Name)
	assert.Equal(t, entity.Leaf(entity.ViewMemory), files[1].Layout)
}

func TestScanDir_MissingDirectory(t *testing.T) {
	files, err := layoutfile.ScanDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)

	files, err = layoutfile.ScanDir(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, files)
}
