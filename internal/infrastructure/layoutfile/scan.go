package layoutfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bnema/dumbtile/internal/logging"
)

// ScanDir reads every layout file directly inside dir, sorted by file name.
// A missing directory yields no files. Unreadable or invalid files are
// logged and skipped; when two files declare the same profile the first
// one wins.
func ScanDir(ctx context.Context, dir string) ([]*File, error) {
	log := logging.FromContext(ctx)
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("dir", dir).Msg("layout directory does not exist")
			return nil, nil
		}
		return nil, fmt.Errorf("reading layout directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []*File
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, err := FormatFromPath(path); err != nil {
			continue
		}

		f, err := ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping invalid layout file")
			continue
		}
		if first, dup := seen[f.Name]; dup {
			log.Warn().
				Str("profile", f.Name).
				Str("path", path).
				Str("kept", first).
				Msg("skipping duplicate layout profile")
			continue
		}
		seen[f.Name] = path
		files = append(files, f)
	}

	log.Debug().Str("dir", dir).Int("count", len(files)).Msg("layout files scanned")
	return files, nil
}
