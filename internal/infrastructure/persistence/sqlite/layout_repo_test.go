package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
	"github.com/bnema/dumbtile/internal/domain/repository"
	"github.com/bnema/dumbtile/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/dumbtile/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func newTestRepo(t *testing.T) repository.LayoutRepository {
	t.Helper()
	db, err := sqlite.NewConnection(testCtx(), filepath.Join(t.TempDir(), "dumbtile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewLayoutRepository(db)
}

func TestLayoutRepository_CRUD(t *testing.T) {
	ctx := testCtx()
	repo := newTestRepo(t)

	savedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	snap := &entity.ProfileSnapshot{Name: " Review ", Root: pane.LargeScreenLayout(), SavedAt: savedAt}

	saved, err := repo.Save(ctx, snap)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, "review", snap.Name)
	assert.NotEmpty(t, snap.ID)
	assert.Len(t, snap.Fingerprint, 64)
	assert.Equal(t, entity.ProfileSnapshotVersion, snap.Version)

	got, err := repo.Get(ctx, "REVIEW")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, "review", got.Name)
	assert.Equal(t, pane.LargeScreenLayout(), got.Root)
	assert.True(t, got.SavedAt.Equal(savedAt))
	assert.Equal(t, 5, got.PaneCount())

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, "review"))
	assert.ErrorIs(t, repo.Delete(ctx, "review"), entity.ErrNotFound)
}

func TestLayoutRepository_SkipsUnchangedSnapshot(t *testing.T) {
	ctx := testCtx()
	repo := newTestRepo(t)

	first := &entity.ProfileSnapshot{Name: "work", Root: pane.SmallScreenLayout()}
	saved, err := repo.Save(ctx, first)
	require.NoError(t, err)
	require.True(t, saved)

	same := &entity.ProfileSnapshot{Name: "work", Root: pane.SmallScreenLayout()}
	saved, err = repo.Save(ctx, same)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, first.ID, same.ID)
	assert.Equal(t, first.Fingerprint, same.Fingerprint)

	changed := &entity.ProfileSnapshot{Name: "work", Root: entity.HSplit(entity.EvenRatio,
		entity.FocusedLeaf(entity.ViewTerminal),
		entity.Leaf(entity.ViewCode),
	)}
	saved, err = repo.Save(ctx, changed)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, first.ID, changed.ID, "replacing keeps the row identity")
	assert.NotEqual(t, first.Fingerprint, changed.Fingerprint)

	got, err := repo.Get(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, 2, got.PaneCount())
}

func TestLayoutRepository_List(t *testing.T) {
	ctx := testCtx()
	repo := newTestRepo(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := repo.Save(ctx, &entity.ProfileSnapshot{Name: name, Root: pane.SmallScreenLayout()})
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)
}

func TestLayoutRepository_SaveRejectsInvalidSnapshots(t *testing.T) {
	ctx := testCtx()
	repo := newTestRepo(t)

	_, err := repo.Save(ctx, nil)
	assert.Error(t, err)

	_, err = repo.Save(ctx, &entity.ProfileSnapshot{Name: "  ", Root: pane.SmallScreenLayout()})
	assert.ErrorIs(t, err, entity.ErrInvalidOperation)

	_, err = repo.Save(ctx, &entity.ProfileSnapshot{Name: "broken", Root: &entity.LayoutNode{}})
	assert.ErrorIs(t, err, entity.ErrInvalidOperation)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFingerprint(t *testing.T) {
	a, err := sqlite.Fingerprint(pane.LargeScreenLayout())
	require.NoError(t, err)
	b, err := sqlite.Fingerprint(pane.LargeScreenLayout())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	m := pane.DefaultLargeScreen()
	m.FocusUp()
	c, err := sqlite.Fingerprint(m.Layout())
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "focus is part of the fingerprint")
}

func TestGetMigrationStatus(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "dumbtile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	version, err := sqlite.GetMigrationStatus(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// running again is a no-op
	require.NoError(t, sqlite.RunMigrations(ctx, db))
}
