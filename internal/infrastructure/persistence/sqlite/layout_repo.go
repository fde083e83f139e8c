package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/repository"
	"github.com/bnema/dumbtile/internal/logging"
)

type layoutRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewLayoutRepository creates a new layout profile repository.
func NewLayoutRepository(db *sql.DB) repository.LayoutRepository {
	return &layoutRepo{db: db, now: time.Now}
}

// Fingerprint hashes a layout tree. Equal trees, including the focused leaf,
// have equal fingerprints.
func Fingerprint(root *entity.LayoutNode) (string, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("marshal layout: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Save inserts or replaces the snapshot stored under snapshot.Name.
func (r *layoutRepo) Save(ctx context.Context, snapshot *entity.ProfileSnapshot) (bool, error) {
	log := logging.FromContext(ctx)
	if snapshot == nil {
		return false, errors.New("profile snapshot cannot be nil")
	}

	name := entity.NormalizeProfileName(snapshot.Name)
	if name == "" {
		return false, fmt.Errorf("%w: profile snapshot without name", entity.ErrInvalidOperation)
	}
	if err := snapshot.Root.Validate(); err != nil {
		return false, fmt.Errorf("profile %q: %w", name, err)
	}

	fingerprint, err := Fingerprint(snapshot.Root)
	if err != nil {
		return false, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin profile transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Debug().Err(rollbackErr).Msg("profile rollback reported non-terminal error")
		}
	}()

	var storedID, storedFingerprint string
	err = tx.QueryRowContext(ctx,
		`SELECT id, fingerprint FROM layout_profiles WHERE name = ?`, name,
	).Scan(&storedID, &storedFingerprint)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("lookup profile %q: %w", name, err)
	case storedFingerprint == fingerprint:
		snapshot.ID = storedID
		snapshot.Name = name
		snapshot.Fingerprint = fingerprint
		log.Debug().Str("profile", name).Msg("profile unchanged, skipping save")
		return false, nil
	}

	switch {
	case storedID != "":
		snapshot.ID = storedID
	case snapshot.ID == "":
		snapshot.ID = uuid.NewString()
	}
	snapshot.Name = name
	snapshot.Version = entity.ProfileSnapshotVersion
	snapshot.Fingerprint = fingerprint
	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = r.now().UTC()
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal profile snapshot")
		return false, err
	}

	log.Debug().
		Str("profile", name).
		Int("pane_count", snapshot.PaneCount()).
		Msg("saving profile snapshot")

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO layout_profiles (id, name, version, layout_json, fingerprint, pane_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version     = excluded.version,
			layout_json = excluded.layout_json,
			fingerprint = excluded.fingerprint,
			pane_count  = excluded.pane_count,
			updated_at  = excluded.updated_at`,
		snapshot.ID, name, snapshot.Version, string(payload), fingerprint,
		snapshot.PaneCount(), snapshot.SavedAt, snapshot.SavedAt,
	); err != nil {
		return false, fmt.Errorf("upsert profile %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit profile transaction: %w", err)
	}
	return true, nil
}

// Get returns the snapshot stored under name, or nil when there is none.
func (r *layoutRepo) Get(ctx context.Context, name string) (*entity.ProfileSnapshot, error) {
	name = entity.NormalizeProfileName(name)

	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT layout_json FROM layout_profiles WHERE name = ?`, name,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var snapshot entity.ProfileSnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Str("profile", name).
			Msg("failed to unmarshal profile snapshot")
		return nil, err
	}
	return &snapshot, nil
}

// List returns every stored snapshot ordered by name.
// Rows that fail to decode are skipped.
func (r *layoutRepo) List(ctx context.Context) ([]*entity.ProfileSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, layout_json FROM layout_profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snapshots []*entity.ProfileSnapshot
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, err
		}
		var snapshot entity.ProfileSnapshot
		if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
			logging.FromContext(ctx).Warn().Err(err).
				Str("profile", name).
				Msg("skipping corrupted profile snapshot")
			continue
		}
		snapshots = append(snapshots, &snapshot)
	}
	return snapshots, rows.Err()
}

// Delete removes the snapshot stored under name.
func (r *layoutRepo) Delete(ctx context.Context, name string) error {
	name = entity.NormalizeProfileName(name)
	logging.FromContext(ctx).Debug().Str("profile", name).Msg("deleting profile snapshot")

	res, err := r.db.ExecContext(ctx, `DELETE FROM layout_profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile %q: %w", name, entity.ErrNotFound)
	}
	return nil
}
