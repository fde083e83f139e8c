package repository

import (
	"context"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

//go:generate mockgen -source=layout.go -destination=mocks/mock_layout.go

// LayoutRepository persists user-edited layout profiles.
type LayoutRepository interface {
	// Save inserts or replaces the snapshot stored under snapshot.Name.
	// Returns false when the stored snapshot already has the same fingerprint.
	Save(ctx context.Context, snapshot *entity.ProfileSnapshot) (bool, error)

	// Get returns the snapshot stored under name, or nil when there is none.
	Get(ctx context.Context, name string) (*entity.ProfileSnapshot, error)

	// List returns every stored snapshot ordered by name.
	List(ctx context.Context) ([]*entity.ProfileSnapshot, error)

	// Delete removes the snapshot stored under name.
	// Returns entity.ErrNotFound when there is none.
	Delete(ctx context.Context, name string) error
}
