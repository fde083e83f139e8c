package sqlite

import (
	"context"
	"sync"

	"github.com/bnema/dumbtile/internal/application/port"
	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/repository"
)

// LazyLayoutRepository defers opening the database until a profile is read
// or written.
type LazyLayoutRepository struct {
	provider port.DatabaseProvider
	repo     repository.LayoutRepository
	once     sync.Once
	initErr  error
}

// NewLazyLayoutRepository creates a lazy-loading layout repository.
func NewLazyLayoutRepository(provider port.DatabaseProvider) repository.LayoutRepository {
	return &LazyLayoutRepository{provider: provider}
}

func (r *LazyLayoutRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewLayoutRepository(db)
	})
	return r.initErr
}

func (r *LazyLayoutRepository) Save(ctx context.Context, snapshot *entity.ProfileSnapshot) (bool, error) {
	if err := r.init(ctx); err != nil {
		return false, err
	}
	return r.repo.Save(ctx, snapshot)
}

func (r *LazyLayoutRepository) Get(ctx context.Context, name string) (*entity.ProfileSnapshot, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Get(ctx, name)
}

func (r *LazyLayoutRepository) List(ctx context.Context) ([]*entity.ProfileSnapshot, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.List(ctx)
}

func (r *LazyLayoutRepository) Delete(ctx context.Context, name string) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Delete(ctx, name)
}
