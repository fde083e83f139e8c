package usecase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/bnema/dumbtile/internal/domain/entity"
	"github.com/bnema/dumbtile/internal/domain/pane"
	"github.com/bnema/dumbtile/internal/logging"
)

var errNoRepository = errors.New("no layout repository configured")

// LoadProfiles registers declared profiles, then every stored profile.
// Stored profiles are user edits and replace declared or built-in ones of the
// same name. Entries that fail to build are logged and skipped. Returns the
// number of profiles registered.
func (uc *ManageScreenUseCase) LoadProfiles(ctx context.Context, declared []ProfileSource) (int, error) {
	log := logging.FromContext(ctx)
	loaded := 0

	for _, src := range declared {
		if err := uc.register(src.Name, src.Root); err != nil {
			log.Warn().Err(err).Str("profile", src.Name).Str("origin", src.Origin).Msg("skipping declared profile")
			continue
		}
		log.Debug().Str("profile", src.Name).Str("origin", src.Origin).Msg("declared profile registered")
		loaded++
	}

	if uc.layouts == nil {
		return loaded, nil
	}
	snapshots, err := uc.layouts.List(ctx)
	if err != nil {
		return loaded, fmt.Errorf("failed to list stored profiles: %w", err)
	}
	for _, snap := range snapshots {
		if err := uc.register(snap.Name, snap.Root); err != nil {
			log.Warn().Err(err).Str("profile", snap.Name).Msg("skipping stored profile")
			continue
		}
		log.Debug().Str("profile", snap.Name).Str("fingerprint", snap.Fingerprint).Msg("stored profile registered")
		loaded++
	}

	log.Info().Int("count", loaded).Msg("profiles loaded")
	return loaded, nil
}

func (uc *ManageScreenUseCase) register(name string, root *entity.LayoutNode) error {
	m, err := pane.FromLayout(root)
	if err != nil {
		return err
	}
	if err := uc.screen.AddPaneManager(name, m); err != nil {
		return err
	}
	delete(uc.dirty, entity.NormalizeProfileName(name))
	return nil
}

// NewProfile registers a profile holding one focused pane that shows the
// default view. Existing names are refused.
func (uc *ManageScreenUseCase) NewProfile(ctx context.Context, name string) error {
	name = entity.NormalizeProfileName(name)
	if _, err := uc.screen.Profile(name); err == nil {
		return fmt.Errorf("%w: profile %q already exists", entity.ErrInvalidOperation, name)
	}
	if err := uc.register(name, entity.FocusedLeaf(uc.defaultView)); err != nil {
		return err
	}
	uc.dirty[name] = true
	logging.FromContext(ctx).Info().Str("profile", name).Str("view", string(uc.defaultView)).Msg("profile created")
	return nil
}

// ImportProfile registers root under name, replacing any profile of that
// name, and stores it when a repository is configured.
func (uc *ManageScreenUseCase) ImportProfile(ctx context.Context, name string, root *entity.LayoutNode) (bool, error) {
	if err := uc.register(name, root); err != nil {
		return false, err
	}
	uc.dirty[entity.NormalizeProfileName(name)] = true
	if uc.layouts == nil {
		return false, nil
	}
	return uc.SaveProfile(ctx, name)
}

// ExportProfile returns the current layout of the named profile.
func (uc *ManageScreenUseCase) ExportProfile(name string) (*entity.LayoutNode, error) {
	m, err := uc.screen.Profile(name)
	if err != nil {
		return nil, &ProfileNotFoundError{
			Name:       name,
			Suggestion: closestName(entity.NormalizeProfileName(name), uc.screen.AvailableProfiles()),
		}
	}
	return m.Layout(), nil
}

// SaveProfile stores the named profile. Returns false when the stored copy
// was already identical.
func (uc *ManageScreenUseCase) SaveProfile(ctx context.Context, name string) (bool, error) {
	if uc.layouts == nil {
		return false, errNoRepository
	}
	name = entity.NormalizeProfileName(name)
	m, err := uc.screen.Profile(name)
	if err != nil {
		return false, err
	}

	snap := &entity.ProfileSnapshot{Name: name, Root: m.Layout(), SavedAt: uc.now()}
	saved, err := uc.layouts.Save(ctx, snap)
	if err != nil {
		return false, fmt.Errorf("failed to save profile %q: %w", name, err)
	}
	delete(uc.dirty, name)

	logging.FromContext(ctx).Info().
		Str("profile", name).
		Bool("changed", saved).
		Int("panes", snap.PaneCount()).
		Msg("profile saved")
	return saved, nil
}

// SaveProfiles stores every profile edited since it was loaded or saved.
// Returns the number of profiles whose stored copy changed.
func (uc *ManageScreenUseCase) SaveProfiles(ctx context.Context) (int, error) {
	if uc.layouts == nil {
		return 0, nil
	}

	var errs []error
	changed := 0
	for _, name := range uc.screen.AvailableProfiles() {
		if !uc.dirty[name] {
			continue
		}
		saved, err := uc.SaveProfile(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if saved {
			changed++
		}
	}
	return changed, errors.Join(errs...)
}

// DeleteProfile removes the stored copy of name. A built-in profile falls
// back to its preset; a user profile is unregistered unless it is active.
func (uc *ManageScreenUseCase) DeleteProfile(ctx context.Context, name string) error {
	if uc.layouts == nil {
		return errNoRepository
	}
	name = entity.NormalizeProfileName(name)
	if err := uc.layouts.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}

	log := logging.FromContext(ctx).With().Str("profile", name).Logger()
	if preset, ok := presetFor(name); ok {
		if err := uc.screen.AddPaneManager(name, preset); err != nil {
			return err
		}
		delete(uc.dirty, name)
		log.Info().Msg("stored profile deleted, preset restored")
		return nil
	}
	if name != uc.screen.ActiveProfile() {
		if err := uc.screen.RemovePaneManager(name); err != nil && !errors.Is(err, entity.ErrNotFound) {
			return err
		}
	}
	delete(uc.dirty, name)
	log.Info().Msg("stored profile deleted")
	return nil
}

// ListProfiles describes every registered or stored profile, by name.
func (uc *ManageScreenUseCase) ListProfiles(ctx context.Context) ([]entity.ProfileInfo, error) {
	infos := make(map[string]*entity.ProfileInfo)
	for _, name := range uc.screen.AvailableProfiles() {
		m, _ := uc.screen.Profile(name)
		infos[name] = &entity.ProfileInfo{
			Name:      name,
			PaneCount: m.PaneCount(),
			IsActive:  name == uc.screen.ActiveProfile(),
			IsBuiltin: entity.IsBuiltinProfile(name),
		}
	}

	if uc.layouts != nil {
		snapshots, err := uc.layouts.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list stored profiles: %w", err)
		}
		for _, snap := range snapshots {
			info, ok := infos[snap.Name]
			if !ok {
				info = &entity.ProfileInfo{
					Name:      snap.Name,
					PaneCount: snap.PaneCount(),
					IsBuiltin: entity.IsBuiltinProfile(snap.Name),
				}
				infos[snap.Name] = info
			}
			info.IsStored = true
			info.UpdatedAt = snap.SavedAt
		}
	}

	out := make([]entity.ProfileInfo, 0, len(infos))
	for _, name := range slices.Sorted(maps.Keys(infos)) {
		out = append(out, *infos[name])
	}
	return out, nil
}
