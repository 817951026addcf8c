package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/diff"
	"github.com/jhapy/app-i18n-server/internal/domain"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

// GetOrCreateTranslation resolves the translation of one action in one
// language, materializing whatever is missing along the way: an unknown
// name creates the lookup row, and a missing translation row is seeded from
// the default translation's text (falling back to the name itself) with
// is_translated left false so translators can find it later.
func (s *Service) GetOrCreateTranslation(ctx context.Context, name, iso3Language string) (*domain.ActionTrl, error) {
	iso3 := domain.NormalizeIso3Language(iso3Language)
	if !domain.ValidIso3Language(iso3) {
		return nil, domain.NewValidationError("iso3_language", "must be a 3-letter ISO 639-2 code")
	}

	var result *domain.ActionTrl

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		lookup, err := s.lookups.GetByName(txCtx, name)
		if errors.Is(err, domain.ErrNotFound) {
			lookup = domain.NewAction(name)
			if err := s.lookups.Create(txCtx, lookup); err != nil {
				return fmt.Errorf("create action: %w", err)
			}
			s.log.WarnContext(txCtx, "action created on lookup miss",
				slog.String("name", name),
			)
			if err := s.recordRevision(txCtx, lookup.ID, domain.RevisionCreate,
				diff.Changes(nil, lookup.Snapshot())); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		trl, err := s.trls.GetByParentAndLanguage(txCtx, lookup.ID, iso3)
		if err == nil {
			result = trl
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		value := lookup.Name
		def, err := s.trls.GetDefault(txCtx, lookup.ID)
		switch {
		case err == nil:
			value = def.Value
		case errors.Is(err, domain.ErrNotFound):
			// No default yet; seed from the name.
		default:
			return err
		}

		trl = &domain.ActionTrl{
			Translation: domain.NewTranslation(lookup.ID, iso3),
			Value:       value,
		}
		if err := s.trls.Create(txCtx, trl); err != nil {
			return fmt.Errorf("create action_trl: %w", err)
		}
		if err := s.versions.Bump(txCtx, domain.KindAction, iso3); err != nil {
			return err
		}
		if err := s.refreshTranslated(txCtx, lookup.ID); err != nil {
			return err
		}

		result = trl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Translations returns every translation of one action. An unknown parent
// yields an empty slice, not an error.
func (s *Service) Translations(ctx context.Context, actionID uuid.UUID) ([]domain.ActionTrl, error) {
	return s.trls.ListByParent(ctx, actionID)
}

// TranslationsByLanguage returns the translations of every action in one
// language.
func (s *Service) TranslationsByLanguage(ctx context.Context, iso3Language string) ([]domain.ActionTrl, error) {
	return s.trls.ListByLanguage(ctx, domain.NormalizeIso3Language(iso3Language))
}

// SaveTranslation creates or updates a translation row, keyed on whether the
// row has been persisted before. Every save bumps the table version for the
// affected language and appends a revision carrying the field diff.
func (s *Service) SaveTranslation(ctx context.Context, trl *domain.ActionTrl) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if trl.IsNew() {
			if err := s.trls.Create(txCtx, trl); err != nil {
				return err
			}
			if err := s.recordRevision(txCtx, trl.ID, domain.RevisionCreate,
				diff.Changes(nil, trl.Snapshot())); err != nil {
				return err
			}
			if err := s.versions.Bump(txCtx, domain.KindAction, trl.Iso3Language); err != nil {
				return err
			}
			return s.refreshTranslated(txCtx, trl.ParentID)
		}

		prev, err := s.trls.GetByID(txCtx, trl.ID)
		if err != nil {
			return err
		}

		changes := diff.Changes(prev.Snapshot(), trl.Snapshot())
		if err := s.trls.Update(txCtx, trl); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := s.recordRevision(txCtx, trl.ID, domain.RevisionUpdate, changes); err != nil {
			return err
		}
		if err := s.versions.Bump(txCtx, domain.KindAction, trl.Iso3Language); err != nil {
			return err
		}
		return s.refreshTranslated(txCtx, trl.ParentID)
	})
}

// Save creates or updates the lookup row itself, with the same revision and
// version-bump bookkeeping as translations. Lookup changes touch every
// language, so the family-wide counter is bumped.
func (s *Service) Save(ctx context.Context, a *domain.Action) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if a.IsNew() {
			if err := s.lookups.Create(txCtx, a); err != nil {
				return err
			}
			if err := s.recordRevision(txCtx, a.ID, domain.RevisionCreate,
				diff.Changes(nil, a.Snapshot())); err != nil {
				return err
			}
			return s.versions.Bump(txCtx, domain.KindAction, domain.AggregateLang)
		}

		prev, err := s.lookups.GetByID(txCtx, a.ID)
		if err != nil {
			return err
		}

		changes := diff.Changes(prev.Snapshot(), a.Snapshot())
		if err := s.lookups.Update(txCtx, a); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := s.recordRevision(txCtx, a.ID, domain.RevisionUpdate, changes); err != nil {
			return err
		}
		return s.versions.Bump(txCtx, domain.KindAction, domain.AggregateLang)
	})
}

// SetDefault promotes one translation to be the default for its parent,
// demoting the previous default in the same transaction. The translation
// must belong to the given parent.
func (s *Service) SetDefault(ctx context.Context, parentID, trlID uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		trl, err := s.trls.GetByID(txCtx, trlID)
		if err != nil {
			return err
		}
		if trl.ParentID != parentID {
			return fmt.Errorf("action_trl %s does not belong to action %s: %w",
				trlID, parentID, domain.ErrIntegrity)
		}
		if trl.IsDefault {
			return nil
		}

		if err := s.trls.ClearDefault(txCtx, parentID); err != nil {
			return err
		}
		if err := s.trls.MarkDefault(txCtx, trlID); err != nil {
			return err
		}
		if err := s.recordRevision(txCtx, trlID, domain.RevisionUpdate, map[string]diff.Change{
			"is_default": {Old: false, New: true},
		}); err != nil {
			return err
		}
		return s.versions.Bump(txCtx, domain.KindAction, trl.Iso3Language)
	})
	if err != nil {
		return err
	}

	s.log.DebugContext(ctx, "default translation changed",
		slog.String("action_id", parentID.String()),
		slog.String("trl_id", trlID.String()),
	)
	return nil
}

// refreshTranslated recomputes the parent's is_translated flag as the
// conjunction of its active translations' flags. A parent with no active
// translations counts as untranslated.
func (s *Service) refreshTranslated(ctx context.Context, parentID uuid.UUID) error {
	trls, err := s.trls.ListByParent(ctx, parentID)
	if err != nil {
		return err
	}
	translated := false
	for _, trl := range trls {
		if !trl.IsActive {
			continue
		}
		if !trl.IsTranslated {
			translated = false
			break
		}
		translated = true
	}
	return s.lookups.SetTranslated(ctx, parentID, translated)
}

func (s *Service) recordRevision(ctx context.Context, entityID uuid.UUID, action domain.RevisionAction, changes map[string]diff.Change) error {
	return s.revisions.Record(ctx, domain.Revision{
		Actor:    ctxutil.ActorFromCtx(ctx),
		Kind:     domain.KindAction,
		EntityID: entityID,
		Action:   action,
		Changes:  diff.AsMap(changes),
	})
}
