package element

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/diff"
	"github.com/jhapy/app-i18n-server/internal/domain"
)

// Deactivate soft-deletes the lookup row. Repeat calls are no-ops and leave
// no extra revision behind.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.lookups.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !a.IsActive {
			return nil
		}

		if err := s.lookups.SoftDelete(txCtx, id); err != nil {
			return err
		}
		if err := s.recordRevision(txCtx, id, domain.RevisionDeactivate, map[string]diff.Change{
			"is_active": {Old: true, New: false},
		}); err != nil {
			return err
		}
		return s.versions.Bump(txCtx, domain.KindElement, domain.AggregateLang)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "element deactivated", slog.String("element_id", id.String()))
	return nil
}

// DeactivateTranslation soft-deletes one translation row. Repeat calls are
// no-ops.
func (s *Service) DeactivateTranslation(ctx context.Context, id uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		trl, err := s.trls.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !trl.IsActive {
			return nil
		}

		if err := s.trls.SoftDelete(txCtx, id); err != nil {
			return err
		}
		if err := s.recordRevision(txCtx, id, domain.RevisionDeactivate, map[string]diff.Change{
			"is_active": {Old: true, New: false},
		}); err != nil {
			return err
		}
		if err := s.versions.Bump(txCtx, domain.KindElement, trl.Iso3Language); err != nil {
			return err
		}
		return s.refreshTranslated(txCtx, trl.ParentID)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "element translation deactivated", slog.String("trl_id", id.String()))
	return nil
}

// Reset clears the is_translated flag across the whole family, marking every
// translation as needing review. Returns the number of rows touched.
func (s *Service) Reset(ctx context.Context) (int64, error) {
	var n int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		n, err = s.trls.ResetTranslated(txCtx)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := s.lookups.ClearTranslated(txCtx); err != nil {
			return err
		}
		return s.versions.Bump(txCtx, domain.KindElement, domain.AggregateLang)
	})
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "translated flags reset", slog.Int64("rows", n))
	return n, nil
}
