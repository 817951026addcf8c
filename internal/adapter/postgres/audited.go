package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/domain"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

// Helpers shared by every audited repository. All tables embedding the base
// record carry the same column set:
//
//	id, client_id, created_by, created, modified_by, modified, version, is_active
//
// plus entity-specific columns. Writes stamp audit metadata from the actor
// context here, never from caller-supplied values.

// StampCreate fills first-persist audit metadata. Version starts at 0.
func StampCreate(ctx context.Context, rec *domain.Record) {
	actor := ctxutil.ActorFromCtx(ctx)
	now := time.Now().UTC()

	rec.CreatedBy = actor
	rec.Created = now
	rec.ModifiedBy = actor
	rec.Modified = now
	rec.Version = 0
}

// StampUpdate refreshes last-modified audit metadata.
func StampUpdate(ctx context.Context, rec *domain.Record) {
	rec.ModifiedBy = ctxutil.ActorFromCtx(ctx)
	rec.Modified = time.Now().UTC()
}

// ResolveUpdateFailure classifies a zero-row optimistic UPDATE: the row is
// either gone (ErrNotFound) or present with a different version (ErrConflict).
func ResolveUpdateFailure(ctx context.Context, q Querier, table, entity string, id uuid.UUID) error {
	var exists bool
	err := q.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table),
		id,
	).Scan(&exists)
	if err != nil {
		return MapError(err, entity, id)
	}
	if exists {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrConflict)
	}
	return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
}

// SoftDelete flips is_active to false. Deactivating an already-inactive row
// is a no-op; a missing row is ErrNotFound.
func SoftDelete(ctx context.Context, q Querier, table, entity string, id uuid.UUID) error {
	actor := ctxutil.ActorFromCtx(ctx)

	tag, err := q.Exec(ctx,
		fmt.Sprintf(`UPDATE %s
			SET is_active = FALSE, modified_by = $2, modified = now(), version = version + 1
			WHERE id = $1 AND is_active`, table),
		id, actor,
	)
	if err != nil {
		return MapError(err, entity, id)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = q.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table),
		id,
	).Scan(&exists)
	if err != nil {
		return MapError(err, entity, id)
	}
	if !exists {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}
