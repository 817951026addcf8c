// Package revision implements the append-only change-log repository.
// Each write to a lookup or translation records one revision row whose
// changes payload holds the business-field diff (audit metadata and the
// version counter are filtered out upstream, see internal/diff).
package revision

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/jhapy/app-i18n-server/internal/adapter/postgres"
	"github.com/jhapy/app-i18n-server/internal/domain"
)

// Repo provides revision persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new revision repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Record appends a revision row. Fire-and-forget from the caller's point of
// view; the row is immutable once written.
func (r *Repo) Record(ctx context.Context, rev domain.Revision) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	changes := rev.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("revision marshal changes: %w", err)
	}

	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	if rev.Created.IsZero() {
		rev.Created = time.Now().UTC()
	}

	_, err = q.Exec(ctx,
		`INSERT INTO revisions (id, actor, entity_kind, entity_id, action, changes, created)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rev.ID, rev.Actor, string(rev.Kind), rev.EntityID, string(rev.Action), payload, rev.Created,
	)
	if err != nil {
		return postgres.MapError(err, "revision", rev.ID)
	}
	return nil
}

// ListByEntity returns the change history of one entity, newest first,
// limited to limit rows.
func (r *Repo) ListByEntity(ctx context.Context, kind domain.Kind, entityID uuid.UUID, limit int) ([]domain.Revision, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT id, actor, entity_kind, entity_id, action, changes, created
		 FROM revisions
		 WHERE entity_kind = $1 AND entity_id = $2
		 ORDER BY created DESC
		 LIMIT $3`,
		string(kind), entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	return scanRevisions(rows)
}

func scanRevisions(rows pgx.Rows) ([]domain.Revision, error) {
	var revs []domain.Revision
	for rows.Next() {
		var (
			rev     domain.Revision
			kind    string
			action  string
			payload []byte
		)
		if err := rows.Scan(&rev.ID, &rev.Actor, &kind, &rev.EntityID, &action, &payload, &rev.Created); err != nil {
			return nil, err
		}
		rev.Kind = domain.Kind(kind)
		rev.Action = domain.RevisionAction(action)
		if err := json.Unmarshal(payload, &rev.Changes); err != nil {
			return nil, fmt.Errorf("revision %s unmarshal changes: %w", rev.ID, err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if revs == nil {
		revs = []domain.Revision{}
	}
	return revs, nil
}
