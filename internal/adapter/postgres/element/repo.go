// Package element implements the Element lookup and ElementTrl translation
// repositories using PostgreSQL. Fixed queries are raw SQL constants;
// dynamic finders are built with squirrel.
package element

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/jhapy/app-i18n-server/internal/adapter/postgres"
	"github.com/jhapy/app-i18n-server/internal/domain"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

const (
	lookupTable  = "elements"
	lookupEntity = "element"
	trlTable     = "element_trls"
	trlEntity    = "element_trl"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides Element lookup persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new element lookup repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const lookupColumns = `id, client_id, created_by, created, modified_by, modified, version, is_active, name, category, is_translated`

const insertLookupSQL = `
INSERT INTO elements (id, client_id, created_by, created, modified_by, modified, version, is_active, name, category, is_translated)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const updateLookupSQL = `
UPDATE elements
SET client_id = $3, modified_by = $4, modified = $5, is_active = $6,
    name = $7, category = $8, is_translated = $9, version = version + 1
WHERE id = $1 AND version = $2
RETURNING version`

// Create inserts a new lookup row. Audit metadata is stamped from the actor
// context; a name collision maps to domain.ErrDuplicateKey.
func (r *Repo) Create(ctx context.Context, a *domain.Element) error {
	if err := a.Validate(); err != nil {
		return err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	postgres.StampCreate(ctx, &a.Record)

	_, err := q.Exec(ctx, insertLookupSQL,
		a.ID, a.ClientID, a.CreatedBy, a.Created, a.ModifiedBy, a.Modified,
		a.Version, a.IsActive, a.Name, a.Category, a.IsTranslated,
	)
	if err != nil {
		return postgres.MapError(err, lookupEntity, a.ID)
	}

	a.MarkPersisted()
	return nil
}

// Update writes an existing lookup row using the optimistic version check.
// A stale version yields domain.ErrConflict; on success the in-memory
// version counter is advanced to the stored value.
func (r *Repo) Update(ctx context.Context, a *domain.Element) error {
	if err := a.Validate(); err != nil {
		return err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	postgres.StampUpdate(ctx, &a.Record)

	err := q.QueryRow(ctx, updateLookupSQL,
		a.ID, a.Version, a.ClientID, a.ModifiedBy, a.Modified, a.IsActive,
		a.Name, a.Category, a.IsTranslated,
	).Scan(&a.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return postgres.ResolveUpdateFailure(ctx, q, lookupTable, lookupEntity, a.ID)
	}
	if err != nil {
		return postgres.MapError(err, lookupEntity, a.ID)
	}

	return nil
}

// GetByID returns the lookup with the given id, or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Element, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+lookupColumns+` FROM elements WHERE id = $1`, id)
	a, err := scanLookup(row)
	if err != nil {
		return nil, postgres.MapError(err, lookupEntity, id)
	}
	return a, nil
}

// GetByName returns the lookup with the given unique name, or domain.ErrNotFound.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Element, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+lookupColumns+` FROM elements WHERE name = $1`, name)
	a, err := scanLookup(row)
	if err != nil {
		return nil, postgres.MapError(err, lookupEntity, uuid.Nil)
	}
	return a, nil
}

// FindByIDOrName returns the single lookup matching either the id or the
// name. Zero matches is domain.ErrNotFound; more than one row for a
// supposedly-unique pair is domain.ErrIntegrity.
func (r *Repo) FindByIDOrName(ctx context.Context, id uuid.UUID, name string) (*domain.Element, error) {
	sqlStr, args, err := psql.
		Select(lookupColumns).
		From(lookupTable).
		Where(sq.Or{sq.Eq{"id": id}, sq.Eq{"name": name}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build id-or-name query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, postgres.MapError(err, lookupEntity, id)
	}
	defer rows.Close()

	matches, err := scanLookups(rows)
	if err != nil {
		return nil, postgres.MapError(err, lookupEntity, id)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%s %s/%q: %w", lookupEntity, id, name, domain.ErrNotFound)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%s %s/%q: %d rows: %w", lookupEntity, id, name, len(matches), domain.ErrIntegrity)
	}
}

// List returns lookups ordered by name. Inactive rows are included only
// when includeInactive is set.
func (r *Repo) List(ctx context.Context, includeInactive bool) ([]domain.Element, error) {
	builder := psql.Select(lookupColumns).From(lookupTable).OrderBy("name")
	if !includeInactive {
		builder = builder.Where(sq.Eq{"is_active": true})
	}
	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	return scanLookups(rows)
}

// ListByIDs returns the lookups whose ids are in the given set.
func (r *Repo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Element, error) {
	if len(ids) == 0 {
		return []domain.Element{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT `+lookupColumns+` FROM elements WHERE id = ANY($1::uuid[]) ORDER BY name`, ids)
	if err != nil {
		return nil, fmt.Errorf("list elements by ids: %w", err)
	}
	defer rows.Close()

	return scanLookups(rows)
}

// SoftDelete deactivates a lookup. Repeated calls are no-ops.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	return postgres.SoftDelete(ctx, q, lookupTable, lookupEntity, id)
}

// SetTranslated stores the aggregated is_translated flag of one lookup.
// Writing the value it already holds is a no-op and leaves the version
// untouched.
func (r *Repo) SetTranslated(ctx context.Context, id uuid.UUID, translated bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`UPDATE elements
		 SET is_translated = $2, modified_by = $3, modified = now(), version = version + 1
		 WHERE id = $1 AND is_translated <> $2`,
		id, translated, ctxutil.ActorFromCtx(ctx))
	if err != nil {
		return postgres.MapError(err, lookupEntity, id)
	}
	return nil
}

// ClearTranslated drops the is_translated flag on every lookup and returns
// the number of rows touched.
func (r *Repo) ClearTranslated(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE elements
		 SET is_translated = FALSE, modified_by = $1, modified = now(), version = version + 1
		 WHERE is_translated`,
		ctxutil.ActorFromCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("clear translated elements: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanLookup(row pgx.Row) (*domain.Element, error) {
	var (
		a        domain.Element
		clientID pgtype.UUID
	)
	err := row.Scan(&a.ID, &clientID, &a.CreatedBy, &a.Created, &a.ModifiedBy, &a.Modified,
		&a.Version, &a.IsActive, &a.Name, &a.Category, &a.IsTranslated)
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		cid := uuid.UUID(clientID.Bytes)
		a.ClientID = &cid
	}
	a.MarkPersisted()
	return &a, nil
}

func scanLookups(rows pgx.Rows) ([]domain.Element, error) {
	var lookups []domain.Element
	for rows.Next() {
		a, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if lookups == nil {
		lookups = []domain.Element{}
	}
	return lookups, nil
}
