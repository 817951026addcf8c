package element

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/jhapy/app-i18n-server/internal/adapter/postgres"
	"github.com/jhapy/app-i18n-server/internal/domain"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

// TrlRepo provides ElementTrl persistence backed by PostgreSQL.
type TrlRepo struct {
	pool *pgxpool.Pool
}

// NewTrl creates a new element translation repository.
func NewTrl(pool *pgxpool.Pool) *TrlRepo {
	return &TrlRepo{pool: pool}
}

const trlColumns = `id, client_id, created_by, created, modified_by, modified, version, is_active, parent_id, iso3_language, is_default, is_translated, value, tooltip`

const insertTrlSQL = `
INSERT INTO element_trls (id, client_id, created_by, created, modified_by, modified, version, is_active, parent_id, iso3_language, is_default, is_translated, value, tooltip)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const updateTrlSQL = `
UPDATE element_trls
SET client_id = $3, modified_by = $4, modified = $5, is_active = $6,
    is_default = $7, is_translated = $8, value = $9, tooltip = $10,
    version = version + 1
WHERE id = $1 AND version = $2
RETURNING version`

// Create inserts a new translation row. A duplicate (parent, language) pair
// maps to domain.ErrDuplicateKey; a second default for the parent maps to
// domain.ErrIntegrity via the partial unique index.
func (r *TrlRepo) Create(ctx context.Context, t *domain.ElementTrl) error {
	t.Iso3Language = domain.NormalizeIso3Language(t.Iso3Language)
	if err := t.Validate(); err != nil {
		return err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	postgres.StampCreate(ctx, &t.Record)

	_, err := q.Exec(ctx, insertTrlSQL,
		t.ID, t.ClientID, t.CreatedBy, t.Created, t.ModifiedBy, t.Modified,
		t.Version, t.IsActive, t.ParentID, t.Iso3Language, t.IsDefault,
		t.IsTranslated, t.Value, t.Tooltip,
	)
	if err != nil {
		return postgres.MapError(err, trlEntity, t.ID)
	}

	t.MarkPersisted()
	return nil
}

// Update writes an existing translation row with the optimistic version
// check. ParentID and language are immutable once created.
func (r *TrlRepo) Update(ctx context.Context, t *domain.ElementTrl) error {
	if err := t.Validate(); err != nil {
		return err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	postgres.StampUpdate(ctx, &t.Record)

	err := q.QueryRow(ctx, updateTrlSQL,
		t.ID, t.Version, t.ClientID, t.ModifiedBy, t.Modified, t.IsActive,
		t.IsDefault, t.IsTranslated, t.Value, t.Tooltip,
	).Scan(&t.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return postgres.ResolveUpdateFailure(ctx, q, trlTable, trlEntity, t.ID)
	}
	if err != nil {
		return postgres.MapError(err, trlEntity, t.ID)
	}

	return nil
}

// GetByID returns a single translation row, or domain.ErrNotFound.
func (r *TrlRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ElementTrl, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+trlColumns+` FROM element_trls WHERE id = $1`, id)
	t, err := scanTrl(row)
	if err != nil {
		return nil, postgres.MapError(err, trlEntity, id)
	}
	return t, nil
}

// GetByParentAndLanguage returns the translation of one parent in one
// language; at most one row exists per the storage-level unique constraint.
func (r *TrlRepo) GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.ElementTrl, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+trlColumns+` FROM element_trls WHERE parent_id = $1 AND iso3_language = $2`,
		parentID, domain.NormalizeIso3Language(iso3Language))
	t, err := scanTrl(row)
	if err != nil {
		return nil, postgres.MapError(err, trlEntity, parentID)
	}
	return t, nil
}

// GetDefault returns the designated default translation for a parent, or
// domain.ErrNotFound when no default has been set.
func (r *TrlRepo) GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.ElementTrl, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+trlColumns+` FROM element_trls WHERE parent_id = $1 AND is_default`, parentID)
	t, err := scanTrl(row)
	if err != nil {
		return nil, postgres.MapError(err, trlEntity, parentID)
	}
	return t, nil
}

// ListByParent returns every language variant of one parent, ordered by
// language code.
func (r *TrlRepo) ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.ElementTrl, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+trlColumns+` FROM element_trls WHERE parent_id = $1 ORDER BY iso3_language`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list element_trls by parent: %w", err)
	}
	defer rows.Close()

	return scanTrls(rows)
}

// ListByLanguage returns all translations in one language across all
// parents, for bulk export and reporting.
func (r *TrlRepo) ListByLanguage(ctx context.Context, iso3Language string) ([]domain.ElementTrl, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+trlColumns+` FROM element_trls WHERE iso3_language = $1 ORDER BY parent_id`,
		domain.NormalizeIso3Language(iso3Language))
	if err != nil {
		return nil, fmt.Errorf("list element_trls by language: %w", err)
	}
	defer rows.Close()

	return scanTrls(rows)
}

// Languages returns the distinct language codes present, ordered.
func (r *TrlRepo) Languages(ctx context.Context) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT DISTINCT iso3_language FROM element_trls ORDER BY iso3_language`)
	if err != nil {
		return nil, fmt.Errorf("distinct element_trl languages: %w", err)
	}
	defer rows.Close()

	langs := []string{}
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, rows.Err()
}

// ClearDefault demotes the current default translation of a parent, if any.
// Exposed as a primitive so the service can compose demote+promote in one
// transaction.
func (r *TrlRepo) ClearDefault(ctx context.Context, parentID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx,
		`UPDATE element_trls
		 SET is_default = FALSE, modified_by = $2, modified = now(), version = version + 1
		 WHERE parent_id = $1 AND is_default`,
		parentID, ctxutil.ActorFromCtx(ctx))
	if err != nil {
		return postgres.MapError(err, trlEntity, parentID)
	}
	return nil
}

// MarkDefault promotes one translation to default. The caller must have
// demoted the previous default first (the partial unique index enforces it).
func (r *TrlRepo) MarkDefault(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE element_trls
		 SET is_default = TRUE, modified_by = $2, modified = now(), version = version + 1
		 WHERE id = $1 AND NOT is_default`,
		id, ctxutil.ActorFromCtx(ctx))
	if err != nil {
		return postgres.MapError(err, trlEntity, id)
	}
	if tag.RowsAffected() == 0 {
		// Already default, or missing. Only the latter is an error.
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM element_trls WHERE id = $1)`, id).Scan(&exists); err != nil {
			return postgres.MapError(err, trlEntity, id)
		}
		if !exists {
			return fmt.Errorf("%s %s: %w", trlEntity, id, domain.ErrNotFound)
		}
	}
	return nil
}

// ResetTranslated clears the is_translated flag across the whole table and
// returns the number of rows touched.
func (r *TrlRepo) ResetTranslated(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE element_trls
		 SET is_translated = FALSE, modified_by = $1, modified = now(), version = version + 1
		 WHERE is_translated`,
		ctxutil.ActorFromCtx(ctx))
	if err != nil {
		return 0, fmt.Errorf("reset element_trls: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SoftDelete deactivates a translation. Repeated calls are no-ops.
func (r *TrlRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	return postgres.SoftDelete(ctx, q, trlTable, trlEntity, id)
}

func scanTrl(row pgx.Row) (*domain.ElementTrl, error) {
	var (
		t        domain.ElementTrl
		clientID pgtype.UUID
	)
	err := row.Scan(&t.ID, &clientID, &t.CreatedBy, &t.Created, &t.ModifiedBy, &t.Modified,
		&t.Version, &t.IsActive, &t.ParentID, &t.Iso3Language, &t.IsDefault,
		&t.IsTranslated, &t.Value, &t.Tooltip)
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		cid := uuid.UUID(clientID.Bytes)
		t.ClientID = &cid
	}
	t.MarkPersisted()
	return &t, nil
}

func scanTrls(rows pgx.Rows) ([]domain.ElementTrl, error) {
	var trls []domain.ElementTrl
	for rows.Next() {
		t, err := scanTrl(rows)
		if err != nil {
			return nil, err
		}
		trls = append(trls, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if trls == nil {
		trls = []domain.ElementTrl{}
	}
	return trls, nil
}
