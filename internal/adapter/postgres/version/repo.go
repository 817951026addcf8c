// Package version implements the table-version counter repository. Each
// lookup family keeps one counter row per language plus the "*" aggregate
// row; translation writes bump the counters so downstream consumers know
// their cached catalogs are stale.
package version

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/jhapy/app-i18n-server/internal/adapter/postgres"
	"github.com/jhapy/app-i18n-server/internal/domain"
)

// Repo provides table-version persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new table-version repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const columns = `table_name, iso_lang, record_version, previous_record_version, notification_sent`

// Get returns the counter row for one family and language, or
// domain.ErrNotFound when no writes have touched that language yet.
func (r *Repo) Get(ctx context.Context, table domain.Kind, isoLang string) (*domain.TableVersion, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx,
		`SELECT `+columns+` FROM table_versions WHERE table_name = $1 AND iso_lang = $2`,
		string(table), isoLang)

	v, err := scanVersion(row)
	if err != nil {
		return nil, postgres.MapError(err, "table_version", uuid.Nil)
	}
	return v, nil
}

// ListByTable returns every counter row of one family, aggregate row first,
// then languages in order.
func (r *Repo) ListByTable(ctx context.Context, table domain.Kind) ([]domain.TableVersion, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+columns+` FROM table_versions WHERE table_name = $1 ORDER BY iso_lang`,
		string(table))
	if err != nil {
		return nil, fmt.Errorf("list table_versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.TableVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []domain.TableVersion{}
	}
	return versions, nil
}

// Bump advances the counter for one family and language: the current value
// becomes the previous one, the current value increments, and the
// notification flag resets. Missing rows are created on first bump.
// The family-wide "*" row is bumped alongside the language row.
func (r *Repo) Bump(ctx context.Context, table domain.Kind, isoLang string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	for _, lang := range []string{isoLang, domain.AggregateLang} {
		if lang == "" {
			continue
		}
		_, err := q.Exec(ctx,
			`INSERT INTO table_versions (table_name, iso_lang, record_version, previous_record_version, notification_sent)
			 VALUES ($1, $2, 1, 0, FALSE)
			 ON CONFLICT (table_name, iso_lang) DO UPDATE
			 SET previous_record_version = table_versions.record_version,
			     record_version = table_versions.record_version + 1,
			     notification_sent = FALSE`,
			string(table), lang)
		if err != nil {
			return fmt.Errorf("bump table_version %s/%s: %w", table, lang, err)
		}
		if lang == domain.AggregateLang {
			break
		}
	}
	return nil
}

// MarkNotified records that downstream consumers have been told about the
// current version.
func (r *Repo) MarkNotified(ctx context.Context, table domain.Kind, isoLang string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx,
		`UPDATE table_versions SET notification_sent = TRUE WHERE table_name = $1 AND iso_lang = $2`,
		string(table), isoLang)
	if err != nil {
		return fmt.Errorf("mark table_version notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table_version %s/%s: %w", table, isoLang, domain.ErrNotFound)
	}
	return nil
}

func scanVersion(row pgx.Row) (*domain.TableVersion, error) {
	var v domain.TableVersion
	var table string
	err := row.Scan(&table, &v.IsoLang, &v.RecordVersion, &v.PreviousVersion, &v.NotificationSent)
	if err != nil {
		return nil, err
	}
	v.TableName = domain.Kind(table)
	return &v, nil
}
