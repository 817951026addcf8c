package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedLookup inserts a lookup row into the given table (actions, elements or
// messages) and returns its generated id. The row is created active with
// version 0, mirroring what the repositories produce.
func SeedLookup(t *testing.T, pool *pgxpool.Pool, table, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, client_id, created_by, created, modified_by, modified, version, is_active, name, category, is_translated)
		VALUES ($1, NULL, 'seed', $2, 'seed', $2, 0, TRUE, $3, '', FALSE)
	`, table)

	_, err := pool.Exec(context.Background(), query, id, now, name)
	if err != nil {
		t.Fatalf("testhelper: failed to seed %s row: %v", table, err)
	}

	return id
}

// SeedTrl inserts a translation row into the given table (action_trls,
// element_trls or message_trls) and returns its generated id. The action and
// element tables carry a tooltip column; message_trls does not, so the tooltip
// is only written when the table has one.
func SeedTrl(t *testing.T, pool *pgxpool.Pool, table string, parentID uuid.UUID, iso3 string, isDefault bool, value string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()

	var query string
	if table == "message_trls" {
		query = fmt.Sprintf(`
			INSERT INTO %s (id, client_id, created_by, created, modified_by, modified, version, is_active, parent_id, iso3_language, is_default, is_translated, value)
			VALUES ($1, NULL, 'seed', $2, 'seed', $2, 0, TRUE, $3, $4, $5, TRUE, $6)
		`, table)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %s (id, client_id, created_by, created, modified_by, modified, version, is_active, parent_id, iso3_language, is_default, is_translated, value, tooltip)
			VALUES ($1, NULL, 'seed', $2, 'seed', $2, 0, TRUE, $3, $4, $5, TRUE, $6, '')
		`, table)
	}

	_, err := pool.Exec(context.Background(), query, id, now, parentID, iso3, isDefault, value)
	if err != nil {
		t.Fatalf("testhelper: failed to seed %s row: %v", table, err)
	}

	return id
}
