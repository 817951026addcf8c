package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhapy/app-i18n-server/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	got := MapError(nil, "action", uuid.New())
	if got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapError_NoRows(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got := MapError(pgx.ErrNoRows, "action", id)

	if got == nil {
		t.Fatal("MapError(ErrNoRows) = nil, want error")
	}
	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("MapError(ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
	if want := fmt.Sprintf("action %s: not found", id); got.Error() != want {
		t.Errorf("MapError(ErrNoRows).Error() = %q, want %q", got.Error(), want)
	}
}

func TestMapError_WrappedNoRows(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("scan row: %w", pgx.ErrNoRows)
	got := MapError(wrapped, "action_trl", uuid.New())

	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("MapError(wrapped ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
}

func TestMapError_UniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "actions_name_key"}
	got := MapError(pgErr, "action", uuid.New())

	if !errors.Is(got, domain.ErrDuplicateKey) {
		t.Errorf("unique violation must map to ErrDuplicateKey: %v", got)
	}
}

func TestMapError_DefaultIndexViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "action_trls_default_uq"}
	got := MapError(pgErr, "action_trl", uuid.New())

	if !errors.Is(got, domain.ErrIntegrity) {
		t.Errorf("default-per-parent violation must map to ErrIntegrity: %v", got)
	}
	if errors.Is(got, domain.ErrDuplicateKey) {
		t.Errorf("default-per-parent violation must not map to ErrDuplicateKey: %v", got)
	}
}

func TestMapError_ForeignKeyViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "action_trls_parent_id_fkey"}
	got := MapError(pgErr, "action_trl", uuid.New())

	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("fk violation must map to ErrNotFound: %v", got)
	}
}

func TestMapError_ContextCanceled(t *testing.T) {
	t.Parallel()

	got := MapError(context.Canceled, "action", uuid.New())

	if !errors.Is(got, context.Canceled) {
		t.Errorf("context.Canceled must pass through: %v", got)
	}
	if errors.Is(got, domain.ErrNotFound) {
		t.Errorf("context.Canceled must not be mapped: %v", got)
	}
}

func TestMapError_Unknown(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	got := MapError(cause, "action", uuid.New())

	if !errors.Is(got, cause) {
		t.Errorf("unknown errors must be wrapped, not replaced: %v", got)
	}
}
