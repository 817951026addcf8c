package action_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/action"
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/testhelper"
	"github.com/jhapy/app-i18n-server/internal/domain"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

func testCtx() context.Context {
	return ctxutil.WithActor(context.Background(), "tester")
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

func TestRepo_Create_GetByID(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	a := domain.NewAction(uniqueName("login"))
	a.Category = "security"

	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.IsNew() {
		t.Error("expected action to be marked persisted after Create")
	}
	if a.CreatedBy != "tester" {
		t.Errorf("expected created_by 'tester', got %q", a.CreatedBy)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != a.Name {
		t.Errorf("expected name %q, got %q", a.Name, got.Name)
	}
	if got.Category != "security" {
		t.Errorf("expected category 'security', got %q", got.Category)
	}
	if got.Version != 0 {
		t.Errorf("expected version 0, got %d", got.Version)
	}
	if !got.IsActive {
		t.Error("expected new action to be active")
	}
	if got.IsNew() {
		t.Error("expected loaded action to be persisted")
	}
}

func TestRepo_Create_DuplicateName(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	name := uniqueName("dup")
	if err := repo.Create(ctx, domain.NewAction(name)); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	err := repo.Create(ctx, domain.NewAction(name))
	if !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestRepo_Create_BlankName(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)

	err := repo.Create(testCtx(), domain.NewAction("   "))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRepo_Update_BumpsVersion(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	a := domain.NewAction(uniqueName("rename"))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	a.Category = "updated"
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if a.Version != 1 {
		t.Errorf("expected version 1 after update, got %d", a.Version)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Category != "updated" {
		t.Errorf("expected category 'updated', got %q", got.Category)
	}
}

func TestRepo_Update_StaleVersion(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	a := domain.NewAction(uniqueName("stale"))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stale := *a
	a.Category = "first"
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("first Update failed: %v", err)
	}

	stale.Category = "second"
	err := repo.Update(ctx, &stale)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for stale version, got %v", err)
	}
}

func TestRepo_Update_Missing(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)

	a := domain.NewAction(uniqueName("ghost"))
	a.MarkPersisted()

	err := repo.Update(testCtx(), a)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_GetByName(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	a := domain.NewAction(uniqueName("byname"))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByName(ctx, a.Name)
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("expected id %s, got %s", a.ID, got.ID)
	}

	if _, err := repo.GetByName(ctx, uniqueName("missing")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown name, got %v", err)
	}
}

func TestRepo_FindByIDOrName(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	a := domain.NewAction(uniqueName("either"))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	byID, err := repo.FindByIDOrName(ctx, a.ID, uniqueName("other"))
	if err != nil {
		t.Fatalf("FindByIDOrName by id failed: %v", err)
	}
	if byID.ID != a.ID {
		t.Errorf("expected id match, got %s", byID.ID)
	}

	byName, err := repo.FindByIDOrName(ctx, uuid.New(), a.Name)
	if err != nil {
		t.Fatalf("FindByIDOrName by name failed: %v", err)
	}
	if byName.ID != a.ID {
		t.Errorf("expected name match, got %s", byName.ID)
	}

	if _, err := repo.FindByIDOrName(ctx, uuid.New(), uniqueName("none")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound when neither matches, got %v", err)
	}
}

func TestRepo_ListByIDs(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	a1 := domain.NewAction(uniqueName("list-a"))
	a2 := domain.NewAction(uniqueName("list-b"))
	for _, a := range []*domain.Action{a1, a2} {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := repo.ListByIDs(ctx, []uuid.UUID{a1.ID, a2.ID, uuid.New()})
	if err != nil {
		t.Fatalf("ListByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 actions, got %d", len(got))
	}

	empty, err := repo.ListByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ListByIDs with empty input failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result, got %d", len(empty))
	}
}

func TestRepo_SoftDelete(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	a := domain.NewAction(uniqueName("gone"))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.SoftDelete(ctx, a.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID after delete failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected action to be inactive after SoftDelete")
	}

	// Deactivating again is a no-op.
	if err := repo.SoftDelete(ctx, a.ID); err != nil {
		t.Errorf("repeated SoftDelete should be a no-op, got %v", err)
	}

	if err := repo.SoftDelete(ctx, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestRepo_SetTranslated_Clear(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := action.New(pool)
	ctx := testCtx()

	a := domain.NewAction(uniqueName("flagged"))
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.SetTranslated(ctx, a.ID, true); err != nil {
		t.Fatalf("SetTranslated failed: %v", err)
	}
	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.IsTranslated {
		t.Error("expected is_translated to be set")
	}
	version := got.Version

	// Writing the value the row already holds leaves it untouched.
	if err := repo.SetTranslated(ctx, a.ID, true); err != nil {
		t.Fatalf("repeated SetTranslated failed: %v", err)
	}
	got, err = repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Version != version {
		t.Errorf("expected version %d after writing the same value, got %d", version, got.Version)
	}

	n, err := repo.ClearTranslated(ctx)
	if err != nil {
		t.Fatalf("ClearTranslated failed: %v", err)
	}
	if n < 1 {
		t.Errorf("expected at least one row cleared, got %d", n)
	}
	got, err = repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsTranslated {
		t.Error("expected is_translated to be cleared")
	}
}
