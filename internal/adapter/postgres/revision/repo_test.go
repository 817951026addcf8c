package revision_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/revision"
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/testhelper"
	"github.com/jhapy/app-i18n-server/internal/domain"
)

func TestRepo_Record_ListByEntity(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := revision.New(pool)
	ctx := context.Background()

	entityID := uuid.New()

	first := domain.Revision{
		Actor:    "tester",
		Kind:     domain.KindAction,
		EntityID: entityID,
		Action:   domain.RevisionCreate,
		Changes: map[string]any{
			"name": map[string]any{"old": nil, "new": "login"},
		},
	}
	if err := repo.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	second := domain.Revision{
		Actor:    "tester",
		Kind:     domain.KindAction,
		EntityID: entityID,
		Action:   domain.RevisionUpdate,
		Changes: map[string]any{
			"category": map[string]any{"old": "", "new": "security"},
		},
	}
	if err := repo.Record(ctx, second); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	revs, err := repo.ListByEntity(ctx, domain.KindAction, entityID, 10)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revs))
	}
	// Newest first.
	if revs[0].Action != domain.RevisionUpdate {
		t.Errorf("expected update revision first, got %q", revs[0].Action)
	}
	if revs[1].Action != domain.RevisionCreate {
		t.Errorf("expected create revision last, got %q", revs[1].Action)
	}

	change, ok := revs[0].Changes["category"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested change map, got %T", revs[0].Changes["category"])
	}
	if change["new"] != "security" {
		t.Errorf("expected new value 'security', got %v", change["new"])
	}
}

func TestRepo_Record_NilChanges(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := revision.New(pool)
	ctx := context.Background()

	entityID := uuid.New()
	rev := domain.Revision{
		Actor:    "tester",
		Kind:     domain.KindMessage,
		EntityID: entityID,
		Action:   domain.RevisionDeactivate,
	}
	if err := repo.Record(ctx, rev); err != nil {
		t.Fatalf("Record with nil changes failed: %v", err)
	}

	revs, err := repo.ListByEntity(ctx, domain.KindMessage, entityID, 1)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(revs) != 1 {
		t.Fatalf("expected 1 revision, got %d", len(revs))
	}
	if revs[0].ID == uuid.Nil {
		t.Error("expected generated revision id")
	}
	if revs[0].Created.IsZero() {
		t.Error("expected generated created timestamp")
	}
	if len(revs[0].Changes) != 0 {
		t.Errorf("expected empty changes, got %v", revs[0].Changes)
	}
}

func TestRepo_ListByEntity_Empty(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := revision.New(pool)

	revs, err := repo.ListByEntity(context.Background(), domain.KindElement, uuid.New(), 5)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(revs) != 0 {
		t.Errorf("expected empty history, got %d rows", len(revs))
	}
}
