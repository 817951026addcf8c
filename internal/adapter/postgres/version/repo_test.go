package version_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/testhelper"
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/version"
	"github.com/jhapy/app-i18n-server/internal/domain"
)

func TestRepo_Bump_CreatesAndAdvances(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := version.New(pool)
	ctx := context.Background()

	// Parallel tests share the seeded "*" rows, so use a language no other
	// test touches and assert relative movement on the aggregate.
	const lang = "swe"

	if _, err := repo.Get(ctx, domain.KindAction, lang); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first bump, got %v", err)
	}

	aggBefore, err := repo.Get(ctx, domain.KindAction, domain.AggregateLang)
	if err != nil {
		t.Fatalf("Get aggregate failed: %v", err)
	}

	if err := repo.Bump(ctx, domain.KindAction, lang); err != nil {
		t.Fatalf("Bump failed: %v", err)
	}

	v, err := repo.Get(ctx, domain.KindAction, lang)
	if err != nil {
		t.Fatalf("Get after bump failed: %v", err)
	}
	if v.RecordVersion != 1 || v.PreviousVersion != 0 {
		t.Errorf("expected 1/0 after first bump, got %d/%d", v.RecordVersion, v.PreviousVersion)
	}
	if v.NotificationSent {
		t.Error("expected notification flag reset after bump")
	}

	if err := repo.Bump(ctx, domain.KindAction, lang); err != nil {
		t.Fatalf("second Bump failed: %v", err)
	}
	v, err = repo.Get(ctx, domain.KindAction, lang)
	if err != nil {
		t.Fatalf("Get after second bump failed: %v", err)
	}
	if v.RecordVersion != 2 || v.PreviousVersion != 1 {
		t.Errorf("expected 2/1 after second bump, got %d/%d", v.RecordVersion, v.PreviousVersion)
	}

	aggAfter, err := repo.Get(ctx, domain.KindAction, domain.AggregateLang)
	if err != nil {
		t.Fatalf("Get aggregate after bumps failed: %v", err)
	}
	if aggAfter.RecordVersion < aggBefore.RecordVersion+2 {
		t.Errorf("expected aggregate to advance by at least 2, got %d -> %d",
			aggBefore.RecordVersion, aggAfter.RecordVersion)
	}
}

func TestRepo_MarkNotified(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := version.New(pool)
	ctx := context.Background()

	const lang = "nor"
	if err := repo.Bump(ctx, domain.KindElement, lang); err != nil {
		t.Fatalf("Bump failed: %v", err)
	}

	if err := repo.MarkNotified(ctx, domain.KindElement, lang); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}

	v, err := repo.Get(ctx, domain.KindElement, lang)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !v.NotificationSent {
		t.Error("expected notification flag set")
	}

	if err := repo.MarkNotified(ctx, domain.KindElement, "xxx"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown row, got %v", err)
	}
}

func TestRepo_ListByTable(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := version.New(pool)
	ctx := context.Background()

	if err := repo.Bump(ctx, domain.KindMessage, "isl"); err != nil {
		t.Fatalf("Bump failed: %v", err)
	}

	versions, err := repo.ListByTable(ctx, domain.KindMessage)
	if err != nil {
		t.Fatalf("ListByTable failed: %v", err)
	}
	if len(versions) < 2 {
		t.Fatalf("expected aggregate plus at least one language, got %d rows", len(versions))
	}
	// "*" sorts before letters, so the aggregate row comes first.
	if versions[0].IsoLang != domain.AggregateLang {
		t.Errorf("expected aggregate row first, got %q", versions[0].IsoLang)
	}
	for _, v := range versions {
		if v.TableName != domain.KindMessage {
			t.Errorf("unexpected family %q in result", v.TableName)
		}
	}
}
