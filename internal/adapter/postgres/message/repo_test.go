package message_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/message"
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/testhelper"
	"github.com/jhapy/app-i18n-server/internal/domain"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

func TestRepo_RoundTrip(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := message.New(pool)
	trls := message.NewTrl(pool)
	ctx := ctxutil.WithActor(context.Background(), "tester")

	m := domain.NewMessage(fmt.Sprintf("greeting-%s", uuid.NewString()[:8]))
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	trl := &domain.MessageTrl{
		Translation: domain.NewTranslation(m.ID, "fra"),
		Value:       "Bonjour {0}",
	}
	trl.IsTranslated = true
	if err := trls.Create(ctx, trl); err != nil {
		t.Fatalf("Create translation failed: %v", err)
	}

	got, err := trls.GetByParentAndLanguage(ctx, m.ID, "fra")
	if err != nil {
		t.Fatalf("GetByParentAndLanguage failed: %v", err)
	}
	if got.Value != "Bonjour {0}" {
		t.Errorf("expected placeholder value to round-trip, got %q", got.Value)
	}
	if !got.IsTranslated {
		t.Error("expected translation flagged as translated")
	}
}

func TestTrlRepo_ListByLanguage(t *testing.T) {
	t.Parallel()

	pool := testhelper.SetupTestDB(t)
	repo := message.New(pool)
	trls := message.NewTrl(pool)
	ctx := ctxutil.WithActor(context.Background(), "tester")

	// Use a language no other test writes so the result set is ours alone.
	const lang = "fin"

	m1 := domain.NewMessage(fmt.Sprintf("msg-a-%s", uuid.NewString()[:8]))
	m2 := domain.NewMessage(fmt.Sprintf("msg-b-%s", uuid.NewString()[:8]))
	for _, m := range []*domain.Message{m1, m2} {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		trl := &domain.MessageTrl{
			Translation: domain.NewTranslation(m.ID, lang),
			Value:       "arvo",
		}
		if err := trls.Create(ctx, trl); err != nil {
			t.Fatalf("Create translation failed: %v", err)
		}
	}

	list, err := trls.ListByLanguage(ctx, lang)
	if err != nil {
		t.Fatalf("ListByLanguage failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 translations for %q, got %d", lang, len(list))
	}

	if _, err := trls.GetByParentAndLanguage(ctx, m1.ID, "zul"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing language, got %v", err)
	}
}
