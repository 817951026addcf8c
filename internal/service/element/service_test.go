package element

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/domain"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockLookupRepo struct {
	createFunc          func(ctx context.Context, a *domain.Element) error
	updateFunc          func(ctx context.Context, a *domain.Element) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Element, error)
	getByNameFunc       func(ctx context.Context, name string) (*domain.Element, error)
	setTranslatedFunc   func(ctx context.Context, id uuid.UUID, translated bool) error
	clearTranslatedFunc func(ctx context.Context) (int64, error)
	softDeleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockLookupRepo) Create(ctx context.Context, a *domain.Element) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	a.MarkPersisted()
	return nil
}

func (m *mockLookupRepo) Update(ctx context.Context, a *domain.Element) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, a)
	}
	return nil
}

func (m *mockLookupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Element, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockLookupRepo) GetByName(ctx context.Context, name string) (*domain.Element, error) {
	if m.getByNameFunc != nil {
		return m.getByNameFunc(ctx, name)
	}
	return nil, domain.ErrNotFound
}

func (m *mockLookupRepo) SetTranslated(ctx context.Context, id uuid.UUID, translated bool) error {
	if m.setTranslatedFunc != nil {
		return m.setTranslatedFunc(ctx, id, translated)
	}
	return nil
}

func (m *mockLookupRepo) ClearTranslated(ctx context.Context) (int64, error) {
	if m.clearTranslatedFunc != nil {
		return m.clearTranslatedFunc(ctx)
	}
	return 0, nil
}

func (m *mockLookupRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return nil
}

type mockTrlRepo struct {
	createFunc          func(ctx context.Context, t *domain.ElementTrl) error
	updateFunc          func(ctx context.Context, t *domain.ElementTrl) error
	getByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.ElementTrl, error)
	getByParentLangFunc func(ctx context.Context, parentID uuid.UUID, iso3 string) (*domain.ElementTrl, error)
	getDefaultFunc      func(ctx context.Context, parentID uuid.UUID) (*domain.ElementTrl, error)
	listByParentFunc    func(ctx context.Context, parentID uuid.UUID) ([]domain.ElementTrl, error)
	listByLanguageFunc  func(ctx context.Context, iso3 string) ([]domain.ElementTrl, error)
	clearDefaultFunc    func(ctx context.Context, parentID uuid.UUID) error
	markDefaultFunc     func(ctx context.Context, id uuid.UUID) error
	resetFunc           func(ctx context.Context) (int64, error)
	softDeleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTrlRepo) Create(ctx context.Context, t *domain.ElementTrl) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, t)
	}
	t.MarkPersisted()
	return nil
}

func (m *mockTrlRepo) Update(ctx context.Context, t *domain.ElementTrl) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, t)
	}
	return nil
}

func (m *mockTrlRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ElementTrl, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTrlRepo) GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3 string) (*domain.ElementTrl, error) {
	if m.getByParentLangFunc != nil {
		return m.getByParentLangFunc(ctx, parentID, iso3)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTrlRepo) GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.ElementTrl, error) {
	if m.getDefaultFunc != nil {
		return m.getDefaultFunc(ctx, parentID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTrlRepo) ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.ElementTrl, error) {
	if m.listByParentFunc != nil {
		return m.listByParentFunc(ctx, parentID)
	}
	return []domain.ElementTrl{}, nil
}

func (m *mockTrlRepo) ListByLanguage(ctx context.Context, iso3 string) ([]domain.ElementTrl, error) {
	if m.listByLanguageFunc != nil {
		return m.listByLanguageFunc(ctx, iso3)
	}
	return []domain.ElementTrl{}, nil
}

func (m *mockTrlRepo) ClearDefault(ctx context.Context, parentID uuid.UUID) error {
	if m.clearDefaultFunc != nil {
		return m.clearDefaultFunc(ctx, parentID)
	}
	return nil
}

func (m *mockTrlRepo) MarkDefault(ctx context.Context, id uuid.UUID) error {
	if m.markDefaultFunc != nil {
		return m.markDefaultFunc(ctx, id)
	}
	return nil
}

func (m *mockTrlRepo) ResetTranslated(ctx context.Context) (int64, error) {
	if m.resetFunc != nil {
		return m.resetFunc(ctx)
	}
	return 0, nil
}

func (m *mockTrlRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return nil
}

type mockVersionRepo struct {
	bumps []string
}

func (m *mockVersionRepo) Bump(ctx context.Context, table domain.Kind, isoLang string) error {
	m.bumps = append(m.bumps, string(table)+"/"+isoLang)
	return nil
}

type mockRevisionRepo struct {
	records []domain.Revision
}

func (m *mockRevisionRepo) Record(ctx context.Context, rev domain.Revision) error {
	m.records = append(m.records, rev)
	return nil
}

type mockTxManager struct{}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(lookups *mockLookupRepo, trls *mockTrlRepo, versions *mockVersionRepo, revisions *mockRevisionRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, lookups, trls, versions, revisions, &mockTxManager{})
}

func TestService_GetOrCreateTranslation_AutoCreatesLookup(t *testing.T) {
	t.Parallel()

	var createdLookup *domain.Element
	lookups := &mockLookupRepo{
		createFunc: func(_ context.Context, a *domain.Element) error {
			createdLookup = a
			a.MarkPersisted()
			return nil
		},
	}
	var createdTrl *domain.ElementTrl
	trls := &mockTrlRepo{
		createFunc: func(_ context.Context, trl *domain.ElementTrl) error {
			createdTrl = trl
			trl.MarkPersisted()
			return nil
		},
	}
	versions := &mockVersionRepo{}
	revisions := &mockRevisionRepo{}
	svc := newTestService(lookups, trls, versions, revisions)

	got, err := svc.GetOrCreateTranslation(context.Background(), "logout", "fra")
	if err != nil {
		t.Fatalf("GetOrCreateTranslation failed: %v", err)
	}
	if createdLookup == nil || createdLookup.Name != "logout" {
		t.Fatal("expected the lookup to be auto-created")
	}
	if createdTrl == nil {
		t.Fatal("expected the translation to be created")
	}
	if got.Value != "logout" {
		t.Errorf("expected value seeded from the name, got %q", got.Value)
	}
	if got.IsTranslated {
		t.Error("expected auto-created translation to stay untranslated")
	}
	if len(versions.bumps) != 1 || versions.bumps[0] != "element/fra" {
		t.Errorf("expected one bump for element/fra, got %v", versions.bumps)
	}
	if len(revisions.records) != 1 || revisions.records[0].Action != domain.RevisionCreate {
		t.Errorf("expected a create revision for the lookup, got %v", revisions.records)
	}
}

func TestService_SetDefault_Promotes(t *testing.T) {
	t.Parallel()

	parentID := uuid.New()
	trl := &domain.ElementTrl{Translation: domain.NewTranslation(parentID, "fra")}

	var calls []string
	trls := &mockTrlRepo{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.ElementTrl, error) {
			return trl, nil
		},
		clearDefaultFunc: func(_ context.Context, _ uuid.UUID) error {
			calls = append(calls, "clear")
			return nil
		},
		markDefaultFunc: func(_ context.Context, _ uuid.UUID) error {
			calls = append(calls, "mark")
			return nil
		},
	}
	versions := &mockVersionRepo{}
	revisions := &mockRevisionRepo{}
	svc := newTestService(&mockLookupRepo{}, trls, versions, revisions)

	if err := svc.SetDefault(context.Background(), parentID, trl.ID); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if len(calls) != 2 || calls[0] != "clear" || calls[1] != "mark" {
		t.Errorf("expected demote before promote, got %v", calls)
	}
	if len(versions.bumps) != 1 || versions.bumps[0] != "element/fra" {
		t.Errorf("expected bump for element/fra, got %v", versions.bumps)
	}
	if len(revisions.records) != 1 {
		t.Fatalf("expected 1 revision, got %d", len(revisions.records))
	}
	rev := revisions.records[0]
	if rev.Action != domain.RevisionUpdate || rev.EntityID != trl.ID {
		t.Errorf("unexpected revision %+v", rev)
	}
	if _, ok := rev.Changes["is_default"]; !ok {
		t.Errorf("expected an is_default change, got %v", rev.Changes)
	}
}

func TestService_SaveTranslation_RefreshesParentFlag(t *testing.T) {
	t.Parallel()

	parentID := uuid.New()

	trl := &domain.ElementTrl{
		Translation: domain.NewTranslation(parentID, "fra"),
		Value:       "Connexion",
	}
	trl.MarkPersisted()
	trl.IsTranslated = true

	stored := *trl
	stored.Value = "Login"
	stored.IsTranslated = false

	sibling := domain.ElementTrl{
		Translation: domain.NewTranslation(parentID, "eng"),
		Value:       "Login",
	}
	sibling.IsTranslated = true

	trls := &mockTrlRepo{
		getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.ElementTrl, error) {
			return &stored, nil
		},
		listByParentFunc: func(_ context.Context, id uuid.UUID) ([]domain.ElementTrl, error) {
			return []domain.ElementTrl{sibling, *trl}, nil
		},
	}
	var flagged *bool
	lookups := &mockLookupRepo{
		setTranslatedFunc: func(_ context.Context, id uuid.UUID, translated bool) error {
			if id != parentID {
				t.Errorf("flag written to %s, want parent %s", id, parentID)
			}
			flagged = &translated
			return nil
		},
	}
	svc := newTestService(lookups, trls, &mockVersionRepo{}, &mockRevisionRepo{})

	if err := svc.SaveTranslation(context.Background(), trl); err != nil {
		t.Fatalf("SaveTranslation failed: %v", err)
	}
	if flagged == nil {
		t.Fatal("expected the parent flag to be recomputed")
	}
	if !*flagged {
		t.Error("expected the parent marked translated once every language is done")
	}
}

func TestService_Reset(t *testing.T) {
	t.Parallel()

	trls := &mockTrlRepo{
		resetFunc: func(_ context.Context) (int64, error) {
			return 7, nil
		},
	}
	cleared := false
	lookups := &mockLookupRepo{
		clearTranslatedFunc: func(_ context.Context) (int64, error) {
			cleared = true
			return 3, nil
		},
	}
	versions := &mockVersionRepo{}
	svc := newTestService(lookups, trls, versions, &mockRevisionRepo{})

	n, err := svc.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7 rows, got %d", n)
	}
	if !cleared {
		t.Error("expected the lookup flags to be cleared as well")
	}
	if len(versions.bumps) != 1 || versions.bumps[0] != "element/*" {
		t.Errorf("expected aggregate bump, got %v", versions.bumps)
	}
}
