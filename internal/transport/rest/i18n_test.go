package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/domain"
)

type stubActionCatalog struct {
	lookup *domain.Action
}

func (s *stubActionCatalog) GetByName(_ context.Context, name string) (*domain.Action, error) {
	if s.lookup != nil && s.lookup.Name == name {
		return s.lookup, nil
	}
	return nil, domain.ErrNotFound
}

type stubActionTrls struct {
	byLang map[string]*domain.ActionTrl
	def    *domain.ActionTrl
}

func (s *stubActionTrls) GetByParentAndLanguage(_ context.Context, _ uuid.UUID, iso3 string) (*domain.ActionTrl, error) {
	if trl, ok := s.byLang[iso3]; ok {
		return trl, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubActionTrls) GetDefault(_ context.Context, _ uuid.UUID) (*domain.ActionTrl, error) {
	if s.def != nil {
		return s.def, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubActionTrls) ListByLanguage(_ context.Context, iso3 string) ([]domain.ActionTrl, error) {
	if trl, ok := s.byLang[iso3]; ok {
		return []domain.ActionTrl{*trl}, nil
	}
	return []domain.ActionTrl{}, nil
}

type stubElementCatalog struct{}

func (stubElementCatalog) GetByName(_ context.Context, _ string) (*domain.Element, error) {
	return nil, domain.ErrNotFound
}

type stubElementTrls struct{}

func (stubElementTrls) GetByParentAndLanguage(_ context.Context, _ uuid.UUID, _ string) (*domain.ElementTrl, error) {
	return nil, domain.ErrNotFound
}
func (stubElementTrls) GetDefault(_ context.Context, _ uuid.UUID) (*domain.ElementTrl, error) {
	return nil, domain.ErrNotFound
}
func (stubElementTrls) ListByLanguage(_ context.Context, _ string) ([]domain.ElementTrl, error) {
	return []domain.ElementTrl{}, nil
}

type stubMessageCatalog struct{}

func (stubMessageCatalog) GetByName(_ context.Context, _ string) (*domain.Message, error) {
	return nil, domain.ErrNotFound
}

type stubMessageTrls struct{}

func (stubMessageTrls) GetByParentAndLanguage(_ context.Context, _ uuid.UUID, _ string) (*domain.MessageTrl, error) {
	return nil, domain.ErrNotFound
}
func (stubMessageTrls) GetDefault(_ context.Context, _ uuid.UUID) (*domain.MessageTrl, error) {
	return nil, domain.ErrNotFound
}
func (stubMessageTrls) ListByLanguage(_ context.Context, _ string) ([]domain.MessageTrl, error) {
	return []domain.MessageTrl{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) Languages(_ context.Context) ([]string, error) {
	return []string{"eng", "fra"}, nil
}

func (stubCatalogService) TableVersions(_ context.Context) ([]domain.TableVersion, error) {
	return []domain.TableVersion{
		{TableName: domain.KindAction, IsoLang: "*", RecordVersion: 3, PreviousVersion: 2},
	}, nil
}

type stubRevisions struct {
	revs []domain.Revision
}

func (s *stubRevisions) ListByEntity(_ context.Context, _ domain.Kind, _ uuid.UUID, limit int) ([]domain.Revision, error) {
	if limit < len(s.revs) {
		return s.revs[:limit], nil
	}
	return s.revs, nil
}

func newTestHandler(actions *stubActionCatalog, trls *stubActionTrls, revs *stubRevisions) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewI18NHandler(
		actions, trls,
		stubElementCatalog{}, stubElementTrls{},
		stubMessageCatalog{}, stubMessageTrls{},
		stubCatalogService{},
		revs,
		"eng",
		50,
		logger,
	)
	health := NewHealthHandler(nil, "test")
	return NewRouter(h, health, logger)
}

func fixtureAction() (*stubActionCatalog, *stubActionTrls) {
	lookup := domain.NewAction("login")
	lookup.MarkPersisted()

	eng := &domain.ActionTrl{Translation: domain.NewTranslation(lookup.ID, "eng"), Value: "Login"}
	eng.IsDefault = true
	fra := &domain.ActionTrl{Translation: domain.NewTranslation(lookup.ID, "fra"), Value: "Connexion"}

	return &stubActionCatalog{lookup: lookup}, &stubActionTrls{
		byLang: map[string]*domain.ActionTrl{"eng": eng, "fra": fra},
		def:    eng,
	}
}

func TestGetTranslation_ExactLanguage(t *testing.T) {
	actions, trls := fixtureAction()
	router := newTestHandler(actions, trls, &stubRevisions{})

	req := httptest.NewRequest(http.MethodGet, "/api/action/login?lang=fra", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TranslationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Value != "Connexion" || resp.Language != "fra" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Name != "login" {
		t.Errorf("expected name 'login', got %q", resp.Name)
	}
}

func TestGetTranslation_FallsBackToDefault(t *testing.T) {
	actions, trls := fixtureAction()
	router := newTestHandler(actions, trls, &stubRevisions{})

	req := httptest.NewRequest(http.MethodGet, "/api/action/login?lang=deu", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TranslationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Language != "eng" || !resp.IsDefault {
		t.Errorf("expected the default translation, got %+v", resp)
	}
}

func TestGetTranslation_UnknownName(t *testing.T) {
	actions, trls := fixtureAction()
	router := newTestHandler(actions, trls, &stubRevisions{})

	req := httptest.NewRequest(http.MethodGet, "/api/action/missing?lang=eng", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetTranslation_UnknownKind(t *testing.T) {
	actions, trls := fixtureAction()
	router := newTestHandler(actions, trls, &stubRevisions{})

	req := httptest.NewRequest(http.MethodGet, "/api/widget/login?lang=eng", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown kind, got %d", rec.Code)
	}
}

func TestListTranslations_BadLanguage(t *testing.T) {
	actions, trls := fixtureAction()
	router := newTestHandler(actions, trls, &stubRevisions{})

	req := httptest.NewRequest(http.MethodGet, "/api/action/translations?lang=english", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestListTranslations_DefaultLanguage(t *testing.T) {
	actions, trls := fixtureAction()
	router := newTestHandler(actions, trls, &stubRevisions{})

	// No lang parameter: the configured default applies.
	req := httptest.NewRequest(http.MethodGet, "/api/action/translations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []TranslationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Value != "Login" {
		t.Errorf("unexpected list %+v", resp)
	}
}

func TestLanguages(t *testing.T) {
	actions, trls := fixtureAction()
	router := newTestHandler(actions, trls, &stubRevisions{})

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var langs []string
	if err := json.Unmarshal(rec.Body.Bytes(), &langs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(langs) != 2 || langs[0] != "eng" {
		t.Errorf("unexpected languages %v", langs)
	}

	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected middleware to set a request id header")
	}
}

func TestHistory_ReturnsChangeLog(t *testing.T) {
	actions, trls := fixtureAction()
	revs := &stubRevisions{revs: []domain.Revision{
		{
			Action:  domain.RevisionUpdate,
			Actor:   "alice",
			Changes: map[string]any{"value": map[string]any{"old": "Login", "new": "Sign in"}},
			Created: time.Now(),
		},
		{
			Action:  domain.RevisionCreate,
			Actor:   "system",
			Changes: map[string]any{"value": map[string]any{"old": nil, "new": "Login"}},
			Created: time.Now().Add(-time.Hour),
		},
	}}
	router := newTestHandler(actions, trls, revs)

	req := httptest.NewRequest(http.MethodGet, "/api/action/login/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []RevisionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(resp))
	}
	if resp[0].Action != "update" || resp[0].Actor != "alice" {
		t.Errorf("unexpected first revision %+v", resp[0])
	}
	if resp[1].Action != "create" {
		t.Errorf("unexpected second revision %+v", resp[1])
	}
}

func TestHistory_UnknownName(t *testing.T) {
	actions, trls := fixtureAction()
	router := newTestHandler(actions, trls, &stubRevisions{})

	req := httptest.NewRequest(http.MethodGet, "/api/action/nope/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
