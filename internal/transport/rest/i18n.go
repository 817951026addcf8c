package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/domain"
)

// Read-side interfaces, one pair per lookup family.

type actionCatalog interface {
	GetByName(ctx context.Context, name string) (*domain.Action, error)
}

type actionTrlReader interface {
	GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.ActionTrl, error)
	GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.ActionTrl, error)
	ListByLanguage(ctx context.Context, iso3Language string) ([]domain.ActionTrl, error)
}

type elementCatalog interface {
	GetByName(ctx context.Context, name string) (*domain.Element, error)
}

type elementTrlReader interface {
	GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.ElementTrl, error)
	GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.ElementTrl, error)
	ListByLanguage(ctx context.Context, iso3Language string) ([]domain.ElementTrl, error)
}

type messageCatalog interface {
	GetByName(ctx context.Context, name string) (*domain.Message, error)
}

type messageTrlReader interface {
	GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.MessageTrl, error)
	GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.MessageTrl, error)
	ListByLanguage(ctx context.Context, iso3Language string) ([]domain.MessageTrl, error)
}

type catalogService interface {
	Languages(ctx context.Context) ([]string, error)
	TableVersions(ctx context.Context) ([]domain.TableVersion, error)
}

type revisionReader interface {
	ListByEntity(ctx context.Context, kind domain.Kind, entityID uuid.UUID, limit int) ([]domain.Revision, error)
}

// I18NHandler serves the read-side catalog endpoints.
type I18NHandler struct {
	actions      actionCatalog
	actionTrls   actionTrlReader
	elements     elementCatalog
	elementTrls  elementTrlReader
	messages     messageCatalog
	messageTrls  messageTrlReader
	catalog      catalogService
	revisions    revisionReader
	defaultLang  string
	historyLimit int
	log          *slog.Logger
}

// NewI18NHandler creates an I18NHandler. defaultLang is used when a request
// does not name a language; historyLimit caps the rows a history request
// returns.
func NewI18NHandler(
	actions actionCatalog, actionTrls actionTrlReader,
	elements elementCatalog, elementTrls elementTrlReader,
	messages messageCatalog, messageTrls messageTrlReader,
	catalog catalogService,
	revisions revisionReader,
	defaultLang string,
	historyLimit int,
	logger *slog.Logger,
) *I18NHandler {
	return &I18NHandler{
		actions:      actions,
		actionTrls:   actionTrls,
		elements:     elements,
		elementTrls:  elementTrls,
		messages:     messages,
		messageTrls:  messageTrls,
		catalog:      catalog,
		revisions:    revisions,
		defaultLang:  defaultLang,
		historyLimit: historyLimit,
		log:          logger.With("handler", "i18n"),
	}
}

// TranslationResponse is the JSON shape of one translation row.
type TranslationResponse struct {
	Name         string `json:"name,omitempty"`
	Language     string `json:"language"`
	Value        string `json:"value"`
	Tooltip      string `json:"tooltip,omitempty"`
	IsDefault    bool   `json:"is_default"`
	IsTranslated bool   `json:"is_translated"`
}

// RevisionResponse is the JSON shape of one change-log row.
type RevisionResponse struct {
	Action    string         `json:"action"`
	Actor     string         `json:"actor"`
	Changes   map[string]any `json:"changes"`
	Timestamp time.Time      `json:"timestamp"`
}

// TableVersionResponse is the JSON shape of one version counter.
type TableVersionResponse struct {
	Table            string `json:"table"`
	Language         string `json:"language"`
	Version          int64  `json:"version"`
	PreviousVersion  int64  `json:"previous_version"`
	NotificationSent bool   `json:"notification_sent"`
}

// Languages returns the distinct languages across all families.
// GET /api/languages
func (h *I18NHandler) Languages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.catalog.Languages(r.Context())
	if err != nil {
		h.serverError(w, r, "list languages", err)
		return
	}
	writeJSON(w, http.StatusOK, langs)
}

// TableVersions returns the current version counters of every family.
// GET /api/versions
func (h *I18NHandler) TableVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.catalog.TableVersions(r.Context())
	if err != nil {
		h.serverError(w, r, "list table versions", err)
		return
	}

	out := make([]TableVersionResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, TableVersionResponse{
			Table:            string(v.TableName),
			Language:         v.IsoLang,
			Version:          v.RecordVersion,
			PreviousVersion:  v.PreviousVersion,
			NotificationSent: v.NotificationSent,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListTranslations returns all translations of one family in one language.
// GET /api/{kind}/translations?lang=eng
func (h *I18NHandler) ListTranslations(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromPath(w, r)
	if !ok {
		return
	}
	lang := h.langFromQuery(r)
	if !domain.ValidIso3Language(lang) {
		writeError(w, http.StatusBadRequest, "lang must be a 3-letter ISO 639-2 code")
		return
	}

	ctx := r.Context()
	var (
		out []TranslationResponse
		err error
	)
	switch kind {
	case domain.KindAction:
		var trls []domain.ActionTrl
		if trls, err = h.actionTrls.ListByLanguage(ctx, lang); err == nil {
			out = make([]TranslationResponse, 0, len(trls))
			for _, trl := range trls {
				out = append(out, actionResponse("", &trl))
			}
		}
	case domain.KindElement:
		var trls []domain.ElementTrl
		if trls, err = h.elementTrls.ListByLanguage(ctx, lang); err == nil {
			out = make([]TranslationResponse, 0, len(trls))
			for _, trl := range trls {
				out = append(out, elementResponse("", &trl))
			}
		}
	case domain.KindMessage:
		var trls []domain.MessageTrl
		if trls, err = h.messageTrls.ListByLanguage(ctx, lang); err == nil {
			out = make([]TranslationResponse, 0, len(trls))
			for _, trl := range trls {
				out = append(out, messageResponse("", &trl))
			}
		}
	}
	if err != nil {
		h.serverError(w, r, "list translations", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTranslation returns the translation of one named entry, falling back to
// the entry's default translation when the requested language is missing.
// GET /api/{kind}/{name}?lang=eng
func (h *I18NHandler) GetTranslation(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromPath(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")
	lang := h.langFromQuery(r)
	if !domain.ValidIso3Language(lang) {
		writeError(w, http.StatusBadRequest, "lang must be a 3-letter ISO 639-2 code")
		return
	}

	ctx := r.Context()
	var (
		resp TranslationResponse
		err  error
	)
	switch kind {
	case domain.KindAction:
		resp, err = h.getActionTranslation(ctx, name, lang)
	case domain.KindElement:
		resp, err = h.getElementTranslation(ctx, name, lang)
	case domain.KindMessage:
		resp, err = h.getMessageTranslation(ctx, name, lang)
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "translation not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "get translation", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// History returns the change log of one named entry, newest first.
// GET /api/{kind}/{name}/history
func (h *I18NHandler) History(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindFromPath(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")

	ctx := r.Context()
	id, err := h.lookupID(ctx, kind, name)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		h.serverError(w, r, "resolve entry", err)
		return
	}

	revs, err := h.revisions.ListByEntity(ctx, kind, id, h.historyLimit)
	if err != nil {
		h.serverError(w, r, "list history", err)
		return
	}

	out := make([]RevisionResponse, 0, len(revs))
	for _, rev := range revs {
		out = append(out, RevisionResponse{
			Action:    string(rev.Action),
			Actor:     rev.Actor,
			Changes:   rev.Changes,
			Timestamp: rev.Created,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *I18NHandler) lookupID(ctx context.Context, kind domain.Kind, name string) (uuid.UUID, error) {
	switch kind {
	case domain.KindElement:
		lookup, err := h.elements.GetByName(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return lookup.ID, nil
	case domain.KindMessage:
		lookup, err := h.messages.GetByName(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return lookup.ID, nil
	default:
		lookup, err := h.actions.GetByName(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return lookup.ID, nil
	}
}

func (h *I18NHandler) getActionTranslation(ctx context.Context, name, lang string) (TranslationResponse, error) {
	lookup, err := h.actions.GetByName(ctx, name)
	if err != nil {
		return TranslationResponse{}, err
	}
	trl, err := h.actionTrls.GetByParentAndLanguage(ctx, lookup.ID, lang)
	if errors.Is(err, domain.ErrNotFound) {
		trl, err = h.actionTrls.GetDefault(ctx, lookup.ID)
	}
	if err != nil {
		return TranslationResponse{}, err
	}
	return actionResponse(lookup.Name, trl), nil
}

func (h *I18NHandler) getElementTranslation(ctx context.Context, name, lang string) (TranslationResponse, error) {
	lookup, err := h.elements.GetByName(ctx, name)
	if err != nil {
		return TranslationResponse{}, err
	}
	trl, err := h.elementTrls.GetByParentAndLanguage(ctx, lookup.ID, lang)
	if errors.Is(err, domain.ErrNotFound) {
		trl, err = h.elementTrls.GetDefault(ctx, lookup.ID)
	}
	if err != nil {
		return TranslationResponse{}, err
	}
	return elementResponse(lookup.Name, trl), nil
}

func (h *I18NHandler) getMessageTranslation(ctx context.Context, name, lang string) (TranslationResponse, error) {
	lookup, err := h.messages.GetByName(ctx, name)
	if err != nil {
		return TranslationResponse{}, err
	}
	trl, err := h.messageTrls.GetByParentAndLanguage(ctx, lookup.ID, lang)
	if errors.Is(err, domain.ErrNotFound) {
		trl, err = h.messageTrls.GetDefault(ctx, lookup.ID)
	}
	if err != nil {
		return TranslationResponse{}, err
	}
	return messageResponse(lookup.Name, trl), nil
}

func (h *I18NHandler) kindFromPath(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	kind := domain.Kind(r.PathValue("kind"))
	switch kind {
	case domain.KindAction, domain.KindElement, domain.KindMessage:
		return kind, true
	}
	writeError(w, http.StatusNotFound, "unknown catalog "+string(kind))
	return "", false
}

func (h *I18NHandler) langFromQuery(r *http.Request) string {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.defaultLang
	}
	return domain.NormalizeIso3Language(lang)
}

func (h *I18NHandler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.log.ErrorContext(r.Context(), msg, slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func actionResponse(name string, trl *domain.ActionTrl) TranslationResponse {
	return TranslationResponse{
		Name:         name,
		Language:     trl.Iso3Language,
		Value:        trl.Value,
		Tooltip:      trl.Tooltip,
		IsDefault:    trl.IsDefault,
		IsTranslated: trl.IsTranslated,
	}
}

func elementResponse(name string, trl *domain.ElementTrl) TranslationResponse {
	return TranslationResponse{
		Name:         name,
		Language:     trl.Iso3Language,
		Value:        trl.Value,
		Tooltip:      trl.Tooltip,
		IsDefault:    trl.IsDefault,
		IsTranslated: trl.IsTranslated,
	}
}

func messageResponse(name string, trl *domain.MessageTrl) TranslationResponse {
	return TranslationResponse{
		Name:         name,
		Language:     trl.Iso3Language,
		Value:        trl.Value,
		IsDefault:    trl.IsDefault,
		IsTranslated: trl.IsTranslated,
	}
}
