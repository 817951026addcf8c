// Package i18n implements the cross-family operations: merged language
// listing, table-version reporting, and CSV catalog export/import.
package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type actionRepo interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Action, error)
	GetByName(ctx context.Context, name string) (*domain.Action, error)
	SetTranslated(ctx context.Context, id uuid.UUID, translated bool) error
	Create(ctx context.Context, a *domain.Action) error
}

type actionTrlRepo interface {
	Languages(ctx context.Context) ([]string, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.ActionTrl, error)
	GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.ActionTrl, error)
	GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.ActionTrl, error)
	Create(ctx context.Context, t *domain.ActionTrl) error
	Update(ctx context.Context, t *domain.ActionTrl) error
	ClearDefault(ctx context.Context, parentID uuid.UUID) error
}

type elementRepo interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Element, error)
	GetByName(ctx context.Context, name string) (*domain.Element, error)
	SetTranslated(ctx context.Context, id uuid.UUID, translated bool) error
	Create(ctx context.Context, e *domain.Element) error
}

type elementTrlRepo interface {
	Languages(ctx context.Context) ([]string, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.ElementTrl, error)
	GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.ElementTrl, error)
	GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.ElementTrl, error)
	Create(ctx context.Context, t *domain.ElementTrl) error
	Update(ctx context.Context, t *domain.ElementTrl) error
	ClearDefault(ctx context.Context, parentID uuid.UUID) error
}

type messageRepo interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Message, error)
	GetByName(ctx context.Context, name string) (*domain.Message, error)
	SetTranslated(ctx context.Context, id uuid.UUID, translated bool) error
	Create(ctx context.Context, m *domain.Message) error
}

type messageTrlRepo interface {
	Languages(ctx context.Context) ([]string, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.MessageTrl, error)
	GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.MessageTrl, error)
	GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.MessageTrl, error)
	Create(ctx context.Context, t *domain.MessageTrl) error
	Update(ctx context.Context, t *domain.MessageTrl) error
	ClearDefault(ctx context.Context, parentID uuid.UUID) error
}

type versionRepo interface {
	ListByTable(ctx context.Context, table domain.Kind) ([]domain.TableVersion, error)
	Bump(ctx context.Context, table domain.Kind, isoLang string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the cross-family catalog logic.
type Service struct {
	log         *slog.Logger
	actions     actionRepo
	actionTrls  actionTrlRepo
	elements    elementRepo
	elementTrls elementTrlRepo
	messages    messageRepo
	messageTrls messageTrlRepo
	versions    versionRepo
	tx          txManager
}

// NewService creates a new cross-family i18n service.
func NewService(
	logger *slog.Logger,
	actions actionRepo,
	actionTrls actionTrlRepo,
	elements elementRepo,
	elementTrls elementTrlRepo,
	messages messageRepo,
	messageTrls messageTrlRepo,
	versions versionRepo,
	tx txManager,
) *Service {
	return &Service{
		log:         logger.With("service", "i18n"),
		actions:     actions,
		actionTrls:  actionTrls,
		elements:    elements,
		elementTrls: elementTrls,
		messages:    messages,
		messageTrls: messageTrls,
		versions:    versions,
		tx:          tx,
	}
}

// Languages returns the distinct languages present across all three
// families, sorted.
func (s *Service) Languages(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)

	for _, list := range []func(context.Context) ([]string, error){
		s.actionTrls.Languages,
		s.elementTrls.Languages,
		s.messageTrls.Languages,
	} {
		langs, err := list(ctx)
		if err != nil {
			return nil, err
		}
		for _, l := range langs {
			seen[l] = true
		}
	}

	merged := make([]string, 0, len(seen))
	for l := range seen {
		merged = append(merged, l)
	}
	sort.Strings(merged)
	return merged, nil
}

// TableVersions returns the current counter rows of every family.
func (s *Service) TableVersions(ctx context.Context) ([]domain.TableVersion, error) {
	var all []domain.TableVersion
	for _, kind := range domain.Kinds() {
		versions, err := s.versions.ListByTable(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("list versions for %s: %w", kind, err)
		}
		all = append(all, versions...)
	}
	if all == nil {
		all = []domain.TableVersion{}
	}
	return all, nil
}
