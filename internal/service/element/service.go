// Package element implements write-path orchestration for the Element lookup
// family: translation resolution with auto-create, default promotion, saves
// with version bumps and a revision trail, and soft-delete lifecycle.
package element

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jhapy/app-i18n-server/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type lookupRepo interface {
	Create(ctx context.Context, a *domain.Element) error
	Update(ctx context.Context, a *domain.Element) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Element, error)
	GetByName(ctx context.Context, name string) (*domain.Element, error)
	SetTranslated(ctx context.Context, id uuid.UUID, translated bool) error
	ClearTranslated(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type trlRepo interface {
	Create(ctx context.Context, t *domain.ElementTrl) error
	Update(ctx context.Context, t *domain.ElementTrl) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ElementTrl, error)
	GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.ElementTrl, error)
	GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.ElementTrl, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.ElementTrl, error)
	ListByLanguage(ctx context.Context, iso3Language string) ([]domain.ElementTrl, error)
	ClearDefault(ctx context.Context, parentID uuid.UUID) error
	MarkDefault(ctx context.Context, id uuid.UUID) error
	ResetTranslated(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type versionRepo interface {
	Bump(ctx context.Context, table domain.Kind, isoLang string) error
}

type revisionRepo interface {
	Record(ctx context.Context, rev domain.Revision) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the element catalog business logic.
type Service struct {
	log       *slog.Logger
	lookups   lookupRepo
	trls      trlRepo
	versions  versionRepo
	revisions revisionRepo
	tx        txManager
}

// NewService creates a new Element service.
func NewService(
	logger *slog.Logger,
	lookups lookupRepo,
	trls trlRepo,
	versions versionRepo,
	revisions revisionRepo,
	tx txManager,
) *Service {
	return &Service{
		log:       logger.With("service", "element"),
		lookups:   lookups,
		trls:      trls,
		versions:  versions,
		revisions: revisions,
		tx:        tx,
	}
}
