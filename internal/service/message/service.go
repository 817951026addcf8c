// Package message implements write-path orchestration for the Message lookup
// family: translation resolution with auto-create, default promotion, saves
// with version bumps and a revision trail, and soft-delete lifecycle.
package message

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
	Create(ctx context.Context, a *domain.Message) error
	Update(ctx context.Context, a *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	GetByName(ctx context.Context, name string) (*domain.Message, error)
	SetTranslated(ctx context.Context, id uuid.UUID, translated bool) error
	ClearTranslated(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type trlRepo interface {
	Create(ctx context.Context, t *domain.MessageTrl) error
	Update(ctx context.Context, t *domain.MessageTrl) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MessageTrl, error)
	GetByParentAndLanguage(ctx context.Context, parentID uuid.UUID, iso3Language string) (*domain.MessageTrl, error)
	GetDefault(ctx context.Context, parentID uuid.UUID) (*domain.MessageTrl, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.MessageTrl, error)
	ListByLanguage(ctx context.Context, iso3Language string) ([]domain.MessageTrl, error)
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

// Service implements the message catalog business logic.
type Service struct {
	log       *slog.Logger
	lookups   lookupRepo
	trls      trlRepo
	versions  versionRepo
	revisions revisionRepo
	tx        txManager
}

// NewService creates a new Message service.
func NewService(
	logger *slog.Logger,
	lookups lookupRepo,
	trls trlRepo,
	versions versionRepo,
	revisions revisionRepo,
	tx txManager,
) *Service {
	return &Service{
		log:       logger.With("service", "message"),
		lookups:   lookups,
		trls:      trls,
		versions:  versions,
		revisions: revisions,
		tx:        tx,
	}
}
