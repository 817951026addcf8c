package domain

import (
	"time"

	"github.com/google/uuid"
)

// RevisionAction is the kind of write a revision documents.
type RevisionAction string

const (
	RevisionCreate     RevisionAction = "create"
	RevisionUpdate     RevisionAction = "update"
	RevisionDeactivate RevisionAction = "deactivate"
)

// Revision is one append-only change-log row. Changes holds the field-level
// diff of business data only; audit metadata and the version counter are
// filtered out before a revision is recorded.
type Revision struct {
	ID       uuid.UUID
	Actor    string
	Kind     Kind
	EntityID uuid.UUID
	Action   RevisionAction
	Changes  map[string]any
	Created  time.Time
}

// TableVersion tracks the content version of one lookup family for one
// language ("*" aggregates the whole family). Every translation write bumps
// the matching counters so downstream caches know to refresh.
type TableVersion struct {
	TableName        Kind
	IsoLang          string
	RecordVersion    int64
	PreviousVersion  int64
	NotificationSent bool
}

// AggregateLang is the IsoLang value of the family-wide counter row.
const AggregateLang = "*"
