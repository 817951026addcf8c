package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record is the audited base embedded by every persistent entity.
// Identity is the UUID alone: two records are equal iff their IDs are equal,
// regardless of persistence state or audit metadata.
type Record struct {
	ID uuid.UUID

	// ClientID is an optional tenant identifier.
	ClientID *uuid.UUID

	// Audit metadata. Populated by the persistence layer from the actor
	// context; excluded from change diffs (see internal/diff).
	CreatedBy  string
	Created    time.Time
	ModifiedBy string
	Modified   time.Time

	// Version backs optimistic concurrency. Starts at 0 on insert and is
	// incremented by every successful update; a stale value fails the
	// update with ErrConflict.
	Version int64

	// IsActive is the soft-delete flag. Deactivation is a state transition,
	// never a physical delete.
	IsActive bool

	persisted bool
}

// NewRecord returns a Record with a freshly generated identity.
// The record is "new": IsNew reports true until the first store write.
func NewRecord() Record {
	return Record{ID: uuid.New(), IsActive: true}
}

// RecordWithID returns a Record carrying a pre-existing identity.
// Supplying an ID marks the record as already persisted.
func RecordWithID(id uuid.UUID) Record {
	return Record{ID: id, IsActive: true, persisted: true}
}

// IsNew reports whether the record has never been written to or loaded
// from storage.
func (r *Record) IsNew() bool { return !r.persisted }

// MarkPersisted flips the record to "not new". The persistence layer calls
// it after a successful insert and on every load.
func (r *Record) MarkPersisted() { r.persisted = true }

// Equal reports identity equality: same non-nil record with the same ID.
func (r *Record) Equal(other *Record) bool {
	if other == nil {
		return false
	}
	return r.ID == other.ID
}
