package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Translation is the shared shape of a localized text row. Each row belongs
// to exactly one lookup (ParentID) and one language; at most one row per
// parent carries IsDefault.
type Translation struct {
	Record

	ParentID     uuid.UUID
	Iso3Language string
	IsDefault    bool
	IsTranslated bool
}

// Validate checks the invariants a translation must satisfy before any write.
func (t *Translation) Validate() error {
	var errs []FieldError
	if t.ParentID == uuid.Nil {
		errs = append(errs, FieldError{Field: "parent_id", Message: "must be set"})
	}
	if !ValidIso3Language(t.Iso3Language) {
		errs = append(errs, FieldError{Field: "iso3_language", Message: "must be a 3-letter code"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

func (t *Translation) snapshot() map[string]any {
	return map[string]any{
		"parent_id":     t.ParentID.String(),
		"iso3_language": t.Iso3Language,
		"is_default":    t.IsDefault,
		"is_translated": t.IsTranslated,
		"is_active":     t.IsActive,
	}
}

// ActionTrl is a localized action caption with an optional tooltip.
type ActionTrl struct {
	Translation

	Value   string
	Tooltip string
}

// Snapshot returns the business fields tracked by the change log.
func (t *ActionTrl) Snapshot() map[string]any {
	s := t.snapshot()
	s["value"] = t.Value
	s["tooltip"] = t.Tooltip
	return s
}

// ElementTrl is a localized element caption with an optional tooltip.
type ElementTrl struct {
	Translation

	Value   string
	Tooltip string
}

// Snapshot returns the business fields tracked by the change log.
func (t *ElementTrl) Snapshot() map[string]any {
	s := t.snapshot()
	s["value"] = t.Value
	s["tooltip"] = t.Tooltip
	return s
}

// MessageTrl is a localized message body.
type MessageTrl struct {
	Translation

	Value string
}

// Snapshot returns the business fields tracked by the change log.
func (t *MessageTrl) Snapshot() map[string]any {
	s := t.snapshot()
	s["value"] = t.Value
	return s
}

// NewTranslation creates a new, not-yet-persisted translation row for the
// given parent and language.
func NewTranslation(parentID uuid.UUID, iso3Language string) Translation {
	return Translation{
		Record:       NewRecord(),
		ParentID:     parentID,
		Iso3Language: NormalizeIso3Language(iso3Language),
	}
}

// NormalizeIso3Language lowercases and trims a language code.
func NormalizeIso3Language(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidIso3Language reports whether code is a plausible ISO 639-2 code:
// exactly three ASCII letters.
func ValidIso3Language(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
