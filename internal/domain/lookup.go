package domain

import "strings"

// Kind identifies one of the three translatable lookup families.
type Kind string

const (
	KindAction  Kind = "action"
	KindElement Kind = "element"
	KindMessage Kind = "message"
)

// Kinds lists every lookup family in canonical order.
func Kinds() []Kind { return []Kind{KindAction, KindElement, KindMessage} }

// Lookup is the shared shape of a named key record: a stable, human-readable
// handle for a translatable concept. Name is unique within its kind.
type Lookup struct {
	Record

	Name         string
	Category     string
	IsTranslated bool
}

// Validate checks the invariants a lookup must satisfy before any write.
func (l *Lookup) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return NewValidationError("name", "must not be empty")
	}
	return nil
}

// Snapshot returns the business fields tracked by the change log.
// Audit metadata and the version counter are deliberately absent.
func (l *Lookup) Snapshot() map[string]any {
	return map[string]any{
		"name":          l.Name,
		"category":      l.Category,
		"is_translated": l.IsTranslated,
		"is_active":     l.IsActive,
	}
}

// Action is a lookup for a translatable UI action (buttons, menu items).
type Action struct {
	Lookup
}

// Element is a lookup for a translatable UI element.
type Element struct {
	Lookup
}

// Message is a lookup for a translatable application message.
type Message struct {
	Lookup
}

// NewAction creates a new, not-yet-persisted action lookup.
func NewAction(name string) *Action {
	return &Action{Lookup: Lookup{Record: NewRecord(), Name: name}}
}

// NewElement creates a new, not-yet-persisted element lookup.
func NewElement(name string) *Element {
	return &Element{Lookup: Lookup{Record: NewRecord(), Name: name}}
}

// NewMessage creates a new, not-yet-persisted message lookup.
func NewMessage(name string) *Message {
	return &Message{Lookup: Lookup{Record: NewRecord(), Name: name}}
}
