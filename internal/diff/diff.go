// Package diff computes field-level changes between two business snapshots
// of the same entity. Snapshots carry business data only: the persistence
// layer's audit metadata (created_by, created, modified_by, modified) and
// the optimistic-lock version counter never enter a snapshot, so they can
// never leak into a change log.
package diff

import "sort"

// auditFields are filtered even if a caller smuggles them into a snapshot.
var auditFields = map[string]bool{
	"created_by":  true,
	"created":     true,
	"modified_by": true,
	"modified":    true,
	"version":     true,
}

// Change records one field transition.
type Change struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// Changes compares two snapshots and returns the changed fields keyed by
// field name. A nil prev means "created": every field of curr is reported
// with Old == nil. Unchanged fields are omitted.
func Changes(prev, curr map[string]any) map[string]Change {
	changes := make(map[string]Change)

	for k, newVal := range curr {
		if auditFields[k] {
			continue
		}
		oldVal, exists := prev[k]
		if !exists || oldVal != newVal {
			changes[k] = Change{Old: oldVal, New: newVal}
		}
	}

	for k, oldVal := range prev {
		if auditFields[k] {
			continue
		}
		if _, exists := curr[k]; !exists {
			changes[k] = Change{Old: oldVal, New: nil}
		}
	}

	return changes
}

// FieldNames returns the changed field names in sorted order, for stable
// logging and tests.
func FieldNames(changes map[string]Change) []string {
	names := make([]string, 0, len(changes))
	for k := range changes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AsMap converts changes into the generic map shape the revision store
// persists as JSONB.
func AsMap(changes map[string]Change) map[string]any {
	m := make(map[string]any, len(changes))
	for k, c := range changes {
		m[k] = map[string]any{"old": c.Old, "new": c.New}
	}
	return m
}
