package diff

import (
	"reflect"
	"testing"
)

func TestChanges_DetectsModifiedFields(t *testing.T) {
	t.Parallel()

	prev := map[string]any{"value": "Save", "tooltip": "", "is_default": false}
	curr := map[string]any{"value": "Save changes", "tooltip": "", "is_default": false}

	got := Changes(prev, curr)

	if len(got) != 1 {
		t.Fatalf("expected 1 change, got %d: %v", len(got), got)
	}
	c, ok := got["value"]
	if !ok {
		t.Fatal("expected a change for field value")
	}
	if c.Old != "Save" || c.New != "Save changes" {
		t.Errorf("change mismatch: %+v", c)
	}
}

func TestChanges_NilPrevMeansCreated(t *testing.T) {
	t.Parallel()

	curr := map[string]any{"value": "Save", "is_default": true}

	got := Changes(nil, curr)

	if len(got) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(got))
	}
	if got["value"].Old != nil {
		t.Errorf("created fields must have nil Old, got %v", got["value"].Old)
	}
}

func TestChanges_RemovedField(t *testing.T) {
	t.Parallel()

	prev := map[string]any{"value": "Save", "tooltip": "hint"}
	curr := map[string]any{"value": "Save"}

	got := Changes(prev, curr)

	c, ok := got["tooltip"]
	if !ok {
		t.Fatal("expected a change for removed field tooltip")
	}
	if c.Old != "hint" || c.New != nil {
		t.Errorf("change mismatch: %+v", c)
	}
}

func TestChanges_SkipsAuditFields(t *testing.T) {
	t.Parallel()

	prev := map[string]any{"value": "x", "created_by": "alice", "version": int64(1)}
	curr := map[string]any{"value": "x", "created_by": "bob", "version": int64(2), "modified": "now"}

	got := Changes(prev, curr)

	if len(got) != 0 {
		t.Fatalf("audit fields must be ignored, got %v", got)
	}
}

func TestChanges_NoChanges(t *testing.T) {
	t.Parallel()

	snap := map[string]any{"value": "Save", "is_default": false}

	if got := Changes(snap, snap); len(got) != 0 {
		t.Fatalf("expected no changes, got %v", got)
	}
}

func TestFieldNames_Sorted(t *testing.T) {
	t.Parallel()

	changes := map[string]Change{
		"tooltip": {},
		"value":   {},
		"name":    {},
	}

	got := FieldNames(changes)
	want := []string{"name", "tooltip", "value"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAsMap(t *testing.T) {
	t.Parallel()

	m := AsMap(map[string]Change{"value": {Old: "a", New: "b"}})

	inner, ok := m["value"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", m["value"])
	}
	if inner["old"] != "a" || inner["new"] != "b" {
		t.Errorf("mismatch: %v", inner)
	}
}
