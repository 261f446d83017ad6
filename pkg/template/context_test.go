package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContextSnapshotsValues(t *testing.T) {
	t.Parallel()

	source := map[string]any{"name": "ada"}
	ctx := NewContext(source)
	source["name"] = "mutated"

	got, ok := ctx.Value("name")
	if !ok || got != "ada" {
		t.Fatalf("Value(name) = %v, %v", got, ok)
	}
}

func TestContextNilBindingIsPresent(t *testing.T) {
	t.Parallel()

	ctx := NewContext(map[string]any{"gone": nil})

	if !ctx.Has("gone") {
		t.Fatal("expected nil binding to be present")
	}
	got, ok := ctx.Value("gone")
	if !ok || got != nil {
		t.Fatalf("Value(gone) = %v, %v", got, ok)
	}
	if ctx.Has("never") {
		t.Fatal("expected missing name to be absent")
	}
}

func TestContextNames(t *testing.T) {
	t.Parallel()

	ctx := NewContext(map[string]any{"z": 1, "a": 2, "m": 3})

	if diff := cmp.Diff([]string{"a", "m", "z"}, ctx.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestNilContext(t *testing.T) {
	t.Parallel()

	var ctx *Context
	if _, ok := ctx.Value("x"); ok {
		t.Fatal("nil context should resolve nothing")
	}
	if ctx.Has("x") {
		t.Fatal("nil context should have nothing")
	}
	if names := ctx.Names(); len(names) != 0 {
		t.Fatalf("names = %v", names)
	}
}
