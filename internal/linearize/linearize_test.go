package linearize

import (
	"errors"
	"testing"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/models"
)

func note(id, text string, x, y float64) models.Note {
	return models.Note{ID: id, Text: text, Frame: models.Rect{X: x, Y: y, W: 100, H: 60}}
}

func conn(id, src, dst string, label string) models.Connection {
	c := models.Connection{ID: id, SrcNoteID: src, DstNoteID: dst}
	if label != "" {
		c.Label = &label
	}
	return c
}

func ids(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func assertOrder(t *testing.T, got []models.Note, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("order = %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("order = %v, want %v", gotIDs, want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	for tag, want := range map[string]Policy{
		"spatial":      Spatial,
		"connections":  ConnectionOrder,
		"hierarchical": Hierarchical,
	} {
		got, err := ParsePolicy(tag)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", tag, err)
		}
		if got != want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tag, got, want)
		}
		if got.String() != tag {
			t.Errorf("String() = %q, want %q", got.String(), tag)
		}
	}
	if _, err := ParsePolicy("alphabetical"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("unknown tag: err = %v, want ErrInvalidArgument", err)
	}
}

func TestSpatial_RowsThenX(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("bottom-left", "d", 0, 150),
			note("top-right", "b", 300, 10),
			note("top-left", "a", 5, 90),
			note("bottom-right", "e", 500, 120),
		},
	}
	got, err := Linearize(doc, Spatial)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "top-left", "top-right", "bottom-left", "bottom-right")
}

func TestSpatial_TiesKeepDocumentOrder(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("first", "a", 50, 10),
			note("second", "b", 50, 20),
		},
	}
	got, err := Linearize(doc, Spatial)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "first", "second")
}

func TestConnectionOrder_LabelsBeatText(t *testing.T) {
	// A fans out to B and C. B sorts before C by text, but the labels
	// invert that: the edge labelled "1" (to C) is followed first.
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("A", "alpha", 0, 0),
			note("B", "beta", 0, 0),
			note("C", "gamma", 0, 0),
		},
		Connections: []models.Connection{
			conn("e1", "A", "B", "2"),
			conn("e2", "A", "C", "1"),
		},
	}
	got, err := Linearize(doc, ConnectionOrder)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "A", "C", "B")
}

func TestConnectionOrder_TextFallback(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("A", "alpha", 0, 0),
			note("C", "gamma", 0, 0),
			note("B", "beta", 0, 0),
		},
		Connections: []models.Connection{
			conn("e1", "A", "C", ""),
			conn("e2", "A", "B", ""),
		},
	}
	got, err := Linearize(doc, ConnectionOrder)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "A", "B", "C")
}

func TestConnectionOrder_CycleFallsBackToDocumentOrder(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("A", "a", 0, 0),
			note("B", "b", 0, 0),
		},
		Connections: []models.Connection{
			conn("e1", "A", "B", ""),
			conn("e2", "B", "A", ""),
		},
	}
	got, err := Linearize(doc, ConnectionOrder)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "A", "B")
}

func TestConnectionOrder_SelfLoopEmittedOnce(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes:         []models.Note{note("A", "a", 0, 0)},
		Connections:   []models.Connection{conn("e1", "A", "A", "")},
	}
	got, err := Linearize(doc, ConnectionOrder)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "A")
}

func TestConnectionOrder_DanglingEdgeSkipped(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("A", "a", 0, 0),
			note("B", "b", 0, 0),
		},
		Connections: []models.Connection{
			conn("e1", "A", "missing", ""),
			conn("e2", "A", "B", ""),
		},
	}
	got, err := Linearize(doc, ConnectionOrder)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "A", "B")
}

func TestHierarchical_StacksFirstThenConnections(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("free1", "x", 0, 0),
			note("s1", "stacked one", 0, 0),
			note("free2", "y", 0, 0),
			note("s2", "stacked two", 0, 0),
		},
		Connections: []models.Connection{
			conn("e1", "free1", "free2", ""),
		},
		Stacks: []models.Stack{
			{ID: "st1", NoteIDs: []string{"s2", "s1", "ghost"}},
		},
	}
	got, err := Linearize(doc, Hierarchical)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "s2", "s1", "free1", "free2")
}

func TestHierarchical_DuplicateStackMembershipCountsOnce(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("A", "a", 0, 0),
			note("B", "b", 0, 0),
		},
		Stacks: []models.Stack{
			{ID: "st1", NoteIDs: []string{"A"}},
			{ID: "st2", NoteIDs: []string{"A", "B"}},
		},
	}
	got, err := Linearize(doc, Hierarchical)
	if err != nil {
		t.Fatal(err)
	}
	assertOrder(t, got, "A", "B")
}

func TestLinearize_Deterministic(t *testing.T) {
	doc := &models.BoardDocument{
		SchemaVersion: 1,
		Notes: []models.Note{
			note("A", "a", 0, 0),
			note("B", "b", 10, 0),
			note("C", "c", 20, 0),
		},
		Connections: []models.Connection{
			conn("e1", "A", "B", ""),
			conn("e2", "A", "C", ""),
		},
	}
	for _, p := range []Policy{Spatial, ConnectionOrder, Hierarchical} {
		first, err := Linearize(doc, p)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Linearize(doc, p)
		if err != nil {
			t.Fatal(err)
		}
		assertOrder(t, second, ids(first)...)
	}
}
