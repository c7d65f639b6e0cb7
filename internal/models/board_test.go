package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBoardDocument_WireFieldNames(t *testing.T) {
	faded := true
	doc := BoardDocument{
		SchemaVersion: 1,
		Notes:         []Note{{ID: "n1", Text: "x", Faded: &faded}},
		Connections:   []Connection{{ID: "c1", SrcNoteID: "n1", DstNoteID: "n1"}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"schemaVersion":1`, `"srcNoteId":"n1"`, `"dstNoteId":"n1"`, `"faded":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("wire form missing %s:\n%s", want, s)
		}
	}
}

func TestBoardDocument_UnknownFieldsTolerated(t *testing.T) {
	raw := `{"schemaVersion":1,"notes":[{"id":"n1","text":"x","futureField":42}],"somethingNew":{}}`
	var doc BoardDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unknown fields must not fail decode: %v", err)
	}
	if doc.NoteByID("n1") == nil {
		t.Error("note n1 lost in decode")
	}
}

func TestNote_IsFaded(t *testing.T) {
	n := Note{ID: "n1"}
	if n.IsFaded() {
		t.Error("nil faded flag should read false")
	}
	f := false
	n.Faded = &f
	if n.IsFaded() {
		t.Error("explicit false should read false")
	}
	f = true
	if !n.IsFaded() {
		t.Error("explicit true should read true")
	}
}

func TestNoteByID_Missing(t *testing.T) {
	doc := BoardDocument{Notes: []Note{{ID: "a"}}}
	if doc.NoteByID("ghost") != nil {
		t.Error("missing ID should return nil")
	}
}
