package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/models"
)

func sampleDoc() *models.BoardDocument {
	label := "leads to"
	return &models.BoardDocument{
		SchemaVersion: models.CurrentSchemaVersion,
		Notes: []models.Note{
			{ID: "n1", Text: "first", Frame: models.Rect{X: 10, Y: 20, W: 120, H: 80}},
			{ID: "n2", Text: "second", Frame: models.Rect{X: 200, Y: 20, W: 120, H: 80}},
		},
		Connections: []models.Connection{
			{ID: "c1", SrcNoteID: "n1", DstNoteID: "n2", Label: &label},
		},
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"/boards/ideas.fim", FormatContainer},
		{"/boards/IDEAS.FIM", FormatContainer},
		{"/boards/ideas.json", FormatJSON},
		{"ideas.Json", FormatJSON},
	}
	for _, c := range cases {
		got, err := DetectFormat(c.path)
		if err != nil {
			t.Fatalf("DetectFormat(%q): %v", c.path, err)
		}
		if got != c.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	for _, path := range []string{"board.txt", "board", "board.fim.bak"} {
		if _, err := DetectFormat(path); !errors.Is(err, apperr.ErrUnsupportedFormat) {
			t.Errorf("DetectFormat(%q) = %v, want ErrUnsupportedFormat", path, err)
		}
	}
}

func TestContainerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.fim")
	doc := sampleDoc()

	if err := Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.SchemaVersion != doc.SchemaVersion {
		t.Errorf("schemaVersion = %d, want %d", got.SchemaVersion, doc.SchemaVersion)
	}
	if len(got.Notes) != 2 || got.Notes[0].Text != "first" {
		t.Errorf("notes survived badly: %+v", got.Notes)
	}
	if len(got.Connections) != 1 || got.Connections[0].Label == nil || *got.Connections[0].Label != "leads to" {
		t.Errorf("connections survived badly: %+v", got.Connections)
	}
}

func TestContainerLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.fim")
	if err := WriteContainer(sampleDoc(), path); err != nil {
		t.Fatalf("WriteContainer: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("not a zip archive: %v", err)
	}
	defer zr.Close()

	entries := map[string]*zip.File{}
	for _, f := range zr.File {
		entries[f.Name] = f
	}
	payload, ok := entries[PayloadEntry]
	if !ok {
		t.Fatalf("missing %s entry, got %v", PayloadEntry, keys(entries))
	}
	if payload.Method != zip.Deflate {
		t.Errorf("%s method = %d, want deflate", PayloadEntry, payload.Method)
	}
	if _, ok := entries[MediaDir]; !ok {
		t.Errorf("missing %s entry, got %v", MediaDir, keys(entries))
	}
}

func keys(m map[string]*zip.File) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestFlatRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := Save(sampleDoc(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Notes) != 2 {
		t.Errorf("notes = %d, want 2", len(got.Notes))
	}
}

func TestReadContainer_Missing(t *testing.T) {
	_, err := ReadContainer(filepath.Join(t.TempDir(), "nope.fim"))
	if !errors.Is(err, apperr.ErrIO) {
		t.Errorf("err = %v, want ErrIO", err)
	}
}

func TestReadContainer_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.fim")
	if err := os.WriteFile(path, []byte("this is not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadContainer(path)
	if !errors.Is(err, apperr.ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestReadContainer_MissingPayloadEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.fim")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if _, err := zw.Create("readme.txt"); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = ReadContainer(path)
	if !errors.Is(err, apperr.ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestReadContainer_PayloadOverCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.fim")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	entry, err := zw.CreateHeader(&zip.FileHeader{Name: PayloadEntry, Method: zip.Deflate})
	if err != nil {
		t.Fatal(err)
	}
	// One byte past the cap; repetitive filler keeps the archive tiny.
	chunk := bytes.Repeat([]byte{' '}, 1<<20)
	remaining := MaxPayloadBytes + 1
	for remaining > 0 {
		n := len(chunk)
		if remaining < n {
			n = remaining
		}
		if _, err := entry.Write(chunk[:n]); err != nil {
			t.Fatal(err)
		}
		remaining -= n
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = ReadContainer(path)
	if !errors.Is(err, apperr.ErrResourceLimit) {
		t.Errorf("err = %v, want ErrResourceLimit", err)
	}
}

func TestReadFlat_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFlat(path)
	if !errors.Is(err, apperr.ErrSerialization) {
		t.Errorf("err = %v, want ErrSerialization", err)
	}
}

func TestSave_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.fim")
	for i := 0; i < 3; i++ {
		if err := Save(sampleDoc(), path); err != nil {
			t.Fatalf("Save #%d: %v", i, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "board.fim" {
		t.Errorf("directory should hold only board.fim, got %v", entries)
	}
}
