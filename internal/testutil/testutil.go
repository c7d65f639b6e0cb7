// Package testutil provides shared test helpers for building boards and
// wiring up temporary catalogs and recovery managers.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/fimbra/internal/catalog"
	"github.com/starford/fimbra/internal/models"
	"github.com/starford/fimbra/internal/recovery"
)

// TestCatalog creates a temporary SQLite catalog that is automatically cleaned up.
func TestCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "fimbra-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestManager creates a recovery manager scoped to a temporary scan
// directory, returning both.
func TestManager(t *testing.T) (*recovery.Manager, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return recovery.NewManager(logger, recovery.WithScanDirs(dir)), dir
}

// QuietLogger returns a logger that only surfaces errors during tests.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TempBoardPath returns a container path inside a fresh temp directory.
func TempBoardPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// Board builds a small valid document with the given notes.
func Board(notes ...models.Note) *models.BoardDocument {
	return &models.BoardDocument{
		SchemaVersion: models.CurrentSchemaVersion,
		Notes:         notes,
	}
}

// NoteAt builds a note positioned at (x, y).
func NoteAt(id, text string, x, y float64) models.Note {
	return models.Note{
		ID:    id,
		Text:  text,
		Frame: models.Rect{X: x, Y: y, W: 120, H: 80},
	}
}
