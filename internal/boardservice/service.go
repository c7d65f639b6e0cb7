// Package boardservice coordinates the container codec, schema gate,
// recovery manager, linearizer, and exporters behind the operation
// surface the UI consumes.
package boardservice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/catalog"
	"github.com/starford/fimbra/internal/checksum"
	"github.com/starford/fimbra/internal/container"
	"github.com/starford/fimbra/internal/export"
	"github.com/starford/fimbra/internal/linearize"
	"github.com/starford/fimbra/internal/models"
	"github.com/starford/fimbra/internal/recovery"
	"github.com/starford/fimbra/internal/schema"
	"github.com/starford/fimbra/internal/session"
)

// EventCallback receives document lifecycle events for the UI stream.
// kind is one of "opened", "saved", "autosaved", "recovered".
type EventCallback func(kind string, path string)

// SaveResult is returned after a successful explicit save.
type SaveResult struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum,omitempty"`
}

// Service implements the document operation surface.
type Service struct {
	rec    *recovery.Manager
	state  *session.State
	cat    *catalog.DB // nil when recent-files persistence is disabled
	logger *slog.Logger
	notify EventCallback // nil when no event stream is attached
}

// NewService creates the service. cat and notify may be nil.
func NewService(rec *recovery.Manager, state *session.State, cat *catalog.DB, logger *slog.Logger, notify EventCallback) *Service {
	return &Service{rec: rec, state: state, cat: cat, logger: logger, notify: notify}
}

// SeedRecent restores the MRU list from the catalog. Called once at
// startup; a catalog failure leaves the list empty rather than failing
// the boot.
func (s *Service) SeedRecent(_ context.Context) {
	if s.cat == nil {
		return
	}
	paths, err := s.cat.Recent(session.MaxRecentFiles)
	if err != nil {
		s.logger.Warn("catalog: seed recent failed", slog.String("error", err.Error()))
		return
	}
	s.state.SeedRecent(paths)
}

// OpenBoard loads and validates the document at path and registers it as
// the current document.
func (s *Service) OpenBoard(_ context.Context, path string) (*models.BoardDocument, error) {
	doc, err := container.Load(path)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}
	s.state.SetCurrentPath(path)
	s.state.SetDirty(false)
	s.touchRecent(path)
	s.emit("opened", path)
	return doc, nil
}

// SaveBoard validates and persists doc at path, updates session state,
// and clears any recovery sidecar for the path (best effort).
func (s *Service) SaveBoard(_ context.Context, doc *models.BoardDocument, path string) (*SaveResult, error) {
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}
	if err := container.Save(doc, path); err != nil {
		return nil, err
	}
	cs, err := checksum.SumFile(path)
	if err != nil {
		s.logger.Warn("save: checksum failed", slog.String("path", path), slog.String("error", err.Error()))
		cs = ""
	}

	s.state.RecordSave(path)
	s.touchRecent(path)
	// A leftover recovery file after a good save is a false positive at
	// next startup, so cleanup failures stay non-fatal.
	s.rec.ClearRecovery(path)
	s.emit("saved", path)
	return &SaveResult{Path: path, Checksum: cs}, nil
}

// Export renders doc in the given format and ordering and returns the
// artifact bytes. Unknown tags fail at the boundary.
func (s *Service) Export(_ context.Context, doc *models.BoardDocument, formatTag, orderingTag string) ([]byte, error) {
	format, err := export.ParseFormat(formatTag)
	if err != nil {
		return nil, err
	}
	policy, err := linearize.ParsePolicy(orderingTag)
	if err != nil {
		return nil, err
	}
	return export.Render(doc, format, policy, time.Now())
}

// ExportToFile renders doc and writes the artifact to destPath. The
// write is the only fatal renderer condition.
func (s *Service) ExportToFile(ctx context.Context, doc *models.BoardDocument, formatTag, orderingTag, destPath string) error {
	data, err := s.Export(ctx, doc, formatTag, orderingTag)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: write export %s: %v", apperr.ErrIO, destPath, err)
	}
	return nil
}

// Checkpoint writes an autosave sidecar pair for doc and records the
// autosave instant.
func (s *Service) Checkpoint(_ context.Context, doc *models.BoardDocument, originalPath string) (*models.AutosaveInfo, error) {
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}
	info, err := s.rec.Checkpoint(doc, originalPath)
	if err != nil {
		return nil, err
	}
	s.state.RecordAutosave(info.Timestamp)
	s.emit("autosaved", originalPath)
	return info, nil
}

// AutosaveStatus returns the session's autosave snapshot.
func (s *Service) AutosaveStatus(_ context.Context) session.AutosaveStatus {
	return s.state.Autosave()
}

// ListRecoveryCandidates scans the well-known directories for orphaned
// recovery files, newest first.
func (s *Service) ListRecoveryCandidates(_ context.Context) []models.AutosaveInfo {
	return s.rec.Discover()
}

// Recover loads and validates the document at recoveryPath. Where to
// re-save it is the caller's decision.
func (s *Service) Recover(_ context.Context, recoveryPath string) (*models.BoardDocument, error) {
	doc, err := s.rec.Recover(recoveryPath)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}
	s.emit("recovered", recoveryPath)
	return doc, nil
}

// RecentFiles returns the MRU list, newest first.
func (s *Service) RecentFiles(_ context.Context) []string {
	return s.state.RecentFiles()
}

// ClearRecentFiles empties the MRU list and its persisted copy.
func (s *Service) ClearRecentFiles(_ context.Context) error {
	s.state.ClearRecent()
	if s.cat == nil {
		return nil
	}
	return s.cat.Clear()
}

// SetDirty records whether the open document has unsaved changes.
func (s *Service) SetDirty(_ context.Context, dirty bool) {
	s.state.SetDirty(dirty)
}

// SetCurrentPath records the path of the currently open document.
func (s *Service) SetCurrentPath(_ context.Context, path string) {
	s.state.SetCurrentPath(path)
}

// touchRecent updates the in-memory MRU and mirrors it to the catalog;
// catalog failures are logged, never propagated.
func (s *Service) touchRecent(path string) {
	s.state.TouchRecent(path)
	if s.cat == nil {
		return
	}
	if err := s.cat.Touch(path, time.Now()); err != nil {
		s.logger.Warn("catalog: touch failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func (s *Service) emit(kind, path string) {
	if s.notify != nil {
		s.notify(kind, path)
	}
}
