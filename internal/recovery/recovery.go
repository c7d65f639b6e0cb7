// Package recovery maintains crash-resilient autosave sidecars.
//
// For an original document path P, the recovery payload lives next to it
// with the original extension replaced by RecoveryExt, and a JSON
// metadata sidecar lives at the payload path plus metaSuffix. Checkpoint
// writes the payload first and the metadata last: metadata without a
// payload is the safer failure mode, detected at recover time as a
// missing file rather than mistaken for a healthy checkpoint.
package recovery

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/checksum"
	"github.com/starford/fimbra/internal/container"
	"github.com/starford/fimbra/internal/models"
)

const (
	// RecoveryExt replaces the original document extension on the
	// autosave payload, keeping it discoverable by name pattern.
	RecoveryExt = ".fim-autosave"
	// metaSuffix is appended to the payload path for the metadata sidecar.
	metaSuffix = ".meta.json"
)

// Manager writes, clears, and discovers recovery sidecars.
type Manager struct {
	logger   *slog.Logger
	scanDirs []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithScanDirs overrides the directories Discover walks. Used by tests
// and by hosts with a dedicated autosave directory.
func WithScanDirs(dirs ...string) Option {
	return func(m *Manager) {
		m.scanDirs = dirs
	}
}

// NewManager creates a Manager scanning the default well-known
// directories: system temp, current working directory, user home, and
// the user's Documents directory.
func NewManager(logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{logger: logger, scanDirs: defaultScanDirs()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func defaultScanDirs() []string {
	dirs := []string{os.TempDir()}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home, filepath.Join(home, "Documents"))
	}
	return dirs
}

// ScanDirs returns the directories Discover walks.
func (m *Manager) ScanDirs() []string {
	out := make([]string, len(m.scanDirs))
	copy(out, m.scanDirs)
	return out
}

// RecoveryPathFor derives the sidecar payload path for an original
// document path by swapping its extension for RecoveryExt.
func RecoveryPathFor(originalPath string) string {
	return strings.TrimSuffix(originalPath, filepath.Ext(originalPath)) + RecoveryExt
}

// MetadataPathFor derives the metadata sidecar path for a recovery
// payload path.
func MetadataPathFor(recoveryPath string) string {
	return recoveryPath + metaSuffix
}

// Checkpoint writes doc to the recovery path for originalPath and then
// records the autosave metadata sidecar. The payload is always a .fim
// container regardless of the original document's format.
func (m *Manager) Checkpoint(doc *models.BoardDocument, originalPath string) (*models.AutosaveInfo, error) {
	recoveryPath := RecoveryPathFor(originalPath)
	if err := container.WriteContainer(doc, recoveryPath); err != nil {
		return nil, fmt.Errorf("checkpoint %s: %w", originalPath, err)
	}

	cs, err := checksum.SumFile(recoveryPath)
	if err != nil {
		// The payload is already safe on disk; a fingerprint failure
		// downgrades the sidecar, it does not fail the checkpoint.
		m.logger.Warn("recovery: checksum failed",
			slog.String("path", recoveryPath), slog.String("error", err.Error()))
		cs = ""
	}

	info := &models.AutosaveInfo{
		OriginalPath: originalPath,
		RecoveryPath: recoveryPath,
		Timestamp:    time.Now().UTC(),
		Checksum:     cs,
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode autosave metadata for %s: %v", apperr.ErrSerialization, originalPath, err)
	}
	if err := os.WriteFile(MetadataPathFor(recoveryPath), data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: write autosave metadata for %s: %v", apperr.ErrIO, originalPath, err)
	}
	return info, nil
}

// ClearRecovery deletes the recovery payload and metadata sidecar for
// originalPath. Deletion is best effort: a leftover recovery file is a
// false positive at next startup, not data loss, so failures are logged
// and swallowed.
func (m *Manager) ClearRecovery(originalPath string) {
	recoveryPath := RecoveryPathFor(originalPath)
	for _, p := range []string{recoveryPath, MetadataPathFor(recoveryPath)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			m.logger.Debug("recovery: cleanup failed",
				slog.String("path", p), slog.String("error", err.Error()))
		}
	}
}

// Discover scans the well-known directories for recovery payloads left
// behind by an unclean shutdown and returns them newest first. The scan
// is lossy-tolerant: unreadable directories and entries are skipped,
// never fatal. The metadata sidecar is the source of truth when present;
// otherwise the entry's mtime and a derived original name stand in.
func (m *Manager) Discover() []models.AutosaveInfo {
	var found []models.AutosaveInfo
	for _, dir := range m.scanDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			m.logger.Debug("recovery: scan skipped",
				slog.String("dir", dir), slog.String("error", err.Error()))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), RecoveryExt) {
				continue
			}
			recoveryPath := filepath.Join(dir, entry.Name())

			if info, ok := m.readMetadata(recoveryPath); ok {
				found = append(found, info)
				continue
			}

			fi, err := entry.Info()
			if err != nil {
				m.logger.Debug("recovery: stat skipped",
					slog.String("path", recoveryPath), slog.String("error", err.Error()))
				continue
			}
			base := strings.TrimSuffix(entry.Name(), RecoveryExt)
			found = append(found, models.AutosaveInfo{
				OriginalPath: filepath.Join(dir, base+container.ExtContainer),
				RecoveryPath: recoveryPath,
				Timestamp:    fi.ModTime().UTC(),
			})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Timestamp.After(found[j].Timestamp)
	})
	return found
}

// readMetadata loads the sidecar for a recovery payload. A missing or
// corrupt sidecar is tolerated (the crash may have hit between the two
// checkpoint writes).
func (m *Manager) readMetadata(recoveryPath string) (models.AutosaveInfo, bool) {
	data, err := os.ReadFile(MetadataPathFor(recoveryPath))
	if err != nil {
		return models.AutosaveInfo{}, false
	}
	var info models.AutosaveInfo
	if err := json.Unmarshal(data, &info); err != nil {
		m.logger.Debug("recovery: bad metadata sidecar",
			slog.String("path", MetadataPathFor(recoveryPath)), slog.String("error", err.Error()))
		return models.AutosaveInfo{}, false
	}
	// The payload on disk wins over whatever path the sidecar recorded.
	info.RecoveryPath = recoveryPath
	return info, true
}

// Recover loads the document stored at recoveryPath. Reconciliation
// (where to re-save it) is the caller's decision.
func (m *Manager) Recover(recoveryPath string) (*models.BoardDocument, error) {
	if _, err := os.Stat(recoveryPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: recovery file %s", apperr.ErrNotFound, recoveryPath)
		}
		return nil, fmt.Errorf("%w: stat %s: %v", apperr.ErrIO, recoveryPath, err)
	}

	if info, ok := m.readMetadata(recoveryPath); ok && info.Checksum != "" {
		if cs, err := checksum.SumFile(recoveryPath); err == nil && cs != info.Checksum {
			// Advisory only: the container read below is the real gate.
			m.logger.Warn("recovery: checksum mismatch",
				slog.String("path", recoveryPath))
		}
	}

	doc, err := container.ReadContainer(recoveryPath)
	if err != nil {
		return nil, fmt.Errorf("recover %s: %w", recoveryPath, err)
	}
	return doc, nil
}
