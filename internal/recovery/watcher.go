package recovery

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called when a recovery payload appears or disappears
// in a watched directory. kind is "found" or "cleared".
type EventCallback func(kind string, path string)

// Watch observes the manager's scan directories for recovery payloads
// appearing or disappearing at runtime (for example, another instance
// crashing or cleaning up) and reports them through cb until ctx is
// cancelled. Directories that cannot be watched are skipped; the watch
// degrades rather than fails.
func (m *Manager) Watch(ctx context.Context, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := 0
	for _, dir := range m.scanDirs {
		if err := w.Add(dir); err != nil {
			m.logger.Debug("recovery: watch skipped",
				slog.String("dir", dir), slog.String("error", err.Error()))
			continue
		}
		watched++
	}
	if watched == 0 {
		m.logger.Warn("recovery: no watchable directories")
	}
	m.logger.Info("recovery: watcher started", slog.Int("dirs", watched))

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("recovery: watcher stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, RecoveryExt) {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				m.logger.Debug("recovery: sidecar found", slog.String("path", ev.Name))
				if cb != nil {
					cb("found", ev.Name)
				}
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				m.logger.Debug("recovery: sidecar cleared", slog.String("path", ev.Name))
				if cb != nil {
					cb("cleared", ev.Name)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.logger.Error("recovery: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
