// Package session holds the small piece of state shared across
// concurrently dispatched document operations: the most-recently-used
// file list, last save path, current document path, dirty flag, and
// last autosave instant.
//
// A single mutex guards every read and write. Operations hold it only
// for the state mutation itself, never across I/O. There is no
// cross-process file locking: two instances writing the same path is a
// user-level race this layer does not arbitrate.
package session

import (
	"sync"
	"time"
)

// MaxRecentFiles bounds the MRU list.
const MaxRecentFiles = 10

// State is the session-scoped shared state, owned by the host process.
type State struct {
	mu           sync.Mutex
	recent       []string
	lastSavePath string
	currentPath  string
	dirty        bool
	lastAutosave time.Time
}

// AutosaveStatus is a snapshot of the autosave-related state.
type AutosaveStatus struct {
	Dirty        bool      `json:"dirty"`
	LastAutosave time.Time `json:"lastAutosave"`
	CurrentPath  string    `json:"currentPath,omitempty"`
}

// New returns empty session state.
func New() *State {
	return &State{}
}

// TouchRecent front-inserts path into the MRU list, removing any
// previous occurrence and trimming to MaxRecentFiles.
func (s *State) TouchRecent(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.recent)+1)
	out = append(out, path)
	for _, p := range s.recent {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > MaxRecentFiles {
		out = out[:MaxRecentFiles]
	}
	s.recent = out
}

// RecentFiles returns a copy of the MRU list, newest first.
func (s *State) RecentFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// ClearRecent empties the MRU list.
func (s *State) ClearRecent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = nil
}

// SeedRecent replaces the MRU list wholesale (catalog restore at
// startup); the list is trimmed to MaxRecentFiles.
func (s *State) SeedRecent(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(paths) > MaxRecentFiles {
		paths = paths[:MaxRecentFiles]
	}
	s.recent = append([]string(nil), paths...)
}

// SetDirty records whether the open document has unsaved changes.
func (s *State) SetDirty(dirty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = dirty
}

// Dirty reports whether the open document has unsaved changes.
func (s *State) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// SetCurrentPath records the path of the currently open document.
func (s *State) SetCurrentPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPath = path
}

// CurrentPath returns the path of the currently open document.
func (s *State) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPath
}

// RecordSave notes a successful explicit save to path.
func (s *State) RecordSave(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSavePath = path
	s.currentPath = path
	s.dirty = false
}

// LastSavePath returns the destination of the last explicit save.
func (s *State) LastSavePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSavePath
}

// RecordAutosave notes a successful checkpoint at t.
func (s *State) RecordAutosave(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAutosave = t
}

// Autosave returns the current autosave status snapshot.
func (s *State) Autosave() AutosaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AutosaveStatus{
		Dirty:        s.dirty,
		LastAutosave: s.lastAutosave,
		CurrentPath:  s.currentPath,
	}
}
