package api

import (
	"github.com/starford/fimbra/internal/boardservice"
	"github.com/starford/fimbra/internal/models"
)

// OpenRequest is the request body for opening a document by path.
type OpenRequest struct {
	Path string `json:"path" example:"/home/user/boards/ideas.fim" validate:"required"`
}

// SaveRequest is the request body for saving a document.
type SaveRequest struct {
	Path string                `json:"path" example:"/home/user/boards/ideas.fim" validate:"required"`
	Doc  *models.BoardDocument `json:"doc" validate:"required"`
}

// ExportRequest is the request body for a text export.
// Format is one of txt, rtf, opml; Ordering is one of spatial,
// connections, hierarchical. DestPath is optional; when set the artifact
// is written there instead of returned inline.
type ExportRequest struct {
	Doc      *models.BoardDocument `json:"doc" validate:"required"`
	Format   string                `json:"format" example:"txt" validate:"required"`
	Ordering string                `json:"ordering" example:"spatial" validate:"required"`
	DestPath string                `json:"destPath,omitempty" example:"/home/user/ideas.txt"`
}

// ExportResponse carries an inline export artifact.
type ExportResponse struct {
	Content string `json:"content" validate:"required"`
}

// CheckpointRequest is the request body for an autosave checkpoint.
type CheckpointRequest struct {
	Path string                `json:"path" example:"/home/user/boards/ideas.fim" validate:"required"`
	Doc  *models.BoardDocument `json:"doc" validate:"required"`
}

// RecoverRequest is the request body for loading a recovery file.
type RecoverRequest struct {
	RecoveryPath string `json:"recoveryPath" example:"/home/user/boards/ideas.fim-autosave" validate:"required"`
}

// DirtyRequest sets the unsaved-changes flag.
type DirtyRequest struct {
	Dirty bool `json:"dirty"`
}

// CurrentPathRequest sets the currently open document path.
type CurrentPathRequest struct {
	Path string `json:"path" validate:"required"`
}

// RecentFilesResponse lists the MRU paths, newest first.
type RecentFilesResponse struct {
	Files []string `json:"files" validate:"required"`
}

// RecoveryCandidatesResponse lists discovered recovery sidecars,
// newest first.
type RecoveryCandidatesResponse struct {
	Candidates []models.AutosaveInfo `json:"candidates" validate:"required"`
}

// SaveResult is the save response (aliased from the domain layer).
type SaveResult = boardservice.SaveResult
