package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/fimbra/internal/apperr"
	"github.com/starford/fimbra/internal/boardservice"
	"github.com/starford/fimbra/internal/container"
	"github.com/starford/fimbra/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *boardservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *boardservice.Service) *Handler {
	return &Handler{svc: svc}
}

// statusFor maps the sentinel error taxonomy to HTTP statuses. Anything
// unmapped is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument),
		errors.Is(err, apperr.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrResourceLimit):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperr.ErrSchema),
		errors.Is(err, apperr.ErrFormat),
		errors.Is(err, apperr.ErrSerialization):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs and renders an operation failure. Client-attributable
// failures carry the full human-readable message; internal ones do not.
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, status, errorBody("internal error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	// Inline documents are bounded the same way container payloads are.
	r.Body = http.MaxBytesReader(w, r.Body, container.MaxPayloadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// OpenBoard handles POST /api/boards/open.
//
//	@Summary		Open a board document by path
//	@Tags			boards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenRequest	true	"Document path"
//	@Success		200		{object}	models.BoardDocument
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/open [post]
func (h *Handler) OpenBoard(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.OpenBoard(r.Context(), req.Path)
	if err != nil {
		writeError(w, "open board", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// SaveBoard handles POST /api/boards/save.
//
//	@Summary		Save a board document to a path
//	@Tags			boards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SaveRequest	true	"Document and destination path"
//	@Success		200		{object}	SaveResult
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/save [post]
func (h *Handler) SaveBoard(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" || req.Doc == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("path and doc are required"))
		return
	}
	res, err := h.svc.SaveBoard(r.Context(), req.Doc, req.Path)
	if err != nil {
		writeError(w, "save board", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ExportBoard handles POST /api/boards/export.
//
//	@Summary		Export a board as txt, rtf, or opml
//	@Tags			boards
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ExportRequest	true	"Document, format, ordering"
//	@Success		200		{object}	ExportResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/export [post]
func (h *Handler) ExportBoard(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Doc == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("doc is required"))
		return
	}
	if req.DestPath != "" {
		if err := h.svc.ExportToFile(r.Context(), req.Doc, req.Format, req.Ordering, req.DestPath); err != nil {
			writeError(w, "export board", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"path": req.DestPath})
		return
	}
	data, err := h.svc.Export(r.Context(), req.Doc, req.Format, req.Ordering)
	if err != nil {
		writeError(w, "export board", err)
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{Content: string(data)})
}

// Checkpoint handles POST /api/boards/checkpoint.
//
//	@Summary		Write an autosave recovery sidecar for a document
//	@Tags			recovery
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CheckpointRequest	true	"Document and its original path"
//	@Success		200		{object}	models.AutosaveInfo
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/boards/checkpoint [post]
func (h *Handler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	var req CheckpointRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" || req.Doc == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("path and doc are required"))
		return
	}
	info, err := h.svc.Checkpoint(r.Context(), req.Doc, req.Path)
	if err != nil {
		writeError(w, "checkpoint", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// AutosaveStatus handles GET /api/session/autosave.
//
//	@Summary		Get the autosave status snapshot
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	session.AutosaveStatus
//	@Security		BearerAuth
//	@Router			/session/autosave [get]
func (h *Handler) AutosaveStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.AutosaveStatus(r.Context()))
}

// ListRecoveryCandidates handles GET /api/recovery/candidates.
//
//	@Summary		List discovered recovery files, newest first
//	@Tags			recovery
//	@Produce		json
//	@Success		200	{object}	RecoveryCandidatesResponse
//	@Security		BearerAuth
//	@Router			/recovery/candidates [get]
func (h *Handler) ListRecoveryCandidates(w http.ResponseWriter, r *http.Request) {
	candidates := h.svc.ListRecoveryCandidates(r.Context())
	if candidates == nil {
		candidates = []models.AutosaveInfo{}
	}
	writeJSON(w, http.StatusOK, RecoveryCandidatesResponse{Candidates: candidates})
}

// Recover handles POST /api/recovery/recover.
//
//	@Summary		Load the document stored in a recovery file
//	@Tags			recovery
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RecoverRequest	true	"Recovery file path"
//	@Success		200		{object}	models.BoardDocument
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recovery/recover [post]
func (h *Handler) Recover(w http.ResponseWriter, r *http.Request) {
	var req RecoverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RecoveryPath == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("recoveryPath is required"))
		return
	}
	doc, err := h.svc.Recover(r.Context(), req.RecoveryPath)
	if err != nil {
		writeError(w, "recover", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// RecentFiles handles GET /api/recent.
//
//	@Summary		List the most-recently-used file paths
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	RecentFilesResponse
//	@Security		BearerAuth
//	@Router			/recent [get]
func (h *Handler) RecentFiles(w http.ResponseWriter, r *http.Request) {
	files := h.svc.RecentFiles(r.Context())
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, RecentFilesResponse{Files: files})
}

// ClearRecentFiles handles DELETE /api/recent.
//
//	@Summary		Clear the most-recently-used file list
//	@Tags			session
//	@Success		204	"List cleared"
//	@Security		BearerAuth
//	@Router			/recent [delete]
func (h *Handler) ClearRecentFiles(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearRecentFiles(r.Context()); err != nil {
		writeError(w, "clear recent files", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDirty handles PUT /api/session/dirty.
//
//	@Summary		Set the unsaved-changes flag
//	@Tags			session
//	@Accept			json
//	@Param			body	body	DirtyRequest	true	"Dirty flag"
//	@Success		204		"Flag updated"
//	@Security		BearerAuth
//	@Router			/session/dirty [put]
func (h *Handler) SetDirty(w http.ResponseWriter, r *http.Request) {
	var req DirtyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.svc.SetDirty(r.Context(), req.Dirty)
	w.WriteHeader(http.StatusNoContent)
}

// SetCurrentPath handles PUT /api/session/path.
//
//	@Summary		Set the currently open document path
//	@Tags			session
//	@Accept			json
//	@Param			body	body	CurrentPathRequest	true	"Document path"
//	@Success		204		"Path updated"
//	@Security		BearerAuth
//	@Router			/session/path [put]
func (h *Handler) SetCurrentPath(w http.ResponseWriter, r *http.Request) {
	var req CurrentPathRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	h.svc.SetCurrentPath(r.Context(), req.Path)
	w.WriteHeader(http.StatusNoContent)
}
