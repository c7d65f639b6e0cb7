package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fimbra/internal/boardservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *boardservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Document operations.
	r.Post("/boards/open", h.OpenBoard)
	r.Post("/boards/save", h.SaveBoard)
	r.Post("/boards/export", h.ExportBoard)
	r.Post("/boards/checkpoint", h.Checkpoint)

	// Recovery.
	r.Get("/recovery/candidates", h.ListRecoveryCandidates)
	r.Post("/recovery/recover", h.Recover)

	// Session state.
	r.Get("/recent", h.RecentFiles)
	r.Delete("/recent", h.ClearRecentFiles)
	r.Get("/session/autosave", h.AutosaveStatus)
	r.Put("/session/dirty", h.SetDirty)
	r.Put("/session/path", h.SetCurrentPath)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
