package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createRedirectRequest struct {
	From string `json:"from_uri"`
	To   string `json:"to_uri"`
}

func (s *Server) handleListRedirects(w http.ResponseWriter, r *http.Request) {
	redirects, err := s.redirects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redirects)
}

func (s *Server) handleCreateRedirect(w http.ResponseWriter, r *http.Request) {
	var req createRedirectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rd, err := s.redirects.Create(r.Context(), req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rd)
}

// handleDeleteRedirect takes the source path as the rest of the URL, so
// DELETE /api/redirects/health/old removes the rule for /health/old
func (s *Server) handleDeleteRedirect(w http.ResponseWriter, r *http.Request) {
	if err := s.redirects.Delete(r.Context(), chi.URLParam(r, "*")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
