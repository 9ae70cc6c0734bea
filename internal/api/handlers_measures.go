package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ethnicityfacts/app"
	"ethnicityfacts/domain/core"
	"ethnicityfacts/domain/measure"
)

type createTopicRequest struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type createSubtopicRequest struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type createMeasureRequest struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	User     string `json:"user"`
}

type transitionRequest struct {
	Action string `json:"action"`
	User   string `json:"user"`
}

type newVersionRequest struct {
	Kind string `json:"kind"`
	User string `json:"user"`
}

func pathID(r *http.Request, name string) (core.ID, error) {
	return core.ParseID(chi.URLParam(r, name))
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.measures.ListTopics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var req createTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	topic, err := s.measures.CreateTopic(r.Context(), req.Slug, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, topic)
}

func (s *Server) handleCreateSubtopic(w http.ResponseWriter, r *http.Request) {
	topicID, err := pathID(r, "topicID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req createSubtopicRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sub, err := s.measures.CreateSubtopic(r.Context(), topicID, req.Slug, req.Title, req.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleCreateMeasure(w http.ResponseWriter, r *http.Request) {
	subtopicID, err := pathID(r, "subtopicID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req createMeasureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.measures.CreateMeasure(r.Context(), app.NewMeasureRequest{
		SubtopicID: subtopicID,
		Slug:       req.Slug,
		Title:      req.Title,
		Position:   req.Position,
		User:       req.User,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	measureID, err := pathID(r, "measureID")
	if err != nil {
		writeError(w, err)
		return
	}
	versions, err := s.measures.List(r.Context(), measureID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := s.measures.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRenderVersion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rendered, err := s.measures.RenderVersion(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rendered)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	action, err := measure.ParseAction(req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := s.measures.Transition(r.Context(), id, action, req.User)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req newVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	kind, err := measure.ParseUpdateKind(req.Kind)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := s.measures.CreateVersion(r.Context(), id, kind, req.User)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}
