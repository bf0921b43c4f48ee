package chi

import (
	"encoding/json"
	"net/http"
)

type playerRequest struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
}

// handleCreatePlayer handles POST /api/players.
func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	p, err := s.players.Create(r.Context(), req.Name, req.Team, req.Position)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, playerToDTO(&p))
}

// handleListPlayers handles GET /api/players.
func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]playerDTO, len(players))
	for i := range players {
		items[i] = playerToDTO(&players[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// handleGetPlayer handles GET /api/players/{id}.
func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	p, err := s.players.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playerToDTO(&p))
}

// handleUpdatePlayer handles PUT /api/players/{id}.
func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	p, err := s.players.Update(r.Context(), id, req.Name, req.Team, req.Position)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playerToDTO(&p))
}

// handleDeletePlayer handles DELETE /api/players/{id}.
func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := s.players.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
