package chi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	notesuc "github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
)

type noteCreateRequest struct {
	PlayerID    int64    `json:"player_id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	GameDate    string   `json:"game_date"`
	IsImportant bool     `json:"is_important"`
}

type noteUpdateRequest struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	Tags        *[]string `json:"tags"`
	GameDate    *string   `json:"game_date"`
	IsImportant *bool     `json:"is_important"`
}

// handleCreateNote handles POST /api/notes.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	created, err := s.notes.Create(r.Context(), notesuc.CreateInput{
		PlayerID:    req.PlayerID,
		Title:       req.Title,
		Content:     req.Content,
		Tags:        req.Tags,
		GameDate:    req.GameDate,
		IsImportant: req.IsImportant,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, noteToDTO(&created))
}

// handleListNotes handles GET /api/notes. The optional player_id query
// parameter filters by player.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	var playerID int64
	if raw := r.URL.Query().Get("player_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "player_id must be a positive integer")
			return
		}
		playerID = id
	}

	notes, err := s.notes.List(r.Context(), playerID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]noteDTO, len(notes))
	for i := range notes {
		items[i] = noteToDTO(&notes[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// handleGetNote handles GET /api/notes/{id}.
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	n, err := s.notes.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteToDTO(&n))
}

// handleUpdateNote handles PUT /api/notes/{id}.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var req noteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	u := note.Update{
		Title:       req.Title,
		Content:     req.Content,
		GameDate:    req.GameDate,
		IsImportant: req.IsImportant,
	}
	if req.Tags != nil {
		u.Tags = *req.Tags
	}

	n, err := s.notes.Update(r.Context(), id, u)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteToDTO(&n))
}

// handleDeleteNote handles DELETE /api/notes/{id}.
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := s.notes.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleReindexNote handles POST /api/notes/{id}/reindex.
func (s *Server) handleReindexNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	n, err := s.notes.Reindex(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteToDTO(&n))
}
