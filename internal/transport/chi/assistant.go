package chi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	domasst "github.com/kailas-cloud/scoutnotes/internal/domain/assistant"
)

type conversationDTO struct {
	Conversation *domasst.Conversation `json:"conversation"`
	Runs         []domasst.Run         `json:"runs,omitempty"`
}

// handleCreateConversation handles POST /api/assistant/conversations.
func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.assistant.CreateConversation(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

// handleListConversations handles GET /api/assistant/conversations.
func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := s.assistant.ListConversations(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if convs == nil {
		convs = []domasst.Conversation{}
	}
	writeJSON(w, http.StatusOK, convs)
}

// handleGetConversation handles GET /api/assistant/conversations/{id}.
func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	conv, runs, err := s.assistant.GetConversation(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversationDTO{Conversation: conv, Runs: runs})
}

// handleGetRun handles GET /api/assistant/runs/{id}.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	run, err := s.assistant.GetRun(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

type chatRequest struct {
	ConversationID int64  `json:"conversation_id"`
	Message        string `json:"message"`
}

// handleChat handles POST /api/assistant/chat, streaming agent events
// over SSE as the run progresses.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	stream := newSSEWriter(w)
	_, err := s.assistant.Chat(r.Context(), req.ConversationID, req.Message, func(e domasst.Event) {
		if err := stream.send(e); err != nil {
			s.logger.Warn("Failed to write SSE event", zap.Error(err))
		}
	})
	if err != nil {
		// Pre-run failures (validation, unknown conversation) happen
		// before the first event, so a plain JSON error is still possible.
		if !stream.started() {
			s.handleDomainError(w, err)
			return
		}
		_ = stream.send(domasst.Event{Type: domasst.EventError, Error: safeDomainMessage(err)})
	}

	_ = stream.send(domasst.Event{Type: domasst.EventDone})
}

// sseWriter writes server-sent events, setting the stream headers
// lazily on the first event.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	wrote   bool
}

func newSSEWriter(w http.ResponseWriter) *sseWriter {
	flusher, _ := w.(http.Flusher)
	return &sseWriter{w: w, flusher: flusher}
}

func (s *sseWriter) started() bool { return s.wrote }

func (s *sseWriter) send(e domasst.Event) error {
	if !s.wrote {
		h := s.w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		s.wrote = true
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(data); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("\n\n")); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}
