// Package chi exposes the scouting-notes API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	domasst "github.com/kailas-cloud/scoutnotes/internal/domain/assistant"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
	assistantuc "github.com/kailas-cloud/scoutnotes/internal/usecase/assistant"
	generationuc "github.com/kailas-cloud/scoutnotes/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/scoutnotes/internal/usecase/health"
	notesuc "github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
	seeduc "github.com/kailas-cloud/scoutnotes/internal/usecase/seed"
)

// Consumer interfaces over the usecase services (ISP).
type (
	// Retriever runs hybrid retrieval.
	Retriever interface {
		Retrieve(ctx context.Context, req domret.Request) (domret.Result, error)
	}

	// Generator synthesizes grounded answers.
	Generator interface {
		Generate(ctx context.Context, req domret.Request) (generationuc.Result, error)
	}

	// PlayerService is the player CRUD surface.
	PlayerService interface {
		Create(ctx context.Context, name, team, position string) (player.Player, error)
		Get(ctx context.Context, id int64) (player.Player, error)
		List(ctx context.Context) ([]player.Player, error)
		Update(ctx context.Context, id int64, name, team, position string) (player.Player, error)
		Delete(ctx context.Context, id int64) error
	}

	// NoteService is the note CRUD surface.
	NoteService interface {
		Create(ctx context.Context, in notesuc.CreateInput) (note.Indexed, error)
		Get(ctx context.Context, id int64) (note.Indexed, error)
		List(ctx context.Context, playerID int64) ([]note.Indexed, error)
		Update(ctx context.Context, id int64, u note.Update) (note.Indexed, error)
		Delete(ctx context.Context, id int64) error
		Reindex(ctx context.Context, id int64) (note.Indexed, error)
	}

	// AssistantService runs the agent and serves its history.
	AssistantService interface {
		Chat(ctx context.Context, conversationID int64, userMessage string, emit assistantuc.Emit) (*domasst.Run, error)
		CreateConversation(ctx context.Context) (*domasst.Conversation, error)
		ListConversations(ctx context.Context) ([]domasst.Conversation, error)
		GetConversation(ctx context.Context, id int64) (*domasst.Conversation, []domasst.Run, error)
		GetRun(ctx context.Context, id int64) (*domasst.Run, error)
	}

	// Seeder loads the sample data set.
	Seeder interface {
		Run(ctx context.Context) (seeduc.Report, error)
	}

	// HealthService aggregates component checks.
	HealthService interface {
		Check(ctx context.Context) healthuc.Report
	}
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes the HTTP API.
type Server struct {
	retrieval     Retriever
	generation    Generator
	players       PlayerService
	notes         NoteService
	assistant     AssistantService
	seed          Seeder
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval Retriever,
	generation Generator,
	players PlayerService,
	notes NoteService,
	assistant AssistantService,
	seed Seeder,
	health HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval:  retrieval,
		generation: generation,
		players:    players,
		notes:      notes,
		assistant:  assistant,
		seed:       seed,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrPlayerNotFound, http.StatusNotFound, "player_not_found"),
		sentinelHandler(domain.ErrNoteNotFound, http.StatusNotFound, "note_not_found"),
		sentinelHandler(domain.ErrConversationNotFound, http.StatusNotFound, "conversation_not_found"),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "not_found"),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, "already_exists"),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, "chat_provider_error"),
		sentinelHandler(domain.ErrRetrievalUnavailable, http.StatusServiceUnavailable, "retrieval_unavailable"),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api", func(api chi.Router) {
		api.Post("/retrieve", s.handleRetrieve)
		api.Post("/generate", s.handleGenerate)

		api.Route("/players", func(pr chi.Router) {
			pr.Post("/", s.handleCreatePlayer)
			pr.Get("/", s.handleListPlayers)
			pr.Get("/{id}", s.handleGetPlayer)
			pr.Put("/{id}", s.handleUpdatePlayer)
			pr.Delete("/{id}", s.handleDeletePlayer)
		})

		api.Route("/notes", func(nr chi.Router) {
			nr.Post("/", s.handleCreateNote)
			nr.Get("/", s.handleListNotes)
			nr.Get("/{id}", s.handleGetNote)
			nr.Put("/{id}", s.handleUpdateNote)
			nr.Delete("/{id}", s.handleDeleteNote)
			nr.Post("/{id}/reindex", s.handleReindexNote)
		})

		api.Route("/assistant", func(ar chi.Router) {
			ar.Post("/conversations", s.handleCreateConversation)
			ar.Get("/conversations", s.handleListConversations)
			ar.Get("/conversations/{id}", s.handleGetConversation)
			ar.Post("/chat", s.handleChat)
			ar.Get("/runs/{id}", s.handleGetRun)
		})

		api.Post("/seed", s.handleSeed)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleSeed handles POST /api/seed.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	report, err := s.seed.Run(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrPlayerNotFound,
		domain.ErrNoteNotFound,
		domain.ErrConversationNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
		domain.ErrRetrievalUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}
