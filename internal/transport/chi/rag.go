package chi

import (
	"encoding/json"
	"net/http"

	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
)

type retrieveRequest struct {
	Query          string   `json:"query"`
	PlayerID       int64    `json:"player_id"`
	Team           string   `json:"team"`
	TopK           int      `json:"top_k"`
	KeywordWeight  *float64 `json:"keyword_weight"`
	SemanticWeight *float64 `json:"semantic_weight"`
}

type retrieveResponse struct {
	Query        string       `json:"query"`
	Results      []snippetDTO `json:"results"`
	TotalResults int          `json:"total_results"`
	Degraded     []string     `json:"degraded,omitempty"`
}

// handleRetrieve handles POST /api/retrieve.
func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	domReq, err := domret.New(req.Query, req.PlayerID, req.Team, req.TopK, req.KeywordWeight, req.SemanticWeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := s.retrieval.Retrieve(r.Context(), domReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, retrieveResponse{
		Query:        req.Query,
		Results:      snippetsToDTO(result.Snippets),
		TotalResults: len(result.Snippets),
		Degraded:     degradedToDTO(result.Degraded),
	})
}

type generateRequest struct {
	Query            string   `json:"query"`
	PlayerID         int64    `json:"player_id"`
	Team             string   `json:"team"`
	TopK             int      `json:"top_k"`
	KeywordWeight    *float64 `json:"keyword_weight"`
	SemanticWeight   *float64 `json:"semantic_weight"`
	IncludeRetrieval *bool    `json:"include_retrieval"`
}

type generateResponse struct {
	Query                    string        `json:"query"`
	Answer                   string        `json:"answer"`
	Citations                []citationDTO `json:"citations"`
	HasSufficientInformation bool          `json:"has_sufficient_information"`
	Confidence               string        `json:"confidence"`
	RetrievedNotes           []snippetDTO  `json:"retrieved_notes,omitempty"`
	Degraded                 []string      `json:"degraded,omitempty"`
}

// handleGenerate handles POST /api/generate.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	domReq, err := domret.New(req.Query, req.PlayerID, req.Team, req.TopK, req.KeywordWeight, req.SemanticWeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	result, err := s.generation.Generate(r.Context(), domReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := generateResponse{
		Query:                    req.Query,
		Answer:                   result.Answer.Text,
		Citations:                citationsToDTO(result.Answer.Citations),
		HasSufficientInformation: result.Answer.HasSufficientInformation,
		Confidence:               string(result.Answer.Confidence),
		Degraded:                 degradedToDTO(result.Degraded),
	}
	if req.IncludeRetrieval == nil || *req.IncludeRetrieval {
		resp.RetrievedNotes = snippetsToDTO(result.Snippets)
	}

	writeJSON(w, http.StatusOK, resp)
}
