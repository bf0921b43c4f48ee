// Package retrieval holds the hybrid retrieval request and result types.
package retrieval

import "fmt"

// Request parameter limits.
const (
	MaxQueryLength        = 4096
	DefaultTopK           = 5
	MaxTopK               = 20
	DefaultKeywordWeight  = 0.4
	DefaultSemanticWeight = 0.6
)

// Request is a validated hybrid retrieval query.
type Request struct {
	query          string
	playerID       int64
	team           string
	topK           int
	keywordWeight  float64
	semanticWeight float64
}

// New validates and normalizes retrieval parameters.
// topK 0 means default (5); out-of-bounds values are rejected, not
// clamped. Weights are linear combination coefficients, not a
// probability split, so they need not sum to 1. Nil weights take the
// defaults; explicit zero disables that signal's contribution.
func New(query string, playerID int64, team string, topK int, keywordWeight, semanticWeight *float64) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < 1 || topK > MaxTopK {
		return Request{}, fmt.Errorf("top_k must be between 1 and %d, got %d", MaxTopK, topK)
	}

	kw := DefaultKeywordWeight
	if keywordWeight != nil {
		kw = *keywordWeight
	}
	if kw < 0 || kw > 1 {
		return Request{}, fmt.Errorf("keyword_weight must be between 0 and 1, got %v", kw)
	}
	sw := DefaultSemanticWeight
	if semanticWeight != nil {
		sw = *semanticWeight
	}
	if sw < 0 || sw > 1 {
		return Request{}, fmt.Errorf("semantic_weight must be between 0 and 1, got %v", sw)
	}

	return Request{
		query:          query,
		playerID:       playerID,
		team:           team,
		topK:           topK,
		keywordWeight:  kw,
		semanticWeight: sw,
	}, nil
}

// Query returns the query text.
func (r *Request) Query() string { return r.query }

// PlayerID returns the player equality filter (0 = no filter).
func (r *Request) PlayerID() int64 { return r.playerID }

// Team returns the team equality filter ("" = no filter).
func (r *Request) Team() string { return r.team }

// TopK returns the maximum number of snippets to return.
func (r *Request) TopK() int { return r.topK }

// KeywordWeight returns the lexical signal coefficient.
func (r *Request) KeywordWeight() float64 { return r.keywordWeight }

// SemanticWeight returns the semantic signal coefficient.
func (r *Request) SemanticWeight() float64 { return r.semanticWeight }
