package retrieval

import "math"

// Round3 rounds a score to three decimals for presentation.
func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// Snippet is a single ranked retrieval hit.
type Snippet struct {
	noteID         int64
	playerID       int64
	playerName     string
	title          string
	excerpt        string
	relevanceScore float64
	keywordScore   float64
	semanticScore  float64
	gameDate       string
	tags           []string
}

// NewSnippet creates a retrieval snippet.
func NewSnippet(
	noteID, playerID int64, playerName, title, excerpt string,
	relevanceScore, keywordScore, semanticScore float64,
	gameDate string, tags []string,
) Snippet {
	return Snippet{
		noteID: noteID, playerID: playerID, playerName: playerName,
		title: title, excerpt: excerpt,
		relevanceScore: relevanceScore, keywordScore: keywordScore, semanticScore: semanticScore,
		gameDate: gameDate, tags: tags,
	}
}

// NoteID returns the source note identifier.
func (s *Snippet) NoteID() int64 { return s.noteID }

// PlayerID returns the owning player's identifier.
func (s *Snippet) PlayerID() int64 { return s.playerID }

// PlayerName returns the owning player's name.
func (s *Snippet) PlayerName() string { return s.playerName }

// Title returns the note title.
func (s *Snippet) Title() string { return s.title }

// Excerpt returns the query-centered content excerpt.
func (s *Snippet) Excerpt() string { return s.excerpt }

// RelevanceScore returns the fused score (weighted sum of the two signals).
func (s *Snippet) RelevanceScore() float64 { return s.relevanceScore }

// KeywordScore returns the max-normalized lexical score in [0,1].
func (s *Snippet) KeywordScore() float64 { return s.keywordScore }

// SemanticScore returns the cosine similarity score in [0,1].
func (s *Snippet) SemanticScore() float64 { return s.semanticScore }

// GameDate returns the opaque game date string ("" if unset).
func (s *Snippet) GameDate() string { return s.gameDate }

// Tags returns the note tags.
func (s *Snippet) Tags() []string { return s.tags }
