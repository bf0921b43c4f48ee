package scoutnotes

import (
	"context"
	"time"

	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
	notesuc "github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
)

// Player is a tracked player.
type Player struct {
	ID        int64
	Name      string
	Team      string
	Position  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note is a scouting note with its index status.
type Note struct {
	ID          int64
	PlayerID    int64
	Title       string
	Content     string
	Tags        []string
	GameDate    string
	IsImportant bool
	IndexStatus string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoteInput holds the fields for a new note.
type NoteInput struct {
	PlayerID    int64
	Title       string
	Content     string
	Tags        []string
	GameDate    string
	IsImportant bool
}

// NotePatch is a partial note update. Nil fields keep existing values.
type NotePatch struct {
	Title       *string
	Content     *string
	Tags        []string
	GameDate    *string
	IsImportant *bool
}

// SearchRequest describes one hybrid retrieval query. Zero values fall
// back to the engine defaults (top 5, 0.4 keyword / 0.6 semantic).
type SearchRequest struct {
	Query          string
	PlayerID       int64
	Team           string
	TopK           int
	KeywordWeight  *float64
	SemanticWeight *float64
}

// Snippet is one retrieval hit.
type Snippet struct {
	NoteID         int64
	PlayerID       int64
	PlayerName     string
	Title          string
	Excerpt        string
	RelevanceScore float64
	KeywordScore   float64
	SemanticScore  float64
	GameDate       string
	Tags           []string
}

// SearchResult carries the fused hits and any degraded phases
// ("lexical" or "semantic") that failed during retrieval.
type SearchResult struct {
	Snippets []Snippet
	Degraded []string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

// CreatePlayer adds a player.
func (c *Client) CreatePlayer(ctx context.Context, name, team, position string) (Player, error) {
	p, err := c.players.Create(ctx, name, team, position)
	if err != nil {
		return Player{}, err
	}
	return toPlayer(&p), nil
}

// GetPlayer returns a player by id.
func (c *Client) GetPlayer(ctx context.Context, id int64) (Player, error) {
	p, err := c.players.Get(ctx, id)
	if err != nil {
		return Player{}, err
	}
	return toPlayer(&p), nil
}

// ListPlayers returns all players.
func (c *Client) ListPlayers(ctx context.Context) ([]Player, error) {
	list, err := c.players.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Player, 0, len(list))
	for i := range list {
		out = append(out, toPlayer(&list[i]))
	}
	return out, nil
}

// UpdatePlayer replaces the given player fields. Empty strings keep
// the existing values.
func (c *Client) UpdatePlayer(ctx context.Context, id int64, name, team, position string) (Player, error) {
	p, err := c.players.Update(ctx, id, name, team, position)
	if err != nil {
		return Player{}, err
	}
	return toPlayer(&p), nil
}

// DeletePlayer removes a player and all of their notes.
func (c *Client) DeletePlayer(ctx context.Context, id int64) error {
	return c.players.Delete(ctx, id)
}

// CreateNote adds a scouting note and indexes it for search.
func (c *Client) CreateNote(ctx context.Context, in NoteInput) (Note, error) {
	n, err := c.notes.Create(ctx, notesuc.CreateInput{
		PlayerID:    in.PlayerID,
		Title:       in.Title,
		Content:     in.Content,
		Tags:        in.Tags,
		GameDate:    in.GameDate,
		IsImportant: in.IsImportant,
	})
	if err != nil {
		return Note{}, err
	}
	return toNote(n), nil
}

// GetNote returns a note by id.
func (c *Client) GetNote(ctx context.Context, id int64) (Note, error) {
	n, err := c.notes.Get(ctx, id)
	if err != nil {
		return Note{}, err
	}
	return toNote(n), nil
}

// ListNotes returns notes, optionally filtered by player (0 = all).
func (c *Client) ListNotes(ctx context.Context, playerID int64) ([]Note, error) {
	list, err := c.notes.List(ctx, playerID)
	if err != nil {
		return nil, err
	}
	out := make([]Note, 0, len(list))
	for _, n := range list {
		out = append(out, toNote(n))
	}
	return out, nil
}

// UpdateNote applies a partial update and reindexes when the
// searchable text changed.
func (c *Client) UpdateNote(ctx context.Context, id int64, patch NotePatch) (Note, error) {
	n, err := c.notes.Update(ctx, id, note.Update{
		Title:       patch.Title,
		Content:     patch.Content,
		Tags:        patch.Tags,
		GameDate:    patch.GameDate,
		IsImportant: patch.IsImportant,
	})
	if err != nil {
		return Note{}, err
	}
	return toNote(n), nil
}

// DeleteNote removes a note and its search entry.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.notes.Delete(ctx, id)
}

// ReindexNote re-embeds and re-indexes a note, returning the new status.
func (c *Client) ReindexNote(ctx context.Context, id int64) (Note, error) {
	n, err := c.notes.Reindex(ctx, id)
	if err != nil {
		return Note{}, err
	}
	return toNote(n), nil
}

// Search runs hybrid retrieval over the indexed notes.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	domReq, err := domret.New(req.Query, req.PlayerID, req.Team, req.TopK, req.KeywordWeight, req.SemanticWeight)
	if err != nil {
		return SearchResult{}, err
	}

	res, err := c.retrieval.Retrieve(ctx, domReq)
	if err != nil {
		return SearchResult{}, err
	}

	out := SearchResult{Snippets: make([]Snippet, 0, len(res.Snippets))}
	for i := range res.Snippets {
		out.Snippets = append(out.Snippets, toSnippet(&res.Snippets[i]))
	}
	for _, p := range res.Degraded {
		out.Degraded = append(out.Degraded, string(p))
	}
	return out, nil
}

func toPlayer(p *player.Player) Player {
	return Player{
		ID:        p.ID(),
		Name:      p.Name(),
		Team:      p.Team(),
		Position:  p.Position(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toNote(in note.Indexed) Note {
	n := in.Note
	return Note{
		ID:          n.ID(),
		PlayerID:    n.PlayerID(),
		Title:       n.Title(),
		Content:     n.Content(),
		Tags:        n.Tags(),
		GameDate:    n.GameDate(),
		IsImportant: n.IsImportant(),
		IndexStatus: string(in.Status),
		CreatedAt:   n.CreatedAt(),
		UpdatedAt:   n.UpdatedAt(),
	}
}

func toSnippet(s *domret.Snippet) Snippet {
	return Snippet{
		NoteID:         s.NoteID(),
		PlayerID:       s.PlayerID(),
		PlayerName:     s.PlayerName(),
		Title:          s.Title(),
		Excerpt:        s.Excerpt(),
		RelevanceScore: s.RelevanceScore(),
		KeywordScore:   s.KeywordScore(),
		SemanticScore:  s.SemanticScore(),
		GameDate:       s.GameDate(),
		Tags:           s.Tags(),
	}
}
