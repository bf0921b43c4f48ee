package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	domasst "github.com/kailas-cloud/scoutnotes/internal/domain/assistant"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
	"github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
)

// toolSpecs declares the function-calling schema for each tool in the
// closed set, in the order the model sees them.
func toolSpecs() []domain.ToolSpec {
	return []domain.ToolSpec{
		{
			Name:        string(domasst.ToolSearchPlayers),
			Description: "Search for players by name, team, or position. Use this when the user asks about finding players or wants to know which players are in the system.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query for player name"},
					"team": {"type": "string", "description": "Filter by team name"},
					"position": {"type": "string", "description": "Filter by position (e.g., 'Point Guard', 'Small Forward')"}
				}
			}`),
		},
		{
			Name:        string(domasst.ToolGetPlayerDetails),
			Description: "Get detailed information about a specific player including all their scouting notes. Use this when you need to see all notes for a particular player.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"player_id": {"type": "integer", "description": "The ID of the player"}
				},
				"required": ["player_id"]
			}`),
		},
		{
			Name:        string(domasst.ToolSearchNotes),
			Description: "Search scouting notes using semantic and keyword search. Use this to find notes about specific topics, skills, or game situations across all players or for a specific player/team.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Search query describing what to look for in notes"},
					"player_id": {"type": "integer", "description": "Optional: limit search to notes for a specific player"},
					"team": {"type": "string", "description": "Optional: limit search to notes for players on a specific team"},
					"top_k": {"type": "integer", "description": "Number of results to return (default: 5)"}
				},
				"required": ["query"]
			}`),
		},
		{
			Name:        string(domasst.ToolCreateNote),
			Description: "Create a new scouting note for a player. Use this when the user wants to add observations, insights, or game notes about a player.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"player_id": {"type": "integer", "description": "The ID of the player this note is about"},
					"title": {"type": "string", "description": "Brief title for the note"},
					"content": {"type": "string", "description": "Detailed content of the scouting note"},
					"tags": {"type": "string", "description": "Optional comma-separated tags (e.g., 'shooting, defense, playmaking')"},
					"game_date": {"type": "string", "description": "Optional date of the game observed (YYYY-MM-DD format)"},
					"is_important": {"type": "boolean", "description": "Mark as important/priority note"}
				},
				"required": ["player_id", "title", "content"]
			}`),
		},
		{
			Name:        string(domasst.ToolUpdateNote),
			Description: "Update an existing scouting note. Use this to edit or modify note details.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"note_id": {"type": "integer", "description": "The ID of the note to update"},
					"title": {"type": "string", "description": "New title for the note"},
					"content": {"type": "string", "description": "New content for the note"},
					"tags": {"type": "string", "description": "Updated comma-separated tags"},
					"game_date": {"type": "string", "description": "Updated game date"},
					"is_important": {"type": "boolean", "description": "Updated importance flag"}
				},
				"required": ["note_id"]
			}`),
		},
		{
			Name:        string(domasst.ToolCreatePlayer),
			Description: "Create a new player profile. Use this when the user wants to add a new player to track.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Player's full name"},
					"team": {"type": "string", "description": "Player's team"},
					"position": {"type": "string", "description": "Player's position"}
				},
				"required": ["name"]
			}`),
		},
	}
}

// executor runs tool calls against the real services. Every tool
// returns a JSON payload with a "success" flag; failures go back to
// the model as data instead of aborting the run.
type executor struct {
	players   Players
	notes     Notes
	retriever Retriever
}

// Execute dispatches one tool call. The returned string is the JSON
// tool output handed back to the model.
func (e *executor) Execute(ctx context.Context, kind domasst.ToolKind, args string) string {
	var out any
	switch kind {
	case domasst.ToolSearchPlayers:
		out = e.searchPlayers(ctx, args)
	case domasst.ToolGetPlayerDetails:
		out = e.getPlayerDetails(ctx, args)
	case domasst.ToolSearchNotes:
		out = e.searchNotes(ctx, args)
	case domasst.ToolCreateNote:
		out = e.createNote(ctx, args)
	case domasst.ToolUpdateNote:
		out = e.updateNote(ctx, args)
	case domasst.ToolCreatePlayer:
		out = e.createPlayer(ctx, args)
	default:
		out = toolError(fmt.Errorf("%w: %s", domain.ErrUnknownTool, kind))
	}

	data, err := json.Marshal(out)
	if err != nil {
		return `{"success": false, "error": "failed to encode tool output"}`
	}
	return string(data)
}

func toolError(err error) map[string]any {
	return map[string]any{"success": false, "error": err.Error()}
}

type playerSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team,omitempty"`
	Position string `json:"position,omitempty"`
}

func summarizePlayer(ID int64, name, team, position string) playerSummary {
	return playerSummary{ID: ID, Name: name, Team: team, Position: position}
}

func (e *executor) searchPlayers(ctx context.Context, args string) any {
	var in struct {
		Query    string `json:"query"`
		Team     string `json:"team"`
		Position string `json:"position"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return toolError(fmt.Errorf("invalid arguments: %w", err))
	}

	all, err := e.players.List(ctx)
	if err != nil {
		return toolError(err)
	}

	matched := make([]playerSummary, 0, len(all))
	for i := range all {
		p := &all[i]
		if in.Query != "" && !strings.Contains(strings.ToLower(p.Name()), strings.ToLower(in.Query)) {
			continue
		}
		if in.Team != "" && !strings.EqualFold(p.Team(), in.Team) {
			continue
		}
		if in.Position != "" && !strings.EqualFold(p.Position(), in.Position) {
			continue
		}
		matched = append(matched, summarizePlayer(p.ID(), p.Name(), p.Team(), p.Position()))
	}

	return map[string]any{"success": true, "players": matched, "count": len(matched)}
}

func (e *executor) getPlayerDetails(ctx context.Context, args string) any {
	var in struct {
		PlayerID int64 `json:"player_id"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return toolError(fmt.Errorf("invalid arguments: %w", err))
	}

	p, err := e.players.Get(ctx, in.PlayerID)
	if err != nil {
		return toolError(err)
	}
	playerNotes, err := e.notes.List(ctx, in.PlayerID)
	if err != nil {
		return toolError(err)
	}

	noteViews := make([]map[string]any, 0, len(playerNotes))
	for i := range playerNotes {
		n := &playerNotes[i].Note
		noteViews = append(noteViews, map[string]any{
			"id":           n.ID(),
			"title":        n.Title(),
			"content":      n.Content(),
			"tags":         strings.Join(n.Tags(), ", "),
			"game_date":    n.GameDate(),
			"is_important": n.IsImportant(),
		})
	}

	return map[string]any{
		"success":     true,
		"player":      summarizePlayer(p.ID(), p.Name(), p.Team(), p.Position()),
		"notes":       noteViews,
		"notes_count": len(noteViews),
	}
}

func (e *executor) searchNotes(ctx context.Context, args string) any {
	var in struct {
		Query    string `json:"query"`
		PlayerID int64  `json:"player_id"`
		Team     string `json:"team"`
		TopK     int    `json:"top_k"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return toolError(fmt.Errorf("invalid arguments: %w", err))
	}

	req, err := domret.New(in.Query, in.PlayerID, in.Team, in.TopK, nil, nil)
	if err != nil {
		return toolError(err)
	}

	result, err := e.retriever.Retrieve(ctx, req)
	if err != nil {
		return toolError(err)
	}

	views := make([]map[string]any, 0, len(result.Snippets))
	for i := range result.Snippets {
		s := &result.Snippets[i]
		views = append(views, map[string]any{
			"note_id":         s.NoteID(),
			"player_name":     s.PlayerName(),
			"title":           s.Title(),
			"excerpt":         s.Excerpt(),
			"tags":            strings.Join(s.Tags(), ", "),
			"game_date":       s.GameDate(),
			"relevance_score": domret.Round3(s.RelevanceScore()),
			"keyword_score":   domret.Round3(s.KeywordScore()),
			"semantic_score":  domret.Round3(s.SemanticScore()),
		})
	}

	return map[string]any{"success": true, "query": in.Query, "results": views, "count": len(views)}
}

func (e *executor) createNote(ctx context.Context, args string) any {
	var in struct {
		PlayerID    int64  `json:"player_id"`
		Title       string `json:"title"`
		Content     string `json:"content"`
		Tags        string `json:"tags"`
		GameDate    string `json:"game_date"`
		IsImportant bool   `json:"is_important"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return toolError(fmt.Errorf("invalid arguments: %w", err))
	}

	created, err := e.notes.Create(ctx, notes.CreateInput{
		PlayerID:    in.PlayerID,
		Title:       in.Title,
		Content:     in.Content,
		Tags:        splitTags(in.Tags),
		GameDate:    in.GameDate,
		IsImportant: in.IsImportant,
	})
	if err != nil {
		return toolError(err)
	}

	return map[string]any{
		"success": true,
		"note": map[string]any{
			"id":           created.Note.ID(),
			"player_id":    created.Note.PlayerID(),
			"title":        created.Note.Title(),
			"index_status": created.Status,
		},
		"message": fmt.Sprintf("Successfully created note %d", created.Note.ID()),
	}
}

func (e *executor) updateNote(ctx context.Context, args string) any {
	var in struct {
		NoteID      int64   `json:"note_id"`
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		Tags        *string `json:"tags"`
		GameDate    *string `json:"game_date"`
		IsImportant *bool   `json:"is_important"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return toolError(fmt.Errorf("invalid arguments: %w", err))
	}

	u := note.Update{
		Title:       in.Title,
		Content:     in.Content,
		GameDate:    in.GameDate,
		IsImportant: in.IsImportant,
	}
	if in.Tags != nil {
		u.Tags = splitTags(*in.Tags)
	}
	if u.Empty() {
		return toolError(fmt.Errorf("no fields to update"))
	}

	updated, err := e.notes.Update(ctx, in.NoteID, u)
	if err != nil {
		return toolError(err)
	}

	return map[string]any{
		"success": true,
		"note": map[string]any{
			"id":           updated.Note.ID(),
			"title":        updated.Note.Title(),
			"index_status": updated.Status,
		},
		"message": fmt.Sprintf("Successfully updated note %d", in.NoteID),
	}
}

func (e *executor) createPlayer(ctx context.Context, args string) any {
	var in struct {
		Name     string `json:"name"`
		Team     string `json:"team"`
		Position string `json:"position"`
	}
	if err := json.Unmarshal([]byte(args), &in); err != nil {
		return toolError(fmt.Errorf("invalid arguments: %w", err))
	}

	p, err := e.players.Create(ctx, in.Name, in.Team, in.Position)
	if err != nil {
		return toolError(err)
	}

	return map[string]any{
		"success": true,
		"player":  summarizePlayer(p.ID(), p.Name(), p.Team(), p.Position()),
		"message": fmt.Sprintf("Successfully created player profile for %s", p.Name()),
	}
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
