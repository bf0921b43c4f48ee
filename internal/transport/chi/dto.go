package chi

import (
	"time"

	"github.com/kailas-cloud/scoutnotes/internal/domain/answer"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
)

type playerDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Team      string    `json:"team,omitempty"`
	Position  string    `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func playerToDTO(p *player.Player) playerDTO {
	return playerDTO{
		ID:        p.ID(),
		Name:      p.Name(),
		Team:      p.Team(),
		Position:  p.Position(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

type noteDTO struct {
	ID          int64     `json:"id"`
	PlayerID    int64     `json:"player_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	GameDate    string    `json:"game_date,omitempty"`
	IsImportant bool      `json:"is_important"`
	IndexStatus string    `json:"index_status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func noteToDTO(in *note.Indexed) noteDTO {
	n := &in.Note
	tags := n.Tags()
	if tags == nil {
		tags = []string{}
	}
	return noteDTO{
		ID:          n.ID(),
		PlayerID:    n.PlayerID(),
		Title:       n.Title(),
		Content:     n.Content(),
		Tags:        tags,
		GameDate:    n.GameDate(),
		IsImportant: n.IsImportant(),
		IndexStatus: string(in.Status),
		CreatedAt:   n.CreatedAt(),
		UpdatedAt:   n.UpdatedAt(),
	}
}

type snippetDTO struct {
	NoteID         int64    `json:"note_id"`
	PlayerID       int64    `json:"player_id"`
	PlayerName     string   `json:"player_name"`
	Title          string   `json:"title"`
	Excerpt        string   `json:"excerpt"`
	RelevanceScore float64  `json:"relevance_score"`
	KeywordScore   float64  `json:"keyword_score"`
	SemanticScore  float64  `json:"semantic_score"`
	GameDate       string   `json:"game_date,omitempty"`
	Tags           []string `json:"tags"`
}

func snippetToDTO(s *domret.Snippet) snippetDTO {
	tags := s.Tags()
	if tags == nil {
		tags = []string{}
	}
	return snippetDTO{
		NoteID:         s.NoteID(),
		PlayerID:       s.PlayerID(),
		PlayerName:     s.PlayerName(),
		Title:          s.Title(),
		Excerpt:        s.Excerpt(),
		RelevanceScore: domret.Round3(s.RelevanceScore()),
		KeywordScore:   domret.Round3(s.KeywordScore()),
		SemanticScore:  domret.Round3(s.SemanticScore()),
		GameDate:       s.GameDate(),
		Tags:           tags,
	}
}

func snippetsToDTO(snippets []domret.Snippet) []snippetDTO {
	out := make([]snippetDTO, len(snippets))
	for i := range snippets {
		out[i] = snippetToDTO(&snippets[i])
	}
	return out
}

type citationDTO struct {
	NoteID          int64  `json:"note_id"`
	PlayerName      string `json:"player_name"`
	Title           string `json:"title"`
	Excerpt         string `json:"excerpt"`
	ReferenceNumber int    `json:"reference_number"`
}

func citationsToDTO(citations []answer.Citation) []citationDTO {
	out := make([]citationDTO, len(citations))
	for i, c := range citations {
		out[i] = citationDTO{
			NoteID:          c.NoteID,
			PlayerName:      c.PlayerName,
			Title:           c.Title,
			Excerpt:         c.Excerpt,
			ReferenceNumber: c.ReferenceNumber,
		}
	}
	return out
}

func degradedToDTO(phases []domret.Phase) []string {
	if len(phases) == 0 {
		return nil
	}
	out := make([]string, len(phases))
	for i, p := range phases {
		out[i] = string(p)
	}
	return out
}
