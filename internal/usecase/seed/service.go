// Package seed loads the sample players and notes used for demos and
// local development.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
)

// Report summarizes a seeding pass.
type Report struct {
	Message        string `json:"message"`
	PlayersCreated int    `json:"players_created"`
	NotesCreated   int    `json:"notes_created"`
}

type samplePlayer struct {
	name     string
	team     string
	position string
}

type sampleNote struct {
	player      int // index into samplePlayers
	title       string
	content     string
	tags        []string
	gameDate    string
	isImportant bool
}

var samplePlayers = []samplePlayer{
	{name: "Stephen Curry", team: "Golden State Warriors", position: "Point Guard"},
	{name: "LeBron James", team: "Los Angeles Lakers", position: "Small Forward"},
	{name: "Kevin Durant", team: "Phoenix Suns", position: "Small Forward"},
}

var sampleNotes = []sampleNote{
	{
		player:      0,
		title:       "Exceptional 3-point shooting",
		content:     "Curry demonstrated incredible range and accuracy from beyond the arc. Made 7/10 three-pointers with defenders in his face.",
		tags:        []string{"shooting", "offense", "clutch"},
		gameDate:    "2024-01-15",
		isImportant: true,
	},
	{
		player:   0,
		title:    "Ball handling under pressure",
		content:  "Showed elite ball handling skills when double-teamed. Able to create space and find open teammates.",
		tags:     []string{"playmaking", "ball-handling"},
		gameDate: "2024-01-15",
	},
	{
		player:      1,
		title:       "Leadership and court vision",
		content:     "LeBron's basketball IQ was on full display. Made several key passes that led to easy buckets. Vocal leader on both ends.",
		tags:        []string{"leadership", "playmaking", "IQ"},
		gameDate:    "2024-01-16",
		isImportant: true,
	},
}

// Service loads sample data through the regular create paths so notes
// get indexed and embedded like any other.
type Service struct {
	players Players
	notes   Notes
	logger  *zap.Logger
}

// New creates a seeding service.
func New(players Players, notes Notes, logger *zap.Logger) *Service {
	return &Service{players: players, notes: notes, logger: logger}
}

// Run seeds the store. A store that already holds players is left
// untouched.
func (s *Service) Run(ctx context.Context) (Report, error) {
	existing, err := s.players.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list players: %w", err)
	}
	if len(existing) > 0 {
		return Report{Message: "Database already contains data"}, nil
	}

	playerIDs := make([]int64, 0, len(samplePlayers))
	for _, sp := range samplePlayers {
		p, err := s.players.Create(ctx, sp.name, sp.team, sp.position)
		if err != nil {
			return Report{}, fmt.Errorf("create player %s: %w", sp.name, err)
		}
		playerIDs = append(playerIDs, p.ID())
	}

	created := 0
	for _, sn := range sampleNotes {
		_, err := s.notes.Create(ctx, notes.CreateInput{
			PlayerID:    playerIDs[sn.player],
			Title:       sn.title,
			Content:     sn.content,
			Tags:        sn.tags,
			GameDate:    sn.gameDate,
			IsImportant: sn.isImportant,
		})
		if err != nil {
			return Report{}, fmt.Errorf("create note %q: %w", sn.title, err)
		}
		created++
	}

	s.logger.Info("Seeded sample data",
		zap.Int("players", len(playerIDs)),
		zap.Int("notes", created),
	)
	return Report{
		Message:        "Database seeded successfully",
		PlayersCreated: len(playerIDs),
		NotesCreated:   created,
	}, nil
}
