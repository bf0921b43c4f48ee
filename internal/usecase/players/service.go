// Package players manages player CRUD. Search entries denormalize the
// player name and team, so renames cascade into a note reindex.
package players

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
)

// Service handles player writes.
type Service struct {
	repo   Repository
	notes  NotesMaintainer
	logger *zap.Logger
	now    func() time.Time
}

// New creates a player service.
func New(repo Repository, notes NotesMaintainer, logger *zap.Logger) *Service {
	return &Service{repo: repo, notes: notes, logger: logger, now: time.Now}
}

// Create validates and persists a new player.
func (s *Service) Create(ctx context.Context, name, team, position string) (player.Player, error) {
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return player.Player{}, err
	}

	p, err := player.New(id, name, team, position, s.now())
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return player.Player{}, err
	}
	return p, nil
}

// Get returns a player by ID.
func (s *Service) Get(ctx context.Context, id int64) (player.Player, error) {
	return s.repo.Get(ctx, id)
}

// List returns all players.
func (s *Service) List(ctx context.Context) ([]player.Player, error) {
	return s.repo.List(ctx)
}

// Update modifies a player. When the name or team changes, the
// player's notes are reindexed best-effort so search entries stop
// serving stale denormalized fields.
func (s *Service) Update(ctx context.Context, id int64, name, team, position string) (player.Player, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return player.Player{}, err
	}

	updated, err := current.WithUpdates(name, team, position, s.now())
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.repo.Save(ctx, updated); err != nil {
		return player.Player{}, err
	}

	if updated.Name() != current.Name() || updated.Team() != current.Team() {
		s.reindexNotes(ctx, id)
	}
	return updated, nil
}

// Delete removes a player and cascades into their notes.
func (s *Service) Delete(ctx context.Context, id int64) error {
	notes, err := s.notes.List(ctx, id)
	if err != nil {
		return fmt.Errorf("list notes for player %d: %w", id, err)
	}
	for i := range notes {
		if err := s.notes.Delete(ctx, notes[i].Note.ID()); err != nil {
			return fmt.Errorf("delete note %d: %w", notes[i].Note.ID(), err)
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) reindexNotes(ctx context.Context, playerID int64) {
	notes, err := s.notes.List(ctx, playerID)
	if err != nil {
		s.logger.Warn("Failed to list notes for reindex", zap.Int64("player_id", playerID), zap.Error(err))
		return
	}
	for i := range notes {
		if _, err := s.notes.Reindex(ctx, notes[i].Note.ID()); err != nil {
			s.logger.Warn("Failed to reindex note after player update",
				zap.Int64("note_id", notes[i].Note.ID()), zap.Error(err))
		}
	}
}
