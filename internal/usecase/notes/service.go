// Package notes manages scouting note CRUD and keeps the search index
// in step with every write.
package notes

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
)

// Service handles note writes and the derived search entries.
type Service struct {
	repo    Repository
	players PlayerReader
	indexer Indexer
	embed   Embedder
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a note service.
func New(repo Repository, players PlayerReader, indexer Indexer, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		players: players,
		indexer: indexer,
		embed:   embed,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateInput carries the fields for a new note.
type CreateInput struct {
	PlayerID    int64
	Title       string
	Content     string
	Tags        []string
	GameDate    string
	IsImportant bool
}

// Create validates, persists and indexes a new note. An embedding or
// index-write failure does not fail the create: the note is stored
// with a status naming the failure so the caller can reindex later.
func (s *Service) Create(ctx context.Context, in CreateInput) (note.Indexed, error) {
	owner, err := s.players.Get(ctx, in.PlayerID)
	if err != nil {
		return note.Indexed{}, fmt.Errorf("get player %d: %w", in.PlayerID, err)
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return note.Indexed{}, err
	}

	n, err := note.New(id, in.PlayerID, in.Title, in.Content, in.Tags, in.GameDate, in.IsImportant, s.now())
	if err != nil {
		return note.Indexed{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	status := s.index(ctx, n, &owner)
	if err := s.repo.Save(ctx, n, status); err != nil {
		return note.Indexed{}, err
	}

	return note.Indexed{Note: n, Status: status}, nil
}

// Update applies a partial modification. Text changes trigger a
// reindex; metadata-only changes keep the existing index status.
func (s *Service) Update(ctx context.Context, id int64, u note.Update) (note.Indexed, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return note.Indexed{}, err
	}
	if u.Empty() {
		return current, nil
	}

	updated, err := current.Note.Apply(u, s.now())
	if err != nil {
		return note.Indexed{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	status := current.Status
	if u.TouchesText() || !status.Searchable() {
		owner, err := s.players.Get(ctx, updated.PlayerID())
		if err != nil {
			return note.Indexed{}, fmt.Errorf("get player %d: %w", updated.PlayerID(), err)
		}
		status = s.index(ctx, updated, &owner)
	}

	if err := s.repo.Save(ctx, updated, status); err != nil {
		return note.Indexed{}, err
	}
	return note.Indexed{Note: updated, Status: status}, nil
}

// Get returns a note with its index status.
func (s *Service) Get(ctx context.Context, id int64) (note.Indexed, error) {
	return s.repo.Get(ctx, id)
}

// List returns notes, optionally filtered by player.
func (s *Service) List(ctx context.Context, playerID int64) ([]note.Indexed, error) {
	return s.repo.List(ctx, playerID)
}

// Delete removes the note and its search entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.indexer.Remove(ctx, id); err != nil {
		// The note itself is gone; a stale search entry only surfaces
		// until the next reindex, so log instead of failing the delete.
		s.logger.Warn("Failed to remove search entry", zap.Int64("note_id", id), zap.Error(err))
	}
	return nil
}

// Reindex re-embeds and rewrites the search entry for one note and
// returns the resulting status.
func (s *Service) Reindex(ctx context.Context, id int64) (note.Indexed, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return note.Indexed{}, err
	}
	owner, err := s.players.Get(ctx, current.Note.PlayerID())
	if err != nil {
		return note.Indexed{}, fmt.Errorf("get player %d: %w", current.Note.PlayerID(), err)
	}

	status := s.index(ctx, current.Note, &owner)
	if err := s.repo.SetIndexStatus(ctx, id, status); err != nil {
		return note.Indexed{}, err
	}
	return note.Indexed{Note: current.Note, Status: status}, nil
}

// index embeds the note text and writes the search entry, mapping each
// failure mode to its status instead of swallowing it.
func (s *Service) index(ctx context.Context, n note.Note, owner *player.Player) note.IndexStatus {
	embResult, err := s.embed.Embed(ctx, n.SearchText())
	if err != nil {
		s.logger.Warn("Embedding failed, note stored unindexed",
			zap.Int64("note_id", n.ID()), zap.Error(err))
		return note.StatusEmbeddingFailed
	}

	if err := s.indexer.Index(ctx, n, owner.Name(), owner.Team(), embResult.Embedding); err != nil {
		s.logger.Warn("Index write failed, note stored unindexed",
			zap.Int64("note_id", n.ID()), zap.Error(err))
		return note.StatusWriteFailed
	}
	return note.StatusIndexed
}
