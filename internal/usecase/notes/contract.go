package notes

import (
	"context"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
)

// Repository defines the note storage contract.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, n note.Note, status note.IndexStatus) error
	SetIndexStatus(ctx context.Context, id int64, status note.IndexStatus) error
	Get(ctx context.Context, id int64) (note.Indexed, error)
	List(ctx context.Context, playerID int64) ([]note.Indexed, error)
	Delete(ctx context.Context, id int64) error
}

// PlayerReader reads players for ownership checks and index denormalization.
type PlayerReader interface {
	Get(ctx context.Context, id int64) (player.Player, error)
}

// Indexer maintains the search entries derived from notes.
type Indexer interface {
	Index(ctx context.Context, n note.Note, playerName, team string, vector []float32) error
	Remove(ctx context.Context, noteID int64) error
}

// Embedder vectorizes note text for the search index.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
