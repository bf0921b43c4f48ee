package players

import (
	"context"

	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
)

// Repository defines the player storage contract.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, p player.Player) error
	Get(ctx context.Context, id int64) (player.Player, error)
	List(ctx context.Context) ([]player.Player, error)
	Delete(ctx context.Context, id int64) error
}

// NotesMaintainer lets player mutations cascade into the notes that
// denormalize player fields in the search index.
type NotesMaintainer interface {
	List(ctx context.Context, playerID int64) ([]note.Indexed, error)
	Reindex(ctx context.Context, id int64) (note.Indexed, error)
	Delete(ctx context.Context, id int64) error
}
