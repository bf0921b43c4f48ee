package seed

import (
	"context"

	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	"github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
)

// Players is the player surface the seeder needs.
type Players interface {
	List(ctx context.Context) ([]player.Player, error)
	Create(ctx context.Context, name, team, position string) (player.Player, error)
}

// Notes creates the sample notes.
type Notes interface {
	Create(ctx context.Context, in notes.CreateInput) (note.Indexed, error)
}
