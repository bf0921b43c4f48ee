package assistant

import (
	"context"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	domasst "github.com/kailas-cloud/scoutnotes/internal/domain/assistant"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
	"github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
)

// Store persists conversations and runs.
type Store interface {
	NextConversationID(ctx context.Context) (int64, error)
	NextRunID(ctx context.Context) (int64, error)
	SaveConversation(ctx context.Context, c *domasst.Conversation) error
	GetConversation(ctx context.Context, id int64) (*domasst.Conversation, error)
	ListConversations(ctx context.Context) ([]domasst.Conversation, error)
	SaveRun(ctx context.Context, run *domasst.Run) error
	GetRun(ctx context.Context, id int64) (*domasst.Run, error)
}

// Completer drives the model with function calling enabled.
type Completer interface {
	CompleteWithTools(ctx context.Context, messages []domain.ChatMessage, tools []domain.ToolSpec) (domain.ChatMessage, error)
}

// Players is the player surface exposed to the tools.
type Players interface {
	List(ctx context.Context) ([]player.Player, error)
	Get(ctx context.Context, id int64) (player.Player, error)
	Create(ctx context.Context, name, team, position string) (player.Player, error)
}

// Notes is the note surface exposed to the tools.
type Notes interface {
	List(ctx context.Context, playerID int64) ([]note.Indexed, error)
	Create(ctx context.Context, in notes.CreateInput) (note.Indexed, error)
	Update(ctx context.Context, id int64, u note.Update) (note.Indexed, error)
}

// Retriever runs hybrid note search for the search_notes tool.
type Retriever interface {
	Retrieve(ctx context.Context, req domret.Request) (domret.Result, error)
}
