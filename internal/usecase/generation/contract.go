package generation

import (
	"context"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
)

// Retriever runs hybrid retrieval for the context block.
type Retriever interface {
	Retrieve(ctx context.Context, req domret.Request) (domret.Result, error)
}

// Completer produces the grounded answer text.
type Completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (domain.ChatMessage, error)
}
