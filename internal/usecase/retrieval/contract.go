package retrieval

import (
	"context"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/repository/search"
)

// Searcher defines the storage contract for the two query legs.
type Searcher interface {
	Lexical(ctx context.Context, query string, playerID int64, team string, limit int) ([]search.Hit, error)
	Semantic(ctx context.Context, vector []float32, playerID int64, team string, k int) ([]search.Hit, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
