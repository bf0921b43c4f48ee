package scoutnotes

import "github.com/kailas-cloud/scoutnotes/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrValidation             = domain.ErrValidation
	ErrPlayerNotFound         = domain.ErrPlayerNotFound
	ErrNoteNotFound           = domain.ErrNoteNotFound
	ErrAlreadyExists          = domain.ErrAlreadyExists
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrRetrievalUnavailable   = domain.ErrRetrievalUnavailable
)
