package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrValidation signals rejected input, before any store or provider call.
	ErrValidation = errors.New("validation error")
	// ErrPlayerNotFound signals a missing player.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNoteNotFound signals a missing note.
	ErrNoteNotFound = errors.New("note not found")
	// ErrConversationNotFound signals a missing assistant conversation.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrRetrievalUnavailable signals that both retrieval phases failed.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrUnknownTool signals a model request for a tool outside the closed set.
	ErrUnknownTool = errors.New("unknown tool")
)
