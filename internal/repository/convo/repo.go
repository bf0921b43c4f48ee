// Package convo persists assistant conversations and runs as JSON
// documents.
package convo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/scoutnotes/internal/db"
	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/assistant"
)

var (
	convPrefix = domain.KeyPrefix + "conv:"
	runPrefix  = domain.KeyPrefix + "run:"
	convSeqKey = domain.KeyPrefix + "seq:conv"
	runSeqKey  = domain.KeyPrefix + "seq:run"
)

// store is the consumer interface for conversations (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements assistant conversation storage.
type Repo struct {
	store store
}

// New creates a conversation repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// NextConversationID allocates a new conversation identifier.
func (r *Repo) NextConversationID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, convSeqKey)
	if err != nil {
		return 0, fmt.Errorf("next conversation id: %w", err)
	}
	return id, nil
}

// NextRunID allocates a new run identifier.
func (r *Repo) NextRunID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, runSeqKey)
	if err != nil {
		return 0, fmt.Errorf("next run id: %w", err)
	}
	return id, nil
}

// SaveConversation writes a conversation document.
func (r *Repo) SaveConversation(ctx context.Context, c *assistant.Conversation) error {
	key := convKey(c.ID)
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// GetConversation returns a conversation by ID.
func (r *Repo) GetConversation(ctx context.Context, id int64) (*assistant.Conversation, error) {
	key := convKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	return unmarshalDoc[assistant.Conversation](raw)
}

// ListConversations returns all conversations, most recently updated
// first. Unreadable documents are skipped.
func (r *Repo) ListConversations(ctx context.Context) ([]assistant.Conversation, error) {
	keys, err := r.store.Scan(ctx, convPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan conversations: %w", err)
	}

	out := make([]assistant.Conversation, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			continue
		}
		c, err := unmarshalDoc[assistant.Conversation](raw)
		if err != nil {
			continue
		}
		out = append(out, *c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// SaveRun writes a run document.
func (r *Repo) SaveRun(ctx context.Context, run *assistant.Run) error {
	key := runKey(run.ID)
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// GetRun returns a run by ID.
func (r *Repo) GetRun(ctx context.Context, id int64) (*assistant.Run, error) {
	key := runKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}
	return unmarshalDoc[assistant.Run](raw)
}

func convKey(id int64) string {
	return convPrefix + strconv.FormatInt(id, 10)
}

func runKey(id int64) string {
	return runPrefix + strconv.FormatInt(id, 10)
}

// unmarshalDoc handles both bare objects and the one-element array that
// JSON.GET with a "$" path returns.
func unmarshalDoc[T any](raw []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		return &v, nil
	}
	var arr []T
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if len(arr) == 0 {
		return nil, domain.ErrNotFound
	}
	return &arr[0], nil
}
