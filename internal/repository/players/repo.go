// Package players persists player records as hashes.
package players

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
)

var (
	keyPrefix = domain.KeyPrefix + "player:"
	seqKey    = domain.KeyPrefix + "seq:player"
)

// store is the consumer interface for players (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase player storage over hashes.
type Repo struct {
	store store
}

// New creates a player repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// NextID allocates a new player identifier from the sequence counter.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, seqKey)
	if err != nil {
		return 0, fmt.Errorf("next player id: %w", err)
	}
	return id, nil
}

// Save writes a player record, creating or overwriting it.
func (r *Repo) Save(ctx context.Context, p player.Player) error {
	key := playerKey(p.ID())
	if err := r.store.HSet(ctx, key, playerFields(p)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get returns a player by ID.
func (r *Repo) Get(ctx context.Context, id int64) (player.Player, error) {
	key := playerKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return player.Player{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return player.Player{}, domain.ErrPlayerNotFound
	}
	return parsePlayer(id, fields)
}

// List returns all players ordered by ID.
func (r *Repo) List(ctx context.Context) ([]player.Player, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan players: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	players := make([]player.Player, 0, len(hashes))
	for i, fields := range hashes {
		if len(fields) == 0 {
			continue
		}
		id, parseErr := idFromKey(keys[i])
		if parseErr != nil {
			continue
		}
		p, parseErr := parsePlayer(id, fields)
		if parseErr != nil {
			continue
		}
		players = append(players, p)
	}

	sort.Slice(players, func(i, j int) bool { return players[i].ID() < players[j].ID() })
	return players, nil
}

// Exists reports whether a player record exists.
func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := r.store.Exists(ctx, playerKey(id))
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", playerKey(id), err)
	}
	return ok, nil
}

// Delete removes a player record.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	key := playerKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrPlayerNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func playerKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func idFromKey(key string) (int64, error) {
	return strconv.ParseInt(key[len(keyPrefix):], 10, 64)
}

func playerFields(p player.Player) map[string]string {
	return map[string]string{
		"name":       p.Name(),
		"team":       p.Team(),
		"position":   p.Position(),
		"created_at": p.CreatedAt().UTC().Format(time.RFC3339Nano),
		"updated_at": p.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func parsePlayer(id int64, fields map[string]string) (player.Player, error) {
	createdAt, err := parseTime(fields["created_at"])
	if err != nil {
		return player.Player{}, fmt.Errorf("player %d created_at: %w", id, err)
	}
	updatedAt, err := parseTime(fields["updated_at"])
	if err != nil {
		return player.Player{}, fmt.Errorf("player %d updated_at: %w", id, err)
	}
	return player.Reconstruct(id, fields["name"], fields["team"], fields["position"], createdAt, updatedAt), nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	return time.Parse(time.RFC3339Nano, s)
}
