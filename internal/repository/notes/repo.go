// Package notes persists scouting notes as hashes.
package notes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
)

// tagSep joins tags inside one hash field. Tags never contain newlines.
const tagSep = "\n"

var (
	keyPrefix = domain.KeyPrefix + "note:"
	seqKey    = domain.KeyPrefix + "seq:note"
)

// store is the consumer interface for notes (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase note storage over hashes.
type Repo struct {
	store store
}

// New creates a note repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// NextID allocates a new note identifier from the sequence counter.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, seqKey)
	if err != nil {
		return 0, fmt.Errorf("next note id: %w", err)
	}
	return id, nil
}

// Save writes a note record with its index status.
func (r *Repo) Save(ctx context.Context, n note.Note, status note.IndexStatus) error {
	key := noteKey(n.ID())
	if err := r.store.HSet(ctx, key, noteFields(n, status)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// SetIndexStatus updates only the index status of a stored note.
func (r *Repo) SetIndexStatus(ctx context.Context, id int64, status note.IndexStatus) error {
	key := noteKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNoteNotFound
	}
	if err := r.store.HSet(ctx, key, map[string]string{"index_status": string(status)}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get returns a note with its index status.
func (r *Repo) Get(ctx context.Context, id int64) (note.Indexed, error) {
	key := noteKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return note.Indexed{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return note.Indexed{}, domain.ErrNoteNotFound
	}
	return parseNote(id, fields)
}

// List returns all notes ordered by ID. When playerID > 0 only that
// player's notes are returned.
func (r *Repo) List(ctx context.Context, playerID int64) ([]note.Indexed, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	notes := make([]note.Indexed, 0, len(hashes))
	for i, fields := range hashes {
		if len(fields) == 0 {
			continue
		}
		id, parseErr := idFromKey(keys[i])
		if parseErr != nil {
			continue
		}
		n, parseErr := parseNote(id, fields)
		if parseErr != nil {
			continue
		}
		if playerID > 0 && n.Note.PlayerID() != playerID {
			continue
		}
		notes = append(notes, n)
	}

	sort.Slice(notes, func(i, j int) bool { return notes[i].Note.ID() < notes[j].Note.ID() })
	return notes, nil
}

// Delete removes a note record.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	key := noteKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrNoteNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func noteKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func idFromKey(key string) (int64, error) {
	return strconv.ParseInt(key[len(keyPrefix):], 10, 64)
}

func noteFields(n note.Note, status note.IndexStatus) map[string]string {
	return map[string]string{
		"player_id":    strconv.FormatInt(n.PlayerID(), 10),
		"title":        n.Title(),
		"content":      n.Content(),
		"tags":         strings.Join(n.Tags(), tagSep),
		"game_date":    n.GameDate(),
		"is_important": strconv.FormatBool(n.IsImportant()),
		"index_status": string(status),
		"created_at":   n.CreatedAt().UTC().Format(time.RFC3339Nano),
		"updated_at":   n.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
}

func parseNote(id int64, fields map[string]string) (note.Indexed, error) {
	playerID, err := strconv.ParseInt(fields["player_id"], 10, 64)
	if err != nil {
		return note.Indexed{}, fmt.Errorf("note %d player_id: %w", id, err)
	}
	createdAt, err := parseTime(fields["created_at"])
	if err != nil {
		return note.Indexed{}, fmt.Errorf("note %d created_at: %w", id, err)
	}
	updatedAt, err := parseTime(fields["updated_at"])
	if err != nil {
		return note.Indexed{}, fmt.Errorf("note %d updated_at: %w", id, err)
	}

	var tags []string
	if fields["tags"] != "" {
		tags = strings.Split(fields["tags"], tagSep)
	}
	isImportant := fields["is_important"] == "true"

	status := note.IndexStatus(fields["index_status"])
	if !status.IsValid() {
		status = note.StatusWriteFailed
	}

	n := note.Reconstruct(
		id, playerID, fields["title"], fields["content"], tags,
		fields["game_date"], isImportant, createdAt, updatedAt,
	)
	return note.Indexed{Note: n, Status: status}, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	return time.Parse(time.RFC3339Nano, s)
}
