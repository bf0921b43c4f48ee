// Package search maintains the note search index and runs the lexical
// and semantic query legs against it.
package search

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/scoutnotes/internal/db"
	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
)

// Text field weights for BM25: title counts triple, tags double.
const (
	titleWeight = 3
	tagsWeight  = 2
)

const tagListSep = "\n"

var (
	entryPrefix = domain.KeyPrefix + "noteidx:"
	indexName   = domain.KeyPrefix + "noteidx:idx"
)

// store is the consumer interface for the search index (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Hit is a single note surfaced by either query leg, carrying the
// fields needed to build a snippet without a second round trip.
type Hit struct {
	NoteID     int64
	PlayerID   int64
	PlayerName string
	Title      string
	Content    string
	Tags       []string
	GameDate   string
	Score      float64
}

// IndexConfig describes the vector side of the index schema.
type IndexConfig struct {
	Dimensions  int
	HNSWM       int
	EFConstruct int
}

// Repo implements the retrieval and indexing storage contracts.
type Repo struct {
	store store
	cfg   IndexConfig
}

// New creates a search repository.
func New(s store, cfg IndexConfig) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// EnsureIndex creates the note index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", indexName, err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(indexName).
		Prefix(entryPrefix).
		TextWithWeight("title", titleWeight).
		Text("content").
		TextWithWeight("tags", tagsWeight).
		Tag("player_id").
		Tag("team").
		VectorHNSW("embedding", r.cfg.Dimensions, db.DistanceCosine, r.cfg.HNSWM, r.cfg.EFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return nil
}

// IndexExists reports whether the note index is present.
func (r *Repo) IndexExists(ctx context.Context) (bool, error) {
	return r.store.IndexExists(ctx, indexName)
}

// Index writes a note's search entry. The entry holds the searchable
// text, the filter tags, the display fields and the embedding.
func (r *Repo) Index(ctx context.Context, n note.Note, playerName, team string, vector []float32) error {
	key := entryKey(n.ID())
	fields := map[string]string{
		"note_id":     strconv.FormatInt(n.ID(), 10),
		"player_id":   strconv.FormatInt(n.PlayerID(), 10),
		"player_name": playerName,
		"team":        team,
		"title":       n.Title(),
		"content":     n.Content(),
		"tags":        strings.Join(n.Tags(), " "),
		"tags_list":   strings.Join(n.Tags(), tagListSep),
		"game_date":   n.GameDate(),
		"embedding":   string(vectorToBytes(vector)),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Remove deletes a note's search entry. Missing entries are not an error.
func (r *Repo) Remove(ctx context.Context, noteID int64) error {
	key := entryKey(noteID)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Lexical runs the BM25 leg. Scores are raw and unbounded; the caller
// normalizes them per query.
func (r *Repo) Lexical(ctx context.Context, query string, playerID int64, team string, limit int) ([]Hit, error) {
	q := &db.TextQuery{
		IndexName:    indexName,
		Query:        query,
		Filters:      buildFilters(playerID, team),
		Limit:        limit,
		ReturnFields: returnFields(),
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}
	return parseHits(sr)
}

// Semantic runs the KNN leg. Scores are cosine similarities in [0, 1].
func (r *Repo) Semantic(ctx context.Context, vector []float32, playerID int64, team string, k int) ([]Hit, error) {
	q := &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		Filters:      buildFilters(playerID, team),
		K:            k,
		ReturnFields: returnFields(),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return parseHits(sr)
}

func returnFields() []string {
	return []string{"note_id", "player_id", "player_name", "title", "content", "tags_list", "game_date"}
}

func buildFilters(playerID int64, team string) []db.TagFilter {
	var filters []db.TagFilter
	if playerID > 0 {
		filters = append(filters, db.TagFilter{Field: "player_id", Value: strconv.FormatInt(playerID, 10)})
	}
	if team != "" {
		filters = append(filters, db.TagFilter{Field: "team", Value: team})
	}
	return filters
}

func entryKey(noteID int64) string {
	return entryPrefix + strconv.FormatInt(noteID, 10)
}

func parseHits(sr *db.SearchResult) ([]Hit, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		noteID, err := strconv.ParseInt(entry.Fields["note_id"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("entry %s note_id: %w", entry.Key, err)
		}
		playerID, err := strconv.ParseInt(entry.Fields["player_id"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("entry %s player_id: %w", entry.Key, err)
		}

		var tags []string
		if entry.Fields["tags_list"] != "" {
			tags = strings.Split(entry.Fields["tags_list"], tagListSep)
		}

		hits = append(hits, Hit{
			NoteID:     noteID,
			PlayerID:   playerID,
			PlayerName: entry.Fields["player_name"],
			Title:      entry.Fields["title"],
			Content:    entry.Fields["content"],
			Tags:       tags,
			GameDate:   entry.Fields["game_date"],
			Score:      entry.Score,
		})
	}
	return hits, nil
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
