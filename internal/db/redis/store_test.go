package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/scoutnotes/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"exact", "exact", true},
		{"", "", true},
		{"notempty", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HSET", "note:1", "title", "Shooting clinic")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "note:1", map[string]string{"title": "Shooting clinic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "note:1", map[string]string{"f": "v"})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestHGetAll_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "note:1")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"title": mock.RedisString("Shooting clinic"),
		})))

	s := NewStoreForTest(c)
	m, err := s.HGetAll(context.Background(), "note:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["title"] != "Shooting clinic" {
		t.Errorf("title = %q, want Shooting clinic", m["title"])
	}
}

func TestHGetAllMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{"f": mock.RedisString("v1")})),
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{"f": mock.RedisString("v2")})),
		})

	s := NewStoreForTest(c)
	out, err := s.HGetAllMulti(context.Background(), []string{"note:1", "note:2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 maps, got %d", len(out))
	}
	if out[1]["f"] != "v2" {
		t.Errorf("out[1][f] = %q, want v2", out[1]["f"])
	}
}

func TestHGetAllMulti_Empty(t *testing.T) {
	s := &Store{}
	out, err := s.HGetAllMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Errorf("expected nil, got %v", out)
	}
}

func TestDel_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "note:1")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "note:1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExists_True(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXISTS", "player:1")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	ok, err := s.Exists(context.Background(), "player:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected true")
	}
}

func TestExists_False(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXISTS", "player:404")).
		Return(mock.Result(mock.RedisInt64(0)))

	s := NewStoreForTest(c)
	ok, err := s.Exists(context.Background(), "player:404")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected false")
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.Result(mock.RedisString("v")))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "v" {
		t.Errorf("data = %q, want v", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIncr_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", "seq:note")).
		Return(mock.Result(mock.RedisInt64(7)))

	s := NewStoreForTest(c)
	val, err := s.Incr(context.Background(), "seq:note")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 7 {
		t.Errorf("val = %d, want 7", val)
	}
}

// --- json.go tests ---

func TestJSONSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.SET", "conv:1", "$", `{"id":1}`)).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.JSONSet(context.Background(), "conv:1", "$", []byte(`{"id":1}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJSONGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "conv:404")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.JSONGet(context.Background(), "conv:404")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:     "noteidx:idx",
		Prefixes: []string{"noteidx:"},
		Fields: []db.IndexField{
			{Name: "player_id", Type: db.IndexFieldTag},
		},
	}
	if err := s.CreateIndex(context.Background(), idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "noteidx:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldTag}},
	}
	err := s.CreateIndex(context.Background(), idx)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "noteidx:idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	err := s.DropIndex(context.Background(), "noteidx:idx")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists_True(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "noteidx:idx")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("noteidx:idx"))))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "noteidx:idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}
}

func TestIndexExists_False(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "noteidx:idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "noteidx:idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

func TestBuildFieldArgs_TextWeight(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{Name: "title", Type: db.IndexFieldText, TextWeight: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hasWeight := false
	for i, a := range args {
		if a == "WEIGHT" && i+1 < len(args) && args[i+1] == "3" {
			hasWeight = true
			break
		}
	}
	if !hasWeight {
		t.Errorf("expected WEIGHT 3 in args %v", args)
	}
}

func TestBuildFieldArgs_TextDefaultWeight(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{Name: "content", Type: db.IndexFieldText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range args {
		if a == "WEIGHT" {
			t.Errorf("unexpected WEIGHT in args %v", args)
		}
	}
}

func TestBuildFieldArgs_Errors(t *testing.T) {
	_, err := buildFieldArgs(&db.IndexField{Name: "", Type: db.IndexFieldTag})
	if err == nil {
		t.Error("expected error for empty field name")
	}

	_, err = buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldType(99)})
	if err == nil {
		t.Error("expected error for unknown type")
	}

	_, err = buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldVector, VectorDim: 0})
	if err == nil {
		t.Error("expected error for zero vector dim")
	}
}

// --- search.go tests ---

func TestSearchKNN_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1), // total
			mock.RedisString("noteidx:1"),
			mock.RedisArray(
				mock.RedisString("__embedding_score"),
				mock.RedisString("0.1"), // distance 0.1 -> similarity 0.9
				mock.RedisString("note_id"),
				mock.RedisString("1"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "noteidx:idx",
		Vector:    []float32{0.1, 0.2},
		K:         20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	if result.Entries[0].Key != "noteidx:1" {
		t.Errorf("expected key noteidx:1, got %s", result.Entries[0].Key)
	}
	if result.Entries[0].Score < 0.89 || result.Entries[0].Score > 0.91 {
		t.Errorf("expected score ~0.9, got %f", result.Entries[0].Score)
	}
}

func TestSearchKNN_ClampsNegativeSimilarity(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("noteidx:2"),
			mock.RedisArray(
				mock.RedisString("__embedding_score"),
				mock.RedisString("1.8"), // distance > 1 -> similarity clamped to 0
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "noteidx:idx",
		Vector:    []float32{0.1},
		K:         20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Entries[0].Score != 0 {
		t.Errorf("expected clamped score 0, got %f", result.Entries[0].Score)
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "noteidx:idx",
		Vector:    []float32{0.1},
		K:         20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(result.Entries))
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchKNN(ctx, &db.KNNQuery{Vector: []float32{0.1}, K: 10})
	if err == nil {
		t.Error("expected error for empty index name")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", K: 10})
	if err == nil {
		t.Error("expected error for empty vector")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", Vector: []float32{0.1}, K: 0})
	if err == nil {
		t.Error("expected error for k=0")
	}
}

func TestSearchBM25_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("noteidx:1"),
			mock.RedisString("4.25"),
			mock.RedisArray(
				mock.RedisString("note_id"),
				mock.RedisString("1"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.SearchBM25(context.Background(), &db.TextQuery{
		IndexName: "noteidx:idx",
		Query:     "shooting",
		Limit:     50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	if result.Entries[0].Score < 4.24 || result.Entries[0].Score > 4.26 {
		t.Errorf("expected raw score ~4.25, got %f", result.Entries[0].Score)
	}
}

func TestSearchBM25_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchBM25(ctx, &db.TextQuery{Query: "test", Limit: 10})
	if err == nil {
		t.Error("expected error for empty index name")
	}

	_, err = s.SearchBM25(ctx, &db.TextQuery{IndexName: "idx", Limit: 10})
	if err == nil {
		t.Error("expected error for empty query")
	}

	_, err = s.SearchBM25(ctx, &db.TextQuery{IndexName: "idx", Query: "test", Limit: 0})
	if err == nil {
		t.Error("expected error for limit=0")
	}
}

// --- Filter building tests ---

func TestBuildTagFilters_Empty(t *testing.T) {
	if result := buildTagFilters(nil); result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestBuildTagFilters_Single(t *testing.T) {
	result := buildTagFilters([]db.TagFilter{{Field: "player_id", Value: "5"}})
	if result != `@player_id:{5}` {
		t.Errorf("unexpected filter: %q", result)
	}
}

func TestBuildTagFilters_MultipleAND(t *testing.T) {
	result := buildTagFilters([]db.TagFilter{
		{Field: "player_id", Value: "5"},
		{Field: "team", Value: "Golden State Warriors"},
	})
	want := `@player_id:{5} @team:{Golden\ State\ Warriors}`
	if result != want {
		t.Errorf("filter = %q, want %q", result, want)
	}
}

func TestEscapeQuery(t *testing.T) {
	input := `hello "world" @user {tag}`
	escaped := escapeQuery(input)
	expected := `hello \"world\" \@user \{tag\}`
	if escaped != expected {
		t.Errorf("expected %q, got %q", expected, escaped)
	}
}

func TestVectorToBytes(t *testing.T) {
	v := []float32{1.0, 2.0}
	b := vectorToBytes(v)
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
