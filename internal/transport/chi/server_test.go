package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/answer"
	domasst "github.com/kailas-cloud/scoutnotes/internal/domain/assistant"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
	assistantuc "github.com/kailas-cloud/scoutnotes/internal/usecase/assistant"
	generationuc "github.com/kailas-cloud/scoutnotes/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/scoutnotes/internal/usecase/health"
	notesuc "github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
	seeduc "github.com/kailas-cloud/scoutnotes/internal/usecase/seed"
)

func TestRetrieve_ReturnsRoundedScores(t *testing.T) {
	var gotReq domret.Request
	h := newTestServer(&deps{
		retriever: &mockRetriever{fn: func(_ context.Context, req domret.Request) (domret.Result, error) {
			gotReq = req
			return domret.Result{Snippets: []domret.Snippet{
				domret.NewSnippet(3, 1, "Stephen Curry", "Shooting form", "Exceptional...",
					0.87654, 0.5, 0.9999, "2024-01-15", []string{"shooting"}),
			}}, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/retrieve", `{"query":"three point shooting","top_k":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotReq.Query() != "three point shooting" || gotReq.TopK() != 3 {
		t.Errorf("request not forwarded: query=%q top_k=%d", gotReq.Query(), gotReq.TopK())
	}

	var resp struct {
		Query        string `json:"query"`
		TotalResults int    `json:"total_results"`
		Results      []struct {
			NoteID         int64    `json:"note_id"`
			PlayerName     string   `json:"player_name"`
			RelevanceScore float64  `json:"relevance_score"`
			SemanticScore  float64  `json:"semantic_score"`
			Tags           []string `json:"tags"`
		} `json:"results"`
		Degraded []string `json:"degraded"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalResults != 1 || len(resp.Results) != 1 {
		t.Fatalf("total_results = %d, results = %d", resp.TotalResults, len(resp.Results))
	}
	if resp.Results[0].RelevanceScore != 0.877 {
		t.Errorf("relevance_score = %v, want 0.877", resp.Results[0].RelevanceScore)
	}
	if resp.Results[0].SemanticScore != 1 {
		t.Errorf("semantic_score = %v, want 1", resp.Results[0].SemanticScore)
	}
	if resp.Degraded != nil {
		t.Errorf("degraded should be omitted, got %v", resp.Degraded)
	}
}

func TestRetrieve_ValidationRejectedBeforeService(t *testing.T) {
	called := false
	h := newTestServer(&deps{
		retriever: &mockRetriever{fn: func(context.Context, domret.Request) (domret.Result, error) {
			called = true
			return domret.Result{}, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/retrieve", `{"query":"curry","top_k":99}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if called {
		t.Error("retriever should not be called on invalid input")
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "validation_failed" {
		t.Errorf("code = %q, want validation_failed", resp.Code)
	}
}

func TestRetrieve_DegradedPhasesExposed(t *testing.T) {
	h := newTestServer(&deps{
		retriever: &mockRetriever{fn: func(context.Context, domret.Request) (domret.Result, error) {
			return domret.Result{Degraded: []domret.Phase{domret.PhaseSemantic}}, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/retrieve", `{"query":"curry"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"degraded":["semantic"]`) {
		t.Errorf("body missing degraded marker: %s", rec.Body.String())
	}
}

func TestRetrieve_BothPhasesDownIs503(t *testing.T) {
	h := newTestServer(&deps{
		retriever: &mockRetriever{fn: func(context.Context, domret.Request) (domret.Result, error) {
			return domret.Result{}, fmt.Errorf("lexical and semantic failed: %w", domain.ErrRetrievalUnavailable)
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/retrieve", `{"query":"curry"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGenerate_IncludesRetrievalByDefault(t *testing.T) {
	result := generationuc.Result{
		Answer: answer.Answer{
			Text: "Curry excels at shooting [1].",
			Citations: []answer.Citation{
				{NoteID: 3, PlayerName: "Stephen Curry", Title: "Shooting form", Excerpt: "Exceptional...", ReferenceNumber: 1},
			},
			HasSufficientInformation: true,
			Confidence:               answer.ConfidenceMedium,
		},
		Snippets: []domret.Snippet{
			domret.NewSnippet(3, 1, "Stephen Curry", "Shooting form", "Exceptional...",
				0.9, 0.5, 0.8, "", nil),
		},
	}
	h := newTestServer(&deps{
		generator: &mockGenerator{fn: func(context.Context, domret.Request) (generationuc.Result, error) {
			return result, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/generate", `{"query":"how does curry shoot?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Answer != "Curry excels at shooting [1]." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Confidence != "medium" || !resp.HasSufficientInformation {
		t.Errorf("confidence = %q, sufficient = %v", resp.Confidence, resp.HasSufficientInformation)
	}
	if len(resp.Citations) != 1 || resp.Citations[0].ReferenceNumber != 1 {
		t.Fatalf("citations = %+v", resp.Citations)
	}
	if len(resp.RetrievedNotes) != 1 {
		t.Errorf("retrieved_notes should be included by default, got %d", len(resp.RetrievedNotes))
	}
}

func TestGenerate_RetrievalExcludedWhenAskedTo(t *testing.T) {
	h := newTestServer(&deps{
		generator: &mockGenerator{fn: func(context.Context, domret.Request) (generationuc.Result, error) {
			return generationuc.Result{
				Answer: answer.Answer{Text: "ok", Confidence: answer.ConfidenceLow},
				Snippets: []domret.Snippet{
					domret.NewSnippet(3, 1, "Stephen Curry", "t", "e", 0.9, 0.5, 0.8, "", nil),
				},
			}, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/generate", `{"query":"q","include_retrieval":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "retrieved_notes") {
		t.Errorf("retrieved_notes should be omitted: %s", rec.Body.String())
	}
}

func TestPlayers_CreateAndGet(t *testing.T) {
	h := newTestServer(&deps{
		players: &mockPlayers{
			createFn: func(_ context.Context, name, team, position string) (player.Player, error) {
				return testPlayer(1, name, team, position), nil
			},
			getFn: func(_ context.Context, id int64) (player.Player, error) {
				if id != 1 {
					return player.Player{}, domain.ErrPlayerNotFound
				}
				return testPlayer(1, "Stephen Curry", "Golden State Warriors", "PG"), nil
			},
		},
	})

	rec := doRequest(h, http.MethodPost, "/api/players",
		`{"name":"Stephen Curry","team":"Golden State Warriors","position":"PG"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created playerDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 || created.Name != "Stephen Curry" {
		t.Errorf("created = %+v", created)
	}

	rec = doRequest(h, http.MethodGet, "/api/players/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/api/players/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing player status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "player_not_found" {
		t.Errorf("code = %q, want player_not_found", resp.Code)
	}
}

func TestPlayers_DeleteReturnsNoContent(t *testing.T) {
	var deleted int64
	h := newTestServer(&deps{
		players: &mockPlayers{deleteFn: func(_ context.Context, id int64) error {
			deleted = id
			return nil
		}},
	})

	rec := doRequest(h, http.MethodDelete, "/api/players/7", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if deleted != 7 {
		t.Errorf("deleted id = %d, want 7", deleted)
	}
}

func TestPlayers_InvalidIDRejected(t *testing.T) {
	h := newTestServer(&deps{})

	rec := doRequest(h, http.MethodGet, "/api/players/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNotes_CreateValidationError(t *testing.T) {
	h := newTestServer(&deps{
		notes: &mockNotes{createFn: func(context.Context, notesuc.CreateInput) (note.Indexed, error) {
			return note.Indexed{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/notes", `{"player_id":1,"content":"no title"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "validation_failed") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestNotes_ListFiltersByPlayer(t *testing.T) {
	var gotPlayerID int64 = -1
	h := newTestServer(&deps{
		notes: &mockNotes{listFn: func(_ context.Context, playerID int64) ([]note.Indexed, error) {
			gotPlayerID = playerID
			return []note.Indexed{testNote(3, playerID, "Shooting form", "Exceptional shooter", note.StatusIndexed)}, nil
		}},
	})

	rec := doRequest(h, http.MethodGet, "/api/notes?player_id=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotPlayerID != 2 {
		t.Errorf("player_id = %d, want 2", gotPlayerID)
	}
	if !strings.Contains(rec.Body.String(), `"index_status":"indexed"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestNotes_ReindexReportsStatus(t *testing.T) {
	h := newTestServer(&deps{
		notes: &mockNotes{reindexFn: func(_ context.Context, id int64) (note.Indexed, error) {
			return testNote(id, 1, "Shooting form", "Exceptional shooter", note.StatusEmbeddingFailed), nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/notes/3/reindex", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"index_status":"embedding_failed"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSeed_ReportsCounts(t *testing.T) {
	h := newTestServer(&deps{
		seeder: &mockSeeder{fn: func(context.Context) (seeduc.Report, error) {
			return seeduc.Report{Message: "Database seeded successfully", PlayersCreated: 3, NotesCreated: 3}, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/seed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"players_created":3`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHealth_UnhealthyIs503(t *testing.T) {
	h := newTestServer(&deps{
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Unhealthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
		}},
	})

	rec := doRequest(h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"database":"error"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHealth_DegradedStillIs503(t *testing.T) {
	h := newTestServer(&deps{
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{"search_index": healthuc.CheckError},
		}},
	})

	rec := doRequest(h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealth_HealthyIs200(t *testing.T) {
	h := newTestServer(&deps{})

	rec := doRequest(h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestChat_StreamsEventsAsSSE(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	h := newTestServer(&deps{
		assistant: &mockAssistant{chatFn: func(_ context.Context, conversationID int64, userMessage string, emit assistantuc.Emit) (*domasst.Run, error) {
			if conversationID != 5 || userMessage != "who shoots best?" {
				t.Errorf("chat args: conv=%d msg=%q", conversationID, userMessage)
			}
			emit(domasst.Event{Type: domasst.EventRunStarted, RunID: 9, ConversationID: 5})
			emit(domasst.Event{Type: domasst.EventFinalResponse, RunID: 9, Response: "Stephen Curry."})
			return &domasst.Run{ID: 9, ConversationID: 5, Status: domasst.StatusCompleted, CreatedAt: now}, nil
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/assistant/chat", `{"conversation_id":5,"message":"who shoots best?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	events := parseSSE(t, rec.Body.String())
	want := []string{"run_started", "final_response", "done"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %s", len(events), len(want), rec.Body.String())
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event[%d].type = %q, want %q", i, e.Type, want[i])
		}
	}
	if events[1].Response != "Stephen Curry." {
		t.Errorf("final response = %q", events[1].Response)
	}
}

func TestChat_MidStreamFailureEmitsErrorEvent(t *testing.T) {
	h := newTestServer(&deps{
		assistant: &mockAssistant{chatFn: func(_ context.Context, _ int64, _ string, emit assistantuc.Emit) (*domasst.Run, error) {
			emit(domasst.Event{Type: domasst.EventRunStarted, RunID: 9})
			return nil, fmt.Errorf("save run: %w", domain.ErrChatProviderError)
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/assistant/chat", `{"message":"hi"}`)
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want SSE once streaming started", ct)
	}

	events := parseSSE(t, rec.Body.String())
	if len(events) != 3 {
		t.Fatalf("got %d events: %s", len(events), rec.Body.String())
	}
	if events[1].Type != "error" || events[1].Error == "" {
		t.Errorf("event[1] = %+v, want error event", events[1])
	}
	if events[2].Type != "done" {
		t.Errorf("event[2].type = %q, want done", events[2].Type)
	}
}

func TestChat_PreRunFailureIsPlainJSON(t *testing.T) {
	h := newTestServer(&deps{
		assistant: &mockAssistant{chatFn: func(context.Context, int64, string, assistantuc.Emit) (*domasst.Run, error) {
			return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
		}},
	})

	rec := doRequest(h, http.MethodPost, "/api/assistant/chat", `{"message":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want plain JSON before any event", ct)
	}
}

func TestConversations_CreateListGet(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	conv := domasst.Conversation{ID: 5, Title: "who shoots best?", RunIDs: []int64{9}, CreatedAt: now, UpdatedAt: now}
	h := newTestServer(&deps{
		assistant: &mockAssistant{
			createFn: func(context.Context) (*domasst.Conversation, error) {
				c := domasst.Conversation{ID: 6, CreatedAt: now, UpdatedAt: now}
				return &c, nil
			},
			listFn: func(context.Context) ([]domasst.Conversation, error) { return nil, nil },
			getConvFn: func(_ context.Context, id int64) (*domasst.Conversation, []domasst.Run, error) {
				if id != 5 {
					return nil, nil, domain.ErrConversationNotFound
				}
				return &conv, []domasst.Run{{ID: 9, ConversationID: 5, Status: domasst.StatusCompleted}}, nil
			},
		},
	})

	rec := doRequest(h, http.MethodPost, "/api/assistant/conversations", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/api/assistant/conversations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty list body = %s, want []", rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/api/assistant/conversations/5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"runs":[`) {
		t.Errorf("body missing runs: %s", rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/api/assistant/conversations/404", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing conversation status = %d", rec.Code)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	h := newTestServer(&deps{
		assistant: &mockAssistant{getRunFn: func(context.Context, int64) (*domasst.Run, error) {
			return nil, domain.ErrNotFound
		}},
	})

	rec := doRequest(h, http.MethodGet, "/api/assistant/runs/123", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func parseSSE(t *testing.T, body string) []domasst.Event {
	t.Helper()
	var events []domasst.Event
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var e domasst.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &e); err != nil {
			t.Fatalf("bad SSE payload %q: %v", line, err)
		}
		events = append(events, e)
	}
	return events
}
