package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

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

type mockRetriever struct {
	fn func(ctx context.Context, req domret.Request) (domret.Result, error)
}

func (m *mockRetriever) Retrieve(ctx context.Context, req domret.Request) (domret.Result, error) {
	return m.fn(ctx, req)
}

type mockGenerator struct {
	fn func(ctx context.Context, req domret.Request) (generationuc.Result, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req domret.Request) (generationuc.Result, error) {
	return m.fn(ctx, req)
}

type mockPlayers struct {
	createFn func(ctx context.Context, name, team, position string) (player.Player, error)
	getFn    func(ctx context.Context, id int64) (player.Player, error)
	listFn   func(ctx context.Context) ([]player.Player, error)
	updateFn func(ctx context.Context, id int64, name, team, position string) (player.Player, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockPlayers) Create(ctx context.Context, name, team, position string) (player.Player, error) {
	return m.createFn(ctx, name, team, position)
}

func (m *mockPlayers) Get(ctx context.Context, id int64) (player.Player, error) {
	return m.getFn(ctx, id)
}

func (m *mockPlayers) List(ctx context.Context) ([]player.Player, error) {
	return m.listFn(ctx)
}

func (m *mockPlayers) Update(ctx context.Context, id int64, name, team, position string) (player.Player, error) {
	return m.updateFn(ctx, id, name, team, position)
}

func (m *mockPlayers) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

type mockNotes struct {
	createFn  func(ctx context.Context, in notesuc.CreateInput) (note.Indexed, error)
	getFn     func(ctx context.Context, id int64) (note.Indexed, error)
	listFn    func(ctx context.Context, playerID int64) ([]note.Indexed, error)
	updateFn  func(ctx context.Context, id int64, u note.Update) (note.Indexed, error)
	deleteFn  func(ctx context.Context, id int64) error
	reindexFn func(ctx context.Context, id int64) (note.Indexed, error)
}

func (m *mockNotes) Create(ctx context.Context, in notesuc.CreateInput) (note.Indexed, error) {
	return m.createFn(ctx, in)
}

func (m *mockNotes) Get(ctx context.Context, id int64) (note.Indexed, error) {
	return m.getFn(ctx, id)
}

func (m *mockNotes) List(ctx context.Context, playerID int64) ([]note.Indexed, error) {
	return m.listFn(ctx, playerID)
}

func (m *mockNotes) Update(ctx context.Context, id int64, u note.Update) (note.Indexed, error) {
	return m.updateFn(ctx, id, u)
}

func (m *mockNotes) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockNotes) Reindex(ctx context.Context, id int64) (note.Indexed, error) {
	return m.reindexFn(ctx, id)
}

type mockAssistant struct {
	chatFn    func(ctx context.Context, conversationID int64, userMessage string, emit assistantuc.Emit) (*domasst.Run, error)
	createFn  func(ctx context.Context) (*domasst.Conversation, error)
	listFn    func(ctx context.Context) ([]domasst.Conversation, error)
	getConvFn func(ctx context.Context, id int64) (*domasst.Conversation, []domasst.Run, error)
	getRunFn  func(ctx context.Context, id int64) (*domasst.Run, error)
}

func (m *mockAssistant) Chat(ctx context.Context, conversationID int64, userMessage string, emit assistantuc.Emit) (*domasst.Run, error) {
	return m.chatFn(ctx, conversationID, userMessage, emit)
}

func (m *mockAssistant) CreateConversation(ctx context.Context) (*domasst.Conversation, error) {
	return m.createFn(ctx)
}

func (m *mockAssistant) ListConversations(ctx context.Context) ([]domasst.Conversation, error) {
	return m.listFn(ctx)
}

func (m *mockAssistant) GetConversation(ctx context.Context, id int64) (*domasst.Conversation, []domasst.Run, error) {
	return m.getConvFn(ctx, id)
}

func (m *mockAssistant) GetRun(ctx context.Context, id int64) (*domasst.Run, error) {
	return m.getRunFn(ctx, id)
}

type mockSeeder struct {
	fn func(ctx context.Context) (seeduc.Report, error)
}

func (m *mockSeeder) Run(ctx context.Context) (seeduc.Report, error) { return m.fn(ctx) }

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type deps struct {
	retriever *mockRetriever
	generator *mockGenerator
	players   *mockPlayers
	notes     *mockNotes
	assistant *mockAssistant
	seeder    *mockSeeder
	health    *mockHealth
}

func newTestServer(d *deps) http.Handler {
	if d.retriever == nil {
		d.retriever = &mockRetriever{}
	}
	if d.generator == nil {
		d.generator = &mockGenerator{}
	}
	if d.players == nil {
		d.players = &mockPlayers{}
	}
	if d.notes == nil {
		d.notes = &mockNotes{}
	}
	if d.assistant == nil {
		d.assistant = &mockAssistant{}
	}
	if d.seeder == nil {
		d.seeder = &mockSeeder{}
	}
	if d.health == nil {
		d.health = &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	}

	s := NewServer(d.retriever, d.generator, d.players, d.notes, d.assistant, d.seeder, d.health, zap.NewNop())
	r := chirouter.NewRouter()
	s.Routes(r)
	return r
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func testPlayer(id int64, name, team, position string) player.Player {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	return player.Reconstruct(id, name, team, position, now, now)
}

func testNote(id, playerID int64, title, content string, status note.IndexStatus) note.Indexed {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	n := note.Reconstruct(id, playerID, title, content, []string{"shooting"}, "2024-01-15", true, now, now)
	return note.Indexed{Note: n, Status: status}
}
