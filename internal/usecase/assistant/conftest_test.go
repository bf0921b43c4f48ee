package assistant

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	domasst "github.com/kailas-cloud/scoutnotes/internal/domain/assistant"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
	"github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
)

// memStore keeps conversations and runs in maps. Saves store value
// copies so tests observe what was actually persisted.
type memStore struct {
	convSeq       int64
	runSeq        int64
	conversations map[int64]domasst.Conversation
	runs          map[int64]domasst.Run
	saveRunErr    error
}

func newMemStore() *memStore {
	return &memStore{
		conversations: make(map[int64]domasst.Conversation),
		runs:          make(map[int64]domasst.Run),
	}
}

func (m *memStore) NextConversationID(context.Context) (int64, error) {
	m.convSeq++
	return m.convSeq, nil
}

func (m *memStore) NextRunID(context.Context) (int64, error) {
	m.runSeq++
	return m.runSeq, nil
}

func (m *memStore) SaveConversation(_ context.Context, c *domasst.Conversation) error {
	cp := *c
	cp.RunIDs = append([]int64(nil), c.RunIDs...)
	m.conversations[c.ID] = cp
	return nil
}

func (m *memStore) GetConversation(_ context.Context, id int64) (*domasst.Conversation, error) {
	c, ok := m.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	cp := c
	cp.RunIDs = append([]int64(nil), c.RunIDs...)
	return &cp, nil
}

func (m *memStore) ListConversations(_ context.Context) ([]domasst.Conversation, error) {
	out := make([]domasst.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) SaveRun(_ context.Context, run *domasst.Run) error {
	if m.saveRunErr != nil {
		return m.saveRunErr
	}
	cp := *run
	cp.Steps = append([]domasst.Step(nil), run.Steps...)
	m.runs[run.ID] = cp
	return nil
}

func (m *memStore) GetRun(_ context.Context, id int64) (*domasst.Run, error) {
	r, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := r
	cp.Steps = append([]domasst.Step(nil), r.Steps...)
	return &cp, nil
}

// scriptedCompleter replays canned model turns and records what it saw.
type scriptedCompleter struct {
	turns []domain.ChatMessage
	err   error
	calls [][]domain.ChatMessage
}

func (c *scriptedCompleter) CompleteWithTools(_ context.Context, messages []domain.ChatMessage, _ []domain.ToolSpec) (domain.ChatMessage, error) {
	c.calls = append(c.calls, append([]domain.ChatMessage(nil), messages...))
	if c.err != nil {
		return domain.ChatMessage{}, c.err
	}
	if len(c.turns) == 0 {
		return domain.ChatMessage{}, fmt.Errorf("scripted completer exhausted")
	}
	turn := c.turns[0]
	c.turns = c.turns[1:]
	return turn, nil
}

type mockPlayers struct {
	players []player.Player
	listErr error
}

func (m *mockPlayers) List(context.Context) ([]player.Player, error) {
	return m.players, m.listErr
}

func (m *mockPlayers) Get(_ context.Context, id int64) (player.Player, error) {
	for _, p := range m.players {
		if p.ID() == id {
			return p, nil
		}
	}
	return player.Player{}, domain.ErrPlayerNotFound
}

func (m *mockPlayers) Create(_ context.Context, name, team, position string) (player.Player, error) {
	p := player.Reconstruct(int64(len(m.players)+1), name, team, position, time.Now(), time.Now())
	m.players = append(m.players, p)
	return p, nil
}

type mockNotes struct {
	notes     []note.Indexed
	created   []notes.CreateInput
	createErr error
	updated   map[int64]note.Update
}

func (m *mockNotes) List(_ context.Context, playerID int64) ([]note.Indexed, error) {
	var out []note.Indexed
	for _, n := range m.notes {
		if playerID == 0 || n.Note.PlayerID() == playerID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotes) Create(_ context.Context, in notes.CreateInput) (note.Indexed, error) {
	if m.createErr != nil {
		return note.Indexed{}, m.createErr
	}
	m.created = append(m.created, in)
	n, err := note.New(int64(len(m.notes)+1), in.PlayerID, in.Title, in.Content, in.Tags, in.GameDate, in.IsImportant, time.Now())
	if err != nil {
		return note.Indexed{}, err
	}
	indexed := note.Indexed{Note: n, Status: note.StatusIndexed}
	m.notes = append(m.notes, indexed)
	return indexed, nil
}

func (m *mockNotes) Update(_ context.Context, id int64, u note.Update) (note.Indexed, error) {
	for _, n := range m.notes {
		if n.Note.ID() == id {
			applied, err := n.Note.Apply(u, time.Now())
			if err != nil {
				return note.Indexed{}, err
			}
			if m.updated == nil {
				m.updated = make(map[int64]note.Update)
			}
			m.updated[id] = u
			return note.Indexed{Note: applied, Status: note.StatusIndexed}, nil
		}
	}
	return note.Indexed{}, domain.ErrNoteNotFound
}

type mockRetriever struct {
	result  domret.Result
	err     error
	lastReq domret.Request
}

func (m *mockRetriever) Retrieve(_ context.Context, req domret.Request) (domret.Result, error) {
	m.lastReq = req
	if m.err != nil {
		return domret.Result{}, m.err
	}
	return m.result, nil
}

type fixture struct {
	svc       *Service
	store     *memStore
	completer *scriptedCompleter
	players   *mockPlayers
	notes     *mockNotes
	retriever *mockRetriever
}

func newFixture(turns ...domain.ChatMessage) *fixture {
	f := &fixture{
		store:     newMemStore(),
		completer: &scriptedCompleter{turns: turns},
		players:   &mockPlayers{},
		notes:     &mockNotes{},
		retriever: &mockRetriever{},
	}
	f.svc = New(f.store, f.completer, f.players, f.notes, f.retriever, 10, zap.NewNop())
	return f
}

// collectEvents returns an Emit that appends into the given slice.
func collectEvents(events *[]domasst.Event) Emit {
	return func(e domasst.Event) { *events = append(*events, e) }
}
