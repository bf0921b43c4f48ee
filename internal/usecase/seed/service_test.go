package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	"github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
)

type mockPlayers struct {
	existing  []player.Player
	created   []string
	createErr error
}

func (m *mockPlayers) List(context.Context) ([]player.Player, error) {
	return m.existing, nil
}

func (m *mockPlayers) Create(_ context.Context, name, team, position string) (player.Player, error) {
	if m.createErr != nil {
		return player.Player{}, m.createErr
	}
	m.created = append(m.created, name)
	return player.Reconstruct(int64(len(m.created)), name, team, position, time.Now(), time.Now()), nil
}

type mockNotes struct {
	created []notes.CreateInput
}

func (m *mockNotes) Create(_ context.Context, in notes.CreateInput) (note.Indexed, error) {
	m.created = append(m.created, in)
	n, err := note.New(int64(len(m.created)), in.PlayerID, in.Title, in.Content, in.Tags, in.GameDate, in.IsImportant, time.Now())
	if err != nil {
		return note.Indexed{}, err
	}
	return note.Indexed{Note: n, Status: note.StatusIndexed}, nil
}

func TestRun_SeedsEmptyStore(t *testing.T) {
	players := &mockPlayers{}
	noteSvc := &mockNotes{}
	svc := New(players, noteSvc, zap.NewNop())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.PlayersCreated != 3 {
		t.Errorf("players created = %d, want 3", report.PlayersCreated)
	}
	if report.NotesCreated != 3 {
		t.Errorf("notes created = %d, want 3", report.NotesCreated)
	}
	if players.created[0] != "Stephen Curry" {
		t.Errorf("first player = %q", players.created[0])
	}

	// Notes reference the players created in the same pass.
	first := noteSvc.created[0]
	if first.PlayerID != 1 || first.Title != "Exceptional 3-point shooting" {
		t.Errorf("unexpected first note %+v", first)
	}
	if !first.IsImportant {
		t.Error("first note should be important")
	}
	last := noteSvc.created[2]
	if last.PlayerID != 2 {
		t.Errorf("last note player = %d, want 2", last.PlayerID)
	}
}

func TestRun_SkipsPopulatedStore(t *testing.T) {
	players := &mockPlayers{existing: []player.Player{
		player.Reconstruct(1, "Stephen Curry", "Golden State Warriors", "Point Guard", time.Now(), time.Now()),
	}}
	noteSvc := &mockNotes{}
	svc := New(players, noteSvc, zap.NewNop())

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.PlayersCreated != 0 || report.NotesCreated != 0 {
		t.Errorf("expected no-op report, got %+v", report)
	}
	if len(players.created) != 0 || len(noteSvc.created) != 0 {
		t.Error("seeding should not have created anything")
	}
}

func TestRun_PlayerCreateError(t *testing.T) {
	players := &mockPlayers{createErr: errors.New("store down")}
	svc := New(players, &mockNotes{}, zap.NewNop())

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
