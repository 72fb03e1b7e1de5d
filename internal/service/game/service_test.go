package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/connect4-solo/backend/internal/domain"
	"github.com/iamasit07/connect4-solo/backend/internal/service/bot"
)

// columnEngine always answers with the same column while it has room.
type columnEngine struct {
	column int
}

func (e columnEngine) Choose(_ context.Context, board domain.Board, _ domain.Difficulty) (int, error) {
	if _, ok := board.DropRow(e.column); ok {
		return e.column, nil
	}
	legal := board.LegalMoves()
	if len(legal) == 0 {
		return -1, domain.ErrNoMoves
	}
	return legal[0], nil
}

type memoryRepo struct {
	mu      sync.Mutex
	records []domain.GameRecord
}

func (r *memoryRepo) SaveGame(_ context.Context, rec domain.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []domain.ServerMessage
}

func (n *recordingNotifier) Broadcast(_ string, msg domain.ServerMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

// renamingNotifier also follows games across restarts.
type renamingNotifier struct {
	recordingNotifier
	renames [][2]string
}

func (n *renamingNotifier) Rename(oldID, newID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.renames = append(n.renames, [2]string{oldID, newID})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.messages))
	for _, m := range n.messages {
		out = append(out, m.Type)
	}
	return out
}

type recordingEvents struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEvents) Emit(event string, _ map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func newTestManager(column int) (*SessionManager, *memoryRepo, *recordingNotifier, *recordingEvents) {
	repo := &memoryRepo{}
	events := &recordingEvents{}
	notifier := &recordingNotifier{}
	sm := NewSessionManager(columnEngine{column: column}, repo, events)
	sm.SetNotifier(notifier)
	return sm, repo, notifier, events
}

func TestCreateSessionHumanFirst(t *testing.T) {
	sm, _, notifier, events := newTestManager(0)

	s, err := sm.CreateSession(context.Background(), domain.DifficultyMedium, false)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	snap := s.Snapshot()
	if snap.Status != domain.StatusActive || snap.CurrentTurn != domain.HumanPlayer {
		t.Fatalf("unexpected state %+v", snap)
	}
	if snap.MoveCount != 0 || snap.Opponent != "Bob" {
		t.Fatalf("moveCount=%d opponent=%q", snap.MoveCount, snap.Opponent)
	}
	if got := notifier.types(); len(got) != 1 || got[0] != "game_state" {
		t.Fatalf("notifications = %v", got)
	}
	if len(events.events) != 1 || events.events[0] != "game.start" {
		t.Fatalf("events = %v", events.events)
	}
	if got, err := sm.GetSession(s.GameID); err != nil || got != s {
		t.Fatalf("GetSession = %v, %v", got, err)
	}
}

func TestCreateSessionBotFirst(t *testing.T) {
	sm, _, _, _ := newTestManager(3)

	s, err := sm.CreateSession(context.Background(), domain.DifficultyEasy, true)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	snap := s.Snapshot()
	if snap.MoveCount != 1 || snap.CurrentTurn != domain.HumanPlayer {
		t.Fatalf("bot should have opened: %+v", snap)
	}
	if snap.Board[domain.Rows-1][3] != int(domain.BotPlayer) {
		t.Fatalf("bot disc missing from column 3: %v", snap.Board)
	}
}

func TestCreateSessionRejectsUnknownDifficulty(t *testing.T) {
	sm, _, _, _ := newTestManager(0)
	if _, err := sm.CreateSession(context.Background(), "impossible", false); !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("err = %v", err)
	}
	if len(sm.Session) != 0 {
		t.Fatalf("no session should be stored")
	}
}

func TestGetSessionMissing(t *testing.T) {
	sm, _, _, _ := newTestManager(0)
	if _, err := sm.GetSession("nope"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestHandleMovePlaysBotReply(t *testing.T) {
	sm, _, notifier, _ := newTestManager(6)
	s, _ := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)

	res, err := s.HandleMove(context.Background(), 2)
	if err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	if res.HumanMove.Column != 2 || res.HumanMove.Row != domain.Rows-1 {
		t.Fatalf("human move = %+v", res.HumanMove)
	}
	if res.BotMove == nil || res.BotMove.Column != 6 || res.BotMove.Player != domain.BotPlayer {
		t.Fatalf("bot move = %+v", res.BotMove)
	}
	if res.Game.MoveCount != 2 || res.Game.CurrentTurn != domain.HumanPlayer {
		t.Fatalf("snapshot = %+v", res.Game)
	}
	got := notifier.types()
	want := []string{"game_state", "move_made", "move_made"}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", got, want)
		}
	}
}

func TestHandleMoveInvalidColumnLeavesGame(t *testing.T) {
	sm, _, _, _ := newTestManager(0)
	s, _ := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)

	if _, err := s.HandleMove(context.Background(), domain.Columns); !errors.Is(err, domain.ErrInvalidColumn) {
		t.Fatalf("err = %v", err)
	}
	if snap := s.Snapshot(); snap.MoveCount != 0 || snap.CurrentTurn != domain.HumanPlayer {
		t.Fatalf("game changed after rejected move: %+v", snap)
	}
}

func TestHumanWinIsArchived(t *testing.T) {
	sm, repo, notifier, events := newTestManager(0)
	s, _ := sm.CreateSession(context.Background(), domain.DifficultyHard, false)

	var res TurnResult
	var err error
	for i := 0; i < 4; i++ {
		res, err = s.HandleMove(context.Background(), 3)
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
	}
	if res.BotMove != nil {
		t.Fatalf("bot must not reply after the winning move")
	}
	if res.Game.Status != domain.StatusWon || res.Game.Result != domain.ResultWin {
		t.Fatalf("snapshot = %+v", res.Game)
	}
	if res.Game.WinningLine == nil || res.Game.WinningLine[0].Col != 3 {
		t.Fatalf("winning line = %v", res.Game.WinningLine)
	}
	if len(res.Game.LegalMoves) != 0 {
		t.Fatalf("finished game still lists moves: %v", res.Game.LegalMoves)
	}

	if _, err := s.HandleMove(context.Background(), 1); !errors.Is(err, domain.ErrGameFinished) {
		t.Fatalf("move after end: err = %v", err)
	}

	sm.Drain()
	if len(repo.records) != 1 {
		t.Fatalf("archived %d games", len(repo.records))
	}
	rec := repo.records[0]
	if rec.GameID != s.GameID || rec.Result != domain.ResultWin || rec.Reason != ReasonConnectFour || rec.TotalMoves != 7 {
		t.Fatalf("record = %+v", rec)
	}

	types := notifier.types()
	if types[len(types)-1] != "game_over" {
		t.Fatalf("last notification = %s", types[len(types)-1])
	}
	if events.events[len(events.events)-1] != "game.end" {
		t.Fatalf("last event = %s", events.events[len(events.events)-1])
	}
}

func TestBotWinIsLoss(t *testing.T) {
	sm, repo, _, _ := newTestManager(6)
	s, _ := sm.CreateSession(context.Background(), domain.DifficultyMedium, false)

	var res TurnResult
	for _, col := range []int{0, 1, 0, 1} {
		var err error
		res, err = s.HandleMove(context.Background(), col)
		if err != nil {
			t.Fatalf("HandleMove(%d): %v", col, err)
		}
	}
	if res.Game.Status != domain.StatusWon || res.Game.Result != domain.ResultLoss {
		t.Fatalf("snapshot = %+v", res.Game)
	}
	sm.Drain()
	if len(repo.records) != 1 || repo.records[0].Winner != domain.BotPlayer {
		t.Fatalf("records = %+v", repo.records)
	}
}

func TestRestartKeepsDifficulty(t *testing.T) {
	sm, _, _, _ := newTestManager(0)
	old, _ := sm.CreateSession(context.Background(), domain.DifficultyHard, false)
	if _, err := old.HandleMove(context.Background(), 3); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}

	fresh, err := sm.Restart(context.Background(), old.GameID, false)
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if fresh.GameID == old.GameID {
		t.Fatalf("restart reused the game id")
	}
	if fresh.Difficulty != domain.DifficultyHard || fresh.Snapshot().MoveCount != 0 {
		t.Fatalf("fresh game = %+v", fresh.Snapshot())
	}
	if _, err := sm.GetSession(old.GameID); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("old game still present: %v", err)
	}
	if _, err := sm.Restart(context.Background(), "missing", false); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("restart of unknown game: %v", err)
	}
}

func TestRestartMovesWatchers(t *testing.T) {
	sm := NewSessionManager(columnEngine{column: 0}, nil, nil)
	notifier := &renamingNotifier{}
	sm.SetNotifier(notifier)

	old, _ := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)
	notifier.mu.Lock()
	notifier.messages = nil
	notifier.mu.Unlock()

	fresh, err := sm.Restart(context.Background(), old.GameID, true)
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if len(notifier.renames) != 1 || notifier.renames[0] != [2]string{old.GameID, fresh.GameID} {
		t.Fatalf("renames = %v", notifier.renames)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	last := notifier.messages[len(notifier.messages)-1]
	if last.Type != "game_state" || last.GameID != fresh.GameID {
		t.Fatalf("last message = %+v, want the new game's state", last)
	}
	// sent after the rename, so it already carries the computer's opening
	if last.Board[domain.Rows-1][0] != int(domain.BotPlayer) {
		t.Fatalf("state board = %v", last.Board)
	}
}

func TestActiveGamesAndCleanup(t *testing.T) {
	sm, _, _, _ := newTestManager(0)
	ctx := context.Background()

	active, _ := sm.CreateSession(ctx, domain.DifficultyEasy, false)
	idle, _ := sm.CreateSession(ctx, domain.DifficultyEasy, false)
	done, _ := sm.CreateSession(ctx, domain.DifficultyEasy, false)
	for i := 0; i < 4; i++ {
		if _, err := done.HandleMove(ctx, 3); err != nil {
			t.Fatalf("HandleMove: %v", err)
		}
	}

	if got := sm.ActiveGames(); len(got) != 2 {
		t.Fatalf("ActiveGames = %d, want 2", len(got))
	}

	idle.mu.Lock()
	idle.LastActivity = time.Now().Add(-2 * time.Hour)
	idle.mu.Unlock()
	done.mu.Lock()
	done.FinishedAt = time.Now().Add(-time.Hour)
	done.mu.Unlock()

	if n := sm.CleanupOldSessions(time.Hour, 10*time.Minute); n != 2 {
		t.Fatalf("removed %d sessions, want 2", n)
	}
	if _, err := sm.GetSession(active.GameID); err != nil {
		t.Fatalf("active session was removed")
	}
	sm.Drain()
}

func TestCleanupSkipsBusySessions(t *testing.T) {
	sm, _, _, _ := newTestManager(0)
	busy, _ := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)
	busy.mu.Lock()
	busy.LastActivity = time.Now().Add(-2 * time.Hour)

	done := make(chan int, 1)
	go func() { done <- sm.CleanupOldSessions(time.Hour, time.Hour) }()

	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("removed %d sessions while one was mid-move", n)
		}
	case <-time.After(2 * time.Second):
		busy.mu.Unlock()
		t.Fatalf("cleanup blocked on a busy session")
	}
	if _, err := sm.CreateSession(context.Background(), domain.DifficultyEasy, false); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	busy.mu.Unlock()

	if n := sm.CleanupOldSessions(time.Hour, time.Hour); n != 1 {
		t.Fatalf("removed %d sessions, want 1", n)
	}
}

func TestBotDelayHonoursContext(t *testing.T) {
	sm, _, _, _ := newTestManager(0)
	sm.BotMoveDelay = time.Hour
	s, _ := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.HandleMove(ctx, 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	// the human move is kept and reported
	if res.HumanMove.Column != 3 || res.BotMove != nil {
		t.Fatalf("partial result = %+v", res)
	}
	if res.Game.MoveCount != 1 || res.Game.CurrentTurn != domain.BotPlayer {
		t.Fatalf("snapshot = %+v", res.Game)
	}
}

func TestHardEngineIntegration(t *testing.T) {
	sm := NewSessionManager(bot.NewEngine(7, nil, 0), nil, nil)
	s, err := sm.CreateSession(context.Background(), domain.DifficultyHard, true)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	// the hard strategy always opens in the center
	if got := s.Snapshot().Moves[0]; got.Column != domain.CenterColumn {
		t.Fatalf("opening = %+v", got)
	}
}

func TestInterruptedReplyResumes(t *testing.T) {
	sm, _, _, _ := newTestManager(0)
	sm.BotMoveDelay = time.Hour
	s, _ := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.HandleMove(ctx, 3); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}

	sm.BotMoveDelay = 0
	res, err := s.HandleMove(context.Background(), 4)
	if err != nil {
		t.Fatalf("HandleMove after interruption: %v", err)
	}
	if res.Game.MoveCount != 4 {
		t.Fatalf("moveCount = %d, want 4", res.Game.MoveCount)
	}
}
