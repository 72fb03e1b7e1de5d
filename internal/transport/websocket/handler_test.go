package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
	"github.com/iamasit07/connect4-solo/backend/internal/service/game"
)

type firstLegal struct{}

func (firstLegal) Choose(_ context.Context, board domain.Board, _ domain.Difficulty) (int, error) {
	legal := board.LegalMoves()
	if len(legal) == 0 {
		return -1, domain.ErrNoMoves
	}
	return legal[0], nil
}

func newServer(t *testing.T) (*httptest.Server, *game.SessionManager, *ConnectionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sm := game.NewSessionManager(firstLegal{}, nil, nil)
	cm := NewConnectionManager()
	sm.SetNotifier(cm)

	r := gin.New()
	r.GET("/ws", NewHandler(cm, sm, nil).HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sm, cm
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?gameId=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) domain.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg domain.ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestUnknownGameIsRejected(t *testing.T) {
	srv, _, _ := newServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?gameId=missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("response = %v", resp)
	}
}

func TestMoveIsBroadcast(t *testing.T) {
	srv, sm, _ := newServer(t)
	session, err := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	conn := dial(t, srv, session.GameID)
	if msg := read(t, conn); msg.Type != "game_state" || msg.GameID != session.GameID {
		t.Fatalf("first message = %+v", msg)
	}

	if err := conn.WriteJSON(domain.ClientMessage{Type: "move", Column: 4}); err != nil {
		t.Fatalf("write: %v", err)
	}
	human := read(t, conn)
	if human.Type != "move_made" || human.Column == nil || *human.Column != 4 || human.Player != int(domain.HumanPlayer) {
		t.Fatalf("human move = %+v", human)
	}
	reply := read(t, conn)
	if reply.Type != "move_made" || reply.Column == nil || *reply.Column != 0 || reply.Player != int(domain.BotPlayer) {
		t.Fatalf("bot move = %+v", reply)
	}
}

func TestBadMovesReportErrors(t *testing.T) {
	srv, sm, _ := newServer(t)
	session, _ := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)
	conn := dial(t, srv, session.GameID)
	read(t, conn)

	conn.WriteJSON(domain.ClientMessage{Type: "move", Column: 42})
	if msg := read(t, conn); msg.Type != "error" || msg.Message != domain.ErrInvalidColumn.Error() {
		t.Fatalf("message = %+v", msg)
	}

	conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
	if msg := read(t, conn); msg.Type != "error" {
		t.Fatalf("message = %+v", msg)
	}

	conn.WriteJSON(domain.ClientMessage{Type: "ping"})
	if msg := read(t, conn); msg.Type != "pong" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestRestartFollowsWatchers(t *testing.T) {
	srv, sm, cm := newServer(t)
	session, _ := sm.CreateSession(context.Background(), domain.DifficultyHard, false)
	conn := dial(t, srv, session.GameID)
	read(t, conn)

	conn.WriteJSON(domain.ClientMessage{Type: "restart", BotFirst: true})
	msg := read(t, conn)
	if msg.Type != "game_state" || msg.GameID == session.GameID || msg.Difficulty != domain.DifficultyHard {
		t.Fatalf("message = %+v", msg)
	}
	if cm.WatcherCount(msg.GameID) != 1 || cm.WatcherCount(session.GameID) != 0 {
		t.Fatalf("watchers not moved to the new game")
	}
	// the computer opened in the new game
	if msg.Board[domain.Rows-1][0] != int(domain.BotPlayer) {
		t.Fatalf("board = %v", msg.Board)
	}
}

func TestOutsideRestartMovesSocket(t *testing.T) {
	srv, sm, cm := newServer(t)
	session, _ := sm.CreateSession(context.Background(), domain.DifficultyEasy, false)
	conn := dial(t, srv, session.GameID)
	read(t, conn)

	// the same call the HTTP restart route makes
	fresh, err := sm.Restart(context.Background(), session.GameID, false)
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if msg := read(t, conn); msg.Type != "game_state" || msg.GameID != fresh.GameID {
		t.Fatalf("message = %+v", msg)
	}
	if cm.WatcherCount(fresh.GameID) != 1 || cm.WatcherCount(session.GameID) != 0 {
		t.Fatalf("watchers not moved to the new game")
	}

	// moves sent on the old socket land in the new game
	conn.WriteJSON(domain.ClientMessage{Type: "move", Column: 5})
	human := read(t, conn)
	if human.Type != "move_made" || human.GameID != fresh.GameID || *human.Column != 5 {
		t.Fatalf("human move = %+v", human)
	}
	read(t, conn)
	if got := fresh.Snapshot().MoveCount; got != 2 {
		t.Fatalf("fresh game moveCount = %d, want 2", got)
	}
}
