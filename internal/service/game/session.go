package game

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connect4-solo/backend/internal/analytics"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

const (
	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
)

type GameSession struct {
	GameID       string
	Difficulty   domain.Difficulty
	BotFirst     bool
	Game         *domain.Game
	Reason       string
	CreatedAt    time.Time
	LastActivity time.Time
	FinishedAt   time.Time
	mu           sync.Mutex
	manager      *SessionManager
}

// Snapshot is a copy of a session's state, safe to hand to other goroutines.
type Snapshot struct {
	GameID      string            `json:"gameId"`
	Difficulty  domain.Difficulty `json:"difficulty"`
	Opponent    string            `json:"opponent"`
	BotFirst    bool              `json:"botFirst"`
	Status      domain.GameStatus `json:"status"`
	CurrentTurn domain.PlayerID   `json:"currentTurn"`
	Result      string            `json:"result,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	WinningLine *domain.WinLine   `json:"winningLine,omitempty"`
	Board       [][]int           `json:"board"`
	LegalMoves  []int             `json:"legalMoves"`
	Moves       []domain.Move     `json:"moves"`
	MoveCount   int               `json:"moveCount"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// TurnResult is what one human move produced: the move itself, the computer's
// reply if the game was still running, and the resulting state.
type TurnResult struct {
	HumanMove domain.Move  `json:"humanMove"`
	BotMove   *domain.Move `json:"botMove,omitempty"`
	Game      Snapshot     `json:"game"`
}

func (gs *GameSession) Snapshot() Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

func (gs *GameSession) snapshotLocked() Snapshot {
	g := gs.Game
	snap := Snapshot{
		GameID:      gs.GameID,
		Difficulty:  gs.Difficulty,
		Opponent:    domain.GetBotName(gs.Difficulty),
		BotFirst:    gs.BotFirst,
		Status:      g.Status,
		CurrentTurn: g.CurrentPlayer,
		Reason:      gs.Reason,
		Board:       g.Board.Rows(),
		LegalMoves:  g.Board.LegalMoves(),
		Moves:       append([]domain.Move(nil), g.Moves...),
		MoveCount:   g.MoveCount,
		CreatedAt:   gs.CreatedAt,
	}
	if g.IsFinished() {
		snap.Result = domain.ResultFor(g)
		snap.LegalMoves = []int{}
	}
	if g.WinLine != nil {
		line := *g.WinLine
		snap.WinningLine = &line
	}
	return snap
}

// HandleMove plays the human's column and, if the game goes on, the
// computer's reply. When the reply fails the error comes back together with
// the committed human move and the current state.
func (gs *GameSession) HandleMove(ctx context.Context, column int) (TurnResult, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.Game.IsFinished() {
		return TurnResult{}, domain.ErrGameFinished
	}
	// a previous reply was interrupted; let the computer catch up first
	if gs.Game.CurrentPlayer == domain.BotPlayer {
		if _, err := gs.playBotLocked(ctx); err != nil {
			return TurnResult{}, err
		}
		if gs.Game.IsFinished() {
			return TurnResult{}, domain.ErrGameFinished
		}
	}

	humanMove, err := gs.applyLocked(domain.HumanPlayer, column)
	if err != nil {
		return TurnResult{}, err
	}
	result := TurnResult{HumanMove: humanMove}

	if !gs.Game.IsFinished() {
		botMove, err := gs.playBotLocked(ctx)
		if err != nil {
			// the human move stands; the reply is played before the next one
			result.Game = gs.snapshotLocked()
			return result, err
		}
		result.BotMove = &botMove
	}

	result.Game = gs.snapshotLocked()
	return result, nil
}

func (gs *GameSession) playBotLocked(ctx context.Context) (domain.Move, error) {
	// Verify it's actually bot's turn (race condition check)
	if gs.Game.IsFinished() || gs.Game.CurrentPlayer != domain.BotPlayer {
		return domain.Move{}, domain.ErrNotYourTurn
	}

	if delay := gs.manager.BotMoveDelay; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.Move{}, ctx.Err()
		}
	}

	botColumn, err := gs.manager.engine.Choose(ctx, gs.Game.Board, gs.Difficulty)
	if err != nil {
		log.Printf("[BOT] Error choosing move for %s: %v", gs.GameID, err)
		return domain.Move{}, err
	}
	return gs.applyLocked(domain.BotPlayer, botColumn)
}

// applyLocked makes the move, tells watchers about it and closes the game
// when it ends.
func (gs *GameSession) applyLocked(player domain.PlayerID, column int) (domain.Move, error) {
	row, err := gs.Game.MakeMove(player, column)
	if err != nil {
		return domain.Move{}, err
	}
	gs.LastActivity = time.Now()
	move := domain.Move{Player: player, Column: column, Row: row}

	gs.notify(domain.ServerMessage{
		Type:     "move_made",
		GameID:   gs.GameID,
		Column:   &move.Column,
		Row:      &move.Row,
		Player:   int(player),
		Board:    gs.Game.Board.Rows(),
		NextTurn: int(gs.Game.CurrentPlayer),
	})
	gs.manager.emit(analytics.EventMove, map[string]any{
		"gameId": gs.GameID,
		"by":     playerLabel(player),
		"col":    column,
		"row":    row,
	})

	if gs.Game.IsFinished() {
		gs.finishLocked()
	}
	return move, nil
}

func (gs *GameSession) finishLocked() {
	gs.FinishedAt = time.Now()
	if gs.Game.Status == domain.StatusDraw {
		gs.Reason = ReasonDraw
	} else {
		gs.Reason = ReasonConnectFour
	}

	winner := "draw"
	switch gs.Game.Winner {
	case domain.HumanPlayer:
		winner = "human"
	case domain.BotPlayer:
		winner = domain.GetBotName(gs.Difficulty)
	}

	gs.notify(domain.ServerMessage{
		Type:        "game_over",
		GameID:      gs.GameID,
		Winner:      winner,
		Reason:      gs.Reason,
		Board:       gs.Game.Board.Rows(),
		WinningLine: gs.Game.WinLine,
	})

	duration := int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds())
	result := domain.ResultFor(gs.Game)
	log.Printf("[GAME] Game %s over: result=%s reason=%s moves=%d", gs.GameID, result, gs.Reason, gs.Game.MoveCount)

	gs.manager.emit(analytics.EventGameEnd, map[string]any{
		"gameId":     gs.GameID,
		"difficulty": string(gs.Difficulty),
		"result":     result,
		"reason":     gs.Reason,
		"moves":      gs.Game.MoveCount,
		"duration":   duration,
	})

	gs.manager.saveGameAsync(domain.GameRecord{
		GameID:          gs.GameID,
		Difficulty:      gs.Difficulty,
		BotFirst:        gs.BotFirst,
		Result:          result,
		Reason:          gs.Reason,
		Winner:          gs.Game.Winner,
		WinningLine:     gs.Game.WinLine,
		TotalMoves:      gs.Game.MoveCount,
		Moves:           append([]domain.Move(nil), gs.Game.Moves...),
		Board:           gs.Game.Board.Rows(),
		DurationSeconds: duration,
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
	})
}

func (gs *GameSession) stateMessage() domain.ServerMessage {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return domain.ServerMessage{
		Type:        "game_state",
		GameID:      gs.GameID,
		Opponent:    domain.GetBotName(gs.Difficulty),
		Difficulty:  gs.Difficulty,
		Board:       gs.Game.Board.Rows(),
		NextTurn:    int(gs.Game.CurrentPlayer),
		WinningLine: gs.Game.WinLine,
	}
}

// StateMessage is the full-state message sent to a watcher that just joined.
func (gs *GameSession) StateMessage() domain.ServerMessage {
	return gs.stateMessage()
}

func (gs *GameSession) notify(msg domain.ServerMessage) {
	if n := gs.manager.currentNotifier(); n != nil {
		n.Broadcast(gs.GameID, msg)
	}
}

func playerLabel(p domain.PlayerID) string {
	if p == domain.BotPlayer {
		return "BOT"
	}
	return "human"
}

func sortNewestFirst(snaps []Snapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
}
