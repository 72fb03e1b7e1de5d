package domain

import "time"

// game results as stored and reported, from the human's side
const (
	ResultWin  = "win"
	ResultLoss = "loss"
	ResultDraw = "draw"
)

// GameRecord is a finished game as archived.
type GameRecord struct {
	GameID          string     `json:"gameId"`
	Difficulty      Difficulty `json:"difficulty"`
	BotFirst        bool       `json:"botFirst"`
	Result          string     `json:"result"`
	Reason          string     `json:"reason"`
	Winner          PlayerID   `json:"winner"`
	WinningLine     *WinLine   `json:"winningLine,omitempty"`
	TotalMoves      int        `json:"totalMoves"`
	Moves           []Move     `json:"moves,omitempty"`
	Board           [][]int    `json:"board,omitempty"`
	DurationSeconds int        `json:"durationSeconds"`
	CreatedAt       time.Time  `json:"createdAt"`
	FinishedAt      time.Time  `json:"finishedAt"`
}

// ResultFor maps a finished game to the human's result.
func ResultFor(g *Game) string {
	switch {
	case g.Status == StatusDraw:
		return ResultDraw
	case g.Winner == HumanPlayer:
		return ResultWin
	default:
		return ResultLoss
	}
}
