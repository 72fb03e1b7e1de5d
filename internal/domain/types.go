package domain

import "strings"

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// the human always plays Player1, the computer Player2
const (
	HumanPlayer = Player1
	BotPlayer   = Player2
)

const (
	Rows         = 6
	Columns      = 7
	ToWin        = 4
	CenterColumn = Columns / 2
)

// Opponent returns the other side. Empty maps to Empty.
func Opponent(p PlayerID) PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// Difficulty selects the computer's strategy.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", ErrUnknownDifficulty
}

var BotNames = map[Difficulty]string{
	DifficultyEasy:   "Alice",
	DifficultyMedium: "Bob",
	DifficultyHard:   "Charles",
}

func GetBotName(difficulty Difficulty) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn     Error = "column out of range"
	ErrColumnFull        Error = "column is full"
	ErrInvalidPlayer     Error = "invalid player"
	ErrInvalidBoard      Error = "invalid board"
	ErrNoMoves           Error = "no move available"
	ErrInvalidMove       Error = "invalid move"
	ErrNotYourTurn       Error = "not your turn"
	ErrGameFinished      Error = "game is already finished"
	ErrUnknownDifficulty Error = "unknown difficulty"
	ErrGameNotFound      Error = "game not found"
)
