package bot

import (
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

// Rand is the part of *rand.Rand the strategies need.
type Rand interface {
	Intn(n int) int
}

// StrategyFunc picks a column for me. It returns domain.ErrNoMoves on a full
// board.
type StrategyFunc func(board domain.Board, me domain.PlayerID, rng Rand) (int, error)

func ChooseEasy(board domain.Board, me domain.PlayerID, rng Rand) (int, error) {
	validColumns := board.LegalMoves()
	if len(validColumns) == 0 {
		return -1, domain.ErrNoMoves
	}
	return validColumns[rng.Intn(len(validColumns))], nil
}
