package bot

import (
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

// Strategy returns the move function for a difficulty.
func Strategy(difficulty domain.Difficulty) (StrategyFunc, error) {
	switch difficulty {
	case domain.DifficultyEasy:
		return ChooseEasy, nil
	case domain.DifficultyMedium:
		return ChooseMedium, nil
	case domain.DifficultyHard:
		return ChooseHard, nil
	default:
		return nil, domain.ErrUnknownDifficulty
	}
}

// ChooseMove selects the computer's column for board. The computer always
// plays domain.BotPlayer.
func ChooseMove(board domain.Board, difficulty domain.Difficulty, rng Rand) (int, error) {
	strategy, err := Strategy(difficulty)
	if err != nil {
		return -1, err
	}
	return strategy(board, domain.BotPlayer, rng)
}
