package bot

import (
	"slices"

	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

// ChooseMedium looks one ply ahead: win now, else block the opponent's
// immediate win, else take the center, else play randomly. Ties go to the
// lowest column. Double threats are not detected.
func ChooseMedium(board domain.Board, me domain.PlayerID, rng Rand) (int, error) {
	validColumns := board.LegalMoves()
	if len(validColumns) == 0 {
		return -1, domain.ErrNoMoves
	}

	if col, ok := findWinningColumn(board, validColumns, me); ok {
		return col, nil
	}

	if col, ok := findWinningColumn(board, validColumns, domain.Opponent(me)); ok {
		return col, nil
	}

	if slices.Contains(validColumns, domain.CenterColumn) {
		return domain.CenterColumn, nil
	}

	return validColumns[rng.Intn(len(validColumns))], nil
}

// findWinningColumn returns the first column in which player completes four.
func findWinningColumn(board domain.Board, columns []int, player domain.PlayerID) (int, bool) {
	for _, col := range columns {
		testBoard, err := board.Apply(col, player)
		if err != nil {
			continue
		}
		if testBoard.HasWon(player) {
			return col, true
		}
	}
	return -1, false
}
