package bot

import (
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

const (
	SCORE_FOUR        = 100 // four of ours in a window
	SCORE_THREE_OPEN  = 5   // three of ours + one empty
	SCORE_TWO_OPEN    = 2   // two of ours + two empty
	SCORE_OPP_THREE   = -4  // three of theirs + one empty
	SCORE_CENTER_DISC = 3   // each of our discs in the center column
)

// Evaluate scores a position from me's point of view. Only window
// compositions and center occupancy count; nothing else.
func Evaluate(board domain.Board, me domain.PlayerID) int {
	score := 0

	for row := 0; row < domain.Rows; row++ {
		if board[row][domain.CenterColumn] == me {
			score += SCORE_CENTER_DISC
		}
	}

	opponent := domain.Opponent(me)
	for _, w := range domain.Windows() {
		mine, theirs, empty := 0, 0, 0
		for _, p := range w {
			switch board[p.Row][p.Col] {
			case me:
				mine++
			case opponent:
				theirs++
			default:
				empty++
			}
		}
		score += scoreWindow(mine, theirs, empty)
	}

	return score
}

// scoreWindow: two of the opponent's discs score nothing, only three are
// penalised.
func scoreWindow(mine, theirs, empty int) int {
	score := 0
	switch {
	case mine == 4:
		score += SCORE_FOUR
	case mine == 3 && empty == 1:
		score += SCORE_THREE_OPEN
	case mine == 2 && empty == 2:
		score += SCORE_TWO_OPEN
	}

	if theirs == 3 && empty == 1 {
		score += SCORE_OPP_THREE
	}
	return score
}
