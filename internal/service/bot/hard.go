package bot

import (
	"math"

	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

const (
	MINIMAX_DEPTH = 5
	MINIMAX_WIN   = 100_000_000
	MINIMAX_LOSS  = -MINIMAX_WIN
	MINIMAX_DRAW  = 0

	// returned as the column of terminal and frontier nodes
	noColumn = -1
)

// Analysis describes a hard search: the column picked, the score backed up
// to the root and how many nodes were visited.
type Analysis struct {
	Column int
	Score  int
	Nodes  int
}

// ChooseHard implements hard difficulty using Minimax with alpha-beta pruning.
func ChooseHard(board domain.Board, me domain.PlayerID, rng Rand) (int, error) {
	a, err := AnalyzeHard(board, me, rng)
	if err != nil {
		return -1, err
	}
	return a.Column, nil
}

func AnalyzeHard(board domain.Board, me domain.PlayerID, rng Rand) (Analysis, error) {
	validColumns := board.LegalMoves()
	if len(validColumns) == 0 {
		return Analysis{Column: -1}, domain.ErrNoMoves
	}

	// opening shortcut: no search while the board is nearly empty
	if board.DiscCount() <= 1 {
		return Analysis{Column: domain.CenterColumn}, nil
	}

	s := searcher{me: me, opponent: domain.Opponent(me), rng: rng}
	col, score := s.minimax(board, MINIMAX_DEPTH, math.MinInt, math.MaxInt, true)
	if col == noColumn {
		col = validColumns[0]
	}
	return Analysis{Column: col, Score: score, Nodes: s.nodes}, nil
}

type searcher struct {
	me       domain.PlayerID
	opponent domain.PlayerID
	rng      Rand
	nodes    int
}

func (s *searcher) isTerminal(board domain.Board) (int, bool) {
	switch {
	case board.HasWon(s.me):
		return MINIMAX_WIN, true
	case board.HasWon(s.opponent):
		return MINIMAX_LOSS, true
	case board.IsFull():
		return MINIMAX_DRAW, true
	}
	return 0, false
}

// minimax returns the chosen column and its score. Terminal and depth-zero
// nodes return noColumn.
func (s *searcher) minimax(board domain.Board, depth int, alpha, beta int, isMaximizing bool) (int, int) {
	s.nodes++

	if score, terminal := s.isTerminal(board); terminal {
		return noColumn, score
	}
	if depth == 0 {
		return noColumn, Evaluate(board, s.me)
	}

	validColumns := board.LegalMoves()
	// fallback only; the first child always improves on an infinite bound
	bestCol := validColumns[s.rng.Intn(len(validColumns))]

	if isMaximizing {
		value := math.MinInt
		for _, col := range validColumns {
			child, _ := board.Apply(col, s.me)
			_, score := s.minimax(child, depth-1, alpha, beta, false)
			if score > value {
				value = score
				bestCol = col
			}
			alpha = max(alpha, value)
			if alpha >= beta {
				break // Beta cutoff
			}
		}
		return bestCol, value
	}

	value := math.MaxInt
	for _, col := range validColumns {
		child, _ := board.Apply(col, s.opponent)
		_, score := s.minimax(child, depth-1, alpha, beta, true)
		if score < value {
			value = score
			bestCol = col
		}
		beta = min(beta, value)
		if alpha >= beta {
			break // Alpha cutoff
		}
	}
	return bestCol, value
}
