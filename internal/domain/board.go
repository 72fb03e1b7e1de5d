package domain

import "strings"

// Board is a value: assigning or passing it copies every cell, so a search
// branch can never see a sibling's discs.
// here board[0] represents the top row (0 -> top and 5 -> bottom)
type Board [Rows][Columns]PlayerID

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewBoard() Board {
	return Board{}
}

func (b Board) Cell(row, col int) PlayerID {
	return b[row][col]
}

func IsValidColumn(column int) bool {
	return column >= 0 && column < Columns
}

// LegalMoves lists playable columns in ascending order. It is empty only when
// the board is full.
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b[0][col] == Empty {
			moves = append(moves, col)
		}
	}
	return moves
}

// DropRow returns the row a disc dropped into column would land in.
func (b Board) DropRow(column int) (int, bool) {
	if !IsValidColumn(column) {
		return -1, false
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			return row, true
		}
	}
	return -1, false
}

// Apply returns a copy of the board with player's disc dropped into column.
// The receiver is never modified; on error the zero Board is returned.
func (b Board) Apply(column int, player PlayerID) (Board, error) {
	if !IsValidColumn(column) {
		return Board{}, ErrInvalidColumn
	}
	if !player.Valid() {
		return Board{}, ErrInvalidPlayer
	}
	row, ok := b.DropRow(column)
	if !ok {
		return Board{}, ErrColumnFull
	}
	b[row][column] = player
	return b, nil
}

func (b Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

func (b Board) DiscCount() int {
	n := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			if b[row][col] != Empty {
				n++
			}
		}
	}
	return n
}

// Rows converts the board to plain nested slices for JSON and storage.
func (b Board) Rows() [][]int {
	out := make([][]int, Rows)
	for r := range b {
		out[r] = make([]int, Columns)
		for c := range b[r] {
			out[r][c] = int(b[r][c])
		}
	}
	return out
}

// Key is a row-major encoding of the cells, one digit per cell.
func (b Board) Key() string {
	var sb strings.Builder
	sb.Grow(Rows * Columns)
	for r := range b {
		for c := range b[r] {
			sb.WriteByte(byte('0' + b[r][c]))
		}
	}
	return sb.String()
}

// BoardFromRows validates a client supplied grid: the shape must be
// Rows x Columns, every cell 0, 1 or 2, and no disc may float above an
// empty cell.
func BoardFromRows(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != Rows {
		return b, ErrInvalidBoard
	}
	for r := range rows {
		if len(rows[r]) != Columns {
			return b, ErrInvalidBoard
		}
		for c, v := range rows[r] {
			p := PlayerID(v)
			if p != Empty && !p.Valid() {
				return b, ErrInvalidBoard
			}
			b[r][c] = p
		}
	}
	for c := 0; c < Columns; c++ {
		for r := 0; r < Rows-1; r++ {
			if b[r][c] != Empty && b[r+1][c] == Empty {
				return b, ErrInvalidBoard
			}
		}
	}
	return b, nil
}
