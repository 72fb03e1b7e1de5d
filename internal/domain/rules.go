package domain

// WinLine is four cells in a row, in scan order.
type WinLine [ToWin]Position

// windows holds every 4-cell run on the board. The order is fixed and must not
// change: WinningLine reports the first match, so callers and tests depend on
// it being reproducible.
//
//	horizontal: rows top to bottom, columns left to right
//	vertical:   rows top to bottom, columns left to right
//	diagonal /: start rows 3..Rows-1, going up and to the right
//	diagonal \: start rows 0..Rows-4, going down and to the right
var windows = buildWindows()

func buildWindows() []WinLine {
	var out []WinLine

	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns-3; col++ {
			out = append(out, line(row, col, 0, 1))
		}
	}

	for row := 0; row < Rows-3; row++ {
		for col := 0; col < Columns; col++ {
			out = append(out, line(row, col, 1, 0))
		}
	}

	for row := 3; row < Rows; row++ {
		for col := 0; col < Columns-3; col++ {
			out = append(out, line(row, col, -1, 1))
		}
	}

	for row := 0; row < Rows-3; row++ {
		for col := 0; col < Columns-3; col++ {
			out = append(out, line(row, col, 1, 1))
		}
	}

	return out
}

func line(row, col, dRow, dCol int) WinLine {
	var w WinLine
	for i := range w {
		w[i] = Position{Row: row + i*dRow, Col: col + i*dCol}
	}
	return w
}

// Windows returns every 4-cell window in scan order. The slice is shared and
// must not be modified.
func Windows() []WinLine {
	return windows
}

func (b Board) owns(w WinLine, player PlayerID) bool {
	for _, p := range w {
		if b[p.Row][p.Col] != player {
			return false
		}
	}
	return true
}

func (b Board) HasWon(player PlayerID) bool {
	_, ok := b.WinningLine(player)
	return ok
}

// WinningLine returns the first complete run of player's discs in scan order.
func (b Board) WinningLine(player PlayerID) (WinLine, bool) {
	if !player.Valid() {
		return WinLine{}, false
	}
	for _, w := range windows {
		if b.owns(w, player) {
			return w, true
		}
	}
	return WinLine{}, false
}

// Winner reports which side, if any, has four in a row.
func (b Board) Winner() PlayerID {
	switch {
	case b.HasWon(Player1):
		return Player1
	case b.HasWon(Player2):
		return Player2
	}
	return Empty
}
