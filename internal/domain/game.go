package domain

type Move struct {
	Player PlayerID `json:"player"`
	Column int      `json:"column"`
	Row    int      `json:"row"`
}

type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	WinLine       *WinLine
	MoveCount     int
	Moves         []Move
}

func NewGame(first PlayerID) *Game {
	if !first.Valid() {
		first = Player1
	}
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: first,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

func (g *Game) MakeMove(player PlayerID, column int) (int, error) {
	if g.Status != StatusActive {
		return -1, ErrGameFinished
	}

	if player != g.CurrentPlayer {
		return -1, ErrNotYourTurn
	}

	next, err := g.Board.Apply(column, player)
	if err != nil {
		return -1, err
	}
	// Apply succeeded, so the column had room
	row, _ := g.Board.DropRow(column)
	g.Board = next
	g.MoveCount++
	g.Moves = append(g.Moves, Move{Player: player, Column: column, Row: row})

	if line, won := g.Board.WinningLine(player); won {
		g.Status = StatusWon
		g.Winner = player
		g.WinLine = &line
		return row, nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = Opponent(g.CurrentPlayer)
	return row, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
