package domain

type ClientMessage struct {
	Type     string `json:"type"`
	GameID   string `json:"gameId,omitempty"`
	Column   int    `json:"column"`
	BotFirst bool   `json:"botFirst,omitempty"`
}

type ServerMessage struct {
	Type        string     `json:"type"`
	Message     string     `json:"message,omitempty"`
	GameID      string     `json:"gameId,omitempty"`
	Opponent    string     `json:"opponent,omitempty"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Column      *int       `json:"column,omitempty"`
	Row         *int       `json:"row,omitempty"`
	Player      int        `json:"player,omitempty"`
	Board       [][]int    `json:"board,omitempty"`
	NextTurn    int        `json:"nextTurn,omitempty"`
	Winner      string     `json:"winner,omitempty"`
	WinningLine *WinLine   `json:"winningLine,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
