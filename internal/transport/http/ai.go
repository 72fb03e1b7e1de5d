package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
	"github.com/iamasit07/connect4-solo/backend/internal/service/game"
)

// AIHandler answers "what would the computer play here" for an arbitrary
// board, without creating a game.
type AIHandler struct {
	Engine            game.MoveChooser
	DefaultDifficulty domain.Difficulty
}

func NewAIHandler(engine game.MoveChooser, defaultDifficulty domain.Difficulty) *AIHandler {
	return &AIHandler{Engine: engine, DefaultDifficulty: defaultDifficulty}
}

type aiMoveRequest struct {
	Board      [][]int `json:"board" binding:"required"`
	Difficulty string  `json:"difficulty"`
}

type aiMoveResponse struct {
	Column     int               `json:"column"`
	Row        int               `json:"row"`
	Difficulty domain.Difficulty `json:"difficulty"`
}

func (h *AIHandler) ChooseMove(c *gin.Context) {
	var req aiMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board is required"})
		return
	}

	difficulty := h.DefaultDifficulty
	if req.Difficulty != "" {
		d, err := domain.ParseDifficulty(req.Difficulty)
		if err != nil {
			respondError(c, err)
			return
		}
		difficulty = d
	}

	board, err := domain.BoardFromRows(req.Board)
	if err != nil {
		respondError(c, err)
		return
	}

	column, err := h.Engine.Choose(c.Request.Context(), board, difficulty)
	if err != nil {
		respondError(c, err)
		return
	}
	row, _ := board.DropRow(column)
	c.JSON(http.StatusOK, aiMoveResponse{Column: column, Row: row, Difficulty: difficulty})
}
