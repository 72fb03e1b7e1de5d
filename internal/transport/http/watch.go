package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-solo/backend/internal/service/game"
)

type WatchHandler struct {
	SessionManager *game.SessionManager
}

func NewWatchHandler(sm *game.SessionManager) *WatchHandler {
	return &WatchHandler{SessionManager: sm}
}

type liveGameResponse struct {
	GameID     string `json:"gameId"`
	Opponent   string `json:"opponent"`
	Difficulty string `json:"difficulty"`
	MoveCount  int    `json:"moveCount"`
	StartedAt  string `json:"startedAt"`
}

// GetLiveGames returns the games still in progress, newest first
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	activeGames := h.SessionManager.ActiveGames()

	response := make([]liveGameResponse, 0, len(activeGames))
	for _, g := range activeGames {
		response = append(response, liveGameResponse{
			GameID:     g.GameID,
			Opponent:   g.Opponent,
			Difficulty: string(g.Difficulty),
			MoveCount:  g.MoveCount,
			StartedAt:  g.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}
