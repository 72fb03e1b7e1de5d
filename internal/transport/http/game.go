package http

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
	"github.com/iamasit07/connect4-solo/backend/internal/service/game"
)

type GameHandler struct {
	SessionManager    *game.SessionManager
	DefaultDifficulty domain.Difficulty
}

func NewGameHandler(sm *game.SessionManager, defaultDifficulty domain.Difficulty) *GameHandler {
	return &GameHandler{SessionManager: sm, DefaultDifficulty: defaultDifficulty}
}

type createGameRequest struct {
	Difficulty string `json:"difficulty"`
	BotFirst   bool   `json:"botFirst"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

type restartRequest struct {
	BotFirst bool `json:"botFirst"`
}

// bindOptionalJSON accepts an empty body and leaves dst untouched in that case.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// CreateGame starts a game against the computer.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	difficulty := h.DefaultDifficulty
	if req.Difficulty != "" {
		difficulty = domain.Difficulty(req.Difficulty)
	}

	session, err := h.SessionManager.CreateSession(c.Request.Context(), difficulty, req.BotFirst)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session.Snapshot())
}

func (h *GameHandler) GetGame(c *gin.Context) {
	session, err := h.SessionManager.GetSession(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// MakeMove plays the human's column and answers with the computer's reply.
func (h *GameHandler) MakeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	session, err := h.SessionManager.GetSession(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := session.HandleMove(c.Request.Context(), *req.Column)
	if err != nil {
		if result.Game.GameID != "" {
			// the human move was played but the computer has not answered yet
			log.Printf("[HTTP] Game %s: reply pending: %v", result.Game.GameID, err)
			c.JSON(http.StatusAccepted, partialTurnResponse{TurnResult: result, Error: err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type partialTurnResponse struct {
	game.TurnResult
	Error string `json:"error"`
}

func (h *GameHandler) Restart(c *gin.Context) {
	var req restartRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.SessionManager.Restart(c.Request.Context(), c.Param("id"), req.BotFirst)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session.Snapshot())
}
