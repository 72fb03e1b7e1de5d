package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
	"github.com/iamasit07/connect4-solo/backend/pkg/uid"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// GameArchive is the read side of the finished-game store.
type GameArchive interface {
	GetRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error)
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
}

type HistoryHandler struct {
	Archive GameArchive
}

// NewHistoryHandler accepts a nil archive; every route then answers 503.
func NewHistoryHandler(archive GameArchive) *HistoryHandler {
	return &HistoryHandler{Archive: archive}
}

type gameHistoryItem struct {
	ID         string            `json:"id"`
	Opponent   string            `json:"opponent"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Result     string            `json:"result"` // "win", "loss", "draw"
	EndReason  string            `json:"endReason"`
	CreatedAt  time.Time         `json:"createdAt"`
	MovesCount int               `json:"movesCount"`
	Duration   int               `json:"durationSeconds"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	if h.Archive == nil {
		respondError(c, ErrArchiveDisabled)
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.Archive.GetRecentGames(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	history := make([]gameHistoryItem, 0, len(records))
	for _, rec := range records {
		history = append(history, gameHistoryItem{
			ID:         rec.GameID,
			Opponent:   domain.GetBotName(rec.Difficulty),
			Difficulty: rec.Difficulty,
			Result:     rec.Result,
			EndReason:  rec.Reason,
			CreatedAt:  rec.CreatedAt,
			MovesCount: rec.TotalMoves,
			Duration:   rec.DurationSeconds,
		})
	}
	c.JSON(http.StatusOK, history)
}

// GetGameDetails returns one archived game with its moves and final board.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	if h.Archive == nil {
		respondError(c, ErrArchiveDisabled)
		return
	}

	gameID := c.Param("id")
	if !uid.IsGameID(gameID) {
		respondError(c, domain.ErrGameNotFound)
		return
	}

	rec, err := h.Archive.GetGameByID(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	if rec == nil {
		respondError(c, domain.ErrGameNotFound)
		return
	}
	c.JSON(http.StatusOK, rec)
}
