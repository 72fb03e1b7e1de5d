package bot

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

// MoveCache stores computed hard moves. Get returns "" on a miss.
type MoveCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

const moveCachePrefix = "c4:hard:"

// Engine is the service-side wrapper around the strategies. It serialises
// access to its random source and caches hard moves, which do not depend on
// the random draws.
type Engine struct {
	mu       sync.Mutex
	rng      *rand.Rand
	cache    MoveCache
	cacheTTL time.Duration
}

func NewEngine(seed int64, cache MoveCache, cacheTTL time.Duration) *Engine {
	return &Engine{
		rng:      rand.New(rand.NewSource(seed)),
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Intn makes the engine usable as a Rand from several goroutines.
func (e *Engine) Intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

func MoveCacheKey(board domain.Board) string {
	return moveCachePrefix + board.Key()
}

// Choose picks the computer's column. A full board yields domain.ErrNoMoves.
func (e *Engine) Choose(ctx context.Context, board domain.Board, difficulty domain.Difficulty) (int, error) {
	if difficulty != domain.DifficultyHard {
		return ChooseMove(board, difficulty, e)
	}

	if col, ok := e.lookup(ctx, board); ok {
		return col, nil
	}

	start := time.Now()
	a, err := AnalyzeHard(board, domain.BotPlayer, e)
	if err != nil {
		return -1, err
	}
	if a.Nodes > 0 {
		log.Printf("[BOT] hard search: column=%d score=%d nodes=%d took=%s", a.Column, a.Score, a.Nodes, time.Since(start))
	}

	e.store(ctx, board, a.Column)
	return a.Column, nil
}

func (e *Engine) lookup(ctx context.Context, board domain.Board) (int, bool) {
	if e.cache == nil {
		return 0, false
	}
	value, err := e.cache.Get(ctx, MoveCacheKey(board))
	if err != nil {
		log.Printf("[BOT] move cache read failed: %v", err)
		return 0, false
	}
	if value == "" {
		return 0, false
	}
	col, err := strconv.Atoi(value)
	if err != nil || !domain.IsValidColumn(col) {
		log.Printf("[BOT] ignoring bad cached move %q", value)
		return 0, false
	}
	if _, ok := board.DropRow(col); !ok {
		return 0, false
	}
	return col, true
}

func (e *Engine) store(ctx context.Context, board domain.Board, col int) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, MoveCacheKey(board), strconv.Itoa(col), e.cacheTTL); err != nil {
		log.Printf("[BOT] move cache write failed: %v", err)
	}
}
