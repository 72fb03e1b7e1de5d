// Package arena plays the computer strategies against each other.
package arena

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/iamasit07/connect4-solo/backend/internal/domain"
	"github.com/iamasit07/connect4-solo/backend/internal/service/bot"
)

// Result is one finished self-play game. Player1 always plays P1's strategy.
type Result struct {
	ID      int
	First   domain.PlayerID
	Winner  domain.PlayerID
	Moves   []domain.Move
	WinLine *domain.WinLine
}

type Tally struct {
	P1Wins int
	P2Wins int
	Draws  int
}

func (t *Tally) Add(r Result) {
	switch r.Winner {
	case domain.Player1:
		t.P1Wins++
	case domain.Player2:
		t.P2Wins++
	default:
		t.Draws++
	}
}

func (t Tally) Games() int {
	return t.P1Wins + t.P2Wins + t.Draws
}

// PlayGame runs one game to the end with p1 as Player1 and p2 as Player2.
func PlayGame(p1, p2 bot.StrategyFunc, first domain.PlayerID, rng bot.Rand) (*domain.Game, error) {
	g := domain.NewGame(first)
	for !g.IsFinished() {
		strategy := p1
		if g.CurrentPlayer == domain.Player2 {
			strategy = p2
		}
		col, err := strategy(g.Board, g.CurrentPlayer, rng)
		if err != nil {
			return g, fmt.Errorf("move %d: %w", g.MoveCount+1, err)
		}
		if _, err := g.MakeMove(g.CurrentPlayer, col); err != nil {
			return g, fmt.Errorf("move %d column %d: %w", g.MoveCount+1, col, err)
		}
	}
	return g, nil
}

type Config struct {
	Games   int
	P1, P2  domain.Difficulty
	Workers int
	Seed    int64
}

// Run plays cfg.Games games on a pool of workers, alternating who moves
// first. Each worker owns its random source, so a run is reproducible for a
// given seed and worker count up to the order results are delivered in.
// onResult is called from a single goroutine.
func Run(cfg Config, onResult func(Result)) (Tally, error) {
	var tally Tally
	p1, err := bot.Strategy(cfg.P1)
	if err != nil {
		return tally, err
	}
	p2, err := bot.Strategy(cfg.P2)
	if err != nil {
		return tally, err
	}
	workers := max(cfg.Workers, 1)

	jobs := make(chan int, workers*2)
	results := make(chan Result, workers*2)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(cfg.Seed + int64(workerID)))
			for id := range jobs {
				first := domain.Player1
				if id%2 == 1 {
					first = domain.Player2
				}
				g, err := PlayGame(p1, p2, first, r)
				if err != nil {
					select {
					case errs <- fmt.Errorf("game %d: %w", id, err):
					default:
					}
					continue
				}
				results <- Result{ID: id, First: first, Winner: g.Winner, Moves: g.Moves, WinLine: g.WinLine}
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for id := 0; id < cfg.Games; id++ {
			jobs <- id
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		tally.Add(r)
		if onResult != nil {
			onResult(r)
		}
	}

	select {
	case err := <-errs:
		return tally, err
	default:
	}
	return tally, nil
}
