package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/iamasit07/connect4-solo/backend/internal/arena"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

func main() {
	numGames := flag.Int("n", 100, "number of games to play")
	p1Flag := flag.String("p1", "hard", "difficulty for player 1 (easy, medium, hard)")
	p2Flag := flag.String("p2", "medium", "difficulty for player 2 (easy, medium, hard)")
	workers := flag.Int("workers", max(runtime.NumCPU()/2, 1), "parallel games")
	seed := flag.Int64("seed", time.Now().UnixNano(), "base random seed, worker i uses seed+i")
	outFile := flag.String("out", "", "optional CSV file with one row per game")
	flag.Parse()

	p1, err := domain.ParseDifficulty(*p1Flag)
	if err != nil {
		log.Fatalf("-p1: %v", err)
	}
	p2, err := domain.ParseDifficulty(*p2Flag)
	if err != nil {
		log.Fatalf("-p2: %v", err)
	}

	var w *csv.Writer
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			log.Fatalf("open csv: %v", err)
		}
		defer f.Close()
		w = csv.NewWriter(f)
		w.Write([]string{"game", "first", "winner", "moves", "columns"})
	}

	log.Printf("CPU=%d, %d workers, %d games: %s (p1) vs %s (p2), seed %d", runtime.NumCPU(), *workers, *numGames, p1, p2, *seed)
	start := time.Now()
	played := 0

	tally, err := arena.Run(arena.Config{Games: *numGames, P1: p1, P2: p2, Workers: *workers, Seed: *seed}, func(r arena.Result) {
		played++
		if played%50 == 0 {
			log.Printf("progress %d/%d", played, *numGames)
		}
		if w == nil {
			return
		}
		cols := make([]int, len(r.Moves))
		for i, m := range r.Moves {
			cols[i] = m.Column
		}
		encoded, _ := json.Marshal(cols)
		w.Write([]string{
			strconv.Itoa(r.ID),
			strconv.Itoa(int(r.First)),
			strconv.Itoa(int(r.Winner)),
			strconv.Itoa(len(r.Moves)),
			string(encoded),
		})
	})
	if w != nil {
		w.Flush()
	}
	if err != nil {
		log.Fatalf("self-play failed: %v", err)
	}

	log.Printf("done in %s: p1 (%s) %d wins, p2 (%s) %d wins, %d draws",
		time.Since(start).Round(time.Millisecond), p1, tally.P1Wins, p2, tally.P2Wins, tally.Draws)
}
