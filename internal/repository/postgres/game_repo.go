package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iamasit07/connect4-solo/backend/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

const gameColumns = `game_id, difficulty, bot_first, result, reason, winner, winning_line,
	total_moves, moves, board_state, duration_seconds, created_at, finished_at`

// SaveGame archives a finished game (UPSERT to handle a restart racing the save)
func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}
	// JSONB parameters are sent as text
	var lineJSON sql.NullString
	if rec.WinningLine != nil {
		b, err := json.Marshal(rec.WinningLine)
		if err != nil {
			return fmt.Errorf("failed to marshal winning line: %w", err)
		}
		lineJSON = sql.NullString{String: string(b), Valid: true}
	}

	query := `
	INSERT INTO game (` + gameColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (game_id) DO UPDATE SET
		result = EXCLUDED.result,
		reason = EXCLUDED.reason,
		winner = EXCLUDED.winner,
		winning_line = EXCLUDED.winning_line,
		total_moves = EXCLUDED.total_moves,
		moves = EXCLUDED.moves,
		board_state = EXCLUDED.board_state,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, string(rec.Difficulty), rec.BotFirst, rec.Result, rec.Reason, int(rec.Winner), lineJSON,
		rec.TotalMoves, string(movesJSON), string(boardJSON), rec.DurationSeconds, rec.CreatedAt, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.GameRecord, error) {
	var rec domain.GameRecord
	var difficulty string
	var winner int
	var lineJSON, movesJSON, boardJSON []byte

	err := row.Scan(
		&rec.GameID,
		&difficulty,
		&rec.BotFirst,
		&rec.Result,
		&rec.Reason,
		&winner,
		&lineJSON,
		&rec.TotalMoves,
		&movesJSON,
		&boardJSON,
		&rec.DurationSeconds,
		&rec.CreatedAt,
		&rec.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Difficulty = domain.Difficulty(difficulty)
	rec.Winner = domain.PlayerID(winner)
	if len(lineJSON) > 0 {
		var line domain.WinLine
		if err := json.Unmarshal(lineJSON, &line); err != nil {
			return nil, fmt.Errorf("failed to unmarshal winning line: %w", err)
		}
		rec.WinningLine = &line
	}
	if len(movesJSON) > 0 {
		if err := json.Unmarshal(movesJSON, &rec.Moves); err != nil {
			return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
		}
	}
	if len(boardJSON) > 0 {
		if err := json.Unmarshal(boardJSON, &rec.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
		}
	}
	return &rec, nil
}

// GetGameByID returns nil, nil when the game is not archived.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM game WHERE game_id = $1;`

	rec, err := scanGame(r.DB.QueryRowContext(ctx, query, gameID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return rec, nil
}

// GetRecentGames lists the most recently finished games, newest first.
func (r *GameRepo) GetRecentGames(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM game ORDER BY finished_at DESC LIMIT $1;`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game rows: %w", err)
	}
	return games, nil
}

// DeleteGamesOlderThan removes archived games finished more than days ago.
func (r *GameRepo) DeleteGamesOlderThan(ctx context.Context, days int) (int64, error) {
	query := `DELETE FROM game WHERE finished_at < NOW() - make_interval(days => $1);`

	result, err := r.DB.ExecContext(ctx, query, days)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old games: %w", err)
	}
	return result.RowsAffected()
}
