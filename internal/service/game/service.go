package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/connect4-solo/backend/internal/analytics"
	"github.com/iamasit07/connect4-solo/backend/internal/domain"
	"github.com/iamasit07/connect4-solo/backend/pkg/uid"
)

// MoveChooser picks the computer's column; *bot.Engine implements it.
type MoveChooser interface {
	Choose(ctx context.Context, board domain.Board, difficulty domain.Difficulty) (int, error)
}

type GameRepository interface {
	SaveGame(ctx context.Context, rec domain.GameRecord) error
}

type EventPublisher interface {
	Emit(event string, payload map[string]any)
}

// Notifier pushes messages to everyone watching a game.
type Notifier interface {
	Broadcast(gameID string, message domain.ServerMessage)
}

// WatcherMover is implemented by notifiers that can follow a game across a
// restart.
type WatcherMover interface {
	Rename(oldID, newID string)
}

// SessionManager manages active game sessions
type SessionManager struct {
	Session map[string]*GameSession // gameID → GameSession
	mu      sync.RWMutex

	engine MoveChooser
	repo   GameRepository
	events EventPublisher

	// separate lock: sessions read the notifier while holding their own mutex
	notifierMu sync.RWMutex
	notifier   Notifier

	// BotMoveDelay pauses before each computer move so replies do not feel instant
	BotMoveDelay time.Duration
	// in-flight archive writes, see Drain
	saves sync.WaitGroup
}

// NewSessionManager wires the move engine and the optional archive and
// analytics sinks. repo and events may be nil.
func NewSessionManager(engine MoveChooser, repo GameRepository, events EventPublisher) *SessionManager {
	return &SessionManager{
		Session: make(map[string]*GameSession),
		engine:  engine,
		repo:    repo,
		events:  events,
	}
}

// SetNotifier attaches the websocket layer once it exists.
func (sm *SessionManager) SetNotifier(n Notifier) {
	sm.notifierMu.Lock()
	defer sm.notifierMu.Unlock()
	sm.notifier = n
}

func (sm *SessionManager) CreateSession(ctx context.Context, difficulty domain.Difficulty, botFirst bool) (*GameSession, error) {
	difficulty, err := domain.ParseDifficulty(string(difficulty))
	if err != nil {
		return nil, err
	}

	first := domain.HumanPlayer
	if botFirst {
		first = domain.BotPlayer
	}

	now := time.Now()
	session := &GameSession{
		GameID:       uid.GenerateGameID(),
		Difficulty:   difficulty,
		BotFirst:     botFirst,
		Game:         domain.NewGame(first),
		CreatedAt:    now,
		LastActivity: now,
		manager:      sm,
	}

	sm.mu.Lock()
	sm.Session[session.GameID] = session
	sm.mu.Unlock()

	log.Printf("[SESSION] Created session %s (difficulty=%s, botFirst=%t)", session.GameID, difficulty, botFirst)
	sm.emit(analytics.EventGameStart, map[string]any{
		"gameId":     session.GameID,
		"difficulty": string(difficulty),
		"botFirst":   botFirst,
	})

	if botFirst {
		session.mu.Lock()
		_, err = session.playBotLocked(ctx)
		session.mu.Unlock()
		if err != nil {
			sm.RemoveSession(session.GameID)
			return nil, err
		}
	}

	session.notify(session.stateMessage())
	return session, nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.Session[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return session, nil
}

func (sm *SessionManager) RemoveSession(gameID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.Session, gameID)
}

// Restart replaces a game with a fresh one at the same difficulty. The old
// game is dropped; if it was unfinished it is not archived. Watchers of the
// old game are moved to the new one and sent its state.
func (sm *SessionManager) Restart(ctx context.Context, gameID string, botFirst bool) (*GameSession, error) {
	old, err := sm.GetSession(gameID)
	if err != nil {
		return nil, err
	}
	sm.RemoveSession(gameID)
	log.Printf("[SESSION] Restarting %s", gameID)

	fresh, err := sm.CreateSession(ctx, old.Difficulty, botFirst)
	if err != nil {
		return nil, err
	}
	if mover, ok := sm.currentNotifier().(WatcherMover); ok {
		mover.Rename(gameID, fresh.GameID)
		fresh.notify(fresh.stateMessage())
	}
	return fresh, nil
}

// ActiveGames lists games that are still being played, newest first.
func (sm *SessionManager) ActiveGames() []Snapshot {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.Session))
	for _, s := range sm.Session {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	out := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snap := s.Snapshot()
		if snap.Status == domain.StatusActive {
			out = append(out, snap)
		}
	}
	sortNewestFirst(out)
	return out
}

// CleanupOldSessions drops finished games after finishedTTL and abandoned
// games after idle without activity. A session busy with a move is skipped
// until the next pass.
func (sm *SessionManager) CleanupOldSessions(idle, finishedTTL time.Duration) int {
	sm.mu.RLock()
	sessions := make(map[string]*GameSession, len(sm.Session))
	for gameID, session := range sm.Session {
		sessions[gameID] = session
	}
	sm.mu.RUnlock()

	now := time.Now()
	var stale []string
	for gameID, session := range sessions {
		if !session.mu.TryLock() {
			continue
		}
		finished := session.Game.IsFinished()
		expired := (finished && now.Sub(session.FinishedAt) > finishedTTL) ||
			(!finished && now.Sub(session.LastActivity) > idle)
		session.mu.Unlock()
		if expired {
			stale = append(stale, gameID)
		}
	}

	count := 0
	sm.mu.Lock()
	for _, gameID := range stale {
		if sm.Session[gameID] == sessions[gameID] {
			delete(sm.Session, gameID)
			count++
		}
	}
	sm.mu.Unlock()

	if count > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d stale game sessions", count)
	}
	return count
}

func (sm *SessionManager) emit(event string, payload map[string]any) {
	if sm.events != nil {
		sm.events.Emit(event, payload)
	}
}

func (sm *SessionManager) currentNotifier() Notifier {
	sm.notifierMu.RLock()
	defer sm.notifierMu.RUnlock()
	return sm.notifier
}

// Saves game data to database in background to avoid blocking game_over messages
func (sm *SessionManager) saveGameAsync(rec domain.GameRecord) {
	if sm.repo == nil {
		return
	}
	sm.saves.Add(1)
	go func() {
		defer sm.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sm.repo.SaveGame(ctx, rec); err != nil {
			log.Printf("[GAME] Error saving game %s: %v", rec.GameID, err)
		} else {
			log.Printf("[GAME] Game %s saved successfully", rec.GameID)
		}
	}()
}

// Drain waits for pending archive writes, used on shutdown.
func (sm *SessionManager) Drain() {
	sm.saves.Wait()
}
