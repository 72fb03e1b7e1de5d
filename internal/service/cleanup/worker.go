package cleanup

import (
	"context"
	"log"
	"time"
)

// SessionPruner drops stale in-memory games; *game.SessionManager implements it.
type SessionPruner interface {
	CleanupOldSessions(idle, finishedTTL time.Duration) int
}

// ArchivePruner deletes archived games past retention.
type ArchivePruner interface {
	DeleteGamesOlderThan(ctx context.Context, days int) (int64, error)
}

type Worker struct {
	Sessions SessionPruner
	Archive  ArchivePruner

	Interval      time.Duration
	IdleTimeout   time.Duration
	FinishedTTL   time.Duration
	RetentionDays int
}

// NewWorker builds a worker. archive may be nil when no database is configured.
func NewWorker(sessions SessionPruner, archive ArchivePruner, interval, idle, finishedTTL time.Duration, retentionDays int) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{
		Sessions:      sessions,
		Archive:       archive,
		Interval:      interval,
		IdleTimeout:   idle,
		FinishedTTL:   finishedTTL,
		RetentionDays: retentionDays,
	}
}

// Start runs one pass immediately and then one per interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	log.Println("[CLEANUP] Background worker started")
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[CLEANUP] Background worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes the actual cleanup logic
func (w *Worker) RunOnce(ctx context.Context) {
	removed := w.Sessions.CleanupOldSessions(w.IdleTimeout, w.FinishedTTL)

	if w.Archive == nil || w.RetentionDays <= 0 {
		return
	}
	deletedCount, err := w.Archive.DeleteGamesOlderThan(ctx, w.RetentionDays)
	if err != nil {
		log.Printf("[CLEANUP] Error cleaning up archived games: %v", err)
		return
	}
	if deletedCount > 0 || removed > 0 {
		log.Printf("[CLEANUP] Removed %d sessions from memory, %d archived games older than %d days", removed, deletedCount, w.RetentionDays)
	}
}
