package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSessions struct {
	calls     int
	idle, ttl time.Duration
}

func (f *fakeSessions) CleanupOldSessions(idle, finishedTTL time.Duration) int {
	f.calls++
	f.idle, f.ttl = idle, finishedTTL
	return 1
}

type fakeArchive struct {
	days int
	err  error
}

func (f *fakeArchive) DeleteGamesOlderThan(_ context.Context, days int) (int64, error) {
	f.days = days
	return 3, f.err
}

func TestRunOncePrunesBoth(t *testing.T) {
	s := &fakeSessions{}
	a := &fakeArchive{}
	w := NewWorker(s, a, time.Minute, 30*time.Minute, 5*time.Minute, 30)

	w.RunOnce(context.Background())

	if s.calls != 1 || s.idle != 30*time.Minute || s.ttl != 5*time.Minute {
		t.Fatalf("sessions pruned with %+v", s)
	}
	if a.days != 30 {
		t.Fatalf("archive pruned with days=%d", a.days)
	}
}

func TestRunOnceWithoutArchive(t *testing.T) {
	s := &fakeSessions{}
	w := NewWorker(s, nil, 0, time.Minute, time.Minute, 30)
	if w.Interval != time.Hour {
		t.Fatalf("default interval = %s", w.Interval)
	}
	w.RunOnce(context.Background())
	if s.calls != 1 {
		t.Fatalf("calls = %d", s.calls)
	}
}

func TestRunOnceArchiveErrorIsNotFatal(t *testing.T) {
	s := &fakeSessions{}
	a := &fakeArchive{err: errors.New("db down")}
	NewWorker(s, a, time.Minute, time.Minute, time.Minute, 7).RunOnce(context.Background())
	if a.days != 7 {
		t.Fatalf("days = %d", a.days)
	}
}

func TestStartStopsWithContext(t *testing.T) {
	s := &fakeSessions{}
	w := NewWorker(s, nil, time.Hour, time.Minute, time.Minute, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	if s.calls != 1 {
		t.Fatalf("initial pass ran %d times", s.calls)
	}
}
