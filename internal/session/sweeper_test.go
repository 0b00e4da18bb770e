package session

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestSweeperRemovesIdleSessions(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, clock := setupTestStore(t)
	s.GetOrCreate("idle")
	clock.Advance(16 * time.Minute)

	w := NewSweeper(s, 5*time.Millisecond, 15*time.Minute, nil)
	w.Start(context.Background())

	deadline := time.Now().Add(time.Second)
	for s.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	if s.Len() != 0 {
		t.Errorf("expected idle session to be swept, %d left", s.Len())
	}
}

func TestSweeperStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _ := setupTestStore(t)
	w := NewSweeper(s, time.Hour, 15*time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeperStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _ := setupTestStore(t)
	w := NewSweeper(s, time.Hour, 15*time.Minute, nil)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a sweeper that never ran")
	}

	// Run after Stop returns at once.
	if err := w.Run(context.Background()); err != nil {
		t.Errorf("Run after Stop returned %v", err)
	}
}
