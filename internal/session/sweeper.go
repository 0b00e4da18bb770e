package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically removes idle sessions from a Store.
type Sweeper struct {
	store     *Store
	interval  time.Duration
	threshold time.Duration
	log       *zap.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper returns a sweeper that checks every interval for sessions idle
// longer than threshold.
func NewSweeper(store *Store, interval, threshold time.Duration, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		store:     store,
		interval:  interval,
		threshold: threshold,
		log:       log.Named("sweeper"),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Run blocks until ctx is done or Stop is called.
func (w *Sweeper) Run(ctx context.Context) error {
	if w.started.Swap(true) {
		return nil
	}
	return w.loop(ctx)
}

func (w *Sweeper) loop(ctx context.Context) error {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stop:
			return nil
		case <-ticker.C:
			if n := w.store.SweepInactive(w.threshold); n > 0 {
				w.log.Info("inactive sessions removed", zap.Int("count", n), zap.Int("remaining", w.store.Len()))
			}
		}
	}
}

// Start runs the sweeper in its own goroutine.
func (w *Sweeper) Start(ctx context.Context) {
	if w.started.Swap(true) {
		return
	}
	go w.loop(ctx)
}

// Stop ends Run and waits for it to return. It returns at once for a
// sweeper that never ran.
func (w *Sweeper) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	if w.started.Load() {
		<-w.done
	}
}
