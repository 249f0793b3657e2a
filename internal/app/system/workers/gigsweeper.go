// internal/app/system/workers/gigsweeper.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpirySweeper closes open gigs whose deadline is before now and reports
// how many changed. *gigs.Store satisfies it.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// GigSweeper is a background worker that periodically closes expired gigs.
type GigSweeper struct {
	gigs     ExpirySweeper
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewGigSweeper creates a new gig expiry worker.
//
// Parameters:
//   - gigs: the gig store (or anything that can sweep)
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 minute)
func NewGigSweeper(gigs ExpirySweeper, logger *zap.Logger, interval time.Duration) *GigSweeper {
	return &GigSweeper{
		gigs:     gigs,
		log:      logger,
		interval: interval,
		timeout:  30 * time.Second,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one sweep immediately and then begins the background loop.
func (w *GigSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("gig sweeper started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *GigSweeper) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("gig sweeper stopped")
	})
}

func (w *GigSweeper) run() {
	defer w.wg.Done()

	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *GigSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	count, err := w.gigs.SweepExpired(ctx, w.now().UTC())
	if err != nil {
		w.log.Error("failed to close expired gigs", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("closed expired gigs", zap.Int64("count", count))
	}
}
