package storage

import (
	"log/slog"
	"time"
)

// DefaultSweepInterval is the default tick interval for the active sweep.
const DefaultSweepInterval = 100 * time.Millisecond

// Sweeper runs the active eviction sweep on a fixed tick. Each tick fully
// drains the store's due expiry entries before the next batch of commands is
// considered.
type Sweeper struct {
	store    *Store
	interval time.Duration
	logger   *slog.Logger
	observe  func(elapsed time.Duration, expired, stale int)

	stopCh chan struct{}
	doneCh chan struct{}
}

// SweeperOption configures the Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepObserver registers a callback invoked after every sweep tick.
func WithSweepObserver(fn func(elapsed time.Duration, expired, stale int)) SweeperOption {
	return func(sw *Sweeper) {
		sw.observe = fn
	}
}

// NewSweeper creates a sweeper and starts its background loop.
//
// Call Close to stop it.
func NewSweeper(store *Store, interval time.Duration, logger *slog.Logger, opts ...SweeperOption) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	sw := &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(sw)
	}

	go sw.loop()

	return sw
}

func (sw *Sweeper) loop() {
	defer close(sw.doneCh)

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			expired, stale := sw.store.SweepExpired()
			elapsed := time.Since(start)

			if expired > 0 || stale > 0 {
				sw.logger.Debug("expiry sweep",
					"expired", expired,
					"stale", stale,
					"elapsed", elapsed)
			}
			if sw.observe != nil {
				sw.observe(elapsed, expired, stale)
			}

		case <-sw.stopCh:
			return
		}
	}
}

// Close stops the sweep loop and waits for it to finish.
func (sw *Sweeper) Close() error {
	close(sw.stopCh)
	<-sw.doneCh
	return nil
}
