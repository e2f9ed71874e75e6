// Package janitor implements the retention sweep that purges audio records
// older than the retention window, plus orphan blob reconciliation. It runs
// once synchronously at startup and can optionally keep running on a ticker,
// keeping lifecycle concerns isolated from request path logic.
package janitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// RetentionWindow is how long audio records are kept. Fixed by design; the
// journal is a rolling month of family recordings.
const RetentionWindow = 30 * 24 * time.Hour

// Store abstracts the minimal store operations the Janitor requires.
type Store interface {
	// PurgeOlderThan deletes audio rows created before cutoff (and their
	// blobs, best-effort) and returns the number of rows removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	// Reconcile performs orphan blob cleanup (best-effort) and may return
	// an error if the reconciliation scan itself fails.
	Reconcile(ctx context.Context) error
}

// Collector receives metric events for persistence; satisfied by
// metrics.Manager. Nil disables external metrics.
type Collector interface {
	Inc(name string, delta int64)
	Observe(name string, value int64)
}

// Clock abstracts time for deterministic cutoff tests.
type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Config holds tunables for the Janitor.
type Config struct {
	// Interval between periodic cycles; 0 disables the loop so only the
	// startup RunOnce sweep happens.
	Interval time.Duration
	Logger   *slog.Logger // optional logger (defaults to slog.Default())
	Clock    Clock        // optional clock (defaults to wall clock)
}

// Metrics accumulates counters (in-memory) for operational insight.
type Metrics struct {
	mu                  sync.Mutex
	Cycles              uint64
	Purged              uint64
	CycleLastDurationMS int64
}

// MetricsView is a read-only snapshot safe to copy.
type MetricsView struct {
	Cycles              uint64
	Purged              uint64
	CycleLastDurationMS int64
}

func (m *Metrics) addPurged(n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	m.Purged += uint64(n)
	m.mu.Unlock()
}

func (m *Metrics) recordCycle(d time.Duration) {
	m.mu.Lock()
	m.Cycles++
	m.CycleLastDurationMS = d.Milliseconds()
	m.mu.Unlock()
}

// Janitor encapsulates the retention sweep.
type Janitor struct {
	store     Store
	collector Collector
	cfg       Config
	metrics   *Metrics

	ticker *time.Ticker
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// New constructs but does not start a Janitor.
func New(store Store, collector Collector, cfg Config) *Janitor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	return &Janitor{
		store:     store,
		collector: collector,
		cfg:       cfg,
		metrics:   &Metrics{},
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// RunOnce performs a single synchronous sweep. Called from main after
// migrations complete; errors are logged, never fatal.
func (j *Janitor) RunOnce(ctx context.Context) {
	j.runCycle(ctx)
}

// Start launches the periodic loop in a new goroutine. No-op when the
// configured interval is zero or the loop already runs.
func (j *Janitor) Start(ctx context.Context) {
	if j.cfg.Interval <= 0 || j.ticker != nil {
		return
	}
	j.ticker = time.NewTicker(j.cfg.Interval)
	go j.loop(ctx)
}

// Stop signals the loop to exit and waits for completion. Safe to call when
// the loop never started.
func (j *Janitor) Stop() {
	j.once.Do(func() { close(j.stopCh) })
	if j.ticker == nil {
		return
	}
	<-j.doneCh
}

// MetricsSnapshot returns a copy of current metrics.
func (j *Janitor) MetricsSnapshot() MetricsView {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()
	return MetricsView{
		Cycles:              j.metrics.Cycles,
		Purged:              j.metrics.Purged,
		CycleLastDurationMS: j.metrics.CycleLastDurationMS,
	}
}

func (j *Janitor) loop(ctx context.Context) {
	log := j.cfg.Logger.With("domain", "janitor")
	defer func() {
		j.ticker.Stop()
		close(j.doneCh)
	}()
	for {
		select {
		case <-ctx.Done():
			log.Info("janitor stop", "reason", "context_cancel")
			return
		case <-j.stopCh:
			log.Info("janitor stop", "reason", "stop_signal")
			return
		case <-j.ticker.C:
			j.runCycle(ctx)
		}
	}
}

// runCycle performs one full purge + orphan cleanup cycle.
func (j *Janitor) runCycle(ctx context.Context) {
	start := time.Now()
	log := j.cfg.Logger.With("domain", "janitor", "action", "cycle")
	cutoff := j.cfg.Clock.Now().Add(-RetentionWindow)
	purged, err := j.store.PurgeOlderThan(ctx, cutoff)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("purge", "error", err)
	}
	if rerr := j.store.Reconcile(ctx); rerr != nil && !errors.Is(rerr, context.Canceled) {
		log.Error("reconcile", "error", rerr)
	}
	j.metrics.addPurged(purged)
	j.metrics.recordCycle(time.Since(start))
	if j.collector != nil && purged > 0 {
		j.collector.Inc("audios_purged_total", int64(purged))
		j.collector.Observe("janitor_purged_per_cycle", int64(purged))
	}
	log.Info("cycle complete", "purged", purged, "cutoff", cutoff, "ms", time.Since(start).Milliseconds())
}
