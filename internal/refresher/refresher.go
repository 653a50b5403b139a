// Package refresher keeps the dashboard KPI counters current by polling the
// KPI endpoint on a fixed interval while the dashboard is visible.
package refresher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sacsbd/sacs-tui/internal/kpi"
	"github.com/sacsbd/sacs-tui/internal/present"
	"golang.org/x/sync/singleflight"
)

// DefaultInterval is the time between refresh ticks.
const DefaultInterval = 30 * time.Second

// ErrRunning is returned by Start when a cycle is already live.
var ErrRunning = errors.New("refresher: cycle already running")

// RefreshFailure wraps any error from a refresh fetch.
type RefreshFailure struct {
	Err error
}

func (e *RefreshFailure) Error() string {
	return fmt.Sprintf("error updating KPIs: %v", e.Err)
}

func (e *RefreshFailure) Unwrap() error {
	return e.Err
}

// Params holds the dependencies of a Refresher.
type Params struct {
	Service   kpi.ServiceAPI
	Presenter present.Presenter
	Interval  time.Duration
	Logger    *log.Logger
	// NotifyFailures shows failed refreshes through the presenter as well as
	// logging them.
	NotifyFailures bool
	// OnRefresh, if set, is called after every refresh attempt with the
	// number of counters updated and the failure, if any.
	OnRefresh func(updated int, err error)
}

// Refresher owns the recurring refresh timer.
type Refresher struct {
	svc       kpi.ServiceAPI
	presenter present.Presenter
	interval  time.Duration
	logger    *log.Logger
	notify    bool
	onRefresh func(int, error)

	mu     sync.Mutex
	cancel context.CancelFunc // live timer handle, nil when stopped

	visible atomic.Bool
	flight  singleflight.Group
	now     func() time.Time
}

// New creates a Refresher. It starts visible and stopped.
func New(p Params) *Refresher {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	r := &Refresher{
		svc:       p.Service,
		presenter: p.Presenter,
		interval:  interval,
		logger:    logger,
		notify:    p.NotifyFailures,
		onRefresh: p.OnRefresh,
		now:       time.Now,
	}
	r.visible.Store(true)
	return r
}

// Interval returns the tick interval.
func (r *Refresher) Interval() time.Duration {
	return r.interval
}

// Running reports whether a cycle is live.
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Visible reports the current visibility.
func (r *Refresher) Visible() bool {
	return r.visible.Load()
}

// Start begins a recurring cycle. The first tick fires one interval from now.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked(ctx)
}

func (r *Refresher) startLocked(ctx context.Context) error {
	if r.cancel != nil {
		return ErrRunning
	}
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.loop(loopCtx)
	return nil
}

// Stop cancels the live cycle, if any. In-flight refreshes still complete.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Refresher) stopLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// SetVisible records a visibility change. Hiding cancels the cycle; showing
// starts a fresh one, discarding the time elapsed before it was hidden.
func (r *Refresher) SetVisible(ctx context.Context, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.visible.Swap(visible) == visible {
		return
	}
	if !visible {
		r.stopLocked()
		return
	}
	// A cycle started while hidden restarts from now.
	r.stopLocked()
	if err := r.startLocked(ctx); err != nil {
		r.logger.Printf("refresher: restart failed: %v", err)
	}
}

func (r *Refresher) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick racing with cancellation must not fire.
			if ctx.Err() != nil {
				return
			}
			go r.Tick(context.WithoutCancel(ctx))
		}
	}
}

// Tick refreshes if the dashboard is visible. It never stops the cycle.
func (r *Refresher) Tick(ctx context.Context) {
	if !r.visible.Load() {
		return
	}
	r.Refresh(ctx)
}

// Refresh fetches a snapshot and animates every counter whose key is both
// in the snapshot and on display. Failures are logged and swallowed.
// Overlapping calls share a single fetch.
func (r *Refresher) Refresh(ctx context.Context) {
	_, _, _ = r.flight.Do("refresh", func() (any, error) {
		updated, err := r.refresh(ctx)
		if r.onRefresh != nil {
			r.onRefresh(updated, err)
		}
		return nil, nil
	})
}

func (r *Refresher) refresh(ctx context.Context) (int, error) {
	snap, err := r.svc.FetchSnapshot(ctx)
	if err != nil {
		failure := &RefreshFailure{Err: err}
		r.logger.Printf("%v", failure)
		if r.notify {
			r.presenter.Notify(present.LevelError, "Error actualizando KPIs")
		}
		return 0, failure
	}
	updated := Apply(snap, r.presenter)
	r.logger.Printf("KPIs updated (%d) at %s", updated, r.now().Format("15:04:05"))
	return updated, nil
}

// Apply pushes snap into p and returns how many counters were animated.
// Keys without a numeric total or without a display element are skipped.
func Apply(snap kpi.Snapshot, p present.Presenter) int {
	updated := 0
	for _, key := range snap.Keys() {
		rec := snap[key]
		if rec.Total == nil {
			continue
		}
		id := present.ElementID(key)
		if !p.Has(id) {
			continue
		}
		p.AnimateCounter(id, *rec.Total)
		updated++
	}
	return updated
}
