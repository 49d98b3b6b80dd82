package daemon

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/1broseidon/bubbledock/internal/platform"
)

// DisplayLister returns the current display layout.
type DisplayLister func() ([]platform.Display, error)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically compares the display layout with the last one it
// saw and calls onChange when monitors were added, removed, resized, or
// their work areas changed. The daemon uses it to re-clamp the bubble after
// a hot-plug, since X11 sends no move event for the bubble in that case.
type Reconciler struct {
	interval     time.Duration
	listDisplays DisplayLister
	onChange     func([]platform.Display)
	logger       *slog.Logger

	last   []platform.Display
	primed bool
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, listDisplays DisplayLister, onChange func([]platform.Display)) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval:     interval,
		listDisplays: listDisplays,
		onChange:     onChange,
		logger:       logger,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)
	r.reconcile()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass and reports whether the
// layout changed.
func (r *Reconciler) reconcile() (changed bool) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	displays, err := r.listDisplays()
	if err != nil {
		r.logger.Error("reconciler: failed to list displays", "error", err)
		return false
	}

	if !r.primed {
		r.last = displays
		r.primed = true
		return false
	}
	if reflect.DeepEqual(r.last, displays) {
		return false
	}

	r.logger.Info("reconciler: display layout changed",
		"before", len(r.last),
		"after", len(displays))
	r.last = displays
	if r.onChange != nil {
		r.onChange(displays)
	}
	return true
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() bool {
	return r.reconcile()
}
