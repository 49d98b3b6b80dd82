package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/1broseidon/bubbledock/internal/platform"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconcilerDetectsLayoutChange(t *testing.T) {
	single := []platform.Display{{ID: 0, Name: "eDP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}}}
	dual := append([]platform.Display{}, single...)
	dual = append(dual, platform.Display{ID: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Width: 2560, Height: 1440}})

	layouts := [][]platform.Display{single, single, dual, dual, single}
	i := 0
	list := func() ([]platform.Display, error) {
		d := layouts[i]
		i++
		return d, nil
	}

	changes := 0
	r := NewReconciler(ReconcilerConfig{Logger: quietLogger()}, list, func([]platform.Display) { changes++ })

	want := []bool{false, false, true, false, true}
	for step, w := range want {
		if got := r.ReconcileNow(); got != w {
			t.Fatalf("step %d: changed = %v, want %v", step, got, w)
		}
	}
	if changes != 2 {
		t.Fatalf("onChange called %d times, want 2", changes)
	}
}

func TestReconcilerWorkAreaChangeCounts(t *testing.T) {
	base := platform.Display{Name: "eDP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}, Usable: platform.Rect{Width: 1920, Height: 1080}}
	panel := base
	panel.Usable = platform.Rect{Y: 32, Width: 1920, Height: 1048}

	layouts := [][]platform.Display{{base}, {panel}}
	i := 0
	r := NewReconciler(ReconcilerConfig{Logger: quietLogger()}, func() ([]platform.Display, error) {
		d := layouts[i]
		i++
		return d, nil
	}, nil)

	r.ReconcileNow()
	if !r.ReconcileNow() {
		t.Fatalf("work area change not detected")
	}
}

func TestReconcilerListErrorIsNotAChange(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{Logger: quietLogger()}, func() ([]platform.Display, error) {
		return nil, errors.New("randr unavailable")
	}, func([]platform.Display) { t.Fatalf("onChange called on error") })

	if r.ReconcileNow() {
		t.Fatalf("error reported as change")
	}
}

func TestReconcilerRecoversFromPanic(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{Logger: quietLogger()}, func() ([]platform.Display, error) {
		panic("boom")
	}, nil)

	if r.ReconcileNow() {
		t.Fatalf("panic reported as change")
	}
}

func TestReconcilerRunStopsOnCancel(t *testing.T) {
	r := NewReconciler(ReconcilerConfig{Interval: time.Millisecond, Logger: quietLogger()},
		func() ([]platform.Display, error) { return nil, nil }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
