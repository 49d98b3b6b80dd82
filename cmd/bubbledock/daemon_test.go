package main

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/bubbledock/internal/config"
	"github.com/1broseidon/bubbledock/internal/geometry"
)

func TestConfigApplier_AppliesLiveKeysAndReportsRestartKeys(t *testing.T) {
	var nominal geometry.Nominal
	var level slog.LevelVar
	var hotkey string
	var logs []string

	started := config.DefaultConfig()
	a := &configApplier{
		started:    started,
		setNominal: func(n geometry.Nominal) { nominal = n },
		level:      &level,
		hotkeys:    func(c *config.Config) { hotkey = c.ToggleHotkey },
		logf:       func(format string, args ...any) { logs = append(logs, fmt.Sprintf(format, args...)) },
	}

	next := config.DefaultConfig()
	next.LogLevel = "debug"
	next.ToggleHotkey = "Mod4-b"
	next.ClampEpsilon = 1.5
	next.Bubble.Color = "#ff0000"
	next.Main.Title = "notes"

	keys := a.apply(next)
	if want := []string{"bubble.color", "main.title"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("restart keys = %v, want %v", keys, want)
	}
	if nominal.ClampEpsilon != 1.5 || level.Level() != slog.LevelDebug || hotkey != "Mod4-b" {
		t.Fatalf("live keys not applied: epsilon=%v level=%v hotkey=%q", nominal.ClampEpsilon, level.Level(), hotkey)
	}
	if len(logs) != 1 || logs[0] != "Config reloaded; restart the daemon to apply: bubble.color, main.title" {
		t.Fatalf("logs = %q", logs)
	}
}

func TestConfigApplier_SerializesConcurrentReloads(t *testing.T) {
	var active, overlaps int32
	var level slog.LevelVar
	a := &configApplier{
		started:    config.DefaultConfig(),
		setNominal: func(geometry.Nominal) {},
		level:      &level,
		hotkeys: func(*config.Config) {
			if atomic.AddInt32(&active, 1) > 1 {
				atomic.AddInt32(&overlaps, 1)
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
		},
		logf: func(string, ...any) {},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.apply(config.DefaultConfig())
		}()
	}
	wg.Wait()

	if overlaps != 0 {
		t.Fatalf("%d reloads overlapped", overlaps)
	}
}
