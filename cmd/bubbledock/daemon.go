package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/bubbledock/internal/config"
	"github.com/1broseidon/bubbledock/internal/daemon"
	"github.com/1broseidon/bubbledock/internal/geometry"
	"github.com/1broseidon/bubbledock/internal/hotkeys"
	"github.com/1broseidon/bubbledock/internal/ipc"
	"github.com/1broseidon/bubbledock/internal/menu"
	"github.com/1broseidon/bubbledock/internal/pairing"
	"github.com/1broseidon/bubbledock/internal/platform"
)

func runDaemonCommand(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/bubbledock/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: bubbledock daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the main window and run until quit. Closing the main window")
		fmt.Fprintln(os.Stderr, "docks it into the bubble; clicking the bubble restores it.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	runDaemon(*path)
	return 0
}

func runDaemon(configPath string) {
	res, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	log.Printf("Configuration loaded from %s (toggle hotkey: %s)", res.Path, displayOr(cfg.ToggleHotkey, "none"))

	var level slog.LevelVar
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))

	env, err := daemon.ResolveX11Env(os.Environ(), cfg.Display, cfg.XAuthority)
	if err != nil {
		log.Fatalf("Failed to resolve X display: %v", err)
	}
	if err := env.Apply(); err != nil {
		log.Fatalf("Failed to apply X environment: %v", err)
	}

	color, err := cfg.BubbleRGB()
	if err != nil {
		log.Fatalf("Invalid bubble color: %v", err)
	}

	// Connect to display server and create both windows
	backend, err := platform.NewLinuxBackend(platform.LinuxOptions{
		Display:       env.Display,
		Nominal:       cfg.Nominal(),
		MainTitle:     cfg.Main.Title,
		BubbleColor:   color,
		BubbleSticky:  cfg.Bubble.Sticky,
		DragThreshold: cfg.DragThreshold,
	})
	if err != nil {
		log.Fatalf("Failed to connect to display %s: %v", env.Display, err)
	}
	defer backend.Close()
	log.Printf("Connected to display %s", env.Display)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	coord := pairing.New(pairing.Options{
		Registry: backend,
		Nominal:  cfg.Nominal(),
		Menu:     menu.NewContextMenu(cfg.MenuBackend, cfg.Main.Title),
		Quit: func() {
			log.Println("Shutting down bubbledock daemon...")
			cancel()
			backend.Quit()
		},
		OnTransition: func(_, to pairing.VisibilityState) {
			backend.SetStatusLines(statusLines(to))
		},
		Logger: logger.With("component", "pairing"),
	})
	backend.SetStatusLines(statusLines(coord.State()))

	post := func(kind pairing.EventKind, source string) bool {
		if !coord.Post(pairing.Event{Kind: kind, Source: source}) {
			logger.Warn("event dropped", "event", kind, "source", source)
			return false
		}
		return true
	}
	postHook := func(kind pairing.EventKind) func() {
		return func() { post(kind, "x11") }
	}

	// Moves are handled on the X loop so the clamp lands before the next
	// ConfigureNotify; everything else goes through the queue.
	if err := backend.SetHooks(platform.Hooks{
		MainCloseRequested:   postHook(pairing.EventMainCloseRequested),
		BubbleCloseRequested: postHook(pairing.EventBubbleCloseRequested),
		BubbleActivated:      postHook(pairing.EventBubbleActivated),
		BubbleContext:        postHook(pairing.EventBubbleContextAction),
		BubbleMoved: func() {
			coord.Handle(pairing.Event{Kind: pairing.EventBubbleMoved, Source: "x11"})
		},
	}); err != nil {
		log.Fatalf("Failed to install window hooks: %v", err)
	}

	go func() {
		if err := coord.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Coordinator stopped: %v", err)
		}
	}()

	// Setup hotkey handler
	hotkeyHandler, err := hotkeys.NewHandler(backend, coord)
	if err != nil {
		log.Fatalf("Failed to initialize hotkeys: %v", err)
	}
	registerHotkeys := func(c *config.Config) {
		hotkeyHandler.Unregister()
		if err := hotkeyHandler.RegisterToggle(c.ToggleHotkey); err != nil {
			log.Printf("Warning: Failed to register toggle hotkey %q: %v", c.ToggleHotkey, err)
		} else if c.ToggleHotkey != "" {
			log.Printf("Toggle hotkey registered: %s", c.ToggleHotkey)
		}
		if err := hotkeyHandler.RegisterQuit(c.QuitHotkey); err != nil {
			log.Printf("Warning: Failed to register quit hotkey %q: %v", c.QuitHotkey, err)
		} else if c.QuitHotkey != "" {
			log.Printf("Quit hotkey registered: %s", c.QuitHotkey)
		}
	}
	registerHotkeys(cfg)

	applier := &configApplier{
		started:    cfg,
		setNominal: coord.SetNominal,
		level:      &level,
		hotkeys:    registerHotkeys,
		logf:       log.Printf,
	}
	applyConfig := applier.apply
	reload := func() error {
		next, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		applyConfig(next.Config)
		return nil
	}

	// Start IPC server
	ipcServer, err := ipc.NewServer(ipc.ServerOptions{
		Coordinator: coord,
		Displays:    backend,
		Reload:      reload,
		ConfigPath:  res.Path,
	})
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Re-clamp the bubble when monitors change
	if cfg.ReconcileInterval > 0 {
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: time.Duration(cfg.ReconcileInterval) * time.Second,
			Logger:   logger.With("component", "reconciler"),
		}, backend.Displays, func([]platform.Display) {
			post(pairing.EventBubbleMoved, "reconciler")
		})
		reconciler.ReconcileNow()
		go reconciler.Run(ctx)
	}

	// Watch the config file for edits
	watcher := config.NewWatcher(res.Path, logger.With("component", "config"))
	watcher.OnConfigChange(func(r *config.LoadResult) {
		applyConfig(r.Config)
	})
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Config watcher stopped: %v", err)
		}
	}()

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					if err := reload(); err != nil {
						log.Printf("Config reload failed: %v", err)
					}
				default:
					if !post(pairing.EventQuitRequested, "signal") {
						cancel()
						backend.Quit()
					}
				}
			}
		}
	}()

	coord.Start()
	log.Println("bubbledock daemon started successfully")

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	backend.EventLoop()
	cancel()
}

func statusLines(state pairing.VisibilityState) []string {
	return []string{
		"bubbledock",
		"",
		"state: " + state.String(),
		"Close this window to dock it into the bubble.",
		"Click the bubble to bring it back; right-click for more.",
	}
}

func displayOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// configApplier applies reloaded configs to the running daemon. The watcher,
// SIGHUP and IPC RELOAD can all call apply; it runs one reload at a time.
type configApplier struct {
	mu         sync.Mutex
	started    *config.Config
	setNominal func(geometry.Nominal)
	level      *slog.LevelVar
	hotkeys    func(*config.Config)
	logf       func(format string, args ...any)
}

// apply installs the live keys of next and returns the keys that still
// need a restart.
func (a *configApplier) apply(next *config.Config) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.setNominal(config.LiveNominal(a.started, next))
	a.level.Set(next.SlogLevel())
	a.hotkeys(next)

	keys := config.RestartRequired(a.started, next)
	if len(keys) > 0 {
		a.logf("Config reloaded; restart the daemon to apply: %s", strings.Join(keys, ", "))
	} else {
		a.logf("Config reloaded successfully")
	}
	return keys
}
