package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/curtain/internal/config"
	"github.com/1broseidon/curtain/internal/daemon"
	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/hotkeys"
	"github.com/1broseidon/curtain/internal/ipc"
	"github.com/1broseidon/curtain/internal/overlay"
	"github.com/1broseidon/curtain/internal/platform"
	"github.com/1broseidon/curtain/internal/runtimepath"
	"github.com/1broseidon/curtain/internal/targeting"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	path := fs.String("path", "", "Config file path (default: ~/.config/curtain/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: curtain daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the dimmer in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	configPath := *path
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		configPath = p
	}
	loadConfig := func() (*config.Config, error) {
		res, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (toggle: %s, level: %d%%, mode: %s)", cfg.Hotkeys.Toggle, cfg.ToggleLevel, cfg.Mode)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	conn := backend.Connection()
	if !conn.HasShape {
		log.Fatalf("The X server lacks the SHAPE extension; overlays cannot be click-through")
	}

	overlays := overlay.NewManager(
		overlay.NewX11Factory(backend.XUtil(), backend.RootWindow(), conn.HasShape),
		backend.Origin(),
		logger,
	)
	overlays.SetPolicy(cfg.Exclusion())

	resolver := targeting.NewResolver(targeting.NewDirectory(backend, logger), cfg.SelectorPolicy())

	loop := daemon.NewLoop(daemon.LoopConfig{Logger: logger})
	controller := dimmer.NewController(dimmer.Options{
		Resolver:   resolver,
		Env:        backend,
		Compositor: overlays,
		Scheduler:  loop,
		Settings:   cfg.DimmerSettings(),
		Color:      cfg.DimColor(),
		Mode:       cfg.DimMode(),
		Logger:     logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx, controller)

	post := func(a dimmer.Action) {
		if err := loop.Post(a); err != nil {
			logger.Debug("dropped action", "action", dimmer.Describe(a), "error", err)
		}
	}

	// Hide and destroy the overlays on the loop goroutine before it stops.
	shutdown := sync.OnceFunc(func() {
		log.Println("Shutting down curtain daemon...")
		sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer scancel()
		if err := loop.Do(sctx, func() {
			controller.Shutdown()
			overlays.Close()
		}); err != nil {
			log.Printf("Overlay cleanup incomplete: %v", err)
		}
		cancel()
		backend.QuitEventLoop()
	})

	hotkeyHandler, err := hotkeys.NewHandler(backend)
	if err != nil {
		log.Fatalf("Failed to initialize hotkeys: %v", err)
	}
	if err := hotkeyHandler.Bind(cfg.Hotkeys.Bindings(), cfg.AdjustStep, post, launchPalette); err != nil {
		log.Printf("Warning: %v", err)
	}

	if err := conn.WatchActiveWindow(func() {
		pid, _, err := backend.FrontmostPID()
		if err != nil {
			logger.Debug("frontmost lookup failed", "error", err)
		}
		post(dimmer.FrontmostChanged{PID: pid})
	}); err != nil {
		log.Printf("Warning: focus changes will only be picked up by the periodic refresh: %v", err)
	}
	if err := conn.WatchScreenChanges(func() { post(dimmer.DisplaysChanged{}) }); err != nil {
		log.Printf("Warning: display changes will only be picked up by the periodic refresh: %v", err)
	}

	// Let the IPC response go out before the daemon exits.
	quit := func() { go shutdown() }
	service := daemon.NewService(daemon.ServiceConfig{
		Loop:       loop,
		Controller: controller,
		Resolver:   resolver,
		Overlays:   overlays,
		Displays:   backend.Displays,
		LoadConfig: loadConfig,
		Quit:       quit,
		Logger:     logger,
	})

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve socket path: %v", err)
	}
	ipcServer := ipc.NewServer(socketPath, service, logger)
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	reload := func() {
		rctx, rcancel := context.WithTimeout(ctx, 5*time.Second)
		defer rcancel()
		if err := service.Reload(rctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Config reload failed: %v", err)
		}
	}

	if _, err := os.Stat(filepath.Dir(configPath)); err == nil {
		go func() {
			if err := daemon.WatchConfig(ctx, configPath, logger, reload); err != nil {
				log.Printf("Warning: config watcher stopped: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					reload()
				default:
					shutdown()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Println("curtain daemon started successfully")
	log.Println("Entering event loop...")
	backend.EventLoop()

	shutdown()
	<-loop.Done()
	return 0
}

// launchPalette opens the dim menu in a child process so the X event loop
// keeps running while the launcher is up.
func launchPalette() {
	exe, err := os.Executable()
	if err != nil {
		log.Printf("Palette: failed to find executable: %v", err)
		return
	}
	cmd := exec.Command(exe, "palette")
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Printf("Palette: failed to launch: %v", err)
		return
	}
	go cmd.Wait()
}
