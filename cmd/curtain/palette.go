package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/curtain/internal/autostart"
	"github.com/1broseidon/curtain/internal/config"
	"github.com/1broseidon/curtain/internal/ipc"
	"github.com/1broseidon/curtain/internal/palette"
)

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	backendName := fs.String("backend", "", "Launcher: auto, rofi, fuzzel, wofi, dmenu (default from config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: curtain palette [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the dim menu in a dmenu-style launcher.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	name := *backendName
	if name == "" {
		name = cfg.PaletteBackend
	}
	backend, err := palette.NewBackend(name, cfg.PaletteFuzzyMatching)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	autostartOn, err := autostart.Enabled()
	if err != nil {
		fmt.Fprintf(os.Stderr, "autostart: %v\n", err)
	}

	menu := palette.NewMenu(backend, "curtain", palette.DimMenu(*status, cfg.MenuLevels, autostartOn))
	menu.SetMessage(palette.StatusMessage(*status))
	action, err := menu.Show()
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := applyMenuAction(client, action); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func applyMenuAction(client *ipc.Client, action string) error {
	switch action {
	case palette.ActionQuit:
		return client.Quit()
	case palette.ActionAutostartOn:
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to find executable: %w", err)
		}
		return autostart.Enable(exe)
	case palette.ActionAutostartOff:
		return autostart.Disable()
	}

	a, ok, err := palette.ParseDimAction(action)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown menu action %q", action)
	}
	_, err = client.Dispatch(a)
	return err
}
