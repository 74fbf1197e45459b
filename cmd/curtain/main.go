package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/curtain/internal/dimmer"
	"github.com/1broseidon/curtain/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "toggle", "lock", "unlock", "reload", "quit":
		os.Exit(runSimple(os.Args[1], os.Args[2:]))
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "adjust":
		os.Exit(runAdjust(os.Args[2:]))
	case "color":
		os.Exit(runColor(os.Args[2:]))
	case "mode":
		os.Exit(runMode(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "palette":
		os.Exit(runPalette(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "autostart":
		os.Exit(runAutostart(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: curtain <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the curtain daemon (foreground)")
	fmt.Fprintln(w, "  status              Show dim state")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  toggle              Turn dimming on or off")
	fmt.Fprintln(w, "  set <0-100|off>     Set the dim level")
	fmt.Fprintln(w, "  adjust <delta>      Change the dim level by delta")
	fmt.Fprintln(w, "  color <color>       Set the tint (black, warm, sepia, gray, #rrggbb)")
	fmt.Fprintln(w, "  mode <mode>         Set the mode (exclude-window, screen-wide)")
	fmt.Fprintln(w, "  lock                Keep the focused window undimmed")
	fmt.Fprintln(w, "  unlock              Follow focus again")
	fmt.Fprintln(w, "  displays            List connected displays")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "  quit                Stop the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  palette             Open the dim menu")
	fmt.Fprintln(w, "  tui                 Open interactive control panel")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  autostart           Manage launch at login (enable|disable|status)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'curtain <command> --help' for command-specific options.")
}

// parseFlags parses args with fs and enforces an exact positional count.
// It returns -1 when the caller should continue, or the exit code.
func parseFlags(fs *flag.FlagSet, args []string, nargs int) int {
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != nargs {
		if nargs == 0 {
			fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		} else {
			fmt.Fprintf(os.Stderr, "%s requires %d argument(s)\n", fs.Name(), nargs)
		}
		fs.Usage()
		return 2
	}
	return -1
}

func usage(fs *flag.FlagSet, line, desc string) {
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: curtain "+line)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, desc)
	}
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: curtain status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the daemon's dim state via IPC.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(status)
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, st *ipc.StatusData) {
	fmt.Fprintf(w, "active:         %v\n", st.Active)
	fmt.Fprintf(w, "level:          %d\n", st.Level)
	fmt.Fprintf(w, "color:          %s (%s)\n", st.Color, st.ColorHex)
	fmt.Fprintf(w, "mode:           %s\n", st.Mode)
	if st.Locked {
		fmt.Fprintf(w, "locked_window:  0x%x\n", st.LockedWindow)
	} else {
		fmt.Fprintln(w, "locked_window:  none")
	}
	if t := st.Target; t != nil {
		fmt.Fprintf(w, "target:         0x%x (%s) %dx%d+%d+%d\n", t.Window, t.Source, t.Width, t.Height, t.X, t.Y)
	} else {
		fmt.Fprintln(w, "target:         none")
	}
	fmt.Fprintf(w, "displays:       %d\n", st.Displays)
	fmt.Fprintf(w, "uptime_seconds: %d\n", st.UptimeSeconds)
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// report prints the outcome of a mutating command.
func report(st *ipc.StatusData, err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !st.Active {
		fmt.Println("dimming off")
		return 0
	}
	fmt.Printf("dimming %d%% (%s, %s)\n", st.Level, st.Color, st.Mode)
	return 0
}

func runSimple(name string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	descriptions := map[string]string{
		"toggle": "Turn dimming off, or on at the configured toggle level.",
		"lock":   "Keep the focused application's main window undimmed.",
		"unlock": "Release the locked window.",
		"reload": "Reload the daemon's configuration.",
		"quit":   "Stop the daemon.",
	}
	usage(fs, name, descriptions[name])
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	client := ipc.NewClient()
	switch name {
	case "toggle":
		return report(client.Toggle())
	case "lock":
		st, err := client.Lock()
		if err == nil && !st.Locked {
			fmt.Fprintln(os.Stderr, "no eligible window to lock")
			return 1
		}
		return report(st, err)
	case "unlock":
		return report(client.Unlock())
	case "reload":
		if err := client.Reload(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config reloaded")
		return 0
	default:
		if err := client.Quit(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
}

// parseLevel accepts 0-100, an optional % suffix, or "off".
func parseLevel(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(s)), "%")
	if s == "off" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid level %q", s)
	}
	if n < 0 || n > dimmer.MaxLevel {
		return 0, fmt.Errorf("level must be between 0 and %d, got %d", dimmer.MaxLevel, n)
	}
	return n, nil
}

func runSet(args []string) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	usage(fs, "set <0-100|off>", "Set the dim level. 0 or off turns dimming off.")
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}
	level, err := parseLevel(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return report(ipc.NewClient().SetLevel(level))
}

func runAdjust(args []string) int {
	fs := flag.NewFlagSet("adjust", flag.ContinueOnError)
	usage(fs, "adjust <delta>", "Change the dim level by delta (e.g. 10 or -5).")
	// Negative deltas look like flags; stop flag parsing at them.
	if len(args) == 1 && strings.HasPrefix(args[0], "-") && args[0] != "-h" && args[0] != "--help" {
		args = append([]string{"--"}, args...)
	}
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}
	delta, err := strconv.Atoi(strings.TrimPrefix(fs.Arg(0), "+"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid delta %q\n", fs.Arg(0))
		return 2
	}
	return report(ipc.NewClient().Adjust(delta))
}

func runColor(args []string) int {
	fs := flag.NewFlagSet("color", flag.ContinueOnError)
	usage(fs, "color <black|warm|sepia|gray|#rrggbb>", "Set the dim tint.")
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}
	if _, err := dimmer.ParseColor(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return report(ipc.NewClient().SetColor(fs.Arg(0)))
}

func runMode(args []string) int {
	fs := flag.NewFlagSet("mode", flag.ContinueOnError)
	usage(fs, "mode <exclude-window|screen-wide>", "Choose whether the focused window is left undimmed.")
	if code := parseFlags(fs, args, 1); code >= 0 {
		return code
	}
	if _, err := dimmer.ParseMode(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return report(ipc.NewClient().SetMode(fs.Arg(0)))
}

func runDisplays(args []string) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output displays as JSON")
	usage(fs, "displays [--json]", "List connected displays.")
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	data, err := ipc.NewClient().GetDisplays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data)
	}
	for _, d := range data.Displays {
		primary := ""
		if d.Primary {
			primary = " primary"
		}
		fmt.Printf("%s %dx%d+%d+%d%s\n", d.ID, d.Width, d.Height, d.X, d.Y, primary)
	}
	return 0
}
