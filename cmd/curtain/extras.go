package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/curtain/internal/autostart"
	"github.com/1broseidon/curtain/internal/ipc"
	"github.com/1broseidon/curtain/internal/mcp"
	"github.com/1broseidon/curtain/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	usage(fs, "tui", "Open the interactive control panel. Requires a running daemon.")
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	client := ipc.NewClient()
	if err := client.Ping(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := tui.Run(client); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
		return 1
	}
	return 0
}

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: curtain mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	usage(fs, "mcp serve", "Start the MCP server on stdio. Tools forward to the running daemon.")
	if code := parseFlags(fs, args, 0); code >= 0 {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcp.NewServer(ipc.NewClient()).Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}

func runAutostart(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: curtain autostart <enable|disable|status>")
		return 2
	}

	switch args[0] {
	case "enable":
		exe, err := os.Executable()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to find executable: %v\n", err)
			return 1
		}
		if err := autostart.Enable(exe); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		path, _ := autostart.Path()
		fmt.Printf("launch at login enabled (%s)\n", path)
		return 0
	case "disable":
		if err := autostart.Disable(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("launch at login disabled")
		return 0
	case "status":
		on, err := autostart.Enabled()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if on {
			fmt.Println("enabled")
		} else {
			fmt.Println("disabled")
		}
		return 0
	case "help", "-h", "--help":
		fmt.Println("Usage: curtain autostart <enable|disable|status>")
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown autostart command: %s\n", args[0])
		return 2
	}
}
