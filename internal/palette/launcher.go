package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// launcher drives rofi, fuzzel, wofi or dmenu in dmenu mode.
type launcher struct {
	command string
	// byIndex launchers print the chosen row index instead of its text.
	byIndex bool
	// rich launchers understand pango markup, icons and row properties.
	rich  bool
	fuzzy bool

	run func(command string, args []string, input string) (string, error)
}

func newLauncher(name string) (*launcher, bool) {
	l := &launcher{command: name, run: runCommand}
	switch name {
	case "rofi":
		l.byIndex = true
		l.rich = true
	case "fuzzel":
		l.byIndex = true
	case "wofi", "dmenu":
	default:
		return nil, false
	}
	return l, true
}

func (l *launcher) Name() string { return l.command }

func (l *launcher) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	rows := l.labels(items)
	out, err := l.run(l.command, l.args(prompt, message, items), l.input(items, rows))
	if err != nil {
		return Item{}, err
	}
	choice := strings.TrimSpace(out)
	if choice == "" {
		return Item{}, ErrCancelled
	}
	return l.parse(choice, items, rows)
}

func (l *launcher) args(prompt, message string, items []Item) []string {
	var args []string
	switch l.command {
	case "rofi":
		args = []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom", "-markup-rows", "-show-icons"}
		if l.fuzzy {
			args = append(args, "-matching", "fuzzy")
		}
		if row := currentRow(items); row >= 0 {
			args = append(args, "-a", strconv.Itoa(row), "-selected-row", strconv.Itoa(row))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}
	case "fuzzel":
		args = []string{"--dmenu", "--prompt", prompt + " ", "--index"}
	case "wofi":
		args = []string{"--dmenu", "--prompt", prompt}
	default:
		args = []string{"-i", "-p", prompt}
	}
	return args
}

// labels returns the visible text per row. Text-matched launchers get
// duplicate labels numbered so a choice maps back to one row.
func (l *launcher) labels(items []Item) []string {
	rows := make([]string, len(items))
	seen := make(map[string]int)
	for i, it := range items {
		label := cleanLabel(it.Label)
		if it.Current && !l.rich {
			label = "● " + label
		}
		if !l.byIndex {
			if n := seen[label]; n > 0 {
				seen[label] = n + 1
				label = fmt.Sprintf("%s (%d)", label, n+1)
			} else {
				seen[label] = 1
			}
		}
		rows[i] = label
	}
	return rows
}

func (l *launcher) input(items []Item, rows []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		if !l.rich {
			lines[i] = rows[i]
			continue
		}
		text := html.EscapeString(rows[i])
		if it.Header {
			text = "<b>" + text + "</b>"
		}
		// Row properties follow a single NUL, as key/value pairs split by 0x1f.
		var props []string
		if it.Header {
			props = append(props, "nonselectable", "true")
		}
		if it.Icon != "" {
			props = append(props, "icon", cleanField(it.Icon))
		}
		if len(props) > 0 {
			text += "\x00" + strings.Join(props, "\x1f")
		}
		lines[i] = text
	}
	return strings.Join(lines, "\n")
}

func (l *launcher) parse(choice string, items []Item, rows []string) (Item, error) {
	if l.byIndex {
		if idx, err := strconv.Atoi(choice); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for i, row := range rows {
		if row == choice {
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", choice)
}

func currentRow(items []Item) int {
	for i, it := range items {
		if it.Current && !it.Header {
			return i
		}
	}
	return -1
}

func cleanLabel(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\x00", " ", "\x1f", " ", "\r", " ", "\n", " ").Replace(s))
}

func runCommand(command string, args []string, input string) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// 1 is "nothing chosen" for every launcher, 130 is Ctrl+C.
		switch exitErr.ExitCode() {
		case 1, 130:
			return "", ErrCancelled
		}
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", fmt.Errorf("%s failed: %s", command, msg)
	}
	return "", fmt.Errorf("%s failed: %w", command, err)
}
