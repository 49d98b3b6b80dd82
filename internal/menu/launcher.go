package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the menu without picking.
var ErrCancelled = errors.New("menu cancelled")

// runLauncher runs a launcher with stdin and returns its trimmed stdout.
// Swapped in tests.
var runLauncher = func(ctx context.Context, name string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil && ctx.Err() == nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
	}
	return strings.TrimSpace(string(out)), err
}

func (l launcher) Pick(ctx context.Context, prompt string, labels []string) (int, error) {
	if len(labels) == 0 {
		return -1, fmt.Errorf("menu: nothing to pick from")
	}
	lines := make([]string, len(labels))
	for i, label := range labels {
		lines[i] = oneLine(label)
	}

	out, err := runLauncher(ctx, l.name, l.args(prompt), strings.Join(lines, "\n"))
	switch {
	case ctx.Err() != nil:
		return -1, ctx.Err()
	case err != nil && out == "" && isCancelExit(err):
		return -1, ErrCancelled
	case err != nil:
		return -1, fmt.Errorf("%s failed: %w", l.name, err)
	case out == "":
		return -1, ErrCancelled
	}

	if l.printsIndex {
		if i, err := strconv.Atoi(out); err == nil {
			if i < 0 || i >= len(lines) {
				return -1, fmt.Errorf("menu: index %d out of range", i)
			}
			return i, nil
		}
	}
	for i, line := range lines {
		if line == out {
			return i, nil
		}
	}
	return -1, fmt.Errorf("menu: unknown selection %q", out)
}

// oneLine keeps a label on a single row of launcher input.
func oneLine(label string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(label))
}

// isCancelExit reports the exit codes launchers use for "nothing chosen":
// 1 for escape and 130 for Ctrl+C.
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	code := exitErr.ExitCode()
	return code == 1 || code == 130
}
