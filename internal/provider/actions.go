package provider

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/atotto/clipboard"
)

// ExecCommand launches an external program. It is the primary action for
// application and shell-passthrough results.
type ExecCommand struct {
	Program string
	Args    []string
}

// Execute starts the program without waiting for it to finish.
func (c ExecCommand) Execute(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", c.Program, err)
	}
	// Detach; the palette does not supervise launched programs.
	go cmd.Wait() //nolint:errcheck
	return nil
}

// OpenPath opens a file or directory with the desktop handler. Doubles as
// the reveal action for file results when pointed at the parent directory.
type OpenPath struct {
	Path string
}

// Execute opens the path.
func (o OpenPath) Execute(ctx context.Context) error {
	return ExecCommand{Program: "xdg-open", Args: []string{o.Path}}.Execute(ctx)
}

// Reveal opens the path (used with the containing directory).
func (o OpenPath) Reveal(ctx context.Context) error {
	return o.Execute(ctx)
}

// CopyText places text on the system clipboard. Used by calculator,
// conversion, and clipboard-history results.
type CopyText struct {
	Text string
}

// Execute writes the text to the clipboard.
func (c CopyText) Execute(_ context.Context) error {
	return clipboard.WriteAll(c.Text)
}

// OpenURL opens a quicklink in the default browser.
type OpenURL struct {
	URL string
}

// Execute opens the URL.
func (o OpenURL) Execute(ctx context.Context) error {
	return ExecCommand{Program: "xdg-open", Args: []string{o.URL}}.Execute(ctx)
}

// TerminateProcess signals a process. It is the reveal action on process
// results ("terminate").
type TerminateProcess struct {
	PID int
}

// Reveal sends SIGTERM to the process.
func (p TerminateProcess) Reveal(_ context.Context) error {
	if p.PID <= 0 {
		return fmt.Errorf("invalid pid %d", p.PID)
	}
	if err := syscall.Kill(p.PID, syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to terminate pid %s: %w", strconv.Itoa(p.PID), err)
	}
	return nil
}

// SetToggle flips a named boolean setting through a callback registered by
// the host. The result stays a value; only the toggle name travels.
type SetToggle struct {
	Name   string
	Target bool
	Apply  func(name string, value bool) error
}

// Execute applies the toggle.
func (s SetToggle) Execute(_ context.Context) error {
	if s.Apply == nil {
		return fmt.Errorf("no toggle handler registered for %q", s.Name)
	}
	return s.Apply(s.Name, s.Target)
}
