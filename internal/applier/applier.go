// Package applier runs the external command that switches the terminal's
// colors to a scheme.
package applier

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/iterminator/internal/errs"
)

// DefaultTimeout bounds a single apply.
const DefaultTimeout = 5 * time.Second

// waitDelay caps how long Apply waits for output pipes after the command is killed.
const waitDelay = 500 * time.Millisecond

// Applier changes the running terminal's colors to the scheme stored at path.
type Applier interface {
	Apply(ctx context.Context, path string) error
}

// Func adapts a function to the Applier interface.
type Func func(ctx context.Context, path string) error

// Apply calls f(ctx, path).
func (f Func) Apply(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Command applies a scheme by running Argv with the scheme path appended.
// The command's stdout is the terminal, since appliers work by emitting
// escape sequences.
type Command struct {
	Argv    []string
	Timeout time.Duration
	Stdout  io.Writer
	Log     logr.Logger
}

// New returns a Command writing to os.Stdout.
func New(argv []string, timeout time.Duration, log logr.Logger) *Command {
	return &Command{Argv: argv, Timeout: timeout, Stdout: os.Stdout, Log: log}
}

// Apply runs the command synchronously. A failure to start, a non-zero exit
// or a timeout is returned as an Apply error carrying the command's stderr.
func (c *Command) Apply(ctx context.Context, path string) error {
	const op = "applier.Apply"

	if len(c.Argv) == 0 {
		return errs.New(errs.Apply, op, "no applier command configured")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string(nil), c.Argv[1:]...), path)
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)
	var stderr bytes.Buffer
	cmd.Stdout = c.Stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	c.Log.V(1).Info("applied scheme", "command", c.Argv[0], "path", path, "duration", time.Since(start).String(), "ok", err == nil)
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "command " + c.Argv[0] + " failed"
		}
		return errs.Wrap(errs.Apply, op, msg, err)
	}
	return nil
}
