package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// HandlerInvoker launches the downstream handler through a resolved
// interpreter and reports the child's exit status.
type HandlerInvoker interface {
	Invoke(ctx context.Context, interpreter string, args []string) (Status, error)
}

// ExecInvoker runs the handler as a real child process. The child inherits
// the parent environment and, by default, the parent's standard streams; it
// blocks the caller until it exits.
type ExecInvoker struct {
	// Script is the handler script path passed as the interpreter's first
	// argument.
	Script string
	// Stdin, Stdout and Stderr are the child's streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env overrides the child environment when non-nil.
	Env []string
}

// NewExecInvoker creates an invoker wired to the process streams.
func NewExecInvoker(script string) *ExecInvoker {
	return &ExecInvoker{
		Script: script,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Invoke runs the interpreter with the handler script and the forwarded
// args. A non-zero handler exit is not an error here; the status carries it.
// A returned error means the child could not be launched at all.
func (iv *ExecInvoker) Invoke(ctx context.Context, interpreter string, args []string) (Status, error) {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, iv.Script)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, interpreter, argv...)
	cmd.Env = iv.Env
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	cmd.Stdin = iv.Stdin
	cmd.Stdout = iv.Stdout
	cmd.Stderr = iv.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return Status(exitErr.ExitCode()), nil
		}
		return 1, fmt.Errorf("failed to launch handler via %s: %w", interpreter, err)
	}
	return StatusOK, nil
}
