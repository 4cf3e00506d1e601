package install

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"

	"github.com/matzehuels/autoinstall/pkg/errors"
)

// Runner executes a single installer command to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) error

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) error { return f(ctx, cmd) }

// ExecRunner spawns installer commands as child processes.
// The child inherits the host environment; only the working directory
// is overridden per command.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner writing child output to stdout and stderr.
// Nil writers default to the host process's own streams.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

// Run starts cmd and waits for it to exit.
// A non-zero exit yields an *errors.ExitError; a failure to start yields
// an ErrCodeSpawnFailed error.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = nil
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if err := c.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return &errors.ExitError{Command: cmd.String(), ExitCode: exitErr.ExitCode()}
		}
		return errors.Wrap(errors.ErrCodeSpawnFailed, err, "failed to start %s", cmd.Name)
	}
	return nil
}

var _ Runner = (*ExecRunner)(nil)
