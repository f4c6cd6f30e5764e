package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pal-labs/pal/internal/branding"
	"github.com/pal-labs/pal/internal/logging"
)

// DefaultPostTask runs after a template is rendered unless the template
// manifest says otherwise.
var DefaultPostTask = []string{"task", "bootstrap"}

// BootstrappedVar is exported to every child so scripts can tell they were
// launched from an already prepared environment.
func BootstrappedVar() string {
	return branding.EnvVar("BOOTSTRAPPED")
}

// Command describes one child process.
type Command struct {
	Args []string // program and arguments
	Dir  string   // working directory; empty means the current one
	Env  []string // KEY=VALUE pairs added to the parent's environment

	// Stdin, Stdout and Stderr default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// ExitError reports a child that ran and exited with a non-zero code.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.Code)
}

// ErrEmptyCommand is returned when a Command has no program.
var ErrEmptyCommand = errors.New("empty command")

// Run starts c and waits for it. The child's output is streamed, not
// captured.
func Run(ctx context.Context, c Command) error {
	logger := logging.Get("runner")

	if len(c.Args) == 0 || c.Args[0] == "" {
		return ErrEmptyCommand
	}

	bin, err := exec.LookPath(c.Args[0])
	if err != nil {
		return fmt.Errorf("command %q not found: %w", c.Args[0], err)
	}

	cmd := exec.CommandContext(ctx, bin, c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = os.Environ()
	for _, kv := range c.Env {
		key, value, _ := strings.Cut(kv, "=")
		cmd.Env = setEnv(cmd.Env, key, value)
	}
	cmd.Stdin = orReader(c.Stdin, os.Stdin)
	cmd.Stdout = orWriter(c.Stdout, os.Stdout)
	cmd.Stderr = orWriter(c.Stderr, os.Stderr)

	logger.Debug().Str("command", c.String()).Str("dir", c.Dir).Msg("Running child process")
	done := logging.OperationTimer(logger, c.Args[0])
	err = cmd.Run()
	done()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			logger.Debug().Str("command", c.String()).Int("code", exitErr.ExitCode()).Msg("Child process failed")
			return &ExitError{Command: c.String(), Code: exitErr.ExitCode()}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("running %q: %w", c.String(), err)
	}
	return nil
}

// PostTask builds the post-render command for a project rendered into dest.
func PostTask(dest string, argv []string) Command {
	return Command{
		Args: argv,
		Dir:  dest,
		Env:  []string{BootstrappedVar() + "=1"},
	}
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func orReader(r, fallback io.Reader) io.Reader {
	if r == nil {
		return fallback
	}
	return r
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
