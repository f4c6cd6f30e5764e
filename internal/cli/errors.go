package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/pal-labs/pal/internal/prompt"
	"github.com/pal-labs/pal/internal/runner"
	"github.com/spf13/cobra"
)

// Exit codes returned by the pal binary.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError marks an invocation problem the user fixes by changing flags.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &UsageError{Err: err}
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// usageArgs turns positional argument validation failures into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// ExitCode maps an error returned by Execute to a process exit code. A user
// interrupt is a clean exit and a failed child process passes its own code
// through.
func ExitCode(err error) int {
	if err == nil || isInterrupt(err) {
		return ExitOK
	}
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitError
}

func isInterrupt(err error) bool {
	return errors.Is(err, prompt.ErrInterrupted) || errors.Is(err, context.Canceled)
}

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}).Bold(true)

// PrintError writes err to w unless it represents a user interrupt.
func PrintError(w io.Writer, err error) {
	if err == nil || isInterrupt(err) {
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("Error:"), err)
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", rootCmd.CommandPath())
	}
}
