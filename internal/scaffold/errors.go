package scaffold

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound is returned when a named template directory does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrDestinationNotDir is returned when a destination exists but is not a
	// directory, or when an existing directory was required and is missing.
	ErrDestinationNotDir = errors.New("destination is not a directory")

	// ErrUndefinedVariable is returned when a template references a variable
	// that is not present in the render context.
	ErrUndefinedVariable = errors.New("undefined template variable")

	// ErrConflictingOverwriteFlags is returned when both --yes and --no are set.
	ErrConflictingOverwriteFlags = errors.New("cannot specify both --yes and --no to all overwrite prompts")

	// ErrNoConfirmer is returned when the prompt policy is used without a Confirmer.
	ErrNoConfirmer = errors.New("overwrite policy requires a confirmer")
)

// UndefinedVariableError names the variable a template referenced but the
// render context did not provide.
type UndefinedVariableError struct {
	Template string
	Name     string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("template %s references undefined variable %q", e.Template, e.Name)
}

// Is reports whether target is ErrUndefinedVariable.
func (e *UndefinedVariableError) Is(target error) bool {
	return target == ErrUndefinedVariable
}
