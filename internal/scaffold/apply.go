package scaffold

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pal-labs/pal/internal/logging"
	"github.com/pal-labs/pal/internal/platform"
	"github.com/spf13/afero"
)

// OverwritePolicy decides what happens when a planned target already exists.
type OverwritePolicy int

const (
	// OverwritePrompt asks the Confirmer for every existing target.
	OverwritePrompt OverwritePolicy = iota
	// OverwriteAlways replaces existing targets.
	OverwriteAlways
	// OverwriteNever skips every action and writes nothing.
	OverwriteNever
)

// String returns a human-readable name for the policy.
func (p OverwritePolicy) String() string {
	switch p {
	case OverwriteAlways:
		return "always"
	case OverwriteNever:
		return "never"
	case OverwritePrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// ResolveOverwritePolicy maps the mutually exclusive --yes/--no flags to a
// policy. Neither flag means prompting per file.
func ResolveOverwritePolicy(yes, no bool) (OverwritePolicy, error) {
	switch {
	case yes && no:
		return OverwritePrompt, ErrConflictingOverwriteFlags
	case yes:
		return OverwriteAlways, nil
	case no:
		return OverwriteNever, nil
	default:
		return OverwritePrompt, nil
	}
}

// Mode controls a single Apply call.
type Mode struct {
	DryRun bool
	Policy OverwritePolicy
}

// Confirmer asks whether an existing target may be replaced.
type Confirmer interface {
	ConfirmOverwrite(ctx context.Context, target string) (bool, error)
}

// Report records what Apply did, in plan order.
type Report struct {
	Written []string
	Skipped []string
	Planned []string // dry-run only
}

// Applicator executes render plans against a filesystem.
type Applicator struct {
	fs        afero.Fs
	engine    *Engine
	confirmer Confirmer
	out       io.Writer
}

// NewApplicator creates an Applicator. confirmer may be nil when the policy
// never prompts. Progress lines are written to out.
func NewApplicator(fsys afero.Fs, engine *Engine, confirmer Confirmer, out io.Writer) *Applicator {
	if engine == nil {
		engine = NewEngine()
	}
	if out == nil {
		out = io.Discard
	}
	return &Applicator{fs: fsys, engine: engine, confirmer: confirmer, out: out}
}

// Apply executes plan in order. Files written before a failure stay on disk;
// Apply does not roll back.
func (a *Applicator) Apply(ctx context.Context, plan []RenderAction, rc RenderContext, mode Mode) (*Report, error) {
	logger := logging.Get("scaffold.apply")
	done := logging.OperationTimer(logger, "apply")
	defer done()

	if !mode.DryRun && mode.Policy == OverwritePrompt && a.confirmer == nil {
		return nil, ErrNoConfirmer
	}

	report := &Report{}
	for _, item := range plan {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if mode.DryRun {
			fmt.Fprintf(a.out, "[DRY-RUN] %s: %s -> %s\n", item.Verb(), item.Source, item.Target)
			report.Planned = append(report.Planned, item.Target)
			continue
		}

		if err := a.fs.MkdirAll(filepath.Dir(item.Target), 0755); err != nil {
			return report, fmt.Errorf("creating directory for %s: %w", item.Target, err)
		}

		proceed, exists, err := a.shouldWrite(ctx, item.Target, mode.Policy)
		if err != nil {
			return report, err
		}
		if !proceed {
			logger.Debug().Str("target", item.Target).Str("policy", mode.Policy.String()).Bool("exists", exists).Msg("Skipping file")
			if exists {
				fmt.Fprintf(a.out, "Skipped existing file: %s\n", item.Target)
			} else {
				fmt.Fprintf(a.out, "Skipped %s\n", item.Target)
			}
			report.Skipped = append(report.Skipped, item.Target)
			continue
		}

		if item.IsTemplate {
			err = a.render(item, rc)
		} else {
			err = a.copy(item)
		}
		if err != nil {
			return report, err
		}

		fmt.Fprintf(a.out, "Wrote %s\n", item.Target)
		report.Written = append(report.Written, item.Target)
	}
	return report, nil
}

// ExistingTargets returns the plan targets that are already present, in plan
// order. It only reads fsys.
func ExistingTargets(fsys afero.Fs, plan []RenderAction) ([]string, error) {
	var existing []string
	for _, item := range plan {
		ok, err := afero.Exists(fsys, item.Target)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", item.Target, err)
		}
		if ok {
			existing = append(existing, item.Target)
		}
	}
	return existing, nil
}

// shouldWrite applies the overwrite policy to target. OverwriteNever skips
// unconditionally; otherwise targets that do not exist yet are written.
func (a *Applicator) shouldWrite(ctx context.Context, target string, policy OverwritePolicy) (proceed, exists bool, err error) {
	exists, err = afero.Exists(a.fs, target)
	if err != nil {
		return false, false, fmt.Errorf("checking %s: %w", target, err)
	}

	switch {
	case policy == OverwriteNever:
		return false, exists, nil
	case !exists, policy == OverwriteAlways:
		return true, exists, nil
	default:
		ok, err := a.confirmer.ConfirmOverwrite(ctx, target)
		if err != nil {
			return false, exists, err
		}
		return ok, exists, nil
	}
}

// render produces the whole output in memory before touching the target, so
// a failed render leaves no destination file behind.
func (a *Applicator) render(item RenderAction, rc RenderContext) error {
	info, err := a.fs.Stat(item.Source)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", item.Source, err)
	}
	text, err := afero.ReadFile(a.fs, item.Source)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", item.Source, err)
	}

	out, err := a.engine.Render(filepath.Base(item.Source), text, rc)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(a.fs, item.Target, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", item.Target, err)
	}
	return nil
}

// copy streams the source bytes to the target and then carries over the
// permission bits and modification time.
func (a *Applicator) copy(item RenderAction) error {
	src, err := a.fs.Open(item.Source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", item.Source, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("reading %s: %w", item.Source, err)
	}

	dst, err := a.fs.OpenFile(item.Target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", item.Target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copying %s to %s: %w", item.Source, item.Target, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", item.Target, err)
	}

	if err := platform.CopyMetadata(a.fs, info, item.Target); err != nil {
		return fmt.Errorf("copying metadata to %s: %w", item.Target, err)
	}
	return nil
}
