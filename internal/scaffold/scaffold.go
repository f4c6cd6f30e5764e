package scaffold

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pal-labs/pal/internal/logging"
	"github.com/pal-labs/pal/internal/manifest"
	"github.com/spf13/afero"
)

// Template is a resolved template directory and its optional manifest.
type Template struct {
	Name     string
	Root     string
	Manifest *manifest.TemplateManifest
}

// Result holds the outcome of a Generate call.
type Result struct {
	Template *Template
	Plan     []RenderAction
	Report   *Report
}

// ResolveTemplatesDir returns override when set, otherwise the templates
// directory of the repository enclosing start.
func ResolveTemplatesDir(fsys afero.Fs, start, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(FindRepoRoot(fsys, start, TemplatesDir), TemplatesDir)
}

// LoadTemplate resolves the named template and loads its manifest. version
// is checked against the manifest's requires constraint.
func LoadTemplate(fsys afero.Fs, templatesDir, name, version string) (*Template, error) {
	root, err := TemplateRootIn(fsys, templatesDir, name)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(fsys, root)
	if err != nil {
		return nil, err
	}
	if err := m.CheckVersion(version); err != nil {
		return nil, err
	}
	return &Template{Name: name, Root: root, Manifest: m}, nil
}

// PlanOptions returns the plan options implied by the template's manifest.
func (t *Template) PlanOptions() PlanOptions {
	opts := PlanOptions{ManifestName: manifest.FileName}
	if t.Manifest != nil {
		opts.Exclude = t.Manifest.Exclude
	}
	return opts
}

// Generator renders templates into destination directories.
type Generator struct {
	fs         afero.Fs
	applicator *Applicator
}

// NewGenerator creates a Generator that plans on fsys and writes through applicator.
func NewGenerator(fsys afero.Fs, applicator *Applicator) *Generator {
	return &Generator{fs: fsys, applicator: applicator}
}

// Plan builds the render plan for tmpl into dest without touching the
// destination.
func (g *Generator) Plan(tmpl *Template, dest string) ([]RenderAction, error) {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("resolving destination %s: %w", dest, err)
	}
	return BuildPlan(g.fs, tmpl.Root, absDest, tmpl.PlanOptions())
}

// Generate builds the render plan for tmpl and applies it to dest.
func (g *Generator) Generate(ctx context.Context, tmpl *Template, dest string, rc RenderContext, mode Mode) (*Result, error) {
	logger := logging.Get("scaffold")

	plan, err := g.Plan(tmpl, dest)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("template", tmpl.Name).
		Str("dest", dest).
		Int("files", len(plan)).
		Bool("dryRun", mode.DryRun).
		Str("policy", mode.Policy.String()).
		Msg("Rendering template")

	report, err := g.applicator.Apply(ctx, plan, rc, mode)
	return &Result{Template: tmpl, Plan: plan, Report: report}, err
}
