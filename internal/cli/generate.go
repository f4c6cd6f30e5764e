package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pal-labs/pal/internal/branding"
	"github.com/pal-labs/pal/internal/config"
	"github.com/pal-labs/pal/internal/envsetup"
	"github.com/pal-labs/pal/internal/logging"
	"github.com/pal-labs/pal/internal/prompt"
	"github.com/pal-labs/pal/internal/runner"
	"github.com/pal-labs/pal/internal/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// session carries everything a command touches outside its flags, so tests
// can swap the filesystem, terminal and child processes.
type session struct {
	fs          afero.Fs
	cwd         string
	driver      prompt.Driver
	interactive bool
	out         io.Writer
	errOut      io.Writer
	run         func(context.Context, runner.Command) error
	now         func() time.Time
	version     string
}

func newSession(cmd *cobra.Command) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	return &session{
		fs:          afero.NewOsFs(),
		cwd:         cwd,
		driver:      prompt.NewSurveyDriver(),
		interactive: prompt.IsInteractive(os.Stdin),
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
		run:         runner.Run,
		now:         time.Now,
		version:     buildVersion,
	}, nil
}

// abs resolves p against the session's working directory.
func (s *session) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.cwd, p)
}

// templatesDir returns the directory templates are looked up in: the flag,
// then config, then <repo root>/templates.
func (s *session) templatesDir(flagValue string) string {
	override := flagValue
	if override == "" {
		override = config.Get(config.KeyTemplatesDir)
	}
	if override != "" {
		override = s.abs(override)
	}
	return scaffold.ResolveTemplatesDir(s.fs, s.cwd, override)
}

// ensureEnvironment runs the configured setup command once per launcher
// version. Without a setup command there is nothing to prepare.
func (s *session) ensureEnvironment(ctx context.Context, force bool) (bool, error) {
	argv := config.GetCommand(config.KeySetupCommand)
	if len(argv) == 0 {
		return false, nil
	}

	repoRoot := scaffold.FindRepoRoot(s.fs, s.cwd, scaffold.ScriptsDir)
	dir := envsetup.Dir(repoRoot)
	if force {
		if err := envsetup.RemoveMarker(s.fs, dir); err != nil {
			return false, err
		}
	}

	return envsetup.Ensure(ctx, s.fs, dir, envsetup.LauncherVersion, func(ctx context.Context) error {
		return s.run(ctx, runner.Command{
			Args:   argv,
			Dir:    repoRoot,
			Env:    []string{runner.BootstrappedVar() + "=1"},
			Stdout: s.errOut,
			Stderr: s.errOut,
		})
	}, s.errOut)
}

// commandKind distinguishes the destination rules of new and add.
type commandKind int

const (
	kindNew commandKind = iota
	kindAdd
)

// generateOptions holds the flags shared by new and add.
type generateOptions struct {
	template     string
	templatesDir string
	path         string

	projectName   string
	repoName      string
	author        string
	repoURL       string
	repoRemoteURL string
	repoDocsURL   string
	contactEmail  string
	securityEmail string

	yes      bool
	no       bool
	dryRun   bool
	skipTask bool
}

func bindGenerateFlags(cmd *cobra.Command, o *generateOptions, pathHelp string) {
	f := cmd.Flags()
	f.StringVar(&o.template, "template", "", fmt.Sprintf("Template to use (default %q or config 'template')", branding.DefaultTemplate()))
	f.StringVar(&o.templatesDir, "templates-dir", "", "Directory holding templates (default <repo root>/templates)")
	f.StringVar(&o.path, "path", "", pathHelp)
	f.StringVar(&o.projectName, "project-name", "", "Project name to use in templating")
	f.StringVar(&o.repoName, "repo-name", "", "Repository name (defaults to project name)")
	f.StringVar(&o.author, "author", "", "Author name")
	f.StringVar(&o.repoURL, "repo-url", "", "Repository URL")
	f.StringVar(&o.repoRemoteURL, "repo-remote-url", "", "Remote URL for git origin")
	f.StringVar(&o.repoDocsURL, "repo-docs-url", "", "URL for the project docs")
	f.StringVar(&o.contactEmail, "contact-email", "", "Email for contact")
	f.StringVar(&o.securityEmail, "security-email", "", "Email for reporting security issues")
	f.BoolVarP(&o.yes, "yes", "y", false, "Answer YES to all overwrite prompts")
	f.BoolVarP(&o.no, "no", "n", false, "Answer NO to all overwrite prompts")
	f.BoolVar(&o.dryRun, "dry-run", false, "Describe actions without making any changes")
	f.BoolVar(&o.skipTask, "skip-task", false, "Do not run the post-render task")
}

// fields collects the context values supplied on the command line. Config
// values fill in for unset flags; anything still missing stays nil so the
// prompt layer can ask for it.
func (o *generateOptions) fields(changed func(string) bool) scaffold.Fields {
	pick := func(flag, value, configKey string) *string {
		if changed(flag) {
			v := value
			return &v
		}
		if configKey != "" {
			if v, ok := config.Lookup(configKey); ok {
				return &v
			}
		}
		return nil
	}

	return scaffold.Fields{
		ProjectName:   strings.TrimSpace(o.projectName),
		RepoName:      pick("repo-name", o.repoName, ""),
		Author:        pick("author", o.author, config.KeyAuthor),
		RepoURL:       pick("repo-url", o.repoURL, ""),
		RepoRemoteURL: pick("repo-remote-url", o.repoRemoteURL, ""),
		RepoDocsURL:   pick("repo-docs-url", o.repoDocsURL, ""),
		ContactEmail:  pick("contact-email", o.contactEmail, config.KeyContactEmail),
		SecurityEmail: pick("security-email", o.securityEmail, config.KeySecurityEmail),
	}
}

func (o *generateOptions) templateName() string {
	if o.template != "" {
		return o.template
	}
	if name := config.Get(config.KeyTemplate); name != "" {
		return name
	}
	return branding.DefaultTemplate()
}

var successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#58D68D"}).Bold(true)

// runGenerate is the shared body of new and add. Everything that can fail
// as a usage or lookup error is checked before the environment is prepared
// or the destination is created.
func runGenerate(ctx context.Context, s *session, kind commandKind, o *generateOptions, changed func(string) bool) error {
	logger := logging.Get("cli.generate")

	policy, err := scaffold.ResolveOverwritePolicy(o.yes, o.no)
	if err != nil {
		return usageError(err)
	}

	tmpl, err := s.loadTemplate(o)
	if err != nil {
		return err
	}

	dest, err := s.destination(ctx, kind, o)
	if err != nil {
		return err
	}

	fields := o.fields(changed)
	if prompt.NeedsInput(fields) && s.interactive {
		var labels map[string]string
		if tmpl.Manifest != nil {
			labels = tmpl.Manifest.Prompts
		}
		fields, err = prompt.Complete(ctx, s.driver, fields, labels)
		if err != nil {
			return err
		}
	}
	if fields.ProjectName == "" {
		return usageErrorf("--project-name is required when not running interactively")
	}
	rc := scaffold.Normalize(fields, s.now())

	var confirmer scaffold.Confirmer = nonInteractiveConfirmer{}
	if s.interactive {
		confirmer = prompt.NewConfirmer(s.driver)
	}
	applicator := scaffold.NewApplicator(s.fs, scaffold.NewEngine(), confirmer, s.out)
	generator := scaffold.NewGenerator(s.fs, applicator)
	mode := scaffold.Mode{DryRun: o.dryRun, Policy: policy}

	if !s.interactive && !o.dryRun && policy == scaffold.OverwritePrompt {
		if err := s.refuseExisting(generator, tmpl, dest); err != nil {
			return err
		}
	}

	if _, err := s.ensureEnvironment(ctx, false); err != nil {
		return fmt.Errorf("preparing environment: %w", err)
	}
	if kind == kindNew && !o.dryRun {
		if err := scaffold.EnsureNewDestination(s.fs, dest); err != nil {
			return err
		}
	}

	result, err := generator.Generate(ctx, tmpl, dest, rc, mode)
	if err != nil {
		return err
	}
	if o.dryRun {
		return nil
	}

	fmt.Fprintln(s.out, successStyle.Render(fmt.Sprintf("Rendered template %s into %s (%d written, %d skipped)",
		tmpl.Name, dest, len(result.Report.Written), len(result.Report.Skipped))))

	argv := runner.DefaultPostTask
	if tmpl.Manifest.HasPostTask() {
		argv = *tmpl.Manifest.PostTask
	}
	if o.skipTask || len(argv) == 0 {
		logger.Debug().Bool("skipTask", o.skipTask).Msg("No post-render task to run")
		return nil
	}

	task := runner.PostTask(dest, argv)
	task.Stdout = s.out
	task.Stderr = s.errOut
	fmt.Fprintf(s.errOut, "Running %s in %s\n", task, dest)
	return s.run(ctx, task)
}

// refuseExisting fails when any planned target already exists and there is
// no terminal to ask about it.
func (s *session) refuseExisting(generator *scaffold.Generator, tmpl *scaffold.Template, dest string) error {
	plan, err := generator.Plan(tmpl, dest)
	if err != nil {
		return err
	}
	existing, err := scaffold.ExistingTargets(s.fs, plan)
	if err != nil {
		return err
	}
	switch len(existing) {
	case 0:
		return nil
	case 1:
		return usageErrorf("file exists: %s (pass --yes or --no when not running interactively)", existing[0])
	default:
		return usageErrorf("file exists: %s and %d more (pass --yes or --no when not running interactively)",
			existing[0], len(existing)-1)
	}
}

// destination resolves the target directory without creating it. add
// requires it to exist already; new may not have a directory yet but must
// not point at a file.
func (s *session) destination(ctx context.Context, kind commandKind, o *generateOptions) (string, error) {
	path := o.path
	if path == "" && kind == kindAdd {
		path = "."
	}
	if path == "" {
		if !s.interactive {
			return "", usageErrorf("--path is required when not running interactively")
		}
		answer, err := s.driver.Input(ctx, prompt.InputConfig{
			Message: "Destination path",
			Validator: func(v string) error {
				if strings.TrimSpace(v) == "" {
					return errors.New("a destination path is required")
				}
				return nil
			},
		})
		if err != nil {
			return "", err
		}
		path = strings.TrimSpace(answer)
	}

	dest := s.abs(path)
	if kind == kindAdd {
		if err := scaffold.RequireExistingDestination(s.fs, dest); err != nil {
			return "", err
		}
		return dest, nil
	}
	if err := scaffold.CheckNewDestination(s.fs, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// loadTemplate resolves the requested template. A missing template lists
// the ones that do exist.
func (s *session) loadTemplate(o *generateOptions) (*scaffold.Template, error) {
	dir := s.templatesDir(o.templatesDir)
	name := o.templateName()

	tmpl, err := scaffold.LoadTemplate(s.fs, dir, name, s.version)
	if err == nil {
		return tmpl, nil
	}
	if errors.Is(err, scaffold.ErrTemplateNotFound) {
		if names, listErr := scaffold.ListTemplates(s.fs, dir); listErr == nil && len(names) > 0 {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
		}
	}
	return nil, err
}

// nonInteractiveConfirmer refuses to guess when a file exists and there is
// no terminal to ask on.
type nonInteractiveConfirmer struct{}

func (nonInteractiveConfirmer) ConfirmOverwrite(_ context.Context, target string) (bool, error) {
	return false, usageErrorf("file exists: %s (pass --yes or --no when not running interactively)", target)
}
