//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pal-labs/pal/internal/envsetup"
	"github.com/pal-labs/pal/internal/runner"
	"github.com/pal-labs/pal/internal/scaffold"
	"github.com/spf13/afero"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("post task script needs a POSIX sh")
	}
}

// TestFullFlowNewProject tests the complete flow of `pal new`:
// environment setup -> template load -> render -> post task -> verify tree.
func TestFullFlowNewProject(t *testing.T) {
	requireShell(t)
	env := setupTestEnv(t)
	templatesDir := setupTemplates(t, env.RepoDir)
	fsys := afero.NewOsFs()
	ctx := context.Background()

	// Step 1: One-time environment setup.
	var notices bytes.Buffer
	setupRuns := 0
	setup := func(context.Context) error {
		setupRuns++
		return nil
	}
	ran, err := envsetup.Ensure(ctx, fsys, envsetup.Dir(env.RepoDir), envsetup.LauncherVersion, setup, &notices)
	if err != nil || !ran {
		t.Fatalf("Ensure = (%v, %v)", ran, err)
	}
	if _, err := envsetup.Ensure(ctx, fsys, envsetup.Dir(env.RepoDir), envsetup.LauncherVersion, setup, &notices); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if setupRuns != 1 {
		t.Errorf("setup ran %d times, want 1", setupRuns)
	}

	// Step 2: Resolve the template from inside the repository.
	nested := filepath.Join(env.RepoDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	resolved := scaffold.ResolveTemplatesDir(fsys, nested, "")
	wantDir, _ := filepath.EvalSymlinks(templatesDir)
	gotDir, _ := filepath.EvalSymlinks(resolved)
	if gotDir != wantDir {
		t.Fatalf("ResolveTemplatesDir = %s, want %s", resolved, templatesDir)
	}

	tmpl, err := scaffold.LoadTemplate(fsys, templatesDir, "general", "1.0.0")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}

	// Step 3: Render into a fresh destination.
	dest := filepath.Join(env.WorkDir, "widget")
	if err := scaffold.EnsureNewDestination(fsys, dest); err != nil {
		t.Fatalf("EnsureNewDestination: %v", err)
	}
	author := "Ada Lovelace"
	rc := scaffold.Normalize(scaffold.Fields{ProjectName: "widget", Author: &author}, time.Now())

	var out bytes.Buffer
	gen := scaffold.NewGenerator(fsys, scaffold.NewApplicator(fsys, scaffold.NewEngine(), nil, &out))
	result, err := gen.Generate(ctx, tmpl, dest, rc, scaffold.Mode{Policy: scaffold.OverwriteAlways})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Report.Written) != 4 {
		t.Errorf("wrote %d files, want 4: %v", len(result.Report.Written), result.Report.Written)
	}

	assertFileContains(t, filepath.Join(dest, "README.md"), "# widget")
	assertFileContains(t, filepath.Join(dest, "README.md"), "Repository: widget")
	assertFileContains(t, filepath.Join(dest, "README.md"), "Author: Ada Lovelace")
	assertFileContains(t, filepath.Join(dest, "docs", "index.md"), "Widget docs, "+time.Now().Format("2006-01-02"))
	if got := readFile(t, filepath.Join(dest, "LICENSE")); got != "MIT License\n" {
		t.Errorf("LICENSE = %q", got)
	}
	assertFileNotExists(t, filepath.Join(dest, "README.md.tmpl"))
	assertFileNotExists(t, filepath.Join(dest, "template.yaml"))
	assertFileNotExists(t, filepath.Join(dest, "build.log"))
	assertFileNotExists(t, filepath.Join(dest, "__pycache__"))
	assertFileNotExists(t, filepath.Join(dest, ".DS_Store"))

	info, err := os.Stat(filepath.Join(dest, "scripts", "post.sh"))
	if err != nil {
		t.Fatalf("stat post.sh: %v", err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Errorf("post.sh lost its executable bit: %v", info.Mode())
	}

	// Step 4: Run the manifest's post task in the new project.
	task := runner.PostTask(dest, *tmpl.Manifest.PostTask)
	task.Stdout = &out
	task.Stderr = &out
	if err := runner.Run(ctx, task); err != nil {
		t.Fatalf("post task: %v\n%s", err, out.String())
	}
	if got := strings.TrimSpace(readFile(t, filepath.Join(dest, ".bootstrapped"))); got != "1" {
		t.Errorf("PAL_BOOTSTRAPPED in post task = %q, want 1", got)
	}
}

// TestFullFlowAddIntoExistingProject re-applies a template over a project
// that already has local edits.
func TestFullFlowAddIntoExistingProject(t *testing.T) {
	env := setupTestEnv(t)
	templatesDir := setupTemplates(t, env.RepoDir)
	fsys := afero.NewOsFs()
	ctx := context.Background()

	project := filepath.Join(env.WorkDir, "existing")
	writeFile(t, filepath.Join(project, "README.md"), "my own readme\n")
	if err := scaffold.RequireExistingDestination(fsys, project); err != nil {
		t.Fatalf("RequireExistingDestination: %v", err)
	}

	tmpl, err := scaffold.LoadTemplate(fsys, templatesDir, "general", "1.0.0")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	rc := scaffold.Normalize(scaffold.Fields{ProjectName: "existing"}, time.Now())

	gen := scaffold.NewGenerator(fsys, scaffold.NewApplicator(fsys, nil, nil, nil))

	// --no keeps local edits.
	result, err := gen.Generate(ctx, tmpl, project, rc, scaffold.Mode{Policy: scaffold.OverwriteNever})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(result.Report.Written) != 0 || len(result.Report.Skipped) != len(result.Plan) {
		t.Errorf("--no wrote %v and skipped %v, want every action skipped", result.Report.Written, result.Report.Skipped)
	}
	if got := readFile(t, filepath.Join(project, "README.md")); got != "my own readme\n" {
		t.Errorf("README.md overwritten: %q", got)
	}
	assertFileNotExists(t, filepath.Join(project, "LICENSE"))

	// --yes replaces them, and a second run produces the same tree.
	for i := 0; i < 2; i++ {
		if _, err := gen.Generate(ctx, tmpl, project, rc, scaffold.Mode{Policy: scaffold.OverwriteAlways}); err != nil {
			t.Fatalf("Generate (run %d): %v", i+1, err)
		}
		assertFileContains(t, filepath.Join(project, "README.md"), "# existing")
		assertFileExists(t, filepath.Join(project, "LICENSE"))
	}

	// Adding into a missing directory is refused.
	err = scaffold.RequireExistingDestination(fsys, filepath.Join(env.WorkDir, "missing"))
	if !errors.Is(err, scaffold.ErrDestinationNotDir) {
		t.Errorf("expected ErrDestinationNotDir, got %v", err)
	}
}

// TestFullFlowDryRun verifies a dry run of `pal new` leaves no trace.
func TestFullFlowDryRun(t *testing.T) {
	env := setupTestEnv(t)
	templatesDir := setupTemplates(t, env.RepoDir)
	fsys := afero.NewOsFs()

	tmpl, err := scaffold.LoadTemplate(fsys, templatesDir, "general", "1.0.0")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	dest := filepath.Join(env.WorkDir, "never")
	rc := scaffold.Normalize(scaffold.Fields{ProjectName: "never"}, time.Now())

	var out bytes.Buffer
	gen := scaffold.NewGenerator(fsys, scaffold.NewApplicator(fsys, nil, nil, &out))
	result, err := gen.Generate(context.Background(), tmpl, dest, rc, scaffold.Mode{DryRun: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	assertFileNotExists(t, dest)
	if len(result.Report.Planned) != 4 {
		t.Errorf("planned %d actions, want 4", len(result.Report.Planned))
	}
	if !strings.Contains(out.String(), "[DRY-RUN] render: ") || !strings.Contains(out.String(), "[DRY-RUN] copy: ") {
		t.Errorf("unexpected dry-run output:\n%s", out.String())
	}
}
