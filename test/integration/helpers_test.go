//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	RepoDir   string // repository root containing templates/ and scripts/
	WorkDir   string // where new projects are created
	ConfigDir string // PAL_CONFIG_DIR
}

// setupTestEnv creates isolated temp directories and points pal's config
// and state at them. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		RepoDir:   t.TempDir(),
		WorkDir:   t.TempDir(),
		ConfigDir: t.TempDir(),
	}
	t.Setenv("PAL_CONFIG_DIR", env.ConfigDir)
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	return env
}

// setupTemplates creates a "general" template with rendered and static
// files, a nested directory, an executable script and cache artifacts that
// must never be copied. Returns the templates directory.
func setupTemplates(t *testing.T, repoDir string) string {
	t.Helper()

	templatesDir := filepath.Join(repoDir, "templates")
	general := filepath.Join(templatesDir, "general")

	writeFile(t, filepath.Join(general, "template.yaml"), `name: general
description: General purpose project skeleton
post_task: [sh, scripts/post.sh]
exclude:
  - "*.log"
`)
	writeFile(t, filepath.Join(general, "README.md.tmpl"), "# {{project_name}}\n\nRepository: {{repo_name}}\nAuthor: {{author}}\n")
	writeFile(t, filepath.Join(general, "LICENSE"), "MIT License\n")
	writeFile(t, filepath.Join(general, "docs", "index.md.tmpl"), "{{title .project_name}} docs, {{date}}\n")
	writeFile(t, filepath.Join(general, "scripts", "post.sh"), "#!/bin/sh\necho \"$PAL_BOOTSTRAPPED\" > .bootstrapped\n")
	if err := os.Chmod(filepath.Join(general, "scripts", "post.sh"), 0755); err != nil {
		t.Fatalf("chmod post.sh: %v", err)
	}
	writeFile(t, filepath.Join(general, "build.log"), "noise")
	writeFile(t, filepath.Join(general, "__pycache__", "mod.cpython-312.pyc"), "cache")
	writeFile(t, filepath.Join(general, ".DS_Store"), "finder")

	writeFile(t, filepath.Join(templatesDir, "docs", "index.md.tmpl"), "{{project_name}}\n")

	return templatesDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
