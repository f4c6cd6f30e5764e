package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pal-labs/pal/internal/prompt"
	"github.com/pal-labs/pal/internal/runner"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// scriptedDriver answers prompts by message. Unknown questions get their
// default.
type scriptedDriver struct {
	answers map[string]string
	confirm map[string]bool
	asked   []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if v, ok := d.answers[cfg.Message]; ok {
		return v, nil
	}
	return cfg.Default, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	for target, ok := range d.confirm {
		if cfg.Message == "File exists: "+target+". Overwrite?" {
			return ok, nil
		}
	}
	return cfg.Default, nil
}

// recordingRunner stands in for child processes.
type recordingRunner struct {
	commands []runner.Command
	err      error
}

func (r *recordingRunner) run(_ context.Context, c runner.Command) error {
	r.commands = append(r.commands, c)
	return r.err
}

type testSession struct {
	*session
	driver *scriptedDriver
	runner *recordingRunner
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// newTestSession builds a session on an in-memory filesystem rooted at
// /repo with a "general" template.
func newTestSession(t *testing.T, interactive bool) *testSession {
	t.Helper()
	isolateConfig(t)

	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/repo/templates/general", map[string]string{
		"README.md.tmpl": "# {{project_name}}\n\nby {{author}}\n",
		"LICENSE":        "MIT",
	})

	ts := &testSession{
		driver: &scriptedDriver{},
		runner: &recordingRunner{},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	ts.session = &session{
		fs:          fsys,
		cwd:         "/repo",
		driver:      ts.driver,
		interactive: interactive,
		out:         ts.out,
		errOut:      ts.errOut,
		run:         ts.runner.run,
		now:         func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) },
		version:     "1.0.0",
	}
	return ts
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("PAL_CONFIG_DIR", t.TempDir())
	for _, key := range []string{"PAL_AUTHOR", "PAL_CONTACT_EMAIL", "PAL_SECURITY_EMAIL", "PAL_TEMPLATE", "PAL_TEMPLATES_DIR", "PAL_SETUP_COMMAND"} {
		t.Setenv(key, "")
	}
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func writeFiles(t *testing.T, fsys afero.Fs, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

// changedSet reports the named flags as set on the command line.
func changedSet(names ...string) func(string) bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}
