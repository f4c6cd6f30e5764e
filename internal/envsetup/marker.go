package envsetup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pal-labs/pal/internal/branding"
	"github.com/pal-labs/pal/internal/logging"
	"github.com/spf13/afero"
)

// LauncherVersion identifies the environment layout. Bump it to make every
// checkout run setup again on its next invocation.
const LauncherVersion = "2025.08.17.1"

// MarkerFile is the name of the marker inside the environment directory.
const MarkerFile = ".version"

// Dir returns the environment directory for a repository root, e.g.
// <repo>/.pal.
func Dir(repoRoot string) string {
	return filepath.Join(repoRoot, branding.HomeDir())
}

// ReadMarker returns the recorded version. ok is false when no marker exists.
func ReadMarker(fsys afero.Fs, dir string) (version string, ok bool, err error) {
	path := filepath.Join(dir, MarkerFile)
	data, err := afero.ReadFile(fsys, path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading version marker: %w", err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// WriteMarker records version, creating dir if needed.
func WriteMarker(fsys afero.Fs, dir, version string) error {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating environment directory: %w", err)
	}
	path := filepath.Join(dir, MarkerFile)
	if err := afero.WriteFile(fsys, path, []byte(version+"\n"), 0644); err != nil {
		return fmt.Errorf("writing version marker: %w", err)
	}
	return nil
}

// RemoveMarker deletes the marker so the next Ensure runs setup. A missing
// marker is not an error.
func RemoveMarker(fsys afero.Fs, dir string) error {
	err := fsys.Remove(filepath.Join(dir, MarkerFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing version marker: %w", err)
	}
	return nil
}

// NeedsSetup reports whether the marker is missing or records a version
// other than version.
func NeedsSetup(fsys afero.Fs, dir, version string) (bool, error) {
	recorded, ok, err := ReadMarker(fsys, dir)
	if err != nil {
		return false, err
	}
	return !ok || recorded != version, nil
}

// Ensure runs setup when NeedsSetup says so and records version once setup
// succeeds. A failed setup leaves the marker untouched so the next run
// retries. It returns true when setup ran.
func Ensure(ctx context.Context, fsys afero.Fs, dir, version string, setup func(context.Context) error, w io.Writer) (bool, error) {
	logger := logging.Get("envsetup")

	needed, err := NeedsSetup(fsys, dir, version)
	if err != nil {
		return false, err
	}
	if !needed {
		logger.Debug().Str("dir", dir).Str("version", version).Msg("Environment up to date")
		return false, nil
	}

	if w != nil {
		fmt.Fprintln(w, "Setting up CLI environment (one-time)...")
	}
	logger.Info().Str("dir", dir).Str("version", version).Msg("Running environment setup")

	if err := setup(ctx); err != nil {
		return true, err
	}
	if err := WriteMarker(fsys, dir, version); err != nil {
		return true, err
	}
	return true, nil
}
