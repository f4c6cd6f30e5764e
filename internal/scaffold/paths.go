package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

const (
	// TemplatesDir is the directory under the repository root holding templates.
	TemplatesDir = "templates"

	// ScriptsDir marks the repository root for the environment bootstrap step.
	ScriptsDir = "scripts"

	// maxAscent bounds FindRepoRoot so it never walks the whole filesystem.
	maxAscent = 10
)

// FindRepoRoot ascends from start until it finds a directory containing a
// child directory named marker. If none is found within a bounded number of
// steps, or the filesystem root is reached, it returns start (made absolute).
func FindRepoRoot(fsys afero.Fs, start, marker string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		abs = filepath.Clean(start)
	}

	cur := abs
	for i := 0; i < maxAscent; i++ {
		if ok, _ := afero.DirExists(fsys, filepath.Join(cur, marker)); ok {
			return cur
		}
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return abs
}

// TemplateRoot returns repoRoot/templates/name, failing with
// ErrTemplateNotFound if it is missing or not a directory.
func TemplateRoot(fsys afero.Fs, repoRoot, name string) (string, error) {
	return TemplateRootIn(fsys, filepath.Join(repoRoot, TemplatesDir), name)
}

// TemplateRootIn resolves a template inside an explicit templates directory.
func TemplateRootIn(fsys afero.Fs, templatesDir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: invalid template name %q", ErrTemplateNotFound, name)
	}
	root := filepath.Join(templatesDir, name)
	if ok, _ := afero.DirExists(fsys, root); !ok {
		return "", fmt.Errorf("%w: template '%s' not found at %s", ErrTemplateNotFound, name, root)
	}
	return root, nil
}

// ListTemplates returns the sorted names of the template directories under
// templatesDir. A missing templates directory yields an empty list.
func ListTemplates(fsys afero.Fs, templatesDir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, templatesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading templates directory %s: %w", templatesDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !isExcludedDir(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CheckNewDestination rejects a "new" destination that exists and is not a
// directory. A missing destination is fine.
func CheckNewDestination(fsys afero.Fs, dest string) error {
	info, err := fsys.Stat(dest)
	if err == nil && !info.IsDir() {
		return fmt.Errorf("%w: destination path exists and is not a directory: %s", ErrDestinationNotDir, dest)
	}
	return nil
}

// EnsureNewDestination prepares dest for the "new" command: it is created if
// missing, and an existing non-directory is rejected.
func EnsureNewDestination(fsys afero.Fs, dest string) error {
	if err := CheckNewDestination(fsys, dest); err != nil {
		return err
	}
	if err := fsys.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("creating destination %s: %w", dest, err)
	}
	return nil
}

// RequireExistingDestination checks dest for the "add" command, which only
// renders into a directory that already exists.
func RequireExistingDestination(fsys afero.Fs, dest string) error {
	if ok, _ := afero.DirExists(fsys, dest); !ok {
		return fmt.Errorf("%w: path does not exist or is not a directory: %s", ErrDestinationNotDir, dest)
	}
	return nil
}
