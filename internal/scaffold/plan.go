package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pal-labs/pal/internal/logging"
	"github.com/spf13/afero"
)

// TemplateSuffix marks a file whose content is rendered rather than copied.
// The suffix is removed from the destination file name.
const TemplateSuffix = ".tmpl"

// RenderAction is one file operation in a render plan.
type RenderAction struct {
	Source     string // file in the template tree
	Target     string // destination file path
	IsTemplate bool   // render Source instead of copying it
}

// Verb returns "render" for templates and "copy" for static files.
func (a RenderAction) Verb() string {
	if a.IsTemplate {
		return "render"
	}
	return "copy"
}

// PlanOptions adjusts which files BuildPlan emits.
type PlanOptions struct {
	// ManifestName is a file at the template root that describes the
	// template itself and is never rendered into the destination.
	ManifestName string

	// Exclude holds extra glob patterns. A pattern is matched against the
	// slash-separated relative path and against the base name.
	Exclude []string
}

// excludedDirs and excludedFiles are build and OS cache artifacts that must
// never reach a destination tree.
var (
	excludedDirs = map[string]bool{
		"__pycache__": true,
	}
	excludedFiles = map[string]bool{
		".DS_Store": true,
	}
	excludedExts = map[string]bool{
		".pyc": true,
		".pyo": true,
	}
)

func isExcludedDir(name string) bool {
	return excludedDirs[name]
}

func isExcludedFile(name string) bool {
	return excludedFiles[name] || excludedExts[filepath.Ext(name)]
}

// BuildPlan walks sourceRoot and returns one action per regular file,
// sorted by relative path. Directories are not emitted; they are created
// when files are written. Symlinks to regular files are followed; symlinked
// directories and broken links are skipped.
func BuildPlan(fsys afero.Fs, sourceRoot, destRoot string, opts PlanOptions) ([]RenderAction, error) {
	logger := logging.Get("scaffold.plan")

	type entry struct {
		rel    string
		action RenderAction
	}
	var entries []entry

	err := afero.Walk(fsys, sourceRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == sourceRoot {
			return nil
		}

		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return err
		}
		slashRel := filepath.ToSlash(rel)

		if info.IsDir() {
			if isExcludedDir(info.Name()) || matchesAny(opts.Exclude, slashRel, info.Name()) {
				logger.Debug().Str("dir", slashRel).Msg("Skipping excluded directory")
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			resolved, err := fsys.Stat(path)
			switch {
			case err != nil:
				logger.Info().Err(err).Str("file", slashRel).Msg("Skipping broken symlink")
				return nil
			case resolved.IsDir():
				logger.Info().Str("file", slashRel).Msg("Skipping symlinked directory")
				return nil
			}
			info = resolved
		}
		if !info.Mode().IsRegular() {
			logger.Info().Str("file", slashRel).Str("mode", info.Mode().String()).Msg("Skipping non-regular file")
			return nil
		}
		if isExcludedFile(info.Name()) || matchesAny(opts.Exclude, slashRel, info.Name()) {
			logger.Debug().Str("file", slashRel).Msg("Skipping excluded file")
			return nil
		}
		if opts.ManifestName != "" && slashRel == opts.ManifestName {
			return nil
		}

		targetRel, isTemplate := destinationName(rel)
		entries = append(entries, entry{
			rel: slashRel,
			action: RenderAction{
				Source:     path,
				Target:     filepath.Join(destRoot, targetRel),
				IsTemplate: isTemplate,
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking template tree %s: %w", sourceRoot, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	plan := make([]RenderAction, len(entries))
	for i, e := range entries {
		plan[i] = e.action
	}
	logger.Debug().Int("actions", len(plan)).Str("source", sourceRoot).Msg("Built render plan")
	return plan, nil
}

// destinationName strips the template suffix from a relative path. A file
// named only ".tmpl" has nothing left to name its target and is copied as is.
func destinationName(rel string) (string, bool) {
	base := filepath.Base(rel)
	if !strings.HasSuffix(base, TemplateSuffix) || base == TemplateSuffix {
		return rel, false
	}
	return strings.TrimSuffix(rel, TemplateSuffix), true
}

func matchesAny(patterns []string, rel, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
