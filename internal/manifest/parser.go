package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

var (
	// ErrInvalidManifest is returned when a manifest fails schema validation.
	ErrInvalidManifest = errors.New("invalid template manifest")

	// ErrIncompatibleVersion is returned when the CLI version does not satisfy
	// the manifest's requires constraint.
	ErrIncompatibleVersion = errors.New("template requires a different pal version")
)

// Load reads FileName from templateRoot. A template without a manifest is
// valid and yields nil, nil.
func Load(fsys afero.Fs, templateRoot string) (*TemplateManifest, error) {
	path := filepath.Join(templateRoot, FileName)
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("checking manifest %s: %w", path, err)
	}
	if !exists {
		return nil, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse validates and decodes manifest bytes. source names the manifest in
// error messages.
func Parse(data []byte, source string) (*TemplateManifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", source, err)
	}
	if !result.Valid {
		msgs := make([]string, len(result.Issues))
		for i, issue := range result.Issues {
			msgs[i] = issue.String()
		}
		return nil, fmt.Errorf("%w %s: %s", ErrInvalidManifest, source, strings.Join(msgs, "; "))
	}

	var m TemplateManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", source, err)
	}
	if m.Requires != "" {
		if _, err := semver.NewConstraint(m.Requires); err != nil {
			return nil, fmt.Errorf("%w %s: requires %q: %v", ErrInvalidManifest, source, m.Requires, err)
		}
	}
	return &m, nil
}

// CheckVersion verifies that version satisfies the manifest's requires
// constraint. Development builds ("dev") and unparsable versions are not
// checked.
func (m *TemplateManifest) CheckVersion(version string) error {
	if m == nil || m.Requires == "" {
		return nil
	}
	current, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil
	}
	constraint, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return fmt.Errorf("%w: requires %q: %v", ErrInvalidManifest, m.Requires, err)
	}
	if !constraint.Check(current) {
		return fmt.Errorf("%w: template %q requires %s, running %s", ErrIncompatibleVersion, m.Name, m.Requires, current)
	}
	return nil
}
