package manifest

// FileName is the manifest file name at a template root.
const FileName = "template.yaml"

// TemplateManifest describes one template directory.
type TemplateManifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Requires is a semver constraint on the CLI version, e.g. ">= 0.3.0".
	Requires string `yaml:"requires,omitempty"`

	// PostTask replaces the default post-render command. nil keeps the
	// default; an empty list disables the task.
	PostTask *[]string `yaml:"post_task,omitempty"`

	// Exclude lists extra glob patterns that are never rendered.
	Exclude []string `yaml:"exclude,omitempty"`

	// Prompts overrides the interactive label for context keys.
	Prompts map[string]string `yaml:"prompts,omitempty"`
}

// HasPostTask reports whether the manifest overrides the post-render task.
func (m *TemplateManifest) HasPostTask() bool {
	return m != nil && m.PostTask != nil
}
