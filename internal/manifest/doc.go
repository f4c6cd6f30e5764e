// Package manifest parses and validates template.yaml, the optional file at a
// template root that describes the template: its minimum CLI version, the
// post-render task, extra exclusion patterns and prompt labels. Manifests are
// validated against an embedded JSON Schema before they are decoded.
package manifest
