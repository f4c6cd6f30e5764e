package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pal-labs/pal/internal/logging"
	"github.com/pal-labs/pal/internal/scaffold"
)

// DefaultLabels are the questions asked for each context key. A template
// manifest can replace any of them.
var DefaultLabels = map[string]string{
	scaffold.KeyProjectName:   "Project name",
	scaffold.KeyRepoName:      "Repository name",
	scaffold.KeyAuthor:        "Author",
	scaffold.KeyRepoURL:       "Repository URL",
	scaffold.KeyRepoRemoteURL: "Remote URL for git origin",
	scaffold.KeyRepoDocsURL:   "URL for project docs",
	scaffold.KeyContactEmail:  "The email to suggest for contact",
	scaffold.KeySecurityEmail: "The email to suggest for reporting sensitive issues",
}

// Label returns the question for key, preferring overrides.
func Label(key string, overrides map[string]string) string {
	if l, ok := overrides[key]; ok && strings.TrimSpace(l) != "" {
		return l
	}
	if l, ok := DefaultLabels[key]; ok {
		return l
	}
	return key
}

// Complete asks for the project name when it is empty and for every optional
// field that was not supplied. The repository name question offers the
// project name as its default. Supplied fields are never asked again.
func Complete(ctx context.Context, d Driver, f scaffold.Fields, labels map[string]string) (scaffold.Fields, error) {
	logger := logging.Get("prompt")

	if strings.TrimSpace(f.ProjectName) == "" {
		name, err := d.Input(ctx, InputConfig{
			Message:   Label(scaffold.KeyProjectName, labels),
			Validator: required,
		})
		if err != nil {
			return f, err
		}
		f.ProjectName = strings.TrimSpace(name)
	}

	for _, opt := range f.Optional() {
		if *opt.Value != nil {
			continue
		}
		cfg := InputConfig{Message: Label(opt.Key, labels)}
		if opt.Key == scaffold.KeyRepoName {
			cfg.Default = f.ProjectName
		}
		answer, err := d.Input(ctx, cfg)
		if err != nil {
			return f, err
		}
		logger.Debug().Str("key", opt.Key).Msg("Collected context value")
		*opt.Value = &answer
	}
	return f, nil
}

// NeedsInput reports whether Complete would ask anything for f.
func NeedsInput(f scaffold.Fields) bool {
	if strings.TrimSpace(f.ProjectName) == "" {
		return true
	}
	for _, opt := range f.Optional() {
		if *opt.Value == nil {
			return true
		}
	}
	return false
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

// Confirmer asks the user before an existing file is replaced. It satisfies
// scaffold.Confirmer.
type Confirmer struct {
	driver Driver
}

// NewConfirmer returns a Confirmer that asks through d.
func NewConfirmer(d Driver) *Confirmer {
	return &Confirmer{driver: d}
}

// ConfirmOverwrite defaults to keeping the existing file.
func (c *Confirmer) ConfirmOverwrite(ctx context.Context, target string) (bool, error) {
	return c.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("File exists: %s. Overwrite?", target),
		Default: false,
	})
}

var _ scaffold.Confirmer = (*Confirmer)(nil)
