package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/pal-labs/pal/internal/scaffold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDriver answers prompts by message and records what was asked.
type scriptedDriver struct {
	answers  map[string]string
	confirm  bool
	err      error
	asked    []InputConfig
	confirms []ConfirmConfig
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg)
	if d.err != nil {
		return "", d.err
	}
	if v, ok := d.answers[cfg.Message]; ok {
		return v, nil
	}
	return cfg.Default, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.confirms = append(d.confirms, cfg)
	if d.err != nil {
		return false, d.err
	}
	return d.confirm, nil
}

func messages(cfgs []InputConfig) []string {
	var out []string
	for _, c := range cfgs {
		out = append(out, c.Message)
	}
	return out
}

func strPtr(s string) *string { return &s }

func TestCompleteAsksForMissingFields(t *testing.T) {
	d := &scriptedDriver{answers: map[string]string{
		"Author": "Ada",
	}}

	f, err := Complete(context.Background(), d, scaffold.Fields{ProjectName: "demo"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Repository name",
		"Author",
		"Repository URL",
		"Remote URL for git origin",
		"URL for project docs",
		"The email to suggest for contact",
		"The email to suggest for reporting sensitive issues",
	}, messages(d.asked))
	assert.Equal(t, "demo", d.asked[0].Default, "repository name defaults to the project name")

	require.NotNil(t, f.RepoName)
	assert.Equal(t, "demo", *f.RepoName)
	assert.Equal(t, "Ada", *f.Author)
	require.NotNil(t, f.SecurityEmail)
	assert.Equal(t, "", *f.SecurityEmail)
}

func TestCompleteSkipsSuppliedFields(t *testing.T) {
	d := &scriptedDriver{}
	in := scaffold.Fields{
		ProjectName:   "demo",
		RepoName:      strPtr(""),
		Author:        strPtr("Grace"),
		RepoURL:       strPtr("https://example.com"),
		RepoRemoteURL: strPtr("git@example.com:demo.git"),
		RepoDocsURL:   strPtr(""),
		ContactEmail:  strPtr("hi@example.com"),
	}

	f, err := Complete(context.Background(), d, in, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"The email to suggest for reporting sensitive issues"}, messages(d.asked))
	assert.Equal(t, "Grace", *f.Author)
	assert.Equal(t, "", *f.RepoName)
	assert.False(t, NeedsInput(f))
}

func TestCompleteAsksForProjectName(t *testing.T) {
	d := &scriptedDriver{answers: map[string]string{"Project name": "  widget  "}}
	all := scaffold.Fields{}
	for _, opt := range all.Optional() {
		*opt.Value = strPtr("x")
	}

	f, err := Complete(context.Background(), d, all, nil)
	require.NoError(t, err)
	assert.Equal(t, "widget", f.ProjectName)
	require.Len(t, d.asked, 1)
	require.NotNil(t, d.asked[0].Validator)
	assert.Error(t, d.asked[0].Validator("   "))
	assert.NoError(t, d.asked[0].Validator("ok"))
}

func TestCompleteUsesLabelOverrides(t *testing.T) {
	d := &scriptedDriver{}
	_, err := Complete(context.Background(), d, scaffold.Fields{ProjectName: "demo"}, map[string]string{
		scaffold.KeyAuthor:  "Who maintains this project?",
		scaffold.KeyRepoURL: "",
	})
	require.NoError(t, err)
	assert.Equal(t, "Who maintains this project?", d.asked[1].Message)
	assert.Equal(t, "Repository URL", d.asked[2].Message)
}

func TestCompleteStopsOnInterrupt(t *testing.T) {
	d := &scriptedDriver{err: ErrInterrupted}
	_, err := Complete(context.Background(), d, scaffold.Fields{ProjectName: "demo"}, nil)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Len(t, d.asked, 1)
}

func TestNeedsInput(t *testing.T) {
	assert.True(t, NeedsInput(scaffold.Fields{}))
	assert.True(t, NeedsInput(scaffold.Fields{ProjectName: "demo"}))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Author", Label(scaffold.KeyAuthor, nil))
	assert.Equal(t, "Custom", Label(scaffold.KeyAuthor, map[string]string{scaffold.KeyAuthor: "Custom"}))
	assert.Equal(t, "unknown_key", Label("unknown_key", nil))
}

func TestConfirmer(t *testing.T) {
	d := &scriptedDriver{confirm: true}
	ok, err := NewConfirmer(d).ConfirmOverwrite(context.Background(), "/out/README.md")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, d.confirms, 1)
	assert.Equal(t, "File exists: /out/README.md. Overwrite?", d.confirms[0].Message)
	assert.False(t, d.confirms[0].Default)

	d = &scriptedDriver{err: errors.New("tty gone")}
	_, err = NewConfirmer(d).ConfirmOverwrite(context.Background(), "/out/x")
	assert.EqualError(t, err, "tty gone")
}
