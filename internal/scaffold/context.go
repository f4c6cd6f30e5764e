package scaffold

import (
	"strings"
	"time"
)

// Render context keys available to every template.
const (
	KeyProjectName   = "project_name"
	KeyRepoName      = "repo_name"
	KeyAuthor        = "author"
	KeyRepoURL       = "repo_url"
	KeyRepoRemoteURL = "repo_remote_url"
	KeyRepoDocsURL   = "repo_docs_url"
	KeyContactEmail  = "contact_email"
	KeySecurityEmail = "security_email"
	KeyDate          = "date"
)

// DateLayout formats the date key (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// RenderContext maps template variable names to their values.
type RenderContext map[string]string

// Fields are the caller-supplied context values. ProjectName is required;
// a nil optional field means "not supplied".
type Fields struct {
	ProjectName   string
	RepoName      *string
	Author        *string
	RepoURL       *string
	RepoRemoteURL *string
	RepoDocsURL   *string
	ContactEmail  *string
	SecurityEmail *string
}

// OptionalField binds a context key to the Fields slot holding its value.
type OptionalField struct {
	Key   string
	Value **string
}

// Optional lists the optional fields in prompt order.
func (f *Fields) Optional() []OptionalField {
	return []OptionalField{
		{KeyRepoName, &f.RepoName},
		{KeyAuthor, &f.Author},
		{KeyRepoURL, &f.RepoURL},
		{KeyRepoRemoteURL, &f.RepoRemoteURL},
		{KeyRepoDocsURL, &f.RepoDocsURL},
		{KeyContactEmail, &f.ContactEmail},
		{KeySecurityEmail, &f.SecurityEmail},
	}
}

// Normalize builds the complete render context. Every key is present: the
// repository name falls back to the project name when empty or absent and
// other missing fields become empty strings.
func Normalize(f Fields, now time.Time) RenderContext {
	rc := RenderContext{
		KeyDate:        now.Format(DateLayout),
		KeyProjectName: f.ProjectName,
	}
	for _, opt := range f.Optional() {
		rc[opt.Key] = deref(*opt.Value)
	}
	if strings.TrimSpace(rc[KeyRepoName]) == "" {
		rc[KeyRepoName] = f.ProjectName
	}
	return rc
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
