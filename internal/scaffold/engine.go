package scaffold

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	missingKeyPattern  = regexp.MustCompile(`map has no entry for key "([^"]+)"`)
	missingFuncPattern = regexp.MustCompile(`function "([^"]+)" not defined`)
	identPattern       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Engine renders template text against a RenderContext with strict
// semantics: a reference to a variable missing from the context is an
// error, never an empty substitution. Output is not escaped.
type Engine struct {
	helpers template.FuncMap
}

// NewEngine returns an Engine with the standard helper functions.
func NewEngine() *Engine {
	title := cases.Title(language.English)
	return &Engine{
		helpers: template.FuncMap{
			"snake":          strcase.ToSnake,
			"screamingSnake": strcase.ToScreamingSnake,
			"kebab":          strcase.ToKebab,
			"camel":          strcase.ToCamel,
			"lowerCamel":     strcase.ToLowerCamel,
			"upper":          strings.ToUpper,
			"lower":          strings.ToLower,
			"title":          title.String,
		},
	}
}

// Render executes text as a template named name. Context values can be
// referenced as {{.project_name}} or as the bare {{project_name}}.
func (e *Engine) Render(name string, text []byte, rc RenderContext) ([]byte, error) {
	funcs := make(template.FuncMap, len(e.helpers)+len(rc))
	for k, v := range e.helpers {
		funcs[k] = v
	}
	for k, v := range rc {
		if identPattern.MatchString(k) {
			funcs[k] = func() string { return v }
		}
	}

	tmpl, err := template.New(name).Option("missingkey=error").Funcs(funcs).Parse(string(text))
	if err != nil {
		if m := missingFuncPattern.FindStringSubmatch(err.Error()); m != nil {
			return nil, &UndefinedVariableError{Template: name, Name: m[1]}
		}
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string(rc)); err != nil {
		if m := missingKeyPattern.FindStringSubmatch(err.Error()); m != nil {
			return nil, &UndefinedVariableError{Template: name, Name: m[1]}
		}
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
