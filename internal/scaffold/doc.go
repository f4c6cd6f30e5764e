// Package scaffold renders a named template directory into a destination
// path. It locates the template under the repository's templates/ directory,
// builds an ordered render plan (render .tmpl files, copy everything else),
// normalizes the substitution context and applies the plan to disk under an
// overwrite policy, optionally as a dry run.
//
// Symlinks inside a template that point at regular files are rendered or
// copied as the file they point to. Symlinked directories and broken links
// are skipped and logged.
//
// Nothing in this package prompts: overwrite confirmation is delegated to a
// Confirmer supplied by the caller, and the context must be fully resolved
// before Apply is called.
package scaffold
