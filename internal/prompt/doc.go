// Package prompt fills in missing render context fields and answers
// overwrite questions by asking the user on the terminal. The rendering core
// never blocks on input; the CLI runs Complete before handing a fully
// resolved context to the scaffold package.
package prompt
