// Package runner executes the child processes pal depends on: the one-time
// environment setup command and the post-render task in a new project. Each
// child runs synchronously with the parent's stdio and a non-zero exit is
// reported as an *ExitError carrying the child's code.
package runner
