// Package envsetup gates the one-time preparation of the CLI's working
// environment. A marker file records the launcher version that last
// completed setup; setup runs again whenever that version changes.
//
// The check and the write are not atomic. Two pal processes started at the
// same moment on a fresh checkout may both run setup.
package envsetup
