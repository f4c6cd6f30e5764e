// Package platform provides cross-platform filesystem helpers. Permission
// bits are applied on Unix systems and ignored on Windows, which has no
// Unix-style mode bits.
package platform
