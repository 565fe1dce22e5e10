// Package cli locates server executables and prepares their environment.
//
// A command given as a path is checked directly. A bare command name is
// searched in the system PATH. Failures are reported as SpawnError so the
// caller of Connect sees a single error type for every launch problem.
package cli
