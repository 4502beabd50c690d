// Package cli provides the interactive docshelf command-line client.
//
// It wires configuration, the local store, the document API client and the
// application services, and runs a REPL on top of them. The REPL keeps a
// current location (onboarding, login, home, search, ...) and re-runs the
// session's navigation guard after every command, so a command that changes
// the session also moves the user to where that session belongs.
//
// Key features:
//   - Onboarding, register, login / logout, whoami
//   - Own uploads (docs), upload of a local file
//   - Debounced search, download of a result into the local archive
//   - Archive browsing by ownership tab and title, reopening archived files
//   - Profile, password and avatar edits, light/dark theme, notices
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
