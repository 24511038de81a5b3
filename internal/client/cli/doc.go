// Package cli provides the petalert command-line client.
//
// Every command builds an app.App from configuration, restores the
// persisted session, runs one page controller and exits. The repl command
// keeps the App open and reads commands interactively.
//
// Commands:
//   - signup, signin, logout
//   - whoami: show the signed-in user
//   - profile: the user with alerts and comments, loaded concurrently
//   - update: edit the profile
//   - alerts, comments: list the user's items
//   - storage: list locally stored keys (never values)
//   - reset: sign out and wipe local storage
//   - repl: interactive loop over the commands above, plus goto, back,
//     history and dismiss
//   - version: build information
//
// Progress and outcome banners are written to stderr by the renderer;
// command output goes to stdout.
package cli
