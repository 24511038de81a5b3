package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real shell type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Update(ctx context.Context) error
	Alerts(ctx context.Context) error
	Comments(ctx context.Context) error
	Dismiss(ctx context.Context) error
	Goto(ctx context.Context, path string) error
	Back(ctx context.Context) error
	History(ctx context.Context) error
	Storage(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the PetAlert CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not signed in:
//	  - help           - show available commands
//	  - signup         - create an account
//	  - signin         - authenticate
//	  - exit | quit    - leave the program
//
//	Signed in:
//	  - help           - show available commands
//	  - whoami         - show the current user
//	  - profile        - user, alerts and comments
//	  - update         - edit the profile
//	  - (a)lerts       - list your alerts
//	  - (c)omments     - list your comments
//	  - logout         - log out
//	  - exit | quit    - leave the program
//
//	Always:
//	  - goto <route>   - open a screen, e.g. "goto /user"
//	  - back           - return to the previous screen
//	  - history        - show the navigation history
//	  - dismiss        - hide the current notification
//	  - storage        - list locally stored keys
//	  - reset          - sign out and remove all local data
//
// Any errors returned by command handlers are ignored here; handlers report
// through the notification channel. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "petalert (%s)> ", statusFn())

		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: whoami, profile, update, (a)lerts, (c)omments, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: signup, signin, exit")
			}
			fmt.Fprintln(out, "Anytime: goto <route>, back, history, dismiss, storage, reset")

		case "signup":
			_ = a.SignUp(ctx)

		case "signin", "login":
			_ = a.SignIn(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "update":
			_ = a.Update(ctx)

		case "a", "alerts":
			_ = a.Alerts(ctx)

		case "c", "comments":
			_ = a.Comments(ctx)

		case "goto":
			if len(parts) < 2 {
				fmt.Fprintln(out, "Usage: goto <route>")
				continue
			}
			_ = a.Goto(ctx, parts[1])

		case "back":
			_ = a.Back(ctx)

		case "history":
			_ = a.History(ctx)

		case "dismiss":
			_ = a.Dismiss(ctx)

		case "storage":
			_ = a.Storage(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", parts[0])
		}
	}
}
