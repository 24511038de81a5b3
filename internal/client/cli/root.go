package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/dmitrijs2005/petalert/internal/buildinfo"
	"github.com/dmitrijs2005/petalert/internal/client/app"
	"github.com/dmitrijs2005/petalert/internal/client/config"
	"github.com/spf13/cobra"
)

// cmdState carries what the persistent flags select between parsing and
// running a command.
type cmdState struct {
	configFile string
	jsonOut    bool
	appOpts    []app.Option
}

// NewRootCommand builds the petalert command tree. opts are passed to
// app.New for every command.
func NewRootCommand(opts ...app.Option) *cobra.Command {
	rt := &cmdState{appOpts: opts}

	root := &cobra.Command{
		Use:   "petalert",
		Short: "Command-line client for the PetAlert service",
		Long: `Sign up, sign in and manage your PetAlert profile from the terminal.

Examples:
  petalert signup
  petalert signin --email ann@example.com
  petalert profile
  petalert alerts --json
  petalert repl`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&rt.configFile, "config", "", "config file (yaml or json)")
	pf.String("server", "", "API base URL, e.g. http://localhost:5000/api")
	pf.String("storage", "", "local storage backend (sqlite, redis)")
	pf.String("db", "", "SQLite database path")
	pf.String("redis-addr", "", "Redis address for the redis backend")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")
	pf.BoolVar(&rt.jsonOut, "json", false, "print results as JSON")

	signin := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
	}
	signin.Flags().String("email", "", "account e-mail (prompted when empty)")
	signin.RunE = rt.run(func(s *shell, ctx context.Context) error {
		email, _ := signin.Flags().GetString("email")
		return s.signIn(ctx, email)
	})

	root.AddCommand(
		&cobra.Command{Use: "signup", Short: "Create an account", Args: cobra.NoArgs, RunE: rt.run((*shell).SignUp)},
		signin,
		&cobra.Command{Use: "logout", Short: "Forget the stored session", Args: cobra.NoArgs, RunE: rt.run((*shell).Logout)},
		&cobra.Command{Use: "whoami", Short: "Show the signed-in user", Args: cobra.NoArgs, RunE: rt.run((*shell).WhoAmI)},
		&cobra.Command{Use: "profile", Short: "Show your profile, alerts and comments", Args: cobra.NoArgs, RunE: rt.run((*shell).Profile)},
		&cobra.Command{Use: "update", Short: "Edit your profile", Args: cobra.NoArgs, RunE: rt.run((*shell).Update)},
		&cobra.Command{Use: "alerts", Short: "List your alerts", Args: cobra.NoArgs, RunE: rt.run((*shell).Alerts)},
		&cobra.Command{Use: "comments", Short: "List your comments", Args: cobra.NoArgs, RunE: rt.run((*shell).Comments)},
		&cobra.Command{Use: "storage", Short: "List locally stored keys", Args: cobra.NoArgs, RunE: rt.run((*shell).Storage)},
		&cobra.Command{Use: "reset", Short: "Sign out and remove all local data", Args: cobra.NoArgs, RunE: rt.run((*shell).Reset)},
		&cobra.Command{
			Use:   "repl",
			Short: "Interactive mode",
			Args:  cobra.NoArgs,
			RunE: rt.run(func(s *shell, ctx context.Context) error {
				fmt.Fprintln(s.out, "Welcome to PetAlert CLI (type 'help' for commands)")
				runREPL(ctx, s, s.status, s.in, s.out)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				buildinfo.PrintBuildData(cmd.OutOrStdout())
			},
		},
	)

	return root
}

// run wraps fn so that it runs against a freshly built App that is closed
// afterwards, whatever fn returns.
func (rt *cmdState) run(fn func(s *shell, ctx context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.Load(rt.configFile, cmd.Flags())
		if err != nil {
			return err
		}

		a, err := app.New(ctx, cfg, cmd.ErrOrStderr(), rt.appOpts...)
		if err != nil {
			return err
		}
		defer a.Close()

		detach := Attach(a, cmd.ErrOrStderr())
		defer detach()

		if cfg.Metrics.Addr != "" {
			stop, err := serveMetrics(ctx, cfg.Metrics.Addr, a.Registry, a.Log)
			if err != nil {
				return fmt.Errorf("start metrics server: %w", err)
			}
			defer stop()
		}

		s := &shell{
			app:     a,
			in:      bufio.NewReader(cmd.InOrStdin()),
			out:     cmd.OutOrStdout(),
			jsonOut: rt.jsonOut,
		}
		return fn(s, ctx)
	}
}
