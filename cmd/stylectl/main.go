package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"imagestyle/internal/apiclient"
	"imagestyle/internal/session"

	"github.com/spf13/pflag"
)

const usage = `usage: stylectl <command> [flags]

commands:
  login         --email --password
  logout
  tab           <appointments|clients|earnings>
  slots         --date --staff [--duration]
  book          --client --staff --specialty [--service] --date --time [--hours --minutes --price --comment]
  appointments  [--start --end]
  clients
  add-client    --first --last [--phone --email]
  earnings      [--preset today|week|month] [--server-side]
  catalog
  watch         stream new appointments and today's total until interrupted

environment:
  IMAGESTYLE_URL  API base URL (default http://localhost:8080)
`

type app struct {
	out   io.Writer
	api   *apiclient.HTTPClient
	store session.Store
	state session.State
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(out, usage)
		return nil
	}

	path, err := session.DefaultPath()
	if err != nil {
		return err
	}
	a, err := newApp(out, baseURL(), session.Store{Path: path})
	if err != nil {
		return err
	}
	return a.dispatch(ctx, args[0], args[1:])
}

func baseURL() string {
	if u := strings.TrimSpace(os.Getenv("IMAGESTYLE_URL")); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func newApp(out io.Writer, baseURL string, store session.Store) (*app, error) {
	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	api := apiclient.New(baseURL)
	api.SetToken(state.Token)
	return &app{out: out, api: api, store: store, state: state}, nil
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout()
	case "tab":
		return a.selectTab(args)
	case "slots":
		return a.slots(ctx, args)
	case "book":
		return a.book(ctx, args)
	case "appointments":
		return a.appointments(ctx, args)
	case "clients":
		return a.clients(ctx, args)
	case "add-client":
		return a.addClient(ctx, args)
	case "earnings":
		return a.earnings(ctx, args)
	case "catalog":
		return a.catalog(ctx)
	case "watch":
		return a.watch(ctx, args)
	}
	return usageError{msg: fmt.Sprintf("unknown command %q", cmd)}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.StringP("email", "e", "", "account email")
	password := fs.StringP("password", "p", "", "account password")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return usageError{msg: "login needs --email and --password"}
	}

	token, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	next, err := a.state.Login(token)
	if err != nil {
		return err
	}
	if err := a.commit(next); err != nil {
		return err
	}

	me, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", me.Name, me.Role)
	return nil
}

func (a *app) logout() error {
	if err := a.commit(a.state.Logout()); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) selectTab(args []string) error {
	if len(args) != 1 {
		return usageError{msg: "tab needs exactly one name"}
	}
	tab, err := session.ParseTab(args[0])
	if err != nil {
		return err
	}
	next, err := a.state.SelectTab(tab)
	if err != nil {
		return err
	}
	if err := a.commit(next); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "active tab: %s\n", next.ActiveTab)
	return nil
}

// commit persists next and makes it the current state.
func (a *app) commit(next session.State) error {
	if err := a.store.Save(next); err != nil {
		return err
	}
	a.state = next
	a.api.SetToken(next.Token)
	return nil
}

// requireLogin guards commands that hit protected routes. A 401 from the
// server later clears the stored token.
func (a *app) requireLogin() error {
	if !a.state.LoggedIn() {
		return session.ErrNotLoggedIn
	}
	return nil
}

func (a *app) handleAuth(err error) error {
	if apiclient.IsUnauthorized(err) {
		_ = a.commit(a.state.Logout())
		return fmt.Errorf("session expired, log in again: %w", err)
	}
	return err
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return usageError{msg: fs.Name()}
		}
		return usageError{msg: err.Error()}
	}
	return nil
}
