// Command shopcli is a terminal client for the shop API. The login session
// is stored in a file and loaded explicitly by each command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"shoplab/internal/client"

	"github.com/joho/godotenv"
)

type env struct {
	api         *client.Client
	sessionPath string
	stdout      io.Writer
	now         func() time.Time
}

type command struct {
	usage string
	run   func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"register": {"register -username U -email E -password P", cmdRegister},
	"login":    {"login -username U -password P", cmdLogin},
	"logout":   {"logout", cmdLogout},
	"products": {"products [-search S] [-category C] [-min N] [-max N]", cmdProducts},
	"cart":     {"cart", cmdCart},
	"add":      {"add -product ID [-qty N]", cmdAdd},
	"remove":   {"remove -item ID", cmdRemove},
	"checkout": {"checkout -address A", cmdCheckout},
	"orders":   {"orders", cmdOrders},
	"order":    {"order -id ID [-cancel]", cmdOrder},
	"profile":  {"profile [-email E] [-phone P] [-address A] [-card N]", cmdProfile},
	"stats":    {"stats", cmdStats},
}

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("shopcli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", envOr("SHOP_API_URL", "http://localhost:8080"), "API base URL")
	sessionPath := fs.String("session", envOr("SHOP_SESSION", defaultSessionPath()), "session file")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(stderr)
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		usage(stderr)
		return 2
	}

	e := &env{
		api:         client.New(*apiURL, nil),
		sessionPath: *sessionPath,
		stdout:      stdout,
		now:         time.Now,
	}
	if err := cmd.run(ctx, e, fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: shopcli [-api URL] [-session FILE] <command> [flags]")
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", commands[n].usage)
	}
}

// session loads the saved login, refusing expired tokens.
func (e *env) session() (*client.Session, error) {
	s, err := client.LoadSession(e.sessionPath)
	if err != nil {
		if errors.Is(err, client.ErrNoSession) {
			return nil, errors.New("not logged in, run: shopcli login")
		}
		return nil, err
	}
	if s.Expired(e.now()) {
		return nil, errors.New("session expired, run: shopcli login")
	}
	return s, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".shopcli-session.json"
	}
	return filepath.Join(dir, "shoplab", "session.json")
}
