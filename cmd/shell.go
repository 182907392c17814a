package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/yalkhatib/tradetracker/auth"
)

type shellCmd struct{}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "interactive session with idle sign-out" }
func (*shellCmd) Usage() string {
	return `tt shell

  Runs commands interactively. After 25 minutes without input a warning
  is printed; at 30 minutes the session is signed out and the shell
  exits. 'exit' or EOF quits.
`
}
func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (*shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	signedIn := app.Session.SignedIn()
	if signedIn {
		fmt.Printf("Signed in as %s.\n", app.Session.Email())
	}
	log := app.Log
	// nested commands reopen the store, so the shell must not hold it
	app.Close()

	// the idle clock only runs over a live session
	expired := make(chan struct{})
	var watcher *auth.Watcher
	if signedIn {
		watcher = auth.NewWatcher(log)
		watcher.OnWarn = func(left time.Duration) {
			fmt.Fprintf(os.Stderr, "\nStill there? You will be signed out in %s.\n", left.Round(time.Minute))
		}
		watcher.OnExpire = func() {
			signOutIdle(ctx)
			close(expired)
		}
		go watcher.Run()
		defer watcher.Stop()
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("tt> ")
		if !in.Scan() {
			fmt.Println()
			return subcommands.ExitSuccess
		}
		select {
		case <-expired:
			fmt.Fprintln(os.Stderr, "Session expired, please sign in again.")
			return subcommands.ExitFailure
		default:
		}
		if watcher != nil {
			watcher.Touch()
		}

		args := strings.Fields(in.Text())
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return subcommands.ExitSuccess
		case "help":
			for _, c := range Commands {
				fmt.Printf("  %-18s %s\n", c.Name(), c.Synopsis())
			}
			continue
		}
		if status := dispatch(ctx, args); status == subcommands.ExitUsageError {
			fmt.Fprintf(os.Stderr, "unknown or misused command %q, try 'help'\n", args[0])
		}
	}
}

// dispatch runs one registered command with its own flag set.
func dispatch(ctx context.Context, args []string) subcommands.ExitStatus {
	for _, c := range Commands {
		if c.Name() != args[0] || c.Name() == "shell" {
			continue
		}
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return subcommands.ExitUsageError
		}
		return c.Execute(ctx, fs)
	}
	return subcommands.ExitUsageError
}

// signOutIdle discards the stored token after the idle limit.
func signOutIdle(ctx context.Context) {
	app, err := openApp(ctx)
	if err != nil {
		return
	}
	defer app.Close()
	if err := app.Session.SignOut(); err != nil {
		app.Log.Warnw("idle sign-out failed", "error", err)
	}
}
