package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type signinCmd struct{}

func (*signinCmd) Name() string     { return "signin" }
func (*signinCmd) Synopsis() string { return "sign in with the remote store account" }
func (*signinCmd) Usage() string {
	return `tt signin

  Prints the authorization URL, then exchanges the pasted code for a
  session. A persisted workspace is re-entered and pulled right away.
`
}
func (*signinCmd) SetFlags(*flag.FlagSet) {}

func (*signinCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if app.Session.SignedIn() {
		fmt.Printf("Already signed in as %s.\n", app.Session.Email())
		return subcommands.ExitSuccess
	}

	fmt.Println("Open this URL in your browser and authorize the application:")
	fmt.Println()
	fmt.Println("  " + app.Session.AuthURL("tt"))
	fmt.Println()
	fmt.Print("Paste the authorization code: ")
	var code string
	if _, err := fmt.Scanln(&code); err != nil {
		return fail(err)
	}
	if err := app.Session.Exchange(ctx, code); err != nil {
		return fail(err)
	}
	fmt.Printf("Signed in as %s.\n", app.Session.Email())

	app.Remote.SetToken(app.Session.Token())
	app.Engine.SetIdentity(app.Session.Email(), true)
	if w := app.Engine.Workspace(); w != nil {
		fmt.Printf("Re-entering workspace %s...\n", w.Code)
		if err := app.Engine.Pull(ctx); err != nil {
			return fail(err)
		}
		fmt.Printf("Synced %d trades.\n", app.Engine.Ledger().Len())
	}
	return subcommands.ExitSuccess
}

type signoutCmd struct{}

func (*signoutCmd) Name() string     { return "signout" }
func (*signoutCmd) Synopsis() string { return "discard the session token" }
func (*signoutCmd) Usage() string {
	return `tt signout

  Signs out. The workspace id is kept so the next sign-in re-enters it.
`
}
func (*signoutCmd) SetFlags(*flag.FlagSet) {}

func (*signoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if err := app.Session.SignOut(); err != nil {
		return fail(err)
	}
	fmt.Println("Signed out.")
	return subcommands.ExitSuccess
}

type deleteAccountCmd struct{}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "wipe all local data and sign out" }
func (*deleteAccountCmd) Usage() string {
	return `tt delete-account

  Deletes every locally stored trade, workspace membership and
  credential. Remote snapshots are left untouched.
`
}
func (*deleteAccountCmd) SetFlags(*flag.FlagSet) {}

func (*deleteAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if !confirm("Delete the account and all local data?") {
		return subcommands.ExitSuccess
	}
	if !confirm("This cannot be undone. Really delete everything?") {
		return subcommands.ExitSuccess
	}
	if err := app.Engine.DeleteAccount(); err != nil {
		return fail(err)
	}
	fmt.Println("Account data deleted.")
	return subcommands.ExitSuccess
}
