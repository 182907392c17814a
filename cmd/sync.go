package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/yalkhatib/tradetracker/syncer"
)

type syncCmd struct{}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "pull the latest snapshot from the remote store" }
func (*syncCmd) Usage() string {
	return `tt sync

  Downloads the remote snapshot and replaces the local state with it.
`
}
func (*syncCmd) SetFlags(*flag.FlagSet) {}

func (*syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()
	if err := app.requireAuth(); err != nil {
		return fail(err)
	}

	if err := app.Engine.Pull(ctx); err != nil {
		if errors.Is(err, syncer.ErrBlocked) {
			fmt.Println("You have been blocked in this workspace. Leaving it.")
			if err := app.Engine.Leave(); err != nil {
				return fail(err)
			}
			return subcommands.ExitFailure
		}
		return fail(err)
	}
	fmt.Printf("Synced %d trades.\n", app.Engine.Ledger().Len())
	return subcommands.ExitSuccess
}

type backupCmd struct{}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "push the local snapshot to the remote store" }
func (*backupCmd) Usage() string {
	return `tt backup

  Uploads the full local snapshot, adding one revision to the history.
`
}
func (*backupCmd) SetFlags(*flag.FlagSet) {}

func (*backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()
	if err := app.requireAuth(); err != nil {
		return fail(err)
	}

	if err := app.Engine.Push(ctx); err != nil {
		return fail(err)
	}
	fmt.Printf("Backed up %d trades.\n", app.Engine.Ledger().Len())
	return subcommands.ExitSuccess
}

type revisionsCmd struct{}

func (*revisionsCmd) Name() string     { return "revisions" }
func (*revisionsCmd) Synopsis() string { return "list restorable backup versions" }
func (*revisionsCmd) Usage() string {
	return `tt revisions

  Lists the remote snapshot's retained versions, newest first.
`
}
func (*revisionsCmd) SetFlags(*flag.FlagSet) {}

func (*revisionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()
	if err := app.requireAuth(); err != nil {
		return fail(err)
	}

	revs, err := app.Engine.Revisions(ctx)
	if err != nil {
		return fail(err)
	}
	if len(revs) == 0 {
		fmt.Println("No backups yet.")
		return subcommands.ExitSuccess
	}
	for _, r := range revs {
		stamp := r.ModifiedTime
		if !r.Timestamp.IsZero() {
			stamp = r.Timestamp
		}
		fmt.Printf("%-12s %s  %d trades\n", r.ID, stamp.Format("2006-01-02 15:04"), r.Transactions)
	}
	return subcommands.ExitSuccess
}

type restoreCmd struct{ yes bool }

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "restore the trades of a backup version" }
func (*restoreCmd) Usage() string {
	return `tt restore [-y] <revision-id>

  Replaces the transaction list with the chosen version's. Currencies
  and members are not rolled back.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()
	if err := app.requireAuth(); err != nil {
		return fail(err)
	}

	if !c.yes && !confirm("Replace the current trades with this backup?") {
		return subcommands.ExitSuccess
	}
	if err := app.Engine.RestoreRevision(ctx, f.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Printf("Restored %d trades.\n", app.Engine.Ledger().Len())
	return subcommands.ExitSuccess
}

type revisionRmCmd struct{}

func (*revisionRmCmd) Name() string     { return "revision-rm" }
func (*revisionRmCmd) Synopsis() string { return "delete one backup version" }
func (*revisionRmCmd) Usage() string {
	return `tt revision-rm <revision-id>

  Deletes one retained version. The last remaining backup cannot be
  deleted.
`
}
func (*revisionRmCmd) SetFlags(*flag.FlagSet) {}

func (*revisionRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()
	if err := app.requireAuth(); err != nil {
		return fail(err)
	}

	if !confirm("Delete this backup version?") {
		return subcommands.ExitSuccess
	}
	if !confirm("This cannot be undone. Really delete it?") {
		return subcommands.ExitSuccess
	}
	if err := app.Engine.DeleteRevision(ctx, f.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Println("Backup version deleted.")
	return subcommands.ExitSuccess
}
