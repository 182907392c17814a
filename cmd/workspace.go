package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/yalkhatib/tradetracker"
	"github.com/yalkhatib/tradetracker/syncer"
)

type workspaceCreateCmd struct{}

func (*workspaceCreateCmd) Name() string     { return "workspace-create" }
func (*workspaceCreateCmd) Synopsis() string { return "create a shared workspace" }
func (*workspaceCreateCmd) Usage() string {
	return `tt workspace-create

  Creates a workspace with a fresh share code, carries the current
  ledger into it, and pushes the first snapshot.
`
}
func (*workspaceCreateCmd) SetFlags(*flag.FlagSet) {}

func (*workspaceCreateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()
	if err := app.requireAuth(); err != nil {
		return fail(err)
	}

	w, err := app.Engine.CreateWorkspace(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Workspace created. Share this code to invite members: %s\n", w.Code)
	return subcommands.ExitSuccess
}

type workspaceJoinCmd struct{}

func (*workspaceJoinCmd) Name() string     { return "workspace-join" }
func (*workspaceJoinCmd) Synopsis() string { return "join a workspace by code" }
func (*workspaceJoinCmd) Usage() string {
	return `tt workspace-join <code>

  Joins as a reader; the creator can upgrade the role later.
`
}
func (*workspaceJoinCmd) SetFlags(*flag.FlagSet) {}

func (*workspaceJoinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if err := app.Engine.Join(ctx, f.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Printf("Joined workspace %s with %d trades.\n",
		app.Engine.Workspace().Code, app.Engine.Ledger().Len())
	return subcommands.ExitSuccess
}

type workspaceLeaveCmd struct{ yes bool }

func (*workspaceLeaveCmd) Name() string     { return "workspace-leave" }
func (*workspaceLeaveCmd) Synopsis() string { return "leave the active workspace" }
func (*workspaceLeaveCmd) Usage() string {
	return `tt workspace-leave [-y]

  Drops all local workspace data. The shared snapshot is unaffected.
  Creators cannot leave their own workspace.
`
}

func (c *workspaceLeaveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *workspaceLeaveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if !c.yes && !confirm("Leave the workspace and drop its local data?") {
		return subcommands.ExitSuccess
	}
	if err := app.Engine.Leave(); err != nil {
		return fail(err)
	}
	fmt.Println("Left the workspace.")
	return subcommands.ExitSuccess
}

type membersCmd struct{}

func (*membersCmd) Name() string     { return "members" }
func (*membersCmd) Synopsis() string { return "list workspace members" }
func (*membersCmd) Usage() string {
	return `tt members
`
}
func (*membersCmd) SetFlags(*flag.FlagSet) {}

func (*membersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	w := app.Engine.Workspace()
	if w == nil {
		return fail(syncer.ErrNoWorkspace)
	}
	for _, m := range w.Members {
		marker := ""
		if m.Blocked {
			marker = "  [blocked]"
		}
		joined := ""
		if !m.JoinedAt.IsZero() {
			joined = "  joined " + m.JoinedAt.Format("2006-01-02")
		}
		fmt.Printf("%-30s %-8s%s%s\n", m.Email, m.Role, joined, marker)
	}
	return subcommands.ExitSuccess
}

type setRoleCmd struct{}

func (*setRoleCmd) Name() string     { return "set-role" }
func (*setRoleCmd) Synopsis() string { return "change a member's role (creator only)" }
func (*setRoleCmd) Usage() string {
	return `tt set-role <email> <writer|reader>
`
}
func (*setRoleCmd) SetFlags(*flag.FlagSet) {}

func (*setRoleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return subcommands.ExitUsageError
	}
	role, err := tradetracker.ParseRole(f.Arg(1))
	if err != nil {
		return fail(err)
	}

	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if err := app.Engine.SetMemberRole(ctx, f.Arg(0), role); err != nil {
		return fail(err)
	}
	fmt.Printf("%s is now a %s.\n", f.Arg(0), role)
	return subcommands.ExitSuccess
}

type removeMemberCmd struct{ yes bool }

func (*removeMemberCmd) Name() string     { return "remove-member" }
func (*removeMemberCmd) Synopsis() string { return "remove a member from the workspace (creator only)" }
func (*removeMemberCmd) Usage() string {
	return `tt remove-member [-y] <email>

  Drops the member from the roster. The creator cannot be removed.
`
}

func (c *removeMemberCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *removeMemberCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if !c.yes && !confirm(fmt.Sprintf("Remove %s from the workspace?", f.Arg(0))) {
		return subcommands.ExitSuccess
	}
	if err := app.Engine.RemoveMember(ctx, f.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Printf("%s removed.\n", f.Arg(0))
	return subcommands.ExitSuccess
}

type blockCmd struct{ unblock bool }

func (*blockCmd) Name() string     { return "block" }
func (*blockCmd) Synopsis() string { return "block or unblock a member (creator only)" }
func (*blockCmd) Usage() string {
	return `tt block [-u] <email>

  Blocks a member; they are denied on their next sync. -u unblocks.
`
}

func (c *blockCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.unblock, "u", false, "Unblock instead of block.")
}

func (c *blockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if err := app.Engine.SetMemberBlocked(ctx, f.Arg(0), !c.unblock); err != nil {
		return fail(err)
	}
	if c.unblock {
		fmt.Printf("%s unblocked.\n", f.Arg(0))
	} else {
		fmt.Printf("%s blocked.\n", f.Arg(0))
	}
	return subcommands.ExitSuccess
}

type activityCmd struct{ n int }

func (*activityCmd) Name() string     { return "activity" }
func (*activityCmd) Synopsis() string { return "show the workspace activity log" }
func (*activityCmd) Usage() string {
	return `tt activity [-n <count>]

  Shows the most recent workspace actions, newest first.
`
}

func (c *activityCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", 20, "Number of entries.")
}

func (c *activityCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	w := app.Engine.Workspace()
	if w == nil {
		return fail(syncer.ErrNoWorkspace)
	}
	entries := w.ActivityLog
	if len(entries) > c.n {
		entries = entries[:c.n]
	}
	if len(entries) == 0 {
		fmt.Println("No activity yet.")
		return subcommands.ExitSuccess
	}
	for _, a := range entries {
		fmt.Printf("%s  %-25s %s %s\n",
			a.Timestamp.Format("2006-01-02 15:04"), a.Actor, a.Action, a.Detail)
	}
	return subcommands.ExitSuccess
}
