package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct{ out string }

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the trades to a JSON file" }
func (*exportCmd) Usage() string {
	return `tt export [-o <file>]

  Writes a personal export document; stdout when no file is given.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "Output file; stdout when empty.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	out := os.Stdout
	if c.out != "" {
		out, err = os.Create(c.out)
		if err != nil {
			return fail(err)
		}
		defer out.Close()
	}
	if err := app.Engine.Export(out); err != nil {
		return fail(err)
	}
	if c.out != "" {
		fmt.Printf("Exported %d trades to %s.\n", app.Engine.Ledger().Len(), c.out)
	}
	return subcommands.ExitSuccess
}

type importCmd struct{ yes bool }

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the trades with a JSON file's" }
func (*importCmd) Usage() string {
	return `tt import [-y] <file>

  Replaces the whole ledger with the file's transactions.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if !c.yes && !confirm(fmt.Sprintf("Replace the current %d trades with the file's?", app.Engine.Ledger().Len())) {
		return subcommands.ExitSuccess
	}
	in, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer in.Close()

	if err := app.Engine.Import(ctx, in); err != nil {
		return fail(err)
	}
	fmt.Printf("Imported %d trades.\n", app.Engine.Ledger().Len())
	return subcommands.ExitSuccess
}
