package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type currencyAddCmd struct{}

func (*currencyAddCmd) Name() string     { return "currency-add" }
func (*currencyAddCmd) Synopsis() string { return "add a currency to the workspace table" }
func (*currencyAddCmd) Usage() string {
	return `tt currency-add <code> [<name>...]

  Adds a 3-letter currency, e.g. "tt currency-add GBP British Pound".
`
}
func (*currencyAddCmd) SetFlags(*flag.FlagSet) {}

func (*currencyAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	code := f.Arg(0)
	name := strings.Join(f.Args()[1:], " ")
	if err := app.Engine.AddCurrency(ctx, code, name); err != nil {
		return fail(err)
	}
	fmt.Printf("Currency %s added.\n", strings.ToUpper(code))
	return subcommands.ExitSuccess
}

type currencyRmCmd struct{}

func (*currencyRmCmd) Name() string     { return "currency-rm" }
func (*currencyRmCmd) Synopsis() string { return "remove a currency from the workspace table" }
func (*currencyRmCmd) Usage() string {
	return `tt currency-rm <code>

  The default currency cannot be removed; set another default first.
`
}
func (*currencyRmCmd) SetFlags(*flag.FlagSet) {}

func (*currencyRmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if err := app.Engine.RemoveCurrency(ctx, f.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Printf("Currency %s removed.\n", strings.ToUpper(f.Arg(0)))
	return subcommands.ExitSuccess
}

type currencyDefaultCmd struct{}

func (*currencyDefaultCmd) Name() string     { return "currency-default" }
func (*currencyDefaultCmd) Synopsis() string { return "set the default currency" }
func (*currencyDefaultCmd) Usage() string {
	return `tt currency-default <code>

  New trades without an explicit currency use the default.
`
}
func (*currencyDefaultCmd) SetFlags(*flag.FlagSet) {}

func (*currencyDefaultCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if err := app.Engine.SetDefaultCurrency(ctx, f.Arg(0)); err != nil {
		return fail(err)
	}
	fmt.Printf("Default currency is now %s.\n", app.Engine.DefaultCurrency())
	return subcommands.ExitSuccess
}
