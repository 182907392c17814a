package cmd

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/yalkhatib/tradetracker"
)

type convertCmd struct {
	from string
	to   string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount between currencies" }
func (*convertCmd) Usage() string {
	return `tt convert -from <currency> -to <currency> <amount>

  Converts through USD using the cached exchange-rate table.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source currency code.")
	f.StringVar(&c.to, "to", "USD", "Target currency code.")
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.from == "" {
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(f.Arg(0))
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q", f.Arg(0)))
	}

	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	got := app.loadRates().Convert(amount, c.from, c.to)
	fmt.Printf("%s = %s\n",
		tradetracker.FormatMoney(amount, c.from),
		tradetracker.FormatMoney(got, c.to))
	return subcommands.ExitSuccess
}

type ratesCmd struct{}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show the exchange rates for the workspace currencies" }
func (*ratesCmd) Usage() string {
	return `tt rates

  Shows the USD rate of every currency in the workspace table.
`
}
func (*ratesCmd) SetFlags(*flag.FlagSet) {}

func (*ratesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	table := app.loadRates()
	currencies := app.Engine.Currencies()
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Code < currencies[j].Code })
	one := decimal.NewFromInt(1)
	for _, cur := range currencies {
		fmt.Printf("1 USD = %s %s  (%s)\n",
			table.Convert(one, "USD", cur.Code), cur.Code, cur.Name)
	}
	return subcommands.ExitSuccess
}
