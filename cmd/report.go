package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/yalkhatib/tradetracker"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "profit summary for today, this week and this month" }
func (*dashboardCmd) Usage() string {
	return `tt dashboard

  Shows per-currency exports, imports and profit for the current day,
  week (starting Monday) and month.
`
}
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	txs := app.Engine.Ledger().Transactions()
	now := time.Now()
	for _, period := range []tradetracker.Period{tradetracker.Daily, tradetracker.Weekly, tradetracker.Monthly} {
		fmt.Printf("--- %s (since %s) ---\n", period, period.StartOf(now).Format("2006-01-02"))
		totals := tradetracker.AggregateProfit(txs, period, now)
		if len(totals) == 0 {
			fmt.Println("  no trades")
			continue
		}
		for _, t := range totals {
			fmt.Printf("  %s  exports %s  imports %s  profit %s  (%d trades)\n",
				t.Currency,
				tradetracker.FormatMoney(t.Exports, t.Currency),
				tradetracker.FormatMoney(t.Imports, t.Currency),
				tradetracker.SignedMoney(t.Profit, t.Currency),
				t.Count)
		}
	}
	return subcommands.ExitSuccess
}

type monthsCmd struct{ n int }

func (*monthsCmd) Name() string     { return "months" }
func (*monthsCmd) Synopsis() string { return "monthly profit series" }
func (*monthsCmd) Usage() string {
	return `tt months [-n <count>]

  Shows exports, imports and profit per month, oldest first. Amounts
  are summed across currencies without conversion.
`
}

func (c *monthsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", 6, "Number of months.")
}

func (c *monthsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	points := tradetracker.MonthlySeries(app.Engine.Ledger().Transactions(), c.n, time.Now())
	for _, p := range points {
		fmt.Printf("%s  exports %12s  imports %12s  profit %12s\n",
			p.Month.Format("2006-01"), p.Exports, p.Imports, p.Profit)
	}
	return subcommands.ExitSuccess
}
