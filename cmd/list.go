package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/yalkhatib/tradetracker"
)

type listCmd struct {
	search   string
	exports  bool
	imports  bool
	currency string
	min      string
	max      string
	from     string
	to       string
	sort     string
	page     int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list trades with filters" }
func (*listCmd) Usage() string {
	return `tt list [-q <text>] [-exports] [-imports] [-c <currency>] [-min <amount>] [-max <amount>] [-from <date>] [-to <date>] [-sort <order>] [-page <n>]

  Lists trades, 15 per page. Sort orders: date-desc (default),
  date-asc, amount-desc, amount-asc.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.search, "q", "", "Free-text search over description, amount and currency.")
	f.BoolVar(&c.exports, "exports", false, "Only exports.")
	f.BoolVar(&c.imports, "imports", false, "Only imports.")
	f.StringVar(&c.currency, "c", "", "Exact currency code.")
	f.StringVar(&c.min, "min", "", "Minimum amount.")
	f.StringVar(&c.max, "max", "", "Maximum amount.")
	f.StringVar(&c.from, "from", "", "Earliest date, 2006-01-02.")
	f.StringVar(&c.to, "to", "", "Latest date, inclusive.")
	f.StringVar(&c.sort, "sort", string(tradetracker.ByDateDesc), "Sort order.")
	f.IntVar(&c.page, "page", 1, "Page number, 1-based.")
}

func (c *listCmd) filter() (tradetracker.Filter, error) {
	filter := tradetracker.Filter{
		Search:   c.search,
		Exports:  c.exports,
		Imports:  c.imports,
		Currency: c.currency,
		Order:    tradetracker.SortOrder(c.sort),
	}
	if c.min != "" {
		v, err := decimal.NewFromString(c.min)
		if err != nil {
			return filter, fmt.Errorf("invalid -min %q", c.min)
		}
		filter.AmountMin = &v
	}
	if c.max != "" {
		v, err := decimal.NewFromString(c.max)
		if err != nil {
			return filter, fmt.Errorf("invalid -max %q", c.max)
		}
		filter.AmountMax = &v
	}
	if c.from != "" {
		t, err := time.ParseInLocation("2006-01-02", c.from, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid -from %q", c.from)
		}
		filter.DateFrom = t
	}
	if c.to != "" {
		t, err := time.ParseInLocation("2006-01-02", c.to, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid -to %q", c.to)
		}
		filter.DateTo = t
	}
	return filter, nil
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	filter, err := c.filter()
	if err != nil {
		return fail(err)
	}
	matched := filter.Apply(app.Engine.Ledger().Transactions())
	page, pages := tradetracker.Paginate(matched, c.page)

	for _, tx := range page {
		fmt.Printf("%-14d %s  %-6s %12s  %s\n",
			tx.ID, tx.Date.Format("2006-01-02"), tx.Type,
			tradetracker.FormatMoney(tx.Amount, tx.Currency), tx.Description)
		for _, comment := range tx.Comments {
			fmt.Printf("%14s   %s: %s\n", "", comment.Author, comment.Text)
		}
	}
	fmt.Printf("%d trades, page %d/%d\n", len(matched), c.page, pages)
	return subcommands.ExitSuccess
}
