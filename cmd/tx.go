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

type addCmd struct {
	typ      string
	amount   string
	currency string
	desc     string
	date     string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an export or import trade" }
func (*addCmd) Usage() string {
	return `tt add -t <export|import> -a <amount> [-c <currency>] -m <description> [-d <date>]

  Records a trade. The currency falls back to the workspace default;
  the date defaults to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "export", "Trade type: export or import.")
	f.StringVar(&c.amount, "a", "", "Amount, e.g. 1200.50.")
	f.StringVar(&c.currency, "c", "", "Currency code; defaults to the workspace default.")
	f.StringVar(&c.desc, "m", "", "Description.")
	f.StringVar(&c.date, "d", "", "Date as 2006-01-02; defaults to today.")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	typ, err := tradetracker.ParseTransactionType(c.typ)
	if err != nil {
		return fail(err)
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q", c.amount))
	}
	date := time.Now()
	if c.date != "" {
		date, err = time.ParseInLocation("2006-01-02", c.date, time.Local)
		if err != nil {
			return fail(fmt.Errorf("invalid date %q", c.date))
		}
	}

	tx, err := app.Engine.AddTransaction(ctx, tradetracker.Transaction{
		Type:        typ,
		Amount:      amount,
		Currency:    c.currency,
		Description: c.desc,
		Date:        date,
	})
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s %s (%s) as #%d\n",
		tx.Type, tradetracker.FormatMoney(tx.Amount, tx.Currency), tx.Description, tx.ID)
	return subcommands.ExitSuccess
}

type editCmd struct {
	typ      string
	amount   string
	currency string
	desc     string
	date     string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a trade's values" }
func (*editCmd) Usage() string {
	return `tt edit [-t <type>] [-a <amount>] [-c <currency>] [-m <description>] [-d <date>] <id>

  Rewrites a trade. Omitted flags keep the current value; comments are
  always kept.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "t", "", "Trade type: export or import.")
	f.StringVar(&c.amount, "a", "", "Amount.")
	f.StringVar(&c.currency, "c", "", "Currency code.")
	f.StringVar(&c.desc, "m", "", "Description.")
	f.StringVar(&c.date, "d", "", "Date as 2006-01-02.")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	var id int64
	if _, err := fmt.Sscan(f.Arg(0), &id); err != nil {
		return fail(fmt.Errorf("invalid id %q", f.Arg(0)))
	}

	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	tx, err := app.Engine.Ledger().Get(id)
	if err != nil {
		return fail(err)
	}
	if c.typ != "" {
		tx.Type, err = tradetracker.ParseTransactionType(c.typ)
		if err != nil {
			return fail(err)
		}
	}
	if c.amount != "" {
		tx.Amount, err = decimal.NewFromString(c.amount)
		if err != nil {
			return fail(fmt.Errorf("invalid amount %q", c.amount))
		}
	}
	if c.currency != "" {
		tx.Currency = c.currency
	}
	if c.desc != "" {
		tx.Description = c.desc
	}
	if c.date != "" {
		tx.Date, err = time.ParseInLocation("2006-01-02", c.date, time.Local)
		if err != nil {
			return fail(fmt.Errorf("invalid date %q", c.date))
		}
	}

	tx, err = app.Engine.UpdateTransaction(ctx, tx)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Updated #%d: %s %s (%s)\n",
		tx.ID, tx.Type, tradetracker.FormatMoney(tx.Amount, tx.Currency), tx.Description)
	return subcommands.ExitSuccess
}

type rmCmd struct{ yes bool }

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a trade by id" }
func (*rmCmd) Usage() string {
	return `tt rm [-y] <id>

  Deletes one trade. Asks for confirmation unless -y is given.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	var id int64
	if _, err := fmt.Sscan(f.Arg(0), &id); err != nil {
		return fail(fmt.Errorf("invalid id %q", f.Arg(0)))
	}

	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	tx, err := app.Engine.Ledger().Get(id)
	if err != nil {
		return fail(err)
	}
	if !c.yes && !confirm(fmt.Sprintf("Delete %s %s (%s)?",
		tx.Type, tradetracker.FormatMoney(tx.Amount, tx.Currency), tx.Description)) {
		return subcommands.ExitSuccess
	}
	if err := app.Engine.RemoveTransaction(ctx, id); err != nil {
		return fail(err)
	}
	fmt.Println("Deleted.")
	return subcommands.ExitSuccess
}

type clearCmd struct{ yes bool }

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every trade" }
func (*clearCmd) Usage() string {
	return `tt clear [-y]

  Empties the ledger.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Skip the confirmation prompt.")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	n := app.Engine.Ledger().Len()
	if !c.yes && !confirm(fmt.Sprintf("Delete all %d trades?", n)) {
		return subcommands.ExitSuccess
	}
	if err := app.Engine.ClearTransactions(ctx); err != nil {
		return fail(err)
	}
	fmt.Printf("Deleted %d trades.\n", n)
	return subcommands.ExitSuccess
}

type commentCmd struct{ text string }

func (*commentCmd) Name() string     { return "comment" }
func (*commentCmd) Synopsis() string { return "attach a note to a trade" }
func (*commentCmd) Usage() string {
	return `tt comment -m <text> <id>

  Appends a note to one trade, signed with the account email.
`
}

func (c *commentCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.text, "m", "", "The note text.")
}

func (c *commentCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.text == "" {
		return subcommands.ExitUsageError
	}
	var id int64
	if _, err := fmt.Sscan(f.Arg(0), &id); err != nil {
		return fail(fmt.Errorf("invalid id %q", f.Arg(0)))
	}

	app, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	if err := app.Engine.CommentTransaction(ctx, id, c.text); err != nil {
		return fail(err)
	}
	fmt.Println("Comment added.")
	return subcommands.ExitSuccess
}
