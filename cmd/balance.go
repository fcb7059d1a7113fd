package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ledgertools/reconcile"
)

type balanceCmd struct {
	account string
	target  string
}

func (*balanceCmd) Name() string { return "balance" }
func (*balanceCmd) Synopsis() string {
	return "report the cleared-or-pending balance for an account"
}
func (*balanceCmd) Usage() string {
	return `lrec balance -a <account> [-t <target>]

  One-shot report of the cleared-or-pending balance, without opening
  the interactive view. With a target, also reports the delta.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to report on")
	f.StringVar(&c.target, "t", "", "Target amount to compare against")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "no account given")
		return subcommands.ExitUsageError
	}
	cfg, err := AppConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	_, doc, err := OpenLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	runner := reconcile.ExecRunner{Binary: cfg.LedgerBinary}
	balance, err := reconcile.QueryBalance(runner, doc, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	md := fmt.Sprintf("**Cleared and pending balance** for `%s`: %s\n", c.account, balance)
	if c.target != "" {
		target, err := reconcile.ParseAmount(c.target)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		delta := target.Sub(balance)
		md += fmt.Sprintf("\n**Target**: %s — **Delta**: %s\n", target, delta)
		if delta.IsZero() {
			md += "\nBalance meets the target. ✓\n"
		}
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
