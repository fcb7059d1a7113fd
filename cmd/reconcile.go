package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/subcommands"

	"github.com/ledgertools/reconcile"
	"github.com/ledgertools/reconcile/tui"
)

type reconcileCmd struct {
	account string
	target  string
	sort    string
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "interactively reconcile an account against an external statement"
}
func (*reconcileCmd) Usage() string {
	return `lrec reconcile -a <account> [-t <target>] [-s <sort>]

  Opens the interactive reconciliation view for an account: uncleared
  transactions are listed one posting per line, space toggles a posting
  through pending to cleared, and f bulk-clears everything pending and
  saves. The balance of cleared-or-pending postings is tracked against
  the target amount.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to reconcile (prompted when omitted)")
	f.StringVar(&c.target, "t", "", "Target amount, e.g. \"$100.00\" (prompted when omitted)")
	f.StringVar(&c.sort, "s", "", "Sort expression: (0), (date), (amount), (payee) or a passthrough string")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := AppConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	store, doc, err := OpenLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	account := c.account
	if account == "" {
		account = promptLine("Account to reconcile: ")
	}
	if account == "" {
		fmt.Fprintln(os.Stderr, "no account given")
		return subcommands.ExitUsageError
	}

	runner := reconcile.ExecRunner{Binary: cfg.LedgerBinary}
	session, err := reconcile.NewSession(cfg, store, runner, doc, account)
	if errors.Is(err, reconcile.ErrAccountNotFound) {
		// Soft check: informational, no view is created.
		log.Printf("account %q does not appear in %s", account, doc.Name())
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.sort != "" {
		if _, err := session.SetSort(c.sort); err != nil {
			fmt.Fprintln(os.Stderr, err)
			session.Close()
			return subcommands.ExitFailure
		}
	}
	count, err := session.Refresh()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		session.Close()
		return subcommands.ExitFailure
	}

	promptTarget := count > 0
	if c.target != "" {
		target, err := reconcile.ParseAmount(c.target)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			session.Close()
			return subcommands.ExitUsageError
		}
		if err := session.SetTarget(&target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			session.Close()
			return subcommands.ExitFailure
		}
		promptTarget = false
	}

	program := tea.NewProgram(tui.New(session, cfg, promptTarget), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		session.Close()
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	session.Close()
	return subcommands.ExitSuccess
}

func promptLine(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var line string
	fmt.Scanln(&line)
	return line
}
