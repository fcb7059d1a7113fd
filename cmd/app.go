// Package cmd implements the CLI application to reconcile ledger files.
package cmd

import (
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ledgertools/reconcile"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	subcommands.HelpCommand(),
	subcommands.FlagsCommand(),
	&reconcileCmd{},
	&balanceCmd{},
	&topicCmd{},
}

// as a CLI application with a short lived lifecycle, global flags are ok.

var ledgerFile = flag.String("ledger-file", "main.ledger", "Path to the ledger file to reconcile")
var configFile = flag.String("config", ".lrec.yaml", "Path to the yaml configuration file")

// AppConfig loads the configuration file over the defaults.
func AppConfig() (*reconcile.Config, error) {
	cfg, err := reconcile.LoadConfig(*configFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// OpenLedger opens the app default ledger document in a fresh store.
func OpenLedger() (*reconcile.Store, *reconcile.Document, error) {
	store := reconcile.NewStore()
	doc, err := store.Open(*ledgerFile)
	if err != nil {
		return nil, nil, err
	}
	return store, doc, nil
}
