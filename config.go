package reconcile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the recognized reconciliation option surface. Zero values
// are filled by DefaultConfig; LoadConfig overlays a yaml file on top
// of the defaults.
type Config struct {
	// BufferName names the reconciliation view.
	BufferName string `yaml:"buffer_name"`
	// NarrowOnOpen narrows the source presentation to the account's
	// lines while a session is live.
	NarrowOnOpen bool `yaml:"narrow_on_open"`
	// PropagateCursor keeps the source document positioned on the
	// transaction under the view cursor while browsing.
	PropagateCursor bool `yaml:"propagate_cursor"`
	// ForceBottomSplit lays the view out as a bottom window split.
	ForceBottomSplit bool `yaml:"force_bottom_split"`
	// TogglePendingFirst makes toggle cycle through pending before
	// cleared; disabled, a toggle clears directly.
	TogglePendingFirst bool `yaml:"toggle_pending_first"`
	// WholeTransactions clears every posting of a transaction as a
	// unit instead of individual postings.
	WholeTransactions bool `yaml:"whole_transactions"`
	// DateFormat renders transaction dates in the view.
	DateFormat string `yaml:"date_format"`
	// TargetPrompt is the prompt text shown when asking for a target.
	TargetPrompt string `yaml:"target_prompt"`
	// HeaderTemplate is inserted above the table with the account name
	// substituted; empty disables the header.
	HeaderTemplate string `yaml:"header_template"`
	// LineTemplate is the per-posting column format. See the format
	// package for the placeholder syntax.
	LineTemplate string `yaml:"line_template"`
	// PayeeWidth and AccountWidth cap the displayed field width;
	// negative means unlimited.
	PayeeWidth   int `yaml:"payee_width"`
	AccountWidth int `yaml:"account_width"`
	// DefaultSort is the initial sort expression passed to the tool.
	DefaultSort string `yaml:"default_sort"`
	// InsertEffectiveDate annotates postings with an effective date
	// when they are cleared. EffectiveDateFunc, settable by hosts,
	// refines the decision per edit point.
	InsertEffectiveDate bool                             `yaml:"insert_effective_date"`
	EffectiveDateFunc   func(doc *Document, line int) bool `yaml:"-"`
	// FinishForceQuit closes the view after a finish.
	FinishForceQuit bool `yaml:"finish_force_quit"`
	// LedgerBinary overrides the ledger tool invoked for queries.
	LedgerBinary string `yaml:"ledger_binary"`
}

// DefaultConfig returns the conventional option values.
func DefaultConfig() *Config {
	return &Config{
		BufferName:         "*Reconcile*",
		NarrowOnOpen:       true,
		PropagateCursor:    true,
		ForceBottomSplit:   true,
		TogglePendingFirst: true,
		DateFormat:         "2006/01/02",
		TargetPrompt:       "Target amount for reconciliation",
		HeaderTemplate:     "Reconciling account %s\n\n",
		LineTemplate:       "%(date)s %-4(code)s %-50(payee)s %-30(account)s %15(amount)s\n",
		PayeeWidth:         -1,
		AccountWidth:       -1,
		DefaultSort:        SortNone,
		LedgerBinary:       "ledger",
	}
}

// LoadConfig reads a yaml config file over the defaults. A missing path
// yields the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// approveEffectiveDate evaluates the effective-date policy at an edit
// point: the decision function wins when set, otherwise the boolean.
func (c *Config) approveEffectiveDate(doc *Document, line int) bool {
	if c.EffectiveDateFunc != nil {
		return c.EffectiveDateFunc(doc, line)
	}
	return c.InsertEffectiveDate
}
