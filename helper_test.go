package reconcile

import (
	"slices"
	"testing"
)

// fixtureLedger is the source document most session tests reconcile
// against: two uncleared transactions touching Assets:Checking.
const fixtureLedger = `2024/01/05 (101) Coffee Shop
    Expenses:Dining                 $4.50
    Assets:Checking                $-4.50

2024/01/07 Grocery Store
    Expenses:Food                  $42.10
    Assets:Checking               $-42.10
`

// fixtureXacts is the canned query output matching fixtureLedger for
// the Assets:Checking account, in the tool's wire format.
const fixtureXacts = `(("-" 1 "2024/01/05" "101" "Coffee Shop"
  (3 "Assets:Checking" "$-4.50" nil))
 ("-" 5 "2024/01/07" nil "Grocery Store"
  (7 "Assets:Checking" "$-42.10" nil)))`

// fakeRunner serves canned output per tool verb and records every
// invocation so tests can assert on the argument contract.
type fakeRunner struct {
	xacts   string
	balance string
	draft   string
	err     error

	calls  [][]string
	stdins []string
}

func (r *fakeRunner) Run(args []string, stdin string) ([]byte, error) {
	r.calls = append(r.calls, slices.Clone(args))
	r.stdins = append(r.stdins, stdin)
	if r.err != nil {
		return nil, r.err
	}
	switch {
	case slices.Contains(args, "emacs"):
		return []byte(r.xacts), nil
	case slices.Contains(args, "balance"):
		return []byte(r.balance), nil
	case slices.Contains(args, "xact"):
		return []byte(r.draft), nil
	default:
		return nil, nil
	}
}

// newTestSession builds a session over an in-memory fixture document
// and a fake runner reporting a zero balance.
func newTestSession(t *testing.T, cfg *Config) (*Session, *fakeRunner) {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	runner := &fakeRunner{xacts: fixtureXacts, balance: "$0.00"}
	doc := NewDocument("test.ledger", fixtureLedger)
	s, err := NewSession(cfg, NewStore(), runner, doc, "Assets:Checking")
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s, runner
}

// dollars is a test helper building a $-commodity amount.
func dollars(v float64) Amount { return A(v, "$") }
