package reconcile

import (
	"fmt"
	"time"
)

// Status is the clearing status of a posting.
type Status int

const (
	// Uncleared postings have not been matched to the external source.
	Uncleared Status = iota
	// Pending postings are matched but await final confirmation.
	Pending
	// Cleared postings are confirmed.
	Cleared
)

func (s Status) String() string {
	switch s {
	case Uncleared:
		return "uncleared"
	case Pending:
		return "pending"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Mark returns the status marker as written in a ledger file.
func (s Status) Mark() string {
	switch s {
	case Pending:
		return "!"
	case Cleared:
		return "*"
	default:
		return ""
	}
}

// ParseStatus parses a status name into a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "uncleared":
		return Uncleared, nil
	case "pending":
		return Pending, nil
	case "cleared":
		return Cleared, nil
	default:
		return 0, fmt.Errorf("unknown clearing status: %q", s)
	}
}

// Next returns the status a toggle transitions to. With toPending the
// forward cycle is uncleared → pending → cleared → uncleared; without
// it the toggle clears directly, skipping pending.
func (s Status) Next(toPending bool) Status {
	switch s {
	case Uncleared:
		if toPending {
			return Pending
		}
		return Cleared
	case Pending:
		return Cleared
	default:
		return Uncleared
	}
}

// NoPostingLine is the sentinel recorded when a posting has no direct
// line of its own in the source document.
const NoPostingLine = -1

// Posting is a single account/amount line within a transaction.
type Posting struct {
	Line    int // 1-based line in the source, or NoPostingLine
	Account string
	Amount  Amount
	Status  Status
}

// Transaction is one dated, payee-labeled group of postings as reported
// by the query tool. Records are transient: they are discarded and
// rebuilt on every refresh.
type Transaction struct {
	File     string // recorded file designator; "" or "-" means the session document
	Line     int    // 1-based line of the transaction in its source
	Date     time.Time
	Code     string // optional transaction code, "" when absent
	Payee    string
	Postings []Posting
}

// FromStdin reports whether the transaction's file designator denotes
// the standard-input document rather than a file on disk.
func (t Transaction) FromStdin() bool {
	return t.File == "" || t.File == "-" || t.File == "/dev/stdin"
}
