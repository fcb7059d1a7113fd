package reconcile

import (
	"errors"
	"fmt"

	"github.com/ledgertools/reconcile/format"
)

// ErrAccountNotFound aborts a session open when the account does not
// appear anywhere in the source document. The check is a substring
// search, informational rather than authoritative.
var ErrAccountNotFound = errors.New("account not found in ledger document")

// ErrNoBinding is reported by single-line operations on a view line
// that has no source location, such as a header or the empty-state
// line. Bulk operations skip such lines instead.
var ErrNoBinding = errors.New("view line has no source binding")

// ViewLine is one rendered, line-addressable row of the reconciliation
// view. Binding is nil for header and informational lines. Status is
// what drives the host's highlighting and is kept in step with the
// source document by toggle and finish.
type ViewLine struct {
	Text    string
	Status  Status
	Binding *Binding
}

// Session owns one live reconciliation: the association between a
// source document, an account and an optional target amount, plus the
// rendered view and its line bindings. At most one session per source
// document is supported; all methods must be called from a single
// event-handling goroutine.
type Session struct {
	cfg     *Config
	store   *Store
	runner  Runner
	doc     *Document
	account string
	target  *Amount
	sortKey string

	lineFmt format.Line // compiled once, reused across rendered lines
	tmpl    string      // template the compiled function came from

	view   []ViewLine
	count  int // rendered transactions at last refresh
	cursor int

	balance    Amount
	balanceMsg string
	balanceOK  bool

	unhook func()
	closed bool

	// OnSync, when set by the host, runs after a save-triggered
	// refresh so the host can recenter the source presentation.
	OnSync func(*Session)
}

// NewSession validates the account against doc, compiles the line
// template, registers the save observer and applies narrowing. The
// caller runs the initial Refresh (and prompts for a target when
// transactions were found).
func NewSession(cfg *Config, store *Store, runner Runner, doc *Document, account string) (*Session, error) {
	if !doc.Contains(account) {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}
	lineFmt, err := format.Compile(cfg.LineTemplate)
	if err != nil {
		return nil, err
	}
	s := &Session{
		cfg:     cfg,
		store:   store,
		runner:  runner,
		doc:     doc,
		account: account,
		sortKey: cfg.DefaultSort,
		lineFmt: lineFmt,
		tmpl:    cfg.LineTemplate,
	}
	store.Add(doc)
	s.hook()
	return s, nil
}

func (s *Session) hook() {
	s.unhook = s.doc.OnSave(s.saved)
	if s.cfg.NarrowOnOpen {
		s.doc.Narrow(s.account)
	}
}

// saved reacts to the source document being saved: re-run the refresh
// and let the host re-synchronize its presentation. A refresh failure
// here keeps the prior view and is only logged by callers of Err.
func (s *Session) saved(*Document) {
	if s.closed {
		return
	}
	if _, err := s.Refresh(); err != nil {
		return
	}
	if s.OnSync != nil {
		s.OnSync(s)
	}
}

// Rebind switches a live session to a (possibly different) document and
// account, tearing down the prior document's hooks first. The caller
// refreshes afterwards.
func (s *Session) Rebind(doc *Document, account string) error {
	if !doc.Contains(account) {
		return fmt.Errorf("%w: %q", ErrAccountNotFound, account)
	}
	s.teardown()
	s.doc = doc
	s.account = account
	s.target = nil
	s.view = nil
	s.count = 0
	s.cursor = 0
	s.closed = false
	s.store.Add(doc)
	s.hook()
	return nil
}

func (s *Session) teardown() {
	if s.unhook != nil {
		s.unhook()
		s.unhook = nil
	}
	if s.cfg.NarrowOnOpen && s.doc.Narrowed() == s.account {
		s.doc.Widen()
	}
}

// Close tears the session down: the save observer is removed and the
// source document is widened. Close is idempotent and safe to call
// when the document was killed out from under the session.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.teardown()
}

// SetTarget sets (or clears, with nil) the target amount and recomputes
// the balance message.
func (s *Session) SetTarget(target *Amount) error {
	s.target = target
	return s.RecomputeBalance()
}

// SetSort changes the sort expression and refreshes.
func (s *Session) SetSort(key string) (int, error) {
	s.sortKey = key
	return s.Refresh()
}

// CycleSort advances through the enumerated sort keys, wrapping from
// payee order back to file order, and refreshes.
func (s *Session) CycleSort() (string, error) {
	order := []string{SortNone, SortDate, SortAmount, SortPayee}
	next := order[0]
	for i, key := range order {
		if key == s.sortKey {
			next = order[(i+1)%len(order)]
			break
		}
	}
	_, err := s.SetSort(next)
	return next, err
}

// Accessors for hosts.

func (s *Session) Doc() *Document   { return s.doc }
func (s *Session) Account() string  { return s.account }
func (s *Session) Target() *Amount  { return s.target }
func (s *Session) SortKey() string  { return s.sortKey }
func (s *Session) View() []ViewLine { return s.view }
func (s *Session) Count() int       { return s.count }
func (s *Session) Cursor() int      { return s.cursor }
func (s *Session) Closed() bool     { return s.closed }

// BalanceMessage returns the last formatted balance report.
func (s *Session) BalanceMessage() string { return s.balanceMsg }

// BalanceMet reports whether the last computed balance equals the
// target exactly.
func (s *Session) BalanceMet() bool { return s.balanceOK }

// SetCursor moves the view cursor, clamped to the view bounds.
func (s *Session) SetCursor(i int) {
	if i < 0 {
		i = 0
	}
	if n := len(s.view); i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	s.cursor = i
}
