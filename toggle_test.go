package reconcile

import (
	"errors"
	"strings"
	"testing"
)

func TestToggle_CyclesThroughPending(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}

	// View line 2 is the Coffee Shop posting bound to document line 3.
	if err := s.Toggle(2); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if got := s.View()[2].Status; got != Pending {
		t.Errorf("status after first toggle = %v, want pending", got)
	}
	status, err := s.Doc().StatusAt(3)
	if err != nil {
		t.Fatal(err)
	}
	if status != Pending {
		t.Errorf("source document status = %v, want pending", status)
	}

	s.SetCursor(2)
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if got := s.View()[2].Status; got != Cleared {
		t.Errorf("status after second toggle = %v, want cleared", got)
	}
	if status, _ := s.Doc().StatusAt(3); status != Cleared {
		t.Errorf("source document status = %v, want cleared", status)
	}
}

func TestToggle_DirectClearPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TogglePendingFirst = false
	s, _ := newTestSession(t, cfg)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if got := s.View()[2].Status; got != Cleared {
		t.Errorf("direct-clear toggle = %v, want cleared", got)
	}
}

func TestToggle_AdvancesCursorAndRecomputesBalance(t *testing.T) {
	s, runner := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	runner.balance = "$4.50"
	s.SetCursor(2)
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != 3 {
		t.Errorf("cursor = %d after toggle, want 3", s.Cursor())
	}
	if !strings.Contains(s.BalanceMessage(), "$4.50") {
		t.Errorf("balance message not recomputed: %q", s.BalanceMessage())
	}
}

func TestToggle_NoBinding(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	// Line 0 is the header.
	if err := s.Toggle(0); !errors.Is(err, ErrNoBinding) {
		t.Errorf("Toggle(header) error = %v, want ErrNoBinding", err)
	}
}

func TestToggle_EffectiveDatePolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TogglePendingFirst = false
	cfg.InsertEffectiveDate = true
	s, _ := newTestSession(t, cfg)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	line, _ := s.Doc().Line(3)
	if !strings.Contains(line, "; [=") {
		t.Errorf("cleared posting missing effective-date annotation: %q", line)
	}
}

func TestToggle_EffectiveDateDecisionFunc(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TogglePendingFirst = false
	cfg.InsertEffectiveDate = true
	// The decision function overrides the boolean at the edit point.
	cfg.EffectiveDateFunc = func(*Document, int) bool { return false }
	s, _ := newTestSession(t, cfg)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	line, _ := s.Doc().Line(3)
	if strings.Contains(line, "; [=") {
		t.Errorf("decision function was ignored: %q", line)
	}
}

// Toggling uncleared → pending → cleared via two toggles ends in the
// same terminal status as one toggle followed by a bulk finish.
func TestToggle_RoundTripMatchesFinish(t *testing.T) {
	two, _ := newTestSession(t, nil)
	if _, err := two.Refresh(); err != nil {
		t.Fatal(err)
	}
	if err := two.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if err := two.Toggle(2); err != nil {
		t.Fatal(err)
	}

	one, _ := newTestSession(t, nil)
	if _, err := one.Refresh(); err != nil {
		t.Fatal(err)
	}
	if err := one.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if err := one.Finish(); err != nil {
		t.Fatal(err)
	}

	twoStatus, _ := two.Doc().StatusAt(3)
	oneStatus, _ := one.Doc().StatusAt(3)
	if twoStatus != Cleared || oneStatus != Cleared {
		t.Errorf("terminal statuses differ: two toggles = %v, toggle+finish = %v", twoStatus, oneStatus)
	}
}

func TestFinish(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	// Mark only the first posting pending; the second stays uncleared.
	if err := s.Toggle(2); err != nil {
		t.Fatal(err)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	if status, _ := s.Doc().StatusAt(3); status != Cleared {
		t.Errorf("pending posting not cleared by finish: %v", status)
	}
	if status, _ := s.Doc().StatusAt(7); status != Uncleared {
		t.Errorf("finish must never touch uncleared lines, got %v", status)
	}
	if s.Doc().Dirty() {
		t.Error("finish must persist the source document")
	}
}

func TestFinish_SkipsLinesWithoutBindings(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	// Forge a pending line with no binding; the scan must skip it.
	s.view = append(s.view, ViewLine{Text: "stale", Status: Pending})
	if err := s.Finish(); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
}

func TestVisit(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	binding, err := s.Visit(3)
	if err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	if binding.Doc != s.Doc() || binding.Line != 7 {
		t.Errorf("Visit() = (%s, %d), want (test.ledger, 7)", binding.Doc.Name(), binding.Line)
	}
	if _, err := s.Visit(0); !errors.Is(err, ErrNoBinding) {
		t.Errorf("Visit(header) error = %v, want ErrNoBinding", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s, runner := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	// After deletion the tool would only report the second transaction.
	runner.xacts = `(("-" 1 "2024/01/07" nil "Grocery Store" (3 "Assets:Checking" "$-42.10" nil)))`
	if err := s.DeleteTransaction(2); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if s.Doc().Contains("Coffee Shop") {
		t.Error("deleted transaction still present in the source document")
	}
	if s.Count() != 1 {
		t.Errorf("count after delete = %d, want 1", s.Count())
	}
}

func TestAddTransaction(t *testing.T) {
	s, runner := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	runner.draft = "2024/01/09 Bakery\n    Expenses:Food                   $3.20\n    Assets:Checking                $-3.20\n"
	if err := s.AddTransaction("2024/01/09", "Bakery"); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	if !s.Doc().Contains("Bakery") {
		t.Error("drafted transaction not appended to the source document")
	}
}
