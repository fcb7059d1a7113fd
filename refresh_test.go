package reconcile

import (
	"errors"
	"strings"
	"testing"
)

func TestRefresh(t *testing.T) {
	s, _ := newTestSession(t, nil)
	count, err := s.Refresh()
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Refresh() count = %d, want 2", count)
	}

	view := s.View()
	// Header "Reconciling account %s\n\n" renders as two lines.
	if len(view) != 4 {
		t.Fatalf("view has %d lines, want 4 (header, blank, two postings)", len(view))
	}
	if view[0].Text != "Reconciling account Assets:Checking" {
		t.Errorf("header = %q", view[0].Text)
	}
	if view[0].Binding != nil || view[1].Binding != nil {
		t.Error("header lines must not carry bindings")
	}
	if !strings.Contains(view[2].Text, "Coffee Shop") || !strings.Contains(view[2].Text, "$-4.50") {
		t.Errorf("first posting line = %q", view[2].Text)
	}
	if !strings.Contains(view[3].Text, "Grocery Store") {
		t.Errorf("second posting line = %q", view[3].Text)
	}
}

// Calling refresh twice with no source changes yields identical content
// and identical count.
func TestRefresh_Idempotent(t *testing.T) {
	s, _ := newTestSession(t, nil)
	count1, err := s.Refresh()
	if err != nil {
		t.Fatal(err)
	}
	content1 := s.Content()
	count2, err := s.Refresh()
	if err != nil {
		t.Fatal(err)
	}
	if count1 != count2 {
		t.Errorf("counts differ across idempotent refreshes: %d then %d", count1, count2)
	}
	if content1 != s.Content() {
		t.Errorf("content differs across idempotent refreshes:\n%s\n---\n%s", content1, s.Content())
	}
}

// Every rendered line's binding points inside the bounds of its
// resolved document.
func TestRefresh_BindingsInBounds(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	for i, vl := range s.View() {
		if vl.Binding == nil {
			continue
		}
		if vl.Binding.Line < 1 || vl.Binding.Line > vl.Binding.Doc.LineCount() {
			t.Errorf("line %d binding out of bounds: line %d of %s [1,%d]",
				i, vl.Binding.Line, vl.Binding.Doc.Name(), vl.Binding.Doc.LineCount())
		}
	}
}

// An account with zero uncleared transactions renders exactly the
// informational empty-state line and reports a count of 0.
func TestRefresh_EmptyState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeaderTemplate = "" // no header: the info line is the whole view
	s, runner := newTestSession(t, cfg)
	runner.xacts = ""

	count, err := s.Refresh()
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	view := s.View()
	if len(view) != 1 {
		t.Fatalf("view has %d lines, want exactly the empty-state line", len(view))
	}
	if want := "There are no uncleared entries for Assets:Checking"; view[0].Text != want {
		t.Errorf("empty-state line = %q, want %q", view[0].Text, want)
	}
}

// A refresh failure leaves the prior view content undisturbed.
func TestRefresh_FailureKeepsPriorView(t *testing.T) {
	s, runner := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	content := s.Content()

	runner.err = errors.New("ledger: exec format error")
	if _, err := s.Refresh(); err == nil {
		t.Fatal("Refresh() expected error when the tool fails")
	}
	if s.Content() != content {
		t.Error("failed refresh disturbed the prior view content")
	}
	if s.Count() != 2 {
		t.Errorf("failed refresh disturbed the count: %d", s.Count())
	}
}

func TestRefresh_PreservesCursorByLineCount(t *testing.T) {
	s, runner := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	s.SetCursor(3)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != 3 {
		t.Errorf("cursor = %d after refresh, want 3", s.Cursor())
	}

	// A shrinking view clamps the cursor instead of losing it.
	runner.xacts = `(("-" 1 "2024/01/05" "101" "Coffee Shop" (3 "Assets:Checking" "$-4.50" nil)))`
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != len(s.View())-1 {
		t.Errorf("cursor = %d, want clamped to %d", s.Cursor(), len(s.View())-1)
	}
}

// Scenario A from the format contract, rendered through a session.
func TestRefresh_LineFormat(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	line := s.View()[2].Text
	if !strings.HasPrefix(line, "2024/01/05 ") {
		t.Errorf("line should start with the formatted date: %q", line)
	}
	// Payee is left-justified to 50 columns before the account field.
	payeeField := "Coffee Shop" + strings.Repeat(" ", 50-len("Coffee Shop"))
	if !strings.Contains(line, payeeField+" Assets:Checking") {
		t.Errorf("payee field not padded to 50 columns: %q", line)
	}
}

func TestContent_NoTrailingTerminator(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if strings.HasSuffix(s.Content(), "\n") {
		t.Error("rendered content must have its final line terminator trimmed")
	}
}
