package reconcile

import (
	"fmt"
	"time"
)

// Toggle flips the clearing status of the posting behind view line i:
// it resolves the line's binding, rewrites the status marker at that
// location, optionally annotates the edit point with an effective date,
// updates the view line's highlight status, advances the cursor and
// recomputes the balance. The whole sequence runs before any other
// operation can start.
func (s *Session) Toggle(i int) error {
	vl, err := s.line(i)
	if err != nil {
		return err
	}
	next := vl.Status.Next(s.cfg.TogglePendingFirst)
	doc, line := vl.Binding.Doc, vl.Binding.Line
	if err := doc.SetStatusAt(line, next); err != nil {
		return err
	}
	if next == Cleared && s.cfg.approveEffectiveDate(doc, line) {
		if err := doc.InsertEffectiveDate(line, time.Now(), s.cfg.DateFormat); err != nil {
			return err
		}
	}
	vl.Status = next
	s.SetCursor(s.cursor + 1)
	return s.RecomputeBalance()
}

// Finish is the one-shot bulk transition: every view line highlighted
// pending is navigated to and cleared, then the touched documents are
// persisted. Lines without a valid binding are skipped, uncleared and
// already-cleared lines are never touched. Hosts honoring the
// force-quit policy close the view afterwards.
func (s *Session) Finish() error {
	touched := make(map[*Document]bool)
	for i := range s.view {
		vl := &s.view[i]
		if vl.Status != Pending || vl.Binding == nil {
			continue
		}
		if err := vl.Binding.Doc.SetStatusAt(vl.Binding.Line, Cleared); err != nil {
			// Stale binding; skip rather than abort the scan.
			continue
		}
		vl.Status = Cleared
		touched[vl.Binding.Doc] = true
	}
	if !touched[s.doc] {
		touched[s.doc] = true
	}
	for doc := range touched {
		if err := doc.Save(); err != nil {
			return err
		}
	}
	return nil
}

// Visit resolves the binding of view line i so the host can switch
// focus to the source document at that location. Whether focus comes
// back to the view afterwards is the host's come-back mode.
func (s *Session) Visit(i int) (Binding, error) {
	vl, err := s.line(i)
	if err != nil {
		return Binding{}, err
	}
	return *vl.Binding, nil
}

// DeleteTransaction removes the whole transaction behind view line i
// from its source document, then refreshes the view.
func (s *Session) DeleteTransaction(i int) error {
	vl, err := s.line(i)
	if err != nil {
		return err
	}
	doc := vl.Binding.Doc
	from, to, err := doc.TransactionSpan(vl.Binding.Line)
	if err != nil {
		return err
	}
	if err := doc.DeleteLines(from, to); err != nil {
		return err
	}
	_, err = s.Refresh()
	return err
}

// AddTransaction asks the tool to draft a transaction from the given
// arguments (a date followed by payee and posting hints), appends the
// result to the session document and refreshes.
func (s *Session) AddTransaction(args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("add transaction: empty draft")
	}
	file, stdin := queryInput(s.doc)
	out, err := s.runner.Run(append([]string{"-f", file, "xact"}, args...), stdin)
	if err != nil {
		return err
	}
	lines := splitLines(string(out))
	if len(lines) == 0 {
		return fmt.Errorf("add transaction: tool produced no draft for %q", args)
	}
	if s.doc.LineCount() > 0 {
		s.doc.Append("")
	}
	s.doc.Append(lines...)
	_, err = s.Refresh()
	return err
}

// line returns the addressable view line i, requiring a valid binding.
func (s *Session) line(i int) (*ViewLine, error) {
	if i < 0 || i >= len(s.view) {
		return nil, fmt.Errorf("view line %d out of range [0,%d)", i, len(s.view))
	}
	vl := &s.view[i]
	if vl.Binding == nil {
		return nil, ErrNoBinding
	}
	return vl, nil
}
