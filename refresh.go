package reconcile

import (
	"fmt"
	"strings"
)

// Refresh re-runs the query for the session's account and sort key and
// rebuilds the entire view: header, one line per posting, bindings and
// balance. The prior cursor position is restored by line count. On any
// failure the previous view content is left undisturbed and the error
// is returned. The result is the number of rendered transactions.
func (s *Session) Refresh() (int, error) {
	xacts, err := QueryXacts(s.runner, s.doc, s.account, s.sortKey)
	if err != nil {
		return 0, err
	}
	view, err := s.render(xacts)
	if err != nil {
		return 0, err
	}

	cursor := s.cursor // line N of the old view is line N of the new one
	s.view = view
	s.count = len(xacts)
	s.SetCursor(cursor)

	if err := s.RecomputeBalance(); err != nil {
		return s.count, err
	}
	return s.count, nil
}

func (s *Session) render(xacts []Transaction) ([]ViewLine, error) {
	var view []ViewLine
	if s.cfg.HeaderTemplate != "" {
		header := fmt.Sprintf(s.cfg.HeaderTemplate, s.account)
		for _, line := range strings.Split(strings.TrimSuffix(header, "\n"), "\n") {
			view = append(view, ViewLine{Text: line})
		}
	}
	if len(xacts) == 0 {
		view = append(view, ViewLine{Text: "There are no uncleared entries for " + s.account})
		return view, nil
	}
	for _, t := range xacts {
		date := t.Date.Format(s.cfg.DateFormat)
		payee := truncate(t.Payee, s.cfg.PayeeWidth)
		for _, p := range t.Postings {
			binding, err := resolveBinding(s.store, s.doc, t, p, s.cfg.WholeTransactions)
			if err != nil {
				return nil, err
			}
			text := s.lineFmt(
				date,
				t.Code,
				p.Status.Mark(),
				payee,
				truncate(p.Account, s.cfg.AccountWidth),
				p.Amount.String(),
			)
			// One line terminator per rendered line; the last one is
			// trimmed so the content ends without a trailing newline.
			view = append(view, ViewLine{
				Text:    strings.TrimSuffix(text, "\n"),
				Status:  p.Status,
				Binding: &binding,
			})
		}
	}
	return view, nil
}

// Content returns the rendered view as a single string, lines joined by
// newlines with no trailing terminator.
func (s *Session) Content() string {
	lines := make([]string, len(s.view))
	for i, vl := range s.view {
		lines[i] = vl.Text
	}
	return strings.Join(lines, "\n")
}

// truncate caps a field at max runes; a negative max means unlimited.
func truncate(s string, max int) string {
	if max < 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
