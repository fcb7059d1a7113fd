package reconcile

import "fmt"

// Binding associates one rendered view line with the place its posting
// lives in the source: a document and the 1-based line to navigate to.
// Bindings are recomputed on every refresh, never mutated in place.
type Binding struct {
	Doc  *Document
	Line int
}

// resolveBinding locates the posting p of transaction t.
//
// With whole-transaction clearing the target is always the transaction's
// own heading line, so that marking any posting marks the transaction as
// a unit. Otherwise the target is the posting's own line; a posting with
// the no-line sentinel falls back to the transaction's line, never to an
// arbitrary location.
//
// The document is the session document when the transaction's file
// designator denotes standard input, otherwise it is opened (or reused)
// from the recorded path. Resolution performs no mutation.
func resolveBinding(store *Store, sessionDoc *Document, t Transaction, p Posting, wholeXact bool) (Binding, error) {
	doc := sessionDoc
	if !t.FromStdin() {
		opened, err := store.Open(t.File)
		if err != nil {
			return Binding{}, fmt.Errorf("resolving posting %q: %w", p.Account, err)
		}
		doc = opened
	}
	line := t.Line
	if !wholeXact && p.Line != NoPostingLine {
		line = p.Line
	}
	if line < 1 || line > doc.LineCount() {
		return Binding{}, fmt.Errorf("posting %q resolves to line %d outside %s [1,%d]",
			p.Account, line, doc.Name(), doc.LineCount())
	}
	return Binding{Doc: doc, Line: line}, nil
}
