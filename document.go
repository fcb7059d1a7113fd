package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Document is an in-memory, line-addressable view of a ledger file. It
// is the engine's stand-in for an editor buffer: lines are numbered
// from 1, edits mark the document dirty, and saving notifies observers
// registered with OnSave.
type Document struct {
	path     string
	name     string
	lines    []string
	dirty    bool
	narrowed string // account the presentation is narrowed to, "" when widened

	hooks    map[int]func(*Document)
	nextHook int
}

// NewDocument creates a document from in-memory content, not backed by
// any file. Saving it only notifies observers.
func NewDocument(name, content string) *Document {
	return &Document{
		name:  name,
		lines: splitLines(content),
		hooks: make(map[int]func(*Document)),
	}
}

// OpenDocument reads a document from disk.
func OpenDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger document: %w", err)
	}
	d := NewDocument(filepath.Base(path), string(data))
	d.path = path
	return d, nil
}

func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func (d *Document) Name() string { return d.name }
func (d *Document) Path() string { return d.path }

// Dirty reports whether the document has unsaved changes.
func (d *Document) Dirty() bool { return d.dirty }

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the 1-based line n.
func (d *Document) Line(n int) (string, error) {
	if n < 1 || n > len(d.lines) {
		return "", fmt.Errorf("line %d out of range [1,%d] in %s", n, len(d.lines), d.name)
	}
	return d.lines[n-1], nil
}

// SetLine replaces the 1-based line n.
func (d *Document) SetLine(n int, text string) error {
	if n < 1 || n > len(d.lines) {
		return fmt.Errorf("line %d out of range [1,%d] in %s", n, len(d.lines), d.name)
	}
	if d.lines[n-1] != text {
		d.lines[n-1] = text
		d.dirty = true
	}
	return nil
}

// DeleteLines removes the 1-based inclusive range [from, to].
func (d *Document) DeleteLines(from, to int) error {
	if from < 1 || to > len(d.lines) || from > to {
		return fmt.Errorf("line range [%d,%d] out of range [1,%d] in %s", from, to, len(d.lines), d.name)
	}
	d.lines = append(d.lines[:from-1], d.lines[to:]...)
	d.dirty = true
	return nil
}

// Append adds lines at the end of the document.
func (d *Document) Append(lines ...string) {
	d.lines = append(d.lines, lines...)
	d.dirty = true
}

// Contents returns the whole document text with a trailing newline.
func (d *Document) Contents() string {
	if len(d.lines) == 0 {
		return ""
	}
	return strings.Join(d.lines, "\n") + "\n"
}

// Contains reports whether the document text contains s anywhere. It is
// the soft account-existence check used when opening a session, not an
// authoritative parse.
func (d *Document) Contains(s string) bool {
	for _, line := range d.lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

// Save persists the document to its backing file, if any, then notifies
// save observers. In-memory documents only notify.
func (d *Document) Save() error {
	if d.path != "" {
		if err := os.WriteFile(d.path, []byte(d.Contents()), 0644); err != nil {
			return fmt.Errorf("cannot save %s: %w", d.name, err)
		}
	}
	d.dirty = false
	for _, hook := range d.hooks {
		hook(d)
	}
	return nil
}

// OnSave registers an observer called after every successful save. The
// returned cancel function removes it and is safe to call repeatedly.
func (d *Document) OnSave(fn func(*Document)) (cancel func()) {
	id := d.nextHook
	d.nextHook++
	d.hooks[id] = fn
	return func() { delete(d.hooks, id) }
}

// Narrow restricts the presentation of the document to lines related to
// account. The engine only records the request; hosts apply it.
func (d *Document) Narrow(account string) { d.narrowed = account }

// Widen removes any narrowing.
func (d *Document) Widen() { d.narrowed = "" }

// Narrowed returns the account the document is narrowed to, or "".
func (d *Document) Narrowed() string { return d.narrowed }

// Ledger line shapes. A transaction line starts with a date, optionally
// followed by an effective date, a status marker and a code; a posting
// line is indented, optionally starting with a status marker.
var (
	xactLineRe    = regexp.MustCompile(`^(\d[^\s=]*)(=\S+)?(\s+)([!*]\s+)?(.*)$`)
	postingLineRe = regexp.MustCompile(`^(\s+)([!*]\s+)?(.*)$`)
)

// StatusAt reads the clearing status written on the 1-based line n,
// which may be a transaction or a posting line.
func (d *Document) StatusAt(n int) (Status, error) {
	text, err := d.Line(n)
	if err != nil {
		return 0, err
	}
	var marker string
	if m := xactLineRe.FindStringSubmatch(text); m != nil && !strings.HasPrefix(text, " ") && !strings.HasPrefix(text, "\t") {
		marker = strings.TrimSpace(m[4])
	} else if m := postingLineRe.FindStringSubmatch(text); m != nil {
		marker = strings.TrimSpace(m[2])
	} else {
		return 0, fmt.Errorf("line %d of %s is not a transaction or posting line", n, d.name)
	}
	switch marker {
	case "!":
		return Pending, nil
	case "*":
		return Cleared, nil
	default:
		return Uncleared, nil
	}
}

// SetStatusAt writes the clearing status marker on the 1-based line n.
// This is the navigation-and-mark primitive the state machine drives:
// it rewrites the marker in place, preserving the rest of the line.
func (d *Document) SetStatusAt(n int, s Status) error {
	text, err := d.Line(n)
	if err != nil {
		return err
	}
	mark := s.Mark()
	if mark != "" {
		mark += " "
	}
	indented := strings.HasPrefix(text, " ") || strings.HasPrefix(text, "\t")
	if !indented {
		m := xactLineRe.FindStringSubmatch(text)
		if m == nil {
			return fmt.Errorf("line %d of %s is not a transaction line", n, d.name)
		}
		return d.SetLine(n, m[1]+m[2]+m[3]+mark+m[5])
	}
	m := postingLineRe.FindStringSubmatch(text)
	if m == nil {
		return fmt.Errorf("line %d of %s is not a posting line", n, d.name)
	}
	return d.SetLine(n, m[1]+mark+m[3])
}

// InsertEffectiveDate annotates the 1-based line n with an effective
// date: "=DATE" after the primary date on a transaction line, or an
// "; [=DATE]" comment appended to a posting line. A line that already
// carries an effective date is left untouched.
func (d *Document) InsertEffectiveDate(n int, date time.Time, layout string) error {
	text, err := d.Line(n)
	if err != nil {
		return err
	}
	if layout == "" {
		layout = "2006/01/02"
	}
	indented := strings.HasPrefix(text, " ") || strings.HasPrefix(text, "\t")
	if !indented {
		m := xactLineRe.FindStringSubmatch(text)
		if m == nil {
			return fmt.Errorf("line %d of %s is not a transaction line", n, d.name)
		}
		if m[2] != "" {
			return nil
		}
		return d.SetLine(n, m[1]+"="+date.Format(layout)+m[3]+m[4]+m[5])
	}
	if strings.Contains(text, "[=") {
		return nil
	}
	return d.SetLine(n, text+"  ; [="+date.Format(layout)+"]")
}

// TransactionSpan returns the inclusive line range of the transaction
// containing the 1-based line n: from its heading line down to the last
// indented or empty continuation line before the next heading.
func (d *Document) TransactionSpan(n int) (from, to int, err error) {
	if n < 1 || n > len(d.lines) {
		return 0, 0, fmt.Errorf("line %d out of range [1,%d] in %s", n, len(d.lines), d.name)
	}
	from = n
	for from > 1 && isContinuation(d.lines[from-1]) {
		from--
	}
	to = n
	for to < len(d.lines) && isContinuation(d.lines[to]) {
		to++
	}
	// Trim trailing blank separator lines from the span.
	for to > from && strings.TrimSpace(d.lines[to-1]) == "" {
		to--
	}
	return from, to, nil
}

func isContinuation(line string) bool {
	return line == "" || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// Store opens documents on demand and reuses already-open ones, the way
// an editor reuses buffers visiting the same file.
type Store struct {
	docs map[string]*Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Open returns the already-open document for path, or opens it.
func (s *Store) Open(path string) (*Document, error) {
	if d, ok := s.docs[path]; ok {
		return d, nil
	}
	d, err := OpenDocument(path)
	if err != nil {
		return nil, err
	}
	s.docs[path] = d
	return d, nil
}

// Add registers an externally created document so later lookups by its
// path reuse it.
func (s *Store) Add(d *Document) {
	if d.path != "" {
		s.docs[d.path] = d
	}
}
