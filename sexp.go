package reconcile

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// The ledger tool's machine-readable output is an S-expression: a list
// of transactions, each of the form
//
//	("file" LINE (HIGH LOW [USEC]) CODE "payee"
//	 (LINE "account" "amount" STATUS) ...)
//
// where CODE is a string or nil, the date is an emacs-style time pair,
// and STATUS is nil (uncleared), the symbol pending, or t (cleared).
// A posting LINE of -1 means the posting has no direct line of its own.

// sexp is one node of the parsed tree: either an atom or a list.
type sexp struct {
	atom   string
	quoted bool // atom came from a double-quoted string
	list   []sexp
	isList bool
}

// parseSexps parses zero or more top-level S-expressions. Input that
// does not start with an opening paren yields no nodes, not an error;
// an unterminated list or string is an error.
func parseSexps(data string) ([]sexp, error) {
	p := &sexpParser{src: data}
	var nodes []sexp
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nodes, nil
		}
		if p.src[p.pos] != '(' {
			// Non-matching leading character: treat the rest as noise.
			return nodes, nil
		}
		node, err := p.parse()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

type sexpParser struct {
	src string
	pos int
}

func (p *sexpParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *sexpParser) parse() (sexp, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return sexp{}, fmt.Errorf("unexpected end of input")
	}
	switch p.src[p.pos] {
	case '(':
		p.pos++
		node := sexp{isList: true}
		for {
			p.skipSpace()
			if p.pos >= len(p.src) {
				return sexp{}, fmt.Errorf("unterminated list")
			}
			if p.src[p.pos] == ')' {
				p.pos++
				return node, nil
			}
			child, err := p.parse()
			if err != nil {
				return sexp{}, err
			}
			node.list = append(node.list, child)
		}
	case ')':
		return sexp{}, fmt.Errorf("unexpected ) at offset %d", p.pos)
	case '"':
		return p.parseString()
	default:
		return p.parseAtom(), nil
	}
}

func (p *sexpParser) parseString() (sexp, error) {
	var b strings.Builder
	p.pos++ // opening quote
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return sexp{}, fmt.Errorf("unterminated escape in string")
			}
			switch e := p.src[p.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e)
			}
			p.pos++
		case '"':
			p.pos++
			return sexp{atom: b.String(), quoted: true}, nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return sexp{}, fmt.Errorf("unterminated string")
}

func (p *sexpParser) parseAtom() sexp {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == '"' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	return sexp{atom: p.src[start:p.pos]}
}

func (n sexp) isNil() bool { return !n.isList && !n.quoted && n.atom == "nil" }

func (n sexp) int() (int, error) {
	if n.isList {
		return 0, fmt.Errorf("expected integer, got list")
	}
	return strconv.Atoi(n.atom)
}

// decodeTransactions converts the parsed query output into transaction
// records, preserving the tool's ordering exactly.
func decodeTransactions(output string) ([]Transaction, error) {
	nodes, err := parseSexps(output)
	if err != nil {
		return nil, fmt.Errorf("malformed query output: %w", err)
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	// The tool emits one top-level list wrapping all transactions.
	xacts := nodes[0].list
	transactions := make([]Transaction, 0, len(xacts))
	for i, x := range xacts {
		t, err := decodeTransaction(x)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func decodeTransaction(n sexp) (Transaction, error) {
	if !n.isList || len(n.list) < 5 {
		return Transaction{}, fmt.Errorf("expected (file line date code payee postings...), got %d elements", len(n.list))
	}
	line, err := n.list[1].int()
	if err != nil {
		return Transaction{}, fmt.Errorf("bad line number: %w", err)
	}
	date, err := decodeDate(n.list[2])
	if err != nil {
		return Transaction{}, err
	}
	t := Transaction{
		File:  n.list[0].atom,
		Line:  line,
		Date:  date,
		Payee: n.list[4].atom,
	}
	if !n.list[3].isNil() {
		t.Code = n.list[3].atom
	}
	for _, p := range n.list[5:] {
		posting, err := decodePosting(p)
		if err != nil {
			return Transaction{}, fmt.Errorf("payee %q: %w", t.Payee, err)
		}
		t.Postings = append(t.Postings, posting)
	}
	return t, nil
}

func decodePosting(n sexp) (Posting, error) {
	if !n.isList || len(n.list) < 3 {
		return Posting{}, fmt.Errorf("expected (line account amount [status]) posting")
	}
	line, err := n.list[0].int()
	if err != nil {
		return Posting{}, fmt.Errorf("bad posting line: %w", err)
	}
	amount, err := ParseAmount(n.list[2].atom)
	if err != nil {
		return Posting{}, err
	}
	p := Posting{Line: line, Account: n.list[1].atom, Amount: amount}
	if len(n.list) > 3 {
		switch status := n.list[3]; {
		case status.isNil():
			p.Status = Uncleared
		case status.atom == "pending":
			p.Status = Pending
		case status.atom == "t" || status.atom == "cleared":
			p.Status = Cleared
		default:
			return Posting{}, fmt.Errorf("unknown posting status %q", status.atom)
		}
	}
	return p, nil
}

// decodeDate accepts either an emacs time pair (HIGH LOW [USEC]) or a
// plain date string.
func decodeDate(n sexp) (time.Time, error) {
	if n.isList {
		if len(n.list) < 2 {
			return time.Time{}, fmt.Errorf("expected (high low) time pair")
		}
		high, err := n.list[0].int()
		if err != nil {
			return time.Time{}, fmt.Errorf("bad time pair: %w", err)
		}
		low, err := n.list[1].int()
		if err != nil {
			return time.Time{}, fmt.Errorf("bad time pair: %w", err)
		}
		return time.Unix(int64(high)<<16|int64(low), 0).UTC(), nil
	}
	for _, layout := range []string{"2006/01/02", "2006-01-02"} {
		if d, err := time.Parse(layout, n.atom); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", n.atom)
}
