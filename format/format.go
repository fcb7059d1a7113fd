// Package format compiles user-supplied line templates into reusable
// formatting functions.
//
// A template is literal text with embedded placeholders of the form
// %WIDTH(FIELD)s, where FIELD is one of date, code, status, payee,
// account or amount, and WIDTH is an optional, possibly negative,
// justification width (negative left-justifies). For example:
//
//	%(date)s %-4(code)s %-50(payee)s %-30(account)s %15(amount)s\n
//
// Fields may appear in any order, or not at all; a template with no
// placeholders compiles to a constant line. The compiled function's
// calling convention is positional and fixed regardless of template
// order. Status is conventionally not substituted as text (it drives
// highlighting instead) but is accepted for positional consistency.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Line formats the six reconciliation fields into one view line. The
// positional convention is fixed: date, code, status, payee, account,
// amount.
type Line func(date, code, status, payee, account, amount string) string

// field indices in the positional calling convention.
var fields = map[string]int{
	"date":    0,
	"code":    1,
	"status":  2,
	"payee":   3,
	"account": 4,
	"amount":  5,
}

type segment struct {
	literal string
	field   int // -1 for a literal segment
	width   int // 0 means no width spec
}

// Compile parses a template once and returns a Line reusable across all
// rendered lines. Unbalanced placeholder syntax or an unknown field is
// reported here, not at render time.
func Compile(template string) (Line, error) {
	var segments []segment
	rest := template
	for {
		i := strings.IndexByte(rest, '%')
		if i < 0 {
			break
		}
		spec := rest[i+1:]
		// A doubled %% is a literal percent sign.
		if strings.HasPrefix(spec, "%") {
			segments = append(segments, segment{literal: rest[:i+1], field: -1})
			rest = spec[1:]
			continue
		}
		open := strings.IndexByte(spec, '(')
		if open < 0 {
			return nil, fmt.Errorf("unbalanced placeholder in template %q: missing (FIELD)", template)
		}
		width := 0
		if open > 0 {
			w, err := strconv.Atoi(spec[:open])
			if err != nil {
				return nil, fmt.Errorf("bad width %q in template %q", spec[:open], template)
			}
			width = w
		}
		closing := strings.IndexByte(spec[open:], ')')
		if closing < 0 {
			return nil, fmt.Errorf("unbalanced placeholder in template %q: missing )", template)
		}
		name := spec[open+1 : open+closing]
		index, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("unknown field %q in template %q", name, template)
		}
		after := spec[open+closing+1:]
		if !strings.HasPrefix(after, "s") {
			return nil, fmt.Errorf("placeholder for %q in template %q must end with s", name, template)
		}
		if i > 0 {
			segments = append(segments, segment{literal: rest[:i], field: -1})
		}
		segments = append(segments, segment{field: index, width: width})
		rest = after[1:]
	}
	if rest != "" {
		segments = append(segments, segment{literal: rest, field: -1})
	}

	return func(date, code, status, payee, account, amount string) string {
		values := [6]string{date, code, status, payee, account, amount}
		var b strings.Builder
		for _, s := range segments {
			if s.field < 0 {
				b.WriteString(s.literal)
				continue
			}
			b.WriteString(pad(values[s.field], s.width))
		}
		return b.String()
	}, nil
}

func pad(s string, width int) string {
	if width == 0 {
		return s
	}
	if width < 0 {
		return fmt.Sprintf("%-*s", -width, s)
	}
	return fmt.Sprintf("%*s", width, s)
}
