package reconcile

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount represents a single-commodity monetary value as reported by the
// ledger tool. The commodity is kept verbatim: either a symbol prefix
// ("$", "€") or an ISO-style code suffix ("EUR"). Arithmetic is limited
// to what reconciliation needs: subtraction, negation and zero tests.
type Amount struct {
	value decimal.Decimal
	com   string // commodity symbol or code, "" for a bare number
}

// A builds an amount from a float and a commodity. Intended for tests
// and defaults; parsed input should go through ParseAmount.
func A(value float64, commodity string) Amount {
	return Amount{value: decimal.NewFromFloat(value), com: commodity}
}

// ParseAmount parses a ledger-styled amount string such as "$4.50",
// "$-4.50", "-12.30" or "4.50 EUR". Thousands separators are accepted
// and ignored.
func ParseAmount(s string) (Amount, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}

	var com string
	// Code suffix form: "4.50 EUR".
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		com = strings.TrimSpace(text[i+1:])
		text = strings.TrimSpace(text[:i])
	} else {
		// Symbol prefix form: "$4.50", "-$4.50", "$-4.50".
		neg := strings.HasPrefix(text, "-")
		body := strings.TrimPrefix(text, "-")
		j := 0
		for _, r := range body {
			if unicode.IsDigit(r) || r == '-' || r == '.' || r == ',' {
				break
			}
			j += len(string(r))
		}
		com = body[:j]
		text = body[j:]
		if neg && !strings.HasPrefix(text, "-") {
			text = "-" + text
		}
	}

	text = strings.ReplaceAll(text, ",", "")
	value, err := decimal.NewFromString(text)
	if err != nil {
		return Amount{}, fmt.Errorf("cannot parse amount %q: %w", s, err)
	}
	return Amount{value: value, com: com}, nil
}

// Commodity returns the amount's commodity symbol or code.
func (a Amount) Commodity() string { return a.com }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.value.IsZero() }

// Equal reports whether two amounts have the same value and commodity.
func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) && a.com == b.com }

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount { return Amount{value: a.value.Neg(), com: a.com} }

// Sub returns a - b. A missing commodity on either side is weak and
// adopts the other's; differing commodities panic, as reconciliation
// against a target only makes sense within one commodity.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value), com: commodity(a, b)}
}

func commodity(a, b Amount) string {
	if a.com == "" {
		return b.com
	}
	if b.com == "" {
		return a.com
	}
	if a.com != b.com {
		panic("commodity mismatch " + a.com + " != " + b.com)
	}
	return a.com
}

// String renders the amount the way ledger prints it: symbol prefix
// before the signed number ("$-4.50"), code as a suffix ("4.50 EUR").
// Known ISO codes are rendered with their conventional fraction digits.
func (a Amount) String() string {
	digits := int32(2)
	if cur := money.GetCurrency(a.com); cur != nil {
		digits = int32(cur.Fraction)
	}
	// Preserve extra precision the tool reported.
	if d := -a.value.Exponent(); d > digits {
		digits = d
	}
	text := a.value.StringFixed(digits)
	switch {
	case a.com == "":
		return text
	case isSymbol(a.com):
		return a.com + text
	default:
		return text + " " + a.com
	}
}

// isSymbol distinguishes "$"/"€" style commodities from word codes.
func isSymbol(com string) bool {
	for _, r := range com {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return com != ""
}
