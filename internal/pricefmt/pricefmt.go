// Package pricefmt renders one price line with a change marker.
package pricefmt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pricewatch/internal/numeral"
)

// Marker is the direction indicator prefixed to a price line.
type Marker string

const (
	Up      Marker = "🔺"
	Down    Marker = "🔻"
	Neutral Marker = "🔹"
)

// Defaults used when a Formatter field is left empty.
const (
	DefaultUnit      = "تومان"
	DefaultSeparator = ","
)

// Formatter holds the locale bits of a price line. The zero value uses the
// defaults above.
type Formatter struct {
	Unit      string
	Separator string
}

// Line renders "{marker} {title} {amount} {unit}" for the current quote.
//
// previous is the raw text of the last observed quote, or nil when there is
// none yet. Unless stable is set the displayed amount is current/10 (rial to
// toman); the marker is always decided on the undivided amounts.
func (f Formatter) Line(title, current string, previous *string, stable bool) string {
	amount := numeral.Amount(current)
	display := amount
	if !stable {
		display = amount.Shift(-1).Truncate(0)
	}
	return fmt.Sprintf("%s %s %s %s", f.marker(amount, previous), title, Group(display, f.separator()), f.unit())
}

// Marker compares the current raw quote against the previous one.
func (f Formatter) Marker(current string, previous *string) Marker {
	return f.marker(numeral.Amount(current), previous)
}

func (f Formatter) marker(current decimal.Decimal, previous *string) Marker {
	if previous == nil {
		return Neutral
	}
	switch current.Cmp(numeral.Amount(*previous)) {
	case 1:
		return Up
	case -1:
		return Down
	default:
		return Neutral
	}
}

func (f Formatter) unit() string {
	if f.Unit == "" {
		return DefaultUnit
	}
	return f.Unit
}

func (f Formatter) separator() string {
	if f.Separator == "" {
		return DefaultSeparator
	}
	return f.Separator
}

// Group writes the integer part of d with sep between every three digits.
func Group(d decimal.Decimal, sep string) string {
	s := d.Truncate(0).String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
