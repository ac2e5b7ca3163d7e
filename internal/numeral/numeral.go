// Package numeral turns scraped price text into integer amounts.
package numeral

import (
	"strings"

	"github.com/shopspring/decimal"
)

// persianDigits are the Extended Arabic-Indic digits used on Iranian sites,
// indexed by their value.
var persianDigits = [10]rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'}

var canonical = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(persianDigits))
	for i, r := range persianDigits {
		pairs = append(pairs, string(r), string(rune('0'+i)))
	}
	return strings.NewReplacer(pairs...)
}()

// ThousandsSeparator is stripped before digit runs are collected.
const ThousandsSeparator = ","

// ToCanonicalDigits maps Persian numeral glyphs to ASCII digits and leaves
// every other character alone.
func ToCanonicalDigits(s string) string {
	return canonical.Replace(s)
}

// ExtractAmount concatenates every run of ASCII digits in s, in order, and
// reads the result as a non-negative integer. Text without digits yields 0.
//
// Runs are joined rather than summed: sites split a single number across
// styling spans, e.g. "1<span>,</span>234" renders as "1 234".
func ExtractAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, ThousandsSeparator, "")

	var digits strings.Builder
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			digits.WriteByte(c)
		}
	}
	if digits.Len() == 0 {
		return decimal.Zero
	}

	// Only ASCII digits reach here, so parsing cannot fail.
	d, err := decimal.NewFromString(digits.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Amount is ToCanonicalDigits followed by ExtractAmount.
func Amount(s string) decimal.Decimal {
	return ExtractAmount(ToCanonicalDigits(s))
}
