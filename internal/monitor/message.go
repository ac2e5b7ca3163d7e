package monitor

import (
	"html"
	"strings"
	"time"

	"pricewatch/internal/numeral"
)

// Compose builds the Telegram HTML message: the price lines in bold, then
// the local time, the calendar date and a bold footer.
func Compose(lines []string, now time.Time, date, footer string) string {
	var b strings.Builder
	b.WriteString("<b>")
	for _, l := range lines {
		b.WriteString(html.EscapeString(l))
		b.WriteString("\n")
	}
	b.WriteString("</b>\n")
	b.WriteString("ساعت: ")
	b.WriteString(numeral.ToCanonicalDigits(now.Format("15:04")))
	b.WriteString("\nتاریخ: ")
	b.WriteString(numeral.ToCanonicalDigits(date))
	if footer != "" {
		b.WriteString("<b>\n")
		b.WriteString(html.EscapeString(footer))
		b.WriteString("</b>")
	}
	return b.String()
}
