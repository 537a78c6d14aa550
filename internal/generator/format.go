package generator

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySuffix is appended to every rendered amount.
const CurrencySuffix = "ر.ق"

// FormatAmount renders d with two decimals, comma thousands separators and the currency suffix, e.g. "1,550.00 ر.ق".
func FormatAmount(d decimal.Decimal) string {
	return FormatNumber(d) + " " + CurrencySuffix
}

// FormatNumber is FormatAmount without the suffix.
func FormatNumber(d decimal.Decimal) string {
	d = d.Round(2)
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

const dateLayout = "02/01/2006"

// FormatDate renders t as dd/mm/yyyy, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
