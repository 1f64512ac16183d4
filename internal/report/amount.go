package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

// FormatAmount renders d rounded half away from zero to one decimal place. Only
// the digit grouping of the integer part comes from p; the value never passes
// through a float.
func FormatAmount(p *message.Printer, d decimal.Decimal) string {
	s := d.StringFixed(1)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = p.Sprintf("%d", n)
	}
	return sign + whole + "." + frac
}
