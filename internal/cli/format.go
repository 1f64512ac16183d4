package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/dailysplit/internal/report"
)

var printer = message.NewPrinter(language.English)

// money formats an amount with grouping separators and one decimal.
func money(d decimal.Decimal, currency string) string {
	return report.FormatAmount(printer, d) + " " + currency
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func row(w io.Writer, cells ...string) {
	fmt.Fprintln(w, strings.Join(cells, "\t"))
}
