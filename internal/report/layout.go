// Package report renders settlement results into shareable documents.
package report

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/dailysplit/internal/calculator"
	"github.com/mmynk/dailysplit/internal/models"
)

// Page geometry, in millimetres on A4 portrait.
const (
	LeftMargin = 20.0
	topOfPage  = 20.0

	// a member block starting below this line moves to a new page
	blockBreakY = 270.0
	// no line is printed below this
	pageBottomY = 285.0

	memberAdvance = 10.0
	lineAdvance   = 8.0
	blockGap      = 5.0
)

const (
	// DefaultWidth is the soft-wrap column for relation lists.
	DefaultWidth = 85

	continuationIndent = "    "
)

// Options tune the document text.
type Options struct {
	Title    string
	Currency string
	Width    int
	Language language.Tag
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Daily Split - Weekly Settlement"
	}
	if o.Currency == "" {
		o.Currency = "UZS"
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Language == language.Und {
		o.Language = language.English
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Line is one positioned line of text.
type Line struct {
	Text     string
	FontSize float64
	Y        float64
}

// Page is the lines printed on one page, top to bottom.
type Page struct {
	Lines []Line
}

type cursor struct {
	pages []Page
	y     float64
}

func (c *cursor) newPage() {
	c.pages = append(c.pages, Page{})
	c.y = topOfPage
}

func (c *cursor) at(y float64, size float64, text string) {
	c.y = y
	c.put(size, text, 0)
}

// put prints text at the cursor, moving to a fresh page first if it would not fit.
func (c *cursor) put(size float64, text string, advance float64) {
	if c.y > pageBottomY {
		c.newPage()
	}
	p := &c.pages[len(c.pages)-1]
	p.Lines = append(p.Lines, Line{Text: text, FontSize: size, Y: c.y})
	c.y += advance
}

// Layout places the settlement of group onto pages: a header with the group,
// date and members, the summary stats, then one block per member listing whom
// they receive from and pay to. Members with nothing to settle are skipped.
// ctx is checked between member blocks.
func Layout(ctx context.Context, group models.Group, result calculator.Result, opts Options) ([]Page, error) {
	opts = opts.withDefaults()
	p := message.NewPrinter(opts.Language)
	money := func(d decimal.Decimal) string {
		return FormatAmount(p, d) + " " + opts.Currency
	}

	c := &cursor{}
	c.newPage()

	c.at(30, 20, opts.Title)
	c.at(45, 12, "Group: "+group.Name)
	c.at(55, 12, "Date: "+opts.Now().Format("2006-01-02"))

	names := make([]string, len(group.Users))
	for i, u := range group.Users {
		names[i] = u.Name
	}
	c.y = 65
	for _, l := range wrap("Members: ", names, opts.Width) {
		c.put(12, l, lineAdvance)
	}

	c.at(max(c.y+12, 85), 14, "Summary:")
	c.y += 10
	if result.Stats != nil {
		c.put(10, "Total spent: "+money(result.Stats.TotalSpent), 10)
		c.put(10, "Per person: "+money(result.Stats.AveragePerPerson), 10)
	}

	c.y += 10
	c.put(14, "Settlement:", 15)

	for _, mr := range calculator.Relations(result) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(mr.Pays) == 0 && len(mr.Receives) == 0 {
			continue
		}

		if c.y > blockBreakY {
			c.newPage()
		}
		c.put(12, mr.Member.Name+":", memberAdvance)

		if len(mr.Receives) > 0 {
			for _, l := range wrap("  Receives from: ", relationTexts(mr.Receives, money), opts.Width) {
				c.put(10, l, lineAdvance)
			}
		}
		if len(mr.Pays) > 0 {
			for _, l := range wrap("  Pays to: ", relationTexts(mr.Pays, money), opts.Width) {
				c.put(10, l, lineAdvance)
			}
		}
		c.y += blockGap
	}

	return c.pages, nil
}

func relationTexts(rs []calculator.Relation, money func(decimal.Decimal) string) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Counterparty.Name + " " + money(r.Amount)
	}
	return out
}

// wrap joins entries after label with commas, breaking lines between entries so
// no line exceeds width runes. Continuation lines are indented. An entry is never
// split; one longer than width gets a line of its own.
func wrap(label string, entries []string, width int) []string {
	var lines []string
	var b strings.Builder
	b.WriteString(label)
	n := utf8.RuneCountInString(label)
	fresh := true // nothing but the label or indent on the current line

	for i, e := range entries {
		piece := e
		if i < len(entries)-1 {
			piece += ","
		}
		size := utf8.RuneCountInString(piece)
		if !fresh && n+1+size > width {
			lines = append(lines, b.String())
			b.Reset()
			b.WriteString(continuationIndent)
			n = utf8.RuneCountInString(continuationIndent)
			fresh = true
		}
		if !fresh {
			b.WriteString(" ")
			n++
		}
		b.WriteString(piece)
		n += size
		fresh = false
	}
	return append(lines, b.String())
}
