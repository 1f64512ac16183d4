package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/mmynk/dailysplit/internal/calculator"
	"github.com/mmynk/dailysplit/internal/models"
)

var ErrNothingToReport = errors.New("nothing to report: no spending recorded")

// Generator turns a settlement into a binary document.
type Generator interface {
	Generate(ctx context.Context, group models.Group, result calculator.Result) ([]byte, error)
}

var _ Generator = (*PDFGenerator)(nil)

// PDFGenerator renders Layout output as an A4 PDF using the core Helvetica font.
type PDFGenerator struct {
	opts Options
}

// NewPDFGenerator creates a generator with the given text options.
func NewPDFGenerator(opts Options) *PDFGenerator {
	return &PDFGenerator{opts: opts.withDefaults()}
}

// Generate renders the report. It refuses results with no spending.
func (g *PDFGenerator) Generate(ctx context.Context, group models.Group, result calculator.Result) ([]byte, error) {
	if !result.HasSpending() {
		return nil, ErrNothingToReport
	}

	pages, err := Layout(ctx, group, result, g.opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(g.opts.Title, true)
	pdf.SetCreator("dailysplit", true)
	pdf.SetCreationDate(g.opts.Now())
	// core fonts are cp1252; translate so names with accents survive
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range pages {
		pdf.AddPage()
		for _, l := range page.Lines {
			pdf.SetFont("Helvetica", "", l.FontSize)
			pdf.Text(LeftMargin, l.Y, tr(l.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName suggests a file name for the group's report.
func FileName(group models.Group) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(group.Name, "-"), "-")
	if name == "" {
		name = "group"
	}
	return name + "-weekly-settlement.pdf"
}
