// Package reports produces the exportable portfolio artifacts: plain-text
// summary, tabular CSV, and a fixed-layout single-page PDF. All three
// reproduce the same summary lines; the export service records every
// generated report in the ledger's export history.
package reports

import (
	"bufio"
	"fmt"
	"io"

	"github.com/avakros/stockfolio/internal/modules/valuation"
)

const (
	summaryTitle     = "Stock Portfolio Summary"
	summarySeparator = "------------------------"
)

// SummaryLines renders the canonical report lines: title, separator, one
// line per position, a blank line, then the total.
func SummaryLines(positions []valuation.Position, total float64) []string {
	lines := []string{summaryTitle, summarySeparator}
	for _, p := range positions {
		lines = append(lines, fmt.Sprintf("%s - %d shares - %s",
			p.Symbol, p.Quantity, valuation.FormatCurrency(p.Value())))
	}
	lines = append(lines, "", "Total Investment Value: "+valuation.FormatCurrency(total))
	return lines
}

// WriteText writes the summary lines as a plain-text report
func WriteText(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("failed to write summary line: %w", err)
		}
	}
	return bw.Flush()
}
