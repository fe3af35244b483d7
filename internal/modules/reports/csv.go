package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/avakros/stockfolio/internal/modules/valuation"
)

// csvHeader is the tabular export header row
var csvHeader = []string{"Stock", "Quantity", "Price", "Position Value"}

// WriteCSV writes the tabular export: header, one row per position with
// price and value to two decimal places, a blank row, then the totals row.
func WriteCSV(w io.Writer, positions []valuation.Position, total float64) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range positions {
		row := []string{
			p.Symbol,
			strconv.FormatInt(p.Quantity, 10),
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.FormatFloat(p.Value(), 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", p.Symbol, err)
		}
	}

	if err := cw.Write([]string{}); err != nil {
		return fmt.Errorf("failed to write CSV spacer row: %w", err)
	}

	totalsRow := []string{"Total Investment Value", "", "", strconv.FormatFloat(total, 'f', 2, 64)}
	if err := cw.Write(totalsRow); err != nil {
		return fmt.Errorf("failed to write CSV totals row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
