package portintel

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderDistributionChart renders a PNG pie chart of holdings by weight.
// Returns raw PNG bytes.
func RenderDistributionChart(rows []ValuationRow) ([]byte, error) {
	values := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		if row.WeightPct <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: row.WeightPct,
			Label: fmt.Sprintf("%s %.1f%%", row.Symbol, row.WeightPct),
		})
	}
	if len(values) == 0 {
		return nil, NewError(ErrCodeCalculation, "no positive weights to chart")
	}

	pie := chart.PieChart{
		Title:  "Portfolio Distribution",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
