package portintel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Portfolio"

var reportHeader = []string{
	"Stock", "Net Quantity", "Avg Buy Price", "Live Price",
	"Invested Amount", "Current Value", "Return (%)", "Weight (%)",
}

// BuildReport produces a downloadable xlsx workbook with the valuation
// table, a metrics summary line, and the distribution pie chart embedded as
// an image. chartPNG may be nil to skip the image.
func BuildReport(rows []ValuationRow, metrics PortfolioMetrics, chartPNG []byte) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", reportSheet)

	for i, title := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(reportSheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, row := range rows {
		returnCell := any("∞")
		if row.ReturnPct != nil {
			returnCell = *row.ReturnPct
		}
		values := []any{
			row.Symbol,
			row.NetQuantity,
			row.AvgBuyPrice.Float64(),
			row.LivePrice.Float64(),
			row.InvestedAmount.Float64(),
			row.CurrentValue.Float64(),
			returnCell,
			row.WeightPct,
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	summaryCell, err := excelize.CoordinatesToCellName(1, len(rows)+3)
	if err != nil {
		return nil, fmt.Errorf("summary cell: %w", err)
	}
	summary := fmt.Sprintf("XIRR: %.2f%% | Score: %.0f/100", metrics.XIRRPct, metrics.Score)
	if err := f.SetCellValue(reportSheet, summaryCell, summary); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	if len(chartPNG) > 0 {
		err := f.AddPictureFromBytes(reportSheet, "J2", &excelize.Picture{
			Extension: ".png",
			File:      chartPNG,
		})
		if err != nil {
			return nil, fmt.Errorf("embed chart: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
