package portintel

import "fmt"

// Advisory thresholds.
const (
	concentrationWeightPct = 40
	drawdownReturnPct      = -10
	highWeightPct          = 25
	lowReturnPct           = 5
	minDiversifiedHoldings = 3
)

// Advise applies threshold rules over the valuation rows and returns
// human-readable tips in a deterministic order. An empty row set
// short-circuits to a single empty-portfolio message.
func Advise(rows []ValuationRow) []string {
	if len(rows) == 0 {
		return []string{"Portfolio is empty. Please add stocks."}
	}

	var tips []string
	for _, row := range rows {
		if row.WeightPct > concentrationWeightPct {
			tips = append(tips, fmt.Sprintf("High concentration in %s (%.2f%%). Consider diversification.", row.Symbol, row.WeightPct))
		}
		if row.ReturnPct != nil && *row.ReturnPct < drawdownReturnPct {
			tips = append(tips, fmt.Sprintf("%s is down %.2f%%. Evaluate fundamentals or rebalance.", row.Symbol, *row.ReturnPct))
		}
		if row.WeightPct > highWeightPct && row.ReturnPct != nil && *row.ReturnPct < lowReturnPct {
			tips = append(tips, fmt.Sprintf("%s has high weight but low return (%.2f%%). Reassess your allocation.", row.Symbol, *row.ReturnPct))
		}
	}

	if len(rows) < minDiversifiedHoldings {
		tips = append(tips, fmt.Sprintf("Fewer than %d holdings. Consider adding more stocks for diversification.", minDiversifiedHoldings))
	}
	tips = append(tips, "Try to diversify across sectors to reduce risk.")

	return tips
}
