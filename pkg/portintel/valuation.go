package portintel

import (
	"context"
	"math"
	"time"
)

// DefaultBenchmarkPct is the annualized benchmark return the portfolio score
// is measured against when none is configured.
const DefaultBenchmarkPct = 12.0

// PriceSource resolves a live quote for a symbol. Implementations return an
// error wrapping ErrPriceUnavailable when no quote can be resolved.
type PriceSource interface {
	Lookup(ctx context.Context, symbol string) (Amount, error)
}

// Valuation is the priced view of a ledger plus portfolio metrics.
type Valuation struct {
	Rows       []ValuationRow
	Metrics    PortfolioMetrics
	Unresolved []string
}

// Value prices every open position in the ledger and solves the portfolio's
// money-weighted annual return.
//
// Per symbol with net quantity > 0: the live price comes from the source,
// falling back to the most recent buy lot's price when the lookup fails (the
// symbol is then reported as unresolved, never failing the run). Cashflows
// for the XIRR solve are synthesized with fixed offsets: buy lots one year
// before asOf, sell lots 180 days before, and the current valuation at asOf.
// The offsets stand in for true transaction dates and are kept for
// compatibility with the stored report format.
//
// A degenerate cashflow set or solver non-convergence aborts the whole run
// with a CALCULATION_ERROR; no partial rows are returned.
func Value(ctx context.Context, ledger *Ledger, prices PriceSource, asOf time.Time, benchmarkPct float64) (*Valuation, error) {
	buyDate := asOf.AddDate(0, 0, -365)
	sellDate := asOf.AddDate(0, 0, -180)

	var (
		rows       []ValuationRow
		flows      []cashflow
		unresolved []string
	)

	for _, symbol := range ledger.Symbols() {
		summary := ledger.Summary(symbol)
		if summary.NetQuantity <= 0 {
			continue
		}

		livePrice, err := prices.Lookup(ctx, symbol)
		if err != nil {
			// Last buy lot is guaranteed to exist: net quantity > 0
			// implies at least one buy.
			livePrice = summary.Buys[len(summary.Buys)-1].Price
			unresolved = append(unresolved, symbol)
		}

		currentValue := livePrice.MulInt(summary.NetQuantity)
		buyCost := summary.BuyCost()
		sellProceeds := summary.SellProceeds()
		avgBuyPrice := buyCost.DivInt(summary.TotalBought())

		invested := buyCost.Sub(sellProceeds)
		if invested.IsNegative() {
			invested = NewAmountFromInt(0)
		}

		var returnPct *float64
		if !invested.IsZero() {
			pct := round2(currentValue.Sub(invested).Float64() / invested.Float64() * 100)
			returnPct = &pct
		}

		rows = append(rows, ValuationRow{
			Symbol:         symbol,
			NetQuantity:    summary.NetQuantity,
			AvgBuyPrice:    avgBuyPrice,
			LivePrice:      livePrice,
			InvestedAmount: invested,
			CurrentValue:   currentValue,
			ReturnPct:      returnPct,
		})

		for _, lot := range summary.Buys {
			flows = append(flows, cashflow{date: buyDate, amount: -lot.Price.MulInt(lot.Quantity).Float64()})
		}
		for _, lot := range summary.Sells {
			flows = append(flows, cashflow{date: sellDate, amount: lot.Price.MulInt(lot.Quantity).Float64()})
		}
		flows = append(flows, cashflow{date: asOf, amount: currentValue.Float64()})
	}

	if len(rows) == 0 {
		return nil, NewError(ErrCodeCalculation, "portfolio has no open positions")
	}

	total := 0.0
	for _, row := range rows {
		total += row.CurrentValue.Float64()
	}
	if total > 0 {
		for i := range rows {
			rows[i].WeightPct = round2(rows[i].CurrentValue.Float64() / total * 100)
		}
	}

	rate, err := solveXIRR(flows)
	if err != nil {
		return nil, WrapError(ErrCodeCalculation, "xirr solve failed", err)
	}

	xirrPct := round2(rate * 100)
	return &Valuation{
		Rows:       rows,
		Unresolved: unresolved,
		Metrics: PortfolioMetrics{
			XIRRPct: xirrPct,
			Score:   Score(xirrPct, benchmarkPct),
		},
	}, nil
}

// Score maps the portfolio XIRR to a 0-100 score relative to a benchmark
// annual return percentage.
func Score(xirrPct, benchmarkPct float64) float64 {
	score := 50 + (xirrPct-benchmarkPct)*2
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
