package portintel

import (
	"errors"
	"math"
	"sort"
	"time"
)

// cashflow represents a single dated cash flow for the XIRR solve.
// Negative values = money out (buys), positive values = money in (sells,
// current valuation).
type cashflow struct {
	date   time.Time
	amount float64
}

var errNoConvergence = errors.New("xirr solver did not converge")

// solveXIRR finds the rate r such that the net present value of the flows,
// discounted with days-from-first-flow/365 as the exponent, equals zero.
// Newton-Raphson seeded at 10% with bounded iterations, falling back to
// bisection. A degenerate flow set (empty, or all flows of one sign) and
// non-convergence both return an error rather than looping.
func solveXIRR(flows []cashflow) (float64, error) {
	if len(flows) == 0 {
		return 0, errors.New("no cashflows")
	}

	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].date.Before(flows[j].date)
	})

	hasNeg, hasPos := false, false
	for _, f := range flows {
		if f.amount < 0 {
			hasNeg = true
		}
		if f.amount > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return 0, errors.New("cashflows must include both inflows and outflows")
	}

	base := flows[0].date
	years := make([]float64, len(flows))
	for i, f := range flows {
		days := f.date.Sub(base).Hours() / 24
		years[i] = days / 365
	}

	const (
		maxIter = 100
		tol     = 1e-7
		minRate = -0.999 // rate can't go below -99.9%
		maxRate = 100    // 10000% annual return cap
	)

	rate := 0.1

	for iter := 0; iter < maxIter; iter++ {
		npv := 0.0
		dnpv := 0.0

		for i, f := range flows {
			b := 1 + rate
			if b <= 0 {
				rate = minRate
				b = 1 + rate
			}
			discount := math.Pow(b, years[i])
			if discount == 0 {
				continue
			}
			npv += f.amount / discount
			if years[i] != 0 {
				dnpv -= years[i] * f.amount / (discount * b)
			}
		}

		if math.Abs(npv) < tol {
			return rate, nil
		}
		if dnpv == 0 {
			break
		}

		next := rate - npv/dnpv
		if next < minRate {
			next = minRate
		}
		if next > maxRate {
			next = maxRate
		}
		rate = next
	}

	return bisectXIRR(flows, years)
}

// bisectXIRR is the fallback solver when Newton-Raphson fails to converge.
func bisectXIRR(flows []cashflow, years []float64) (float64, error) {
	const (
		maxIter  = 200
		tol      = 1e-6
		widthTol = 1e-9
	)

	npvAt := func(rate float64) float64 {
		sum := 0.0
		for i, f := range flows {
			b := 1 + rate
			if b <= 0 {
				return math.NaN()
			}
			sum += f.amount / math.Pow(b, years[i])
		}
		return sum
	}

	lo, hi := -0.99, 10.0
	npvLo := npvAt(lo)
	npvHi := npvAt(hi)
	if math.IsNaN(npvLo) || math.IsNaN(npvHi) || npvLo*npvHi > 0 {
		return 0, errNoConvergence
	}

	for iter := 0; iter < maxIter; iter++ {
		mid := (lo + hi) / 2
		npvMid := npvAt(mid)
		if math.IsNaN(npvMid) {
			return 0, errNoConvergence
		}
		// The NPV noise floor for large portfolios can sit above tol, so
		// also stop once the bracket itself has collapsed.
		if math.Abs(npvMid) < tol || hi-lo < widthTol {
			return mid, nil
		}
		if npvMid*npvLo < 0 {
			hi = mid
		} else {
			lo = mid
			npvLo = npvMid
		}
	}

	return (lo + hi) / 2, nil
}
