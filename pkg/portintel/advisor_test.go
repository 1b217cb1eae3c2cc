package portintel

import "testing"

func advisorRow(symbol string, weightPct float64, returnPct *float64) ValuationRow {
	return ValuationRow{Symbol: symbol, WeightPct: weightPct, ReturnPct: returnPct}
}

func pctPtr(v float64) *float64 { return &v }

func TestAdvise_EmptyPortfolio(t *testing.T) {
	tips := Advise(nil)
	if len(tips) != 1 {
		t.Fatalf("expected exactly 1 tip, got %d: %v", len(tips), tips)
	}
	if tips[0] != "Portfolio is empty. Please add stocks." {
		t.Errorf("unexpected empty-portfolio tip: %q", tips[0])
	}
}

func TestAdvise_ConcentrationTip(t *testing.T) {
	tips := Advise([]ValuationRow{
		advisorRow("AAA", 55.5, pctPtr(20)),
		advisorRow("BBB", 24.5, pctPtr(15)),
		advisorRow("CCC", 20, pctPtr(10)),
	})
	assertContains(t, tips[0], "High concentration in AAA (55.50%)", "concentration tip")
}

func TestAdvise_DrawdownTip(t *testing.T) {
	tips := Advise([]ValuationRow{
		advisorRow("AAA", 30, pctPtr(-15.25)),
		advisorRow("BBB", 40, pctPtr(12)),
		advisorRow("CCC", 30, pctPtr(10)),
	})
	found := false
	for _, tip := range tips {
		if tip == "AAA is down -15.25%. Evaluate fundamentals or rebalance." {
			found = true
		}
	}
	if !found {
		t.Errorf("missing drawdown tip in %v", tips)
	}
}

func TestAdvise_HighWeightLowReturnTip(t *testing.T) {
	tips := Advise([]ValuationRow{
		advisorRow("AAA", 30, pctPtr(2)),
		advisorRow("BBB", 40, pctPtr(20)),
		advisorRow("CCC", 30, pctPtr(10)),
	})
	found := false
	for _, tip := range tips {
		if tip == "AAA has high weight but low return (2.00%). Reassess your allocation." {
			found = true
		}
	}
	if !found {
		t.Errorf("missing high-weight low-return tip in %v", tips)
	}
}

func TestAdvise_NilReturnSkipsReturnRules(t *testing.T) {
	// A fully paid-back position has no return percentage; only the
	// weight-based and generic tips should fire.
	tips := Advise([]ValuationRow{
		advisorRow("AAA", 30, nil),
		advisorRow("BBB", 40, pctPtr(20)),
		advisorRow("CCC", 30, pctPtr(10)),
	})
	if len(tips) != 1 || tips[0] != "Try to diversify across sectors to reduce risk." {
		t.Errorf("expected only the generic tip, got %v", tips)
	}
}

func TestAdvise_FewHoldingsTip(t *testing.T) {
	tips := Advise([]ValuationRow{
		advisorRow("AAA", 50, pctPtr(20)),
		advisorRow("BBB", 50, pctPtr(20)),
	})
	found := false
	for _, tip := range tips {
		if tip == "Fewer than 3 holdings. Consider adding more stocks for diversification." {
			found = true
		}
	}
	if !found {
		t.Errorf("missing few-holdings tip in %v", tips)
	}
}

func TestAdvise_GenericTipIsAlwaysLast(t *testing.T) {
	tips := Advise([]ValuationRow{
		advisorRow("AAA", 60, pctPtr(-20)),
	})
	if tips[len(tips)-1] != "Try to diversify across sectors to reduce risk." {
		t.Errorf("generic tip not last: %v", tips)
	}
}

func TestAdvise_BoundaryValuesDoNotFire(t *testing.T) {
	// Thresholds are strict comparisons; exact boundary values produce no
	// rule-specific tips.
	tips := Advise([]ValuationRow{
		advisorRow("AAA", 40, pctPtr(-10)),
		advisorRow("BBB", 25, pctPtr(5)),
		advisorRow("CCC", 35, pctPtr(8)),
	})
	if len(tips) != 1 {
		t.Errorf("expected only the generic tip at thresholds, got %v", tips)
	}
}
