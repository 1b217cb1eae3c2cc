package portintel

import (
	"errors"
	"testing"
)

func TestAggregate_Basic(t *testing.T) {
	ledger, err := Aggregate([]Transaction{
		buyTxn("aaa", 100, 10),
		sellTxn("AAA", 120, 4),
	})
	assertNoError(t, err, "aggregate")

	if ledger.Len() != 1 {
		t.Fatalf("expected 1 symbol, got %d", ledger.Len())
	}
	summary := ledger.Summary("AAA")
	if summary == nil {
		t.Fatal("expected summary for AAA")
	}
	if summary.NetQuantity != 6 {
		t.Errorf("net quantity: got %d, want 6", summary.NetQuantity)
	}
	assertAmountEquals(t, summary.Invested, 520, "invested running total")
	assertAmountEquals(t, summary.BuyCost(), 1000, "buy cost")
	assertAmountEquals(t, summary.SellProceeds(), 480, "sell proceeds")
	if len(summary.Buys) != 1 || len(summary.Sells) != 1 {
		t.Errorf("lots: got %d buys / %d sells, want 1/1", len(summary.Buys), len(summary.Sells))
	}
}

func TestAggregate_UppercasesSymbols(t *testing.T) {
	ledger, err := Aggregate([]Transaction{buyTxn("tcs.ns", 3500, 2)})
	assertNoError(t, err, "aggregate")
	if ledger.Summary("TCS.NS") == nil {
		t.Error("expected summary under uppercased symbol")
	}
	if got := ledger.Symbols()[0]; got != "TCS.NS" {
		t.Errorf("symbol order entry: got %q, want TCS.NS", got)
	}
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	ledger, err := Aggregate([]Transaction{
		buyTxn("ZZZ", 10, 1),
		buyTxn("AAA", 10, 1),
		buyTxn("ZZZ", 11, 1),
		buyTxn("MMM", 10, 1),
	})
	assertNoError(t, err, "aggregate")

	symbols := ledger.Symbols()
	want := []string{"ZZZ", "AAA", "MMM"}
	if len(symbols) != len(want) {
		t.Fatalf("expected %d symbols, got %d", len(want), len(symbols))
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbol %d: got %q, want %q", i, symbols[i], want[i])
		}
	}
}

func TestAggregate_SellWithoutBuyIsOversold(t *testing.T) {
	_, err := Aggregate([]Transaction{sellTxn("AAA", 100, 1)})
	assertError(t, err, "oversell")

	var oversold *OversoldError
	if !errors.As(err, &oversold) {
		t.Fatalf("expected OversoldError, got %T: %v", err, err)
	}
	if oversold.Symbol != "AAA" {
		t.Errorf("oversold symbol: got %q, want AAA", oversold.Symbol)
	}
}

func TestAggregate_OversellAtLaterPrefix(t *testing.T) {
	_, err := Aggregate([]Transaction{
		buyTxn("AAA", 100, 5),
		sellTxn("AAA", 110, 3),
		sellTxn("AAA", 115, 3), // cumulative sold 6 > bought 5
	})
	assertError(t, err, "oversell at prefix")

	var oversold *OversoldError
	if !errors.As(err, &oversold) {
		t.Fatalf("expected OversoldError, got %T", err)
	}
	if oversold.Symbol != "AAA" {
		t.Errorf("oversold symbol: got %q, want AAA", oversold.Symbol)
	}
}

func TestAggregate_OversoldNamesFirstOffender(t *testing.T) {
	_, err := Aggregate([]Transaction{
		buyTxn("AAA", 100, 5),
		sellTxn("BBB", 50, 1), // BBB oversold before AAA ever could be
		sellTxn("AAA", 110, 10),
	})
	var oversold *OversoldError
	if !errors.As(err, &oversold) {
		t.Fatalf("expected OversoldError, got %T", err)
	}
	if oversold.Symbol != "BBB" {
		t.Errorf("first offending symbol: got %q, want BBB", oversold.Symbol)
	}
}

func TestAggregate_SellEqualToBuyIsAllowed(t *testing.T) {
	ledger, err := Aggregate([]Transaction{
		buyTxn("AAA", 100, 5),
		sellTxn("AAA", 110, 5),
	})
	assertNoError(t, err, "sell equal to buy")
	if got := ledger.Summary("AAA").NetQuantity; got != 0 {
		t.Errorf("net quantity: got %d, want 0", got)
	}
}

func TestAggregate_NetQuantityIsBoughtMinusSold(t *testing.T) {
	ledger, err := Aggregate([]Transaction{
		buyTxn("AAA", 100, 10),
		buyTxn("AAA", 105, 7),
		sellTxn("AAA", 120, 4),
		sellTxn("AAA", 125, 2),
	})
	assertNoError(t, err, "aggregate")
	summary := ledger.Summary("AAA")
	if got, want := summary.NetQuantity, summary.TotalBought()-summary.TotalSold(); got != want {
		t.Errorf("net quantity: got %d, want %d", got, want)
	}
	if summary.NetQuantity != 11 {
		t.Errorf("net quantity: got %d, want 11", summary.NetQuantity)
	}
}

func TestAggregate_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		txn  Transaction
	}{
		{"zero quantity", Transaction{Symbol: "AAA", Type: TxnBuy, Price: NewAmount(10), Quantity: 0}},
		{"negative quantity", Transaction{Symbol: "AAA", Type: TxnSell, Price: NewAmount(10), Quantity: -3}},
		{"negative price", Transaction{Symbol: "AAA", Type: TxnBuy, Price: NewAmount(-1), Quantity: 1}},
		{"empty symbol", Transaction{Symbol: "  ", Type: TxnBuy, Price: NewAmount(10), Quantity: 1}},
		{"bad type", Transaction{Symbol: "AAA", Type: "HOLD", Price: NewAmount(10), Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Aggregate([]Transaction{tc.txn})
			assertError(t, err, "invalid transaction")
			if !IsErrorCode(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestAggregate_NoPartialResultOnFailure(t *testing.T) {
	ledger, err := Aggregate([]Transaction{
		buyTxn("AAA", 100, 10),
		sellTxn("BBB", 50, 1),
	})
	assertError(t, err, "oversell aborts")
	if ledger != nil {
		t.Error("expected nil ledger on failure")
	}
}
