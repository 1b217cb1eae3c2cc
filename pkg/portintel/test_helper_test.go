package portintel

import (
	"context"
	"fmt"
	"os"
	"testing"
)

// setupTestCore creates a Core rooted in a temp directory with a stubbed
// price source. The caller should defer cleanup().
func setupTestCore(t *testing.T, prices map[string]float64) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "portintel-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	core, err := OpenWithOptions(Options{
		DataDir:     tmpDir,
		PriceSource: &stubPriceSource{prices: prices},
	})
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test core: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}
	return core, cleanup
}

// stubPriceSource serves canned prices; unknown symbols fail the lookup.
type stubPriceSource struct {
	prices  map[string]float64
	lookups int
}

func (s *stubPriceSource) Lookup(ctx context.Context, symbol string) (Amount, error) {
	s.lookups++
	if price, ok := s.prices[symbol]; ok {
		return NewAmount(price), nil
	}
	return Amount{}, fmt.Errorf("%w: %s", ErrPriceUnavailable, symbol)
}

// buyTxn builds a BUY transaction for testing.
func buyTxn(symbol string, price float64, quantity int64) Transaction {
	return Transaction{Symbol: symbol, Type: TxnBuy, Price: NewAmount(price), Quantity: quantity}
}

// sellTxn builds a SELL transaction for testing.
func sellTxn(symbol string, price float64, quantity int64) Transaction {
	return Transaction{Symbol: symbol, Type: TxnSell, Price: NewAmount(price), Quantity: quantity}
}

// floatEquals checks if two floats are approximately equal.
func floatEquals(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// assertFloatEquals fails the test if the floats are not approximately equal.
func assertFloatEquals(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if !floatEquals(got, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, got, want)
	}
}

// assertAmountEquals fails the test if the amount does not equal the float.
func assertAmountEquals(t *testing.T, got Amount, want float64, msg string) {
	t.Helper()
	assertFloatEquals(t, got.Float64(), want, msg)
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// assertContains checks if the string contains the substring.
func assertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	found := false
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("%s: string %q does not contain %q", msg, s, substr)
	}
}
