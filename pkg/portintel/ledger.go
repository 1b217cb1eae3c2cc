package portintel

import (
	"fmt"
	"strings"
)

// Ledger holds per-symbol summaries keyed by uppercased symbol, preserving
// the order in which symbols first appear so valuation output is stable.
type Ledger struct {
	summaries map[string]*StockSummary
	order     []string
}

func newLedger() *Ledger {
	return &Ledger{summaries: map[string]*StockSummary{}}
}

// Symbols returns the symbols in first-seen order.
func (l *Ledger) Symbols() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Summary returns the summary for a symbol, or nil if unknown.
func (l *Ledger) Summary(symbol string) *StockSummary {
	return l.summaries[normalizeSymbol(symbol)]
}

// Len returns the number of distinct symbols.
func (l *Ledger) Len() int {
	return len(l.order)
}

func (l *Ledger) ensure(symbol string) *StockSummary {
	if s, ok := l.summaries[symbol]; ok {
		return s
	}
	s := &StockSummary{Symbol: symbol}
	l.summaries[symbol] = s
	l.order = append(l.order, symbol)
	return s
}

// Validate checks a transaction's fields before aggregation.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return NewError(ErrCodeInvalidInput, "stock symbol is required")
	}
	if t.Type != TxnBuy && t.Type != TxnSell {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid transaction type: %s", t.Type))
	}
	if t.Quantity < 1 {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("quantity must be at least 1, got %d", t.Quantity))
	}
	if t.Price.IsNegative() {
		return NewError(ErrCodeInvalidInput, "price must not be negative")
	}
	return nil
}

// Aggregate folds transactions in input order into per-symbol summaries.
// BUY adds the quantity to the net position and the lot's value to the
// invested running total; SELL subtracts both. If at any prefix of the
// sequence a symbol's cumulative sold quantity exceeds its cumulative bought
// quantity, aggregation aborts with an OversoldError and no partial result.
func Aggregate(transactions []Transaction) (*Ledger, error) {
	ledger := newLedger()

	for i, txn := range transactions {
		if err := txn.Validate(); err != nil {
			return nil, WrapError(ErrCodeInvalidInput, fmt.Sprintf("transaction %d", i+1), err)
		}

		symbol := normalizeSymbol(txn.Symbol)
		summary := ledger.ensure(symbol)
		lot := Lot{Price: txn.Price, Quantity: txn.Quantity}
		value := txn.Price.MulInt(txn.Quantity)

		switch txn.Type {
		case TxnBuy:
			summary.NetQuantity += txn.Quantity
			summary.Invested = summary.Invested.Add(value)
			summary.Buys = append(summary.Buys, lot)
		case TxnSell:
			summary.NetQuantity -= txn.Quantity
			summary.Invested = summary.Invested.Sub(value)
			summary.Sells = append(summary.Sells, lot)
		}

		if summary.TotalSold() > summary.TotalBought() {
			return nil, &OversoldError{Symbol: symbol}
		}
	}

	return ledger, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
