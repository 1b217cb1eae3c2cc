package portintel

// Transaction types.
const (
	TxnBuy  = "BUY"
	TxnSell = "SELL"
)

// TransactionTypes lists the accepted transaction type values.
var TransactionTypes = []string{TxnBuy, TxnSell}

// Transaction represents a single buy or sell record. The ordered sequence
// of transactions is the only persisted input; everything else is derived.
type Transaction struct {
	Symbol   string `json:"stock"`
	Type     string `json:"type"`
	Price    Amount `json:"price"`
	Quantity int64  `json:"quantity"`
}

// Lot is one transaction's (price, quantity) pair, retained for cost-basis
// and cashflow reconstruction.
type Lot struct {
	Price    Amount `json:"price"`
	Quantity int64  `json:"quantity"`
}

// StockSummary is the folded position for one symbol.
type StockSummary struct {
	Symbol      string `json:"symbol"`
	NetQuantity int64  `json:"net_quantity"`
	// Invested is the running buy-minus-sell total as folded and can go
	// negative. Valuation derives its own clamped invested figure from the
	// lots; this field is the summary's JSON view of the raw total.
	Invested Amount `json:"invested"`
	Buys        []Lot  `json:"buys"`
	Sells       []Lot  `json:"sells"`
}

// TotalBought returns the cumulative bought quantity.
func (s *StockSummary) TotalBought() int64 {
	var total int64
	for _, lot := range s.Buys {
		total += lot.Quantity
	}
	return total
}

// TotalSold returns the cumulative sold quantity.
func (s *StockSummary) TotalSold() int64 {
	var total int64
	for _, lot := range s.Sells {
		total += lot.Quantity
	}
	return total
}

// BuyCost returns the total cost of all buy lots.
func (s *StockSummary) BuyCost() Amount {
	total := NewAmountFromInt(0)
	for _, lot := range s.Buys {
		total = total.Add(lot.Price.MulInt(lot.Quantity))
	}
	return total
}

// SellProceeds returns the total proceeds of all sell lots.
func (s *StockSummary) SellProceeds() Amount {
	total := NewAmountFromInt(0)
	for _, lot := range s.Sells {
		total = total.Add(lot.Price.MulInt(lot.Quantity))
	}
	return total
}

// ValuationRow is the priced view of one open position.
// ReturnPct is nil when the invested amount is zero, meaning the position is
// fully paid back and the percentage return is unbounded.
type ValuationRow struct {
	Symbol         string   `json:"stock"`
	NetQuantity    int64    `json:"net_quantity"`
	AvgBuyPrice    Amount   `json:"avg_buy_price"`
	LivePrice      Amount   `json:"live_price"`
	InvestedAmount Amount   `json:"invested_amount"`
	CurrentValue   Amount   `json:"current_value"`
	ReturnPct      *float64 `json:"return_pct"`
	WeightPct      float64  `json:"weight_pct"`
}

// PortfolioMetrics holds the portfolio-level return metrics.
type PortfolioMetrics struct {
	XIRRPct float64 `json:"xirr_pct"`
	Score   float64 `json:"score"`
}

// AnalysisResult is the full output of one analysis run.
type AnalysisResult struct {
	Rows       []ValuationRow   `json:"rows"`
	Metrics    PortfolioMetrics `json:"metrics"`
	Unresolved []string         `json:"unresolved_symbols"`
	Tips       []string         `json:"tips"`
}

// LatestPrice is the last persisted quote for a symbol.
type LatestPrice struct {
	Symbol    string `json:"symbol"`
	Price     Amount `json:"price"`
	Source    string `json:"source"`
	UpdatedAt string `json:"updated_at"`
}
