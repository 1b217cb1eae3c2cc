package portintel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// Options controls Core initialization.
type Options struct {
	DataDir      string
	DBPath       string // price cache location; defaults to <DataDir>/prices.db
	Logger       *slog.Logger
	BenchmarkPct float64
	PriceTTL     time.Duration
	HTTPTimeout  time.Duration
	HTTPClient   HTTPDoer    // optional: inject for testing
	PriceSource  PriceSource // optional: replaces the default fetcher entirely
}

// Core wires the ledger, valuation engine, advisor, portfolio store, and
// price source together.
type Core struct {
	store     *PortfolioStore
	prices    PriceSource
	cache     *priceCache
	logger    *slog.Logger
	benchmark float64
}

// Open initializes a Core rooted at the given data directory.
func Open(dataDir string) (*Core, error) {
	return OpenWithOptions(Options{DataDir: dataDir})
}

// OpenWithOptions initializes a Core using the provided options.
func OpenWithOptions(opts Options) (*Core, error) {
	if opts.DataDir == "" {
		return nil, errors.New("data dir is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	benchmark := opts.BenchmarkPct
	if benchmark <= 0 {
		benchmark = DefaultBenchmarkPct
	}

	store, err := NewPortfolioStore(filepath.Join(opts.DataDir, "saved_portfolios"))
	if err != nil {
		return nil, err
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(opts.DataDir, "prices.db")
	}
	cache, err := openPriceCache(dbPath)
	if err != nil {
		return nil, err
	}

	prices := opts.PriceSource
	if prices == nil {
		prices = newPriceFetcher(priceFetcherOptions{
			Logger:      logger,
			CacheTTL:    defaultDuration(opts.PriceTTL, 5*time.Minute),
			HTTPTimeout: defaultDuration(opts.HTTPTimeout, 10*time.Second),
			HTTPClient:  opts.HTTPClient,
			Store:       cache,
		})
	}

	return &Core{
		store:     store,
		prices:    prices,
		cache:     cache,
		logger:    logger,
		benchmark: benchmark,
	}, nil
}

// Close releases the price cache database.
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	return c.cache.close()
}

// Logger returns the configured logger.
func (c *Core) Logger() *slog.Logger {
	return c.logger
}

// BenchmarkPct returns the benchmark annual return the score is measured
// against.
func (c *Core) BenchmarkPct() float64 {
	return c.benchmark
}

// Analyze runs the full pipeline over a transaction list: aggregation,
// valuation with live prices as of now, and advisory tips. Failures abort
// the whole analysis; nothing partial is returned.
func (c *Core) Analyze(ctx context.Context, transactions []Transaction) (*AnalysisResult, error) {
	return c.AnalyzeAsOf(ctx, transactions, time.Now())
}

// AnalyzeAsOf is Analyze with an explicit valuation date, for deterministic
// runs.
func (c *Core) AnalyzeAsOf(ctx context.Context, transactions []Transaction, asOf time.Time) (*AnalysisResult, error) {
	ledger, err := Aggregate(transactions)
	if err != nil {
		return nil, err
	}
	valuation, err := Value(ctx, ledger, c.prices, asOf, c.benchmark)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{
		Rows:       valuation.Rows,
		Metrics:    valuation.Metrics,
		Unresolved: valuation.Unresolved,
		Tips:       Advise(valuation.Rows),
	}, nil
}

// SavePortfolio validates and persists a named transaction list.
func (c *Core) SavePortfolio(name string, transactions []Transaction) error {
	for i, txn := range transactions {
		if err := txn.Validate(); err != nil {
			return WrapError(ErrCodeInvalidInput, fmt.Sprintf("transaction %d", i+1), err)
		}
	}
	return c.store.Save(name, transactions)
}

// ListPortfolios returns the saved portfolio names.
func (c *Core) ListPortfolios() ([]string, error) {
	return c.store.ListNames()
}

// LoadPortfolio returns the stored transactions for a name; a missing name
// loads as an empty list.
func (c *Core) LoadPortfolio(name string) ([]Transaction, error) {
	return c.store.Load(name)
}

// AnalyzePortfolio loads a saved portfolio and analyzes it.
func (c *Core) AnalyzePortfolio(ctx context.Context, name string) (*AnalysisResult, error) {
	transactions, err := c.LoadPortfolio(name)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, NewError(ErrCodeNotFound, "portfolio "+name+" has no transactions")
	}
	return c.Analyze(ctx, transactions)
}

// PortfolioReport analyzes a saved portfolio and renders the xlsx report
// with the embedded distribution chart.
func (c *Core) PortfolioReport(ctx context.Context, name string) ([]byte, error) {
	result, err := c.AnalyzePortfolio(ctx, name)
	if err != nil {
		return nil, err
	}
	chartPNG, err := RenderDistributionChart(result.Rows)
	if err != nil {
		c.logger.Warn("distribution chart skipped", "portfolio", name, "err", err)
		chartPNG = nil
	}
	return BuildReport(result.Rows, result.Metrics, chartPNG)
}

// LookupPrice resolves a live quote, falling back to the last persisted one
// when the live source fails. The bool reports whether the quote is live.
func (c *Core) LookupPrice(ctx context.Context, symbol string) (*LatestPrice, bool, error) {
	price, err := c.prices.Lookup(ctx, symbol)
	if err == nil {
		return &LatestPrice{
			Symbol:    normalizeSymbol(symbol),
			Price:     price,
			Source:    "live",
			UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		}, true, nil
	}
	cached, cacheErr := c.cache.get(symbol)
	if cacheErr != nil {
		return nil, false, WrapError(ErrCodeStorage, "read price cache", cacheErr)
	}
	if cached == nil {
		return nil, false, WrapError(ErrCodePriceUnavailable, "no live or cached price for "+normalizeSymbol(symbol), err)
	}
	return cached, false, nil
}

func defaultDuration(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
