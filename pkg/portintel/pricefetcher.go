package portintel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const quoteEndpoint = "https://query1.finance.yahoo.com/v8/finance/chart"

// HTTPDoer is an interface for making HTTP requests. It enables dependency
// injection for testing without network calls.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type priceFetcherOptions struct {
	Logger      *slog.Logger
	CacheTTL    time.Duration
	HTTPTimeout time.Duration
	HTTPClient  HTTPDoer // optional: inject custom client for testing
	Store       *priceCache
}

// priceFetcher resolves live quotes with a short in-memory TTL cache and
// persists every successful fetch to the sqlite price cache. It is the
// default PriceSource.
type priceFetcher struct {
	logger   *slog.Logger
	client   HTTPDoer
	cacheTTL time.Duration
	store    *priceCache

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry
}

type cacheEntry struct {
	price Amount
	ts    time.Time
}

func newPriceFetcher(opts priceFetcherOptions) *priceFetcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.HTTPTimeout}
	}
	return &priceFetcher{
		logger:   logger,
		client:   client,
		cacheTTL: opts.CacheTTL,
		store:    opts.Store,
		cache:    map[string]cacheEntry{},
	}
}

// Lookup implements PriceSource. A failed fetch wraps ErrPriceUnavailable so
// the valuation engine can degrade gracefully.
func (pf *priceFetcher) Lookup(ctx context.Context, symbol string) (Amount, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return Amount{}, fmt.Errorf("%w: empty symbol", ErrPriceUnavailable)
	}

	if cached, ok := pf.getCached(symbol); ok {
		return cached, nil
	}

	price, err := pf.fetchQuote(ctx, symbol)
	if err != nil {
		pf.logger.Warn("price lookup failed", "symbol", symbol, "err", err)
		return Amount{}, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, symbol, err)
	}

	pf.setCached(symbol, price)
	if pf.store != nil {
		if err := pf.store.put(symbol, "yahoo", price); err != nil {
			pf.logger.Warn("persist latest price failed", "symbol", symbol, "err", err)
		}
	}
	return price, nil
}

func (pf *priceFetcher) getCached(symbol string) (Amount, bool) {
	pf.cacheMu.RLock()
	defer pf.cacheMu.RUnlock()
	entry, ok := pf.cache[symbol]
	if !ok || time.Since(entry.ts) > pf.cacheTTL {
		return Amount{}, false
	}
	return entry.price, true
}

func (pf *priceFetcher) setCached(symbol string, price Amount) {
	pf.cacheMu.Lock()
	defer pf.cacheMu.Unlock()
	pf.cache[symbol] = cacheEntry{price: price, ts: time.Now()}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (pf *priceFetcher) fetchQuote(ctx context.Context, symbol string) (Amount, error) {
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=1d", quoteEndpoint, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Amount{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := pf.client.Do(req)
	if err != nil {
		return Amount{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Amount{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Amount{}, fmt.Errorf("decode quote response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return Amount{}, fmt.Errorf("quote error: %s", parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return Amount{}, fmt.Errorf("no quote data")
	}
	price := parsed.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return Amount{}, fmt.Errorf("no regular market price")
	}
	return NewAmount(price), nil
}
