package portintel

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// priceCache persists the last successfully fetched quote per symbol in a
// local SQLite file, so the API can report a last-known price even when the
// live source is down.
type priceCache struct {
	db *sql.DB
}

func openPriceCache(path string) (*priceCache, error) {
	clean := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return nil, fmt.Errorf("create price cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", clean)
	if err != nil {
		return nil, fmt.Errorf("open price cache: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS latest_prices (
			symbol TEXT PRIMARY KEY,
			price REAL NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init price cache schema: %w", err)
	}
	return &priceCache{db: db}, nil
}

func (pc *priceCache) close() error {
	if pc == nil || pc.db == nil {
		return nil
	}
	return pc.db.Close()
}

// put inserts or updates the latest price for a symbol.
func (pc *priceCache) put(symbol, source string, price Amount) error {
	_, err := pc.db.Exec(`
		INSERT INTO latest_prices (symbol, price, source, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, normalizeSymbol(symbol), price, source)
	return err
}

// get returns the latest stored price for a symbol, or nil when absent.
func (pc *priceCache) get(symbol string) (*LatestPrice, error) {
	row := pc.db.QueryRow(
		"SELECT symbol, price, source, updated_at FROM latest_prices WHERE symbol = ?",
		normalizeSymbol(symbol),
	)
	var p LatestPrice
	if err := row.Scan(&p.Symbol, &p.Price, &p.Source, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
