package portintel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const portfolioFileExt = ".csv"

var portfolioCSVHeader = []string{"stock", "type", "price", "quantity"}

// PortfolioStore persists named transaction lists, one CSV file per
// portfolio under its directory. No schema versioning, no locking: the
// store targets a single local user.
type PortfolioStore struct {
	dir string
}

// NewPortfolioStore creates the store directory if needed.
func NewPortfolioStore(dir string) (*PortfolioStore, error) {
	clean := filepath.Clean(dir)
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return nil, WrapError(ErrCodeStorage, "create portfolio dir", err)
	}
	return &PortfolioStore{dir: clean}, nil
}

// Save writes the transaction list under the given name, replacing any
// previous contents.
func (s *PortfolioStore) Save(name string, transactions []Transaction) error {
	fileName, err := portfolioFileName(name)
	if err != nil {
		return err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(portfolioCSVHeader); err != nil {
		return WrapError(ErrCodeStorage, "write csv header", err)
	}
	for _, txn := range transactions {
		record := []string{
			normalizeSymbol(txn.Symbol),
			txn.Type,
			txn.Price.String(),
			strconv.FormatInt(txn.Quantity, 10),
		}
		if err := w.Write(record); err != nil {
			return WrapError(ErrCodeStorage, "write csv record", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return WrapError(ErrCodeStorage, "flush csv", err)
	}

	path := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return WrapError(ErrCodeStorage, fmt.Sprintf("write portfolio %q", name), err)
	}
	return nil
}

// ListNames returns the saved portfolio names in sorted order.
func (s *PortfolioStore) ListNames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, WrapError(ErrCodeStorage, "read portfolio dir", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, portfolioFileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, portfolioFileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Load reads the transaction list saved under the given name, preserving
// record order. A missing portfolio is not an error: it loads as an empty
// list and the caller treats that as nothing to analyze.
func (s *PortfolioStore) Load(name string) ([]Transaction, error) {
	fileName, err := portfolioFileName(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, WrapError(ErrCodeStorage, fmt.Sprintf("open portfolio %q", name), err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(portfolioCSVHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, WrapError(ErrCodeStorage, fmt.Sprintf("read portfolio %q", name), err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	transactions := make([]Transaction, 0, len(records)-1)
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		price, err := ParseAmount(record[2])
		if err != nil {
			return nil, WrapError(ErrCodeStorage, fmt.Sprintf("portfolio %q record %d: bad price", name, i), err)
		}
		quantity, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return nil, WrapError(ErrCodeStorage, fmt.Sprintf("portfolio %q record %d: bad quantity", name, i), err)
		}
		transactions = append(transactions, Transaction{
			Symbol:   record[0],
			Type:     record[1],
			Price:    price,
			Quantity: quantity,
		})
	}
	return transactions, nil
}

// portfolioFileName maps a portfolio name to its file name, rejecting names
// that would escape the store directory or collide after sanitizing.
func portfolioFileName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", NewError(ErrCodeInvalidInput, "portfolio name is required")
	}
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == ' ' || r == '.':
		default:
			return "", NewError(ErrCodeInvalidInput, fmt.Sprintf("portfolio name contains invalid character %q", r))
		}
	}
	if strings.Contains(trimmed, "..") {
		return "", NewError(ErrCodeInvalidInput, "portfolio name contains invalid sequence")
	}
	return trimmed + portfolioFileExt, nil
}
