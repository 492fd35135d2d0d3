package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rustyeddy/tradesim/market"
	"github.com/shopspring/decimal"
)

// File names written by ExportDir.
const (
	TransactionsFile = "transactions.csv"
	PortfolioFile    = "portfolio_history.csv"
	PricesFile       = "stock_prices.csv"
)

// NotAvailable marks a day with no recorded price in the price table.
const NotAvailable = "N/A"

var (
	TransactionHeader = []string{"Day", "Type", "Stock", "Shares", "Price", "Total Value"}
	PortfolioHeader   = []string{"Day", "Cash", "Stock Value", "Total Value"}
)

// PriceHeader is "Day" followed by the instrument names.
func PriceHeader(instruments []string) []string {
	return append([]string{"Day"}, instruments...)
}

// money rounds the exact binary value, so 2.675 (stored as 2.67499...) is 2.67.
func money(x float64) string {
	return decimal.NewFromFloatWithExponent(x, -2).StringFixed(2)
}

func transactionRow(t Transaction) []string {
	return []string{
		strconv.Itoa(t.Day),
		t.Side.String(),
		t.Instrument,
		strconv.Itoa(t.Shares),
		money(t.Price),
		money(t.Total),
	}
}

func snapshotRow(s Snapshot) []string {
	return []string{
		strconv.Itoa(s.Day),
		money(s.Cash),
		money(s.StockValue),
		money(s.TotalValue),
	}
}

// WriteTransactions writes the transaction table.
func WriteTransactions(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TransactionHeader); err != nil {
		return err
	}
	for _, t := range txs {
		if err := cw.Write(transactionRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePortfolio writes the portfolio history table.
func WritePortfolio(w io.Writer, snaps []Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PortfolioHeader); err != nil {
		return err
	}
	for _, s := range snaps {
		if err := cw.Write(snapshotRow(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePrices writes one row per day from 0 to the last recorded day across
// all series, with N/A where a series has no price for that day.
func WritePrices(w io.Writer, instruments []string, series [][]market.PricePoint) error {
	if len(series) != len(instruments) {
		return fmt.Errorf("price table: %d names for %d series", len(instruments), len(series))
	}

	maxDay := 0
	lookup := make([]map[int]float64, len(series))
	for i, s := range series {
		lookup[i] = make(map[int]float64, len(s))
		for _, p := range s {
			lookup[i][p.Day] = p.Price
			if p.Day > maxDay {
				maxDay = p.Day
			}
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(PriceHeader(instruments)); err != nil {
		return err
	}
	row := make([]string, len(series)+1)
	for day := 0; day <= maxDay; day++ {
		row[0] = strconv.Itoa(day)
		for i := range series {
			if p, ok := lookup[i][day]; ok {
				row[i+1] = money(p)
			} else {
				row[i+1] = NotAvailable
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPriceHistory parses a price table back into per-instrument series.
// N/A cells are skipped so each series holds only the recorded days.
func ReadPriceHistory(r io.Reader) ([]string, [][]market.PricePoint, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("price table header: %w", err)
	}
	if len(header) < 1 || header[0] != "Day" {
		return nil, nil, fmt.Errorf("price table header: want Day first, got %q", header)
	}
	names := append([]string(nil), header[1:]...)
	series := make([][]market.PricePoint, len(names))

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("price table line %d: %w", line, err)
		}
		day, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, nil, fmt.Errorf("price table line %d: day: %w", line, err)
		}
		for i, cell := range rec[1:] {
			if cell == NotAvailable {
				continue
			}
			p, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("price table line %d: %s: %w", line, names[i], err)
			}
			series[i] = append(series[i], market.PricePoint{Day: day, Price: p})
		}
	}
	return names, series, nil
}

// ReadTransactions parses a transaction table. IDs are not part of the
// table and come back empty.
func ReadTransactions(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(TransactionHeader)
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("transaction table header: %w", err)
	}

	var out []Transaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("transaction table line %d: %w", line, err)
		}
		t, err := parseTransactionRow(rec)
		if err != nil {
			return nil, fmt.Errorf("transaction table line %d: %w", line, err)
		}
		out = append(out, t)
	}
}

func parseTransactionRow(rec []string) (Transaction, error) {
	var (
		t   Transaction
		err error
	)
	if t.Day, err = strconv.Atoi(rec[0]); err != nil {
		return t, fmt.Errorf("day: %w", err)
	}
	if t.Side, err = market.ParseSide(rec[1]); err != nil {
		return t, err
	}
	t.Instrument = rec[2]
	if t.Shares, err = strconv.Atoi(rec[3]); err != nil {
		return t, fmt.Errorf("shares: %w", err)
	}
	if t.Price, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return t, fmt.Errorf("price: %w", err)
	}
	if t.Total, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return t, fmt.Errorf("total: %w", err)
	}
	return t, nil
}

// ExportPaths lists the files written by ExportDir.
type ExportPaths struct {
	Transactions string
	Portfolio    string
	Prices       string
}

// ExportDir writes the three tables for h into dir, creating it if needed.
func ExportDir(dir string, h *History) (ExportPaths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportPaths{}, fmt.Errorf("export dir: %w", err)
	}
	paths := ExportPaths{
		Transactions: filepath.Join(dir, TransactionsFile),
		Portfolio:    filepath.Join(dir, PortfolioFile),
		Prices:       filepath.Join(dir, PricesFile),
	}

	if err := writeFile(paths.Transactions, func(w io.Writer) error {
		return WriteTransactions(w, h.Transactions())
	}); err != nil {
		return paths, err
	}
	if err := writeFile(paths.Portfolio, func(w io.Writer) error {
		return WritePortfolio(w, h.Snapshots())
	}); err != nil {
		return paths, err
	}
	if err := writeFile(paths.Prices, func(w io.Writer) error {
		return WritePrices(w, h.Instruments(), h.PriceSeries())
	}); err != nil {
		return paths, err
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
