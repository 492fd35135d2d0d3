package journal

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/tradesim/market"
)

var (
	ErrOutOfOrder        = errors.New("record out of day order")
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// History is the in-memory, append-only record of a session: every
// transaction, one snapshot per day and the full price series of each
// instrument. It is the engine's authoritative store and also satisfies
// Journal so it can be written exactly like a file sink.
type History struct {
	names        []string
	index        map[string]int
	transactions []Transaction
	snapshots    []Snapshot
	prices       [][]market.PricePoint
}

// NewHistory creates an empty history for the named instruments, in order.
func NewHistory(instruments []string) *History {
	h := &History{
		names:  append([]string(nil), instruments...),
		index:  make(map[string]int, len(instruments)),
		prices: make([][]market.PricePoint, len(instruments)),
	}
	for i, n := range instruments {
		h.index[n] = i
	}
	return h
}

func (h *History) RecordTransaction(t Transaction) error {
	if n := len(h.transactions); n > 0 && t.Day < h.transactions[n-1].Day {
		return fmt.Errorf("transaction on day %d after day %d: %w", t.Day, h.transactions[n-1].Day, ErrOutOfOrder)
	}
	h.transactions = append(h.transactions, t)
	return nil
}

func (h *History) RecordSnapshot(s Snapshot) error {
	if n := len(h.snapshots); n > 0 && s.Day <= h.snapshots[n-1].Day {
		return fmt.Errorf("snapshot for day %d after day %d: %w", s.Day, h.snapshots[n-1].Day, ErrOutOfOrder)
	}
	h.snapshots = append(h.snapshots, s)
	return nil
}

func (h *History) RecordPrice(p PriceRecord) error {
	i, ok := h.index[p.Instrument]
	if !ok {
		return fmt.Errorf("price for %q: %w", p.Instrument, ErrUnknownInstrument)
	}
	series := h.prices[i]
	if n := len(series); n > 0 && p.Day <= series[n-1].Day {
		return fmt.Errorf("%s price for day %d after day %d: %w", p.Instrument, p.Day, series[n-1].Day, ErrOutOfOrder)
	}
	h.prices[i] = append(series, market.PricePoint{Day: p.Day, Price: p.Price})
	return nil
}

func (h *History) Close() error { return nil }

// Instruments returns the instrument names in index order.
func (h *History) Instruments() []string {
	return append([]string(nil), h.names...)
}

func (h *History) Transactions() []Transaction {
	return append([]Transaction(nil), h.transactions...)
}

func (h *History) Snapshots() []Snapshot {
	return append([]Snapshot(nil), h.snapshots...)
}

// Prices returns the full series of instrument i, or nil when out of range.
func (h *History) Prices(i int) []market.PricePoint {
	if i < 0 || i >= len(h.prices) {
		return nil
	}
	return append([]market.PricePoint(nil), h.prices[i]...)
}

// PriceSeries returns every instrument series, indexed like Instruments.
func (h *History) PriceSeries() [][]market.PricePoint {
	out := make([][]market.PricePoint, len(h.prices))
	for i := range h.prices {
		out[i] = h.Prices(i)
	}
	return out
}
