// journal/journal.go
package journal

import (
	"github.com/rustyeddy/tradesim/market"
)

// Transaction is one executed market order. Never mutated after it is
// recorded.
type Transaction struct {
	ID         string
	Day        int
	Side       market.Side
	Instrument string
	Shares     int
	Price      float64
	Total      float64
}

// Snapshot is the portfolio valuation at the end of a day.
type Snapshot struct {
	Day        int
	Cash       float64
	StockValue float64
	TotalValue float64
}

// PriceRecord is one instrument's recorded price for a day.
type PriceRecord struct {
	Day        int
	Instrument string
	Price      float64
}

// Journal receives every record the engine produces, in order.
type Journal interface {
	RecordTransaction(Transaction) error
	RecordSnapshot(Snapshot) error
	RecordPrice(PriceRecord) error
	Close() error
}
