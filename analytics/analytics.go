// Package analytics computes portfolio performance from the transaction log
// and current prices. It never mutates its inputs.
package analytics

import (
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/market"
)

// Position is one holding valued at the current price.
type Position struct {
	Name   string
	Shares int
	Price  float64
}

func (p Position) Value() float64 { return float64(p.Shares) * p.Price }

// Sale is a SELL matched against earlier buys, oldest lots first.
type Sale struct {
	Day        int
	Instrument string
	Shares     int // matched shares, may be fewer than sold
	Price      float64
	CostBasis  float64 // weighted average cost of the matched shares
	Profit     float64
}

// Report is the result of Compute. When HasTransactions is false only the
// valuation fields are meaningful.
type Report struct {
	HasTransactions bool

	InitialBalance float64
	Cash           float64
	StockValue     float64
	CurrentValue   float64
	TotalReturn    float64
	ROI            float64 // percent of InitialBalance

	Buys          int
	Sells         int
	TotalSpent    float64
	TotalReceived float64

	Sales []Sale
	Best  *Sale
	Worst *Sale
}

type lot struct {
	price     float64
	remaining int
}

// Compute values the portfolio and replays txs in order to realize FIFO
// profit for every sale.
func Compute(initial, cash float64, positions []Position, txs []journal.Transaction) Report {
	r := Report{
		InitialBalance: initial,
		Cash:           cash,
	}
	for _, p := range positions {
		r.StockValue += p.Value()
	}
	r.CurrentValue = cash + r.StockValue
	r.TotalReturn = r.CurrentValue - initial
	if initial != 0 {
		r.ROI = r.TotalReturn / initial * 100
	}

	if len(txs) == 0 {
		return r
	}
	r.HasTransactions = true

	lots := make(map[string][]lot)
	for _, t := range txs {
		switch t.Side {
		case market.SideBuy:
			r.Buys++
			r.TotalSpent += t.Total
			lots[t.Instrument] = append(lots[t.Instrument], lot{price: t.Price, remaining: t.Shares})

		case market.SideSell:
			r.Sells++
			r.TotalReceived += t.Total

			s, rest := match(lots[t.Instrument], t)
			lots[t.Instrument] = rest
			if s.Shares > 0 {
				r.Sales = append(r.Sales, s)
			}
		}
	}

	for i := range r.Sales {
		s := &r.Sales[i]
		if r.Best == nil || s.Profit > r.Best.Profit {
			r.Best = s
		}
		if r.Worst == nil || s.Profit < r.Worst.Profit {
			r.Worst = s
		}
	}
	return r
}

// match consumes up to t.Shares from the front of queue.
func match(queue []lot, t journal.Transaction) (Sale, []lot) {
	need := t.Shares
	matched := 0
	cost := 0.0

	for need > 0 && len(queue) > 0 {
		front := &queue[0]
		take := min(need, front.remaining)
		cost += float64(take) * front.price
		matched += take
		need -= take
		front.remaining -= take
		if front.remaining == 0 {
			queue = queue[1:]
		}
	}

	s := Sale{
		Day:        t.Day,
		Instrument: t.Instrument,
		Shares:     matched,
		Price:      t.Price,
	}
	if matched > 0 {
		s.CostBasis = cost / float64(matched)
		s.Profit = (t.Price - s.CostBasis) * float64(matched)
	}
	return s, queue
}
