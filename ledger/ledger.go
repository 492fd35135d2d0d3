// Package ledger holds the cash balance and share holdings and executes
// all-or-nothing market orders against them.
package ledger

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/tradesim/market"
)

// Rejections. State is unchanged whenever one of these is returned.
var (
	ErrInvalidShares      = errors.New("share count must be positive")
	ErrInsufficientCash   = errors.New("not enough cash")
	ErrInsufficientShares = errors.New("not enough shares")
	ErrUnknownPosition    = errors.New("unknown position")
)

// IsRejection reports whether err is an order rejection rather than a
// failure elsewhere.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidShares) ||
		errors.Is(err, ErrInsufficientCash) ||
		errors.Is(err, ErrInsufficientShares) ||
		errors.Is(err, ErrUnknownPosition)
}

// Fill is the outcome of an accepted order.
type Fill struct {
	Side   market.Side
	Shares int
	Price  float64
	Total  float64
}

// Ledger tracks cash and one share count per instrument index.
// It is not safe for concurrent use.
type Ledger struct {
	initial  float64
	cash     float64
	holdings []int
}

// New opens a ledger with the given balance and n empty positions.
func New(balance float64, n int) *Ledger {
	return &Ledger{
		initial:  balance,
		cash:     balance,
		holdings: make([]int, n),
	}
}

func (l *Ledger) Cash() float64 { return l.cash }

// Initial is the opening balance, the baseline for returns.
func (l *Ledger) Initial() float64 { return l.initial }

// Shares returns the holding at index i, or 0 when out of range.
func (l *Ledger) Shares(i int) int {
	if i < 0 || i >= len(l.holdings) {
		return 0
	}
	return l.holdings[i]
}

// Holdings returns a copy of every position.
func (l *Ledger) Holdings() []int {
	return append([]int(nil), l.holdings...)
}

// Buy spends shares*price of cash on position i.
func (l *Ledger) Buy(i int, price float64, shares int) (Fill, error) {
	if err := l.check(i, shares); err != nil {
		return Fill{}, err
	}
	cost := float64(shares) * price
	if cost > l.cash {
		return Fill{}, fmt.Errorf("buy %d @ %.2f costs %.2f, have %.2f: %w", shares, price, cost, l.cash, ErrInsufficientCash)
	}
	l.cash -= cost
	l.holdings[i] += shares
	return Fill{Side: market.SideBuy, Shares: shares, Price: price, Total: cost}, nil
}

// Sell releases shares of position i for shares*price of cash.
func (l *Ledger) Sell(i int, price float64, shares int) (Fill, error) {
	if err := l.check(i, shares); err != nil {
		return Fill{}, err
	}
	if shares > l.holdings[i] {
		return Fill{}, fmt.Errorf("sell %d, hold %d: %w", shares, l.holdings[i], ErrInsufficientShares)
	}
	revenue := float64(shares) * price
	l.cash += revenue
	l.holdings[i] -= shares
	return Fill{Side: market.SideSell, Shares: shares, Price: price, Total: revenue}, nil
}

func (l *Ledger) check(i, shares int) error {
	if i < 0 || i >= len(l.holdings) {
		return fmt.Errorf("position %d: %w", i, ErrUnknownPosition)
	}
	if shares <= 0 {
		return fmt.Errorf("%d shares: %w", shares, ErrInvalidShares)
	}
	return nil
}
