package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/news"
)

// InstrumentParams describes one tradable stock.
type InstrumentParams struct {
	Name         string
	InitialPrice float64
	Headlines    news.Headlines
}

// Params sizes and tunes an Engine. Instruments are fixed once the engine
// is built.
type Params struct {
	InitialBalance float64
	Instruments    []InstrumentParams

	DriftPercent int     // daily drift is drawn uniformly from [-DriftPercent, +DriftPercent]
	MinPrice     float64 // price floor
	WindowSize   int

	News news.Generator
}

// DefaultParams returns the classic two-stock game: 1000 cash, TechCorp and
// FinanceInc at 10.
func DefaultParams() Params {
	return Params{
		InitialBalance: 1000,
		Instruments: []InstrumentParams{
			{Name: "TechCorp", InitialPrice: 10, Headlines: news.DefaultHeadlines("TechCorp")},
			{Name: "FinanceInc", InitialPrice: 10, Headlines: news.DefaultHeadlines("FinanceInc")},
		},
		DriftPercent: 5,
		MinPrice:     market.MinPrice,
		WindowSize:   market.WindowSize,
		News:         news.DefaultGenerator(),
	}
}

func (p Params) Validate() error {
	if p.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be positive, got %v", p.InitialBalance)
	}
	if len(p.Instruments) == 0 {
		return errors.New("at least one instrument is required")
	}
	seen := make(map[string]bool, len(p.Instruments))
	for i, in := range p.Instruments {
		if in.Name == "" {
			return fmt.Errorf("instrument %d: name is required", i)
		}
		if seen[in.Name] {
			return fmt.Errorf("instrument %d: duplicate name %q", i, in.Name)
		}
		seen[in.Name] = true
		if in.InitialPrice < p.MinPrice {
			return fmt.Errorf("instrument %s: initial price %v is below the floor %v", in.Name, in.InitialPrice, p.MinPrice)
		}
	}
	if p.DriftPercent < 0 {
		return fmt.Errorf("drift percent must be >= 0, got %d", p.DriftPercent)
	}
	if p.MinPrice <= 0 {
		return fmt.Errorf("min price must be > 0, got %v", p.MinPrice)
	}
	if p.WindowSize <= 0 {
		return fmt.Errorf("window size must be > 0, got %d", p.WindowSize)
	}
	if p.News.ChancePercent < 0 || p.News.ChancePercent > 100 {
		return fmt.Errorf("news chance must be in [0, 100], got %d", p.News.ChancePercent)
	}
	if p.News.Days <= 0 {
		return fmt.Errorf("news days must be > 0, got %d", p.News.Days)
	}
	return nil
}

// Names returns the instrument names in index order.
func (p Params) Names() []string {
	out := make([]string, len(p.Instruments))
	for i, in := range p.Instruments {
		out[i] = in.Name
	}
	return out
}
