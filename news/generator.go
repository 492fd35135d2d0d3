package news

import (
	"fmt"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/rng"
)

// Headlines is the good/bad message pair for one instrument.
type Headlines struct {
	Good string
	Bad  string
}

func (h Headlines) For(good bool) string {
	if good {
		return h.Good
	}
	return h.Bad
}

var knownHeadlines = map[string]Headlines{
	"TechCorp":   {Good: "Tech breakthrough discovered!", Bad: "Data breach discovered!"},
	"FinanceInc": {Good: "Record profits announced!", Bad: "Market crash warning!"},
}

// DefaultHeadlines returns the fixed messages for the stock instruments and a
// generic pair for anything else.
func DefaultHeadlines(name string) Headlines {
	if h, ok := knownHeadlines[name]; ok {
		return h
	}
	return Headlines{
		Good: fmt.Sprintf("%s beats expectations!", name),
		Bad:  fmt.Sprintf("%s misses expectations!", name),
	}
}

// Generator decides once per day whether a new event is announced.
type Generator struct {
	ChancePercent      int     // probability per day, 0..100
	TotalImpactPercent float64 // magnitude over the whole event
	Days               int
}

func DefaultGenerator() Generator {
	return Generator{
		ChancePercent:      40,
		TotalImpactPercent: 20,
		Days:               5,
	}
}

// Maybe draws the trigger, then the instrument, then the polarity. It returns
// false without drawing further when the trigger misses. headlines is indexed
// like instruments.
func (g Generator) Maybe(src rng.Source, day int, instruments []*market.Instrument, headlines []Headlines) (Event, bool) {
	if len(instruments) == 0 || src.Intn(100) >= g.ChancePercent {
		return Event{}, false
	}

	idx := src.Intn(len(instruments))
	good := src.Intn(2) == 0

	total := g.TotalImpactPercent
	if !good {
		total = -total
	}

	inst := instruments[idx]
	h := DefaultHeadlines(inst.Name)
	if idx < len(headlines) {
		h = headlines[idx]
	}

	return Event{
		Instrument:      idx,
		Name:            inst.Name,
		Headline:        h.For(good),
		Good:            good,
		Day:             day,
		TotalImpact:     total,
		DailyImpact:     total / float64(g.Days),
		DaysRemaining:   g.Days,
		EstimatedChange: inst.Price() * total / 100.0,
	}, true
}
