// Package news manages multi-day price shocks. An event is created active
// with a fixed number of days, applies its daily impact once per advance and
// is removed once no days remain. Events never pause or cancel.
package news

import (
	"fmt"

	"github.com/rustyeddy/tradesim/market"
)

// Event is one active or expired news shock on a single instrument.
type Event struct {
	Instrument    int    // index into the engine's instruments
	Name          string // instrument name at announcement
	Headline      string
	Good          bool
	Day           int     // day the event was announced
	TotalImpact   float64 // percent over the full run, signed
	DailyImpact   float64 // percent per day, signed
	DaysRemaining int

	// EstimatedChange is TotalImpact applied to the price at trigger time,
	// in currency. It is what the announcement quotes.
	EstimatedChange float64
}

// Active reports whether the event still has days to apply.
func (e Event) Active() bool { return e.DaysRemaining > 0 }

func (e Event) String() string {
	return fmt.Sprintf("%s: %s (%d days remaining, %+.1f%%/day)", e.Name, e.Headline, e.DaysRemaining, e.DailyImpact)
}

// Book is the set of active events, in announcement order.
type Book struct {
	active []Event
}

func NewBook() *Book {
	return &Book{}
}

// Add appends an event. Events on the same instrument stack.
func (b *Book) Add(e Event) {
	b.active = append(b.active, e)
}

// Apply moves each event's instrument by its daily impact and burns one day
// off the event. Events compound in announcement order.
func (b *Book) Apply(instruments []*market.Instrument) {
	for i := range b.active {
		ev := &b.active[i]
		instruments[ev.Instrument].Move(ev.DailyImpact)
		ev.DaysRemaining--
	}
}

// Expire removes events with no days remaining and returns them.
func (b *Book) Expire() []Event {
	var expired []Event
	kept := b.active[:0]
	for _, ev := range b.active {
		if ev.DaysRemaining <= 0 {
			expired = append(expired, ev)
			continue
		}
		kept = append(kept, ev)
	}
	b.active = kept
	return expired
}

// Active returns a copy of the active events.
func (b *Book) Active() []Event {
	return append([]Event(nil), b.active...)
}

func (b *Book) Len() int { return len(b.active) }
