package sim

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/rustyeddy/tradesim/analytics"
	"github.com/rustyeddy/tradesim/internal/id"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/news"
	"github.com/rustyeddy/tradesim/rng"
)

var ErrUnknownInstrument = errors.New("unknown instrument")

// NewsListener is told about every event the engine announces.
type NewsListener interface {
	OnNews(news.Event)
}

// NewsListenerFunc adapts a function to NewsListener.
type NewsListenerFunc func(news.Event)

func (f NewsListenerFunc) OnNews(e news.Event) { f(e) }

// DayReport describes what happened during one AdvanceDay.
type DayReport struct {
	Day     int
	Spawned *news.Event
	Expired []news.Event
}

// Quote is the read view of one instrument together with the position held.
type Quote struct {
	Name   string
	Price  float64
	Window []float64
	Shares int
	Value  float64
}

// Portfolio is the current valuation.
type Portfolio struct {
	Cash       float64
	StockValue float64
	Total      float64
	Initial    float64
}

// Engine runs the day loop over a fixed set of instruments. Every record it
// produces lands in its History first and is then mirrored to the optional
// sink.
//
// Calls are serialized by a mutex, but the engine is meant to be driven from
// a single goroutine: a listener must not call back into the engine.
type Engine struct {
	mu sync.Mutex

	params      Params
	src         rng.Source
	day         int
	instruments []*market.Instrument
	headlines   []news.Headlines
	book        *news.Book
	ledger      *ledger.Ledger
	history     *journal.History
	sink        journal.Journal
	ids         *id.Generator
	log         *slog.Logger
	listener    NewsListener
}

// NewEngine builds the engine at day 0 and records the opening prices and
// snapshot. sink may be nil.
func NewEngine(p Params, src rng.Source, sink journal.Journal) (*Engine, error) {
	if src == nil {
		return nil, errors.New("sim: random source is required")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	e := &Engine{
		params:    p,
		src:       src,
		book:      news.NewBook(),
		ledger:    ledger.New(p.InitialBalance, len(p.Instruments)),
		history:   journal.NewHistory(p.Names()),
		sink:      sink,
		ids:       id.NewGenerator(0, nil),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		headlines: make([]news.Headlines, len(p.Instruments)),
	}
	for i, in := range p.Instruments {
		inst, err := market.NewInstrument(market.Spec{Name: in.Name, InitialPrice: in.InitialPrice}, p.WindowSize, p.MinPrice)
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		e.instruments = append(e.instruments, inst)

		h := in.Headlines
		if h.Good == "" || h.Bad == "" {
			def := news.DefaultHeadlines(in.Name)
			if h.Good == "" {
				h.Good = def.Good
			}
			if h.Bad == "" {
				h.Bad = def.Bad
			}
		}
		e.headlines[i] = h
	}

	if err := e.recordDayLocked(); err != nil {
		return nil, err
	}
	return e, nil
}

// SetLogger replaces the discard logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.log = l
}

// SetNewsListener registers the listener called for each announcement. The
// listener runs after the engine lock is released.
func (e *Engine) SetNewsListener(l NewsListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// SetIDGenerator replaces the transaction ID generator.
func (e *Engine) SetIDGenerator(g *id.Generator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = g
}

// AdvanceDay applies active news, expires finished events, moves every price
// by its daily drift, maybe announces one event, closes the day and records
// prices and a snapshot for the new day.
//
// The in-memory state is always advanced. A non-nil error means the sink
// failed to record the new day.
func (e *Engine) AdvanceDay() (DayReport, error) {
	e.mu.Lock()

	e.book.Apply(e.instruments)
	expired := e.book.Expire()

	drift := e.params.DriftPercent
	for _, inst := range e.instruments {
		pct := e.src.Intn(2*drift+1) - drift
		inst.Move(float64(pct))
	}

	var spawned *news.Event
	if ev, ok := e.params.News.Maybe(e.src, e.day, e.instruments, e.headlines); ok {
		e.book.Add(ev)
		spawned = &ev
	}

	for _, inst := range e.instruments {
		inst.Close()
	}
	e.day++

	err := e.recordDayLocked()

	for _, ev := range expired {
		e.log.Debug("news expired", "instrument", ev.Name, "headline", ev.Headline)
	}
	if spawned != nil {
		e.log.Info("news announced",
			"day", spawned.Day,
			"instrument", spawned.Name,
			"headline", spawned.Headline,
			"daily_impact", spawned.DailyImpact,
		)
	}
	e.log.Debug("day advanced", "day", e.day, "active_news", e.book.Len())

	report := DayReport{Day: e.day, Spawned: spawned, Expired: expired}
	listener := e.listener
	e.mu.Unlock()

	if listener != nil && spawned != nil {
		listener.OnNews(*spawned)
	}
	return report, err
}

// recordDayLocked appends today's prices and snapshot to the history and
// the sink. History failures mean the day loop itself is broken.
func (e *Engine) recordDayLocked() error {
	var sinkErr error
	for _, inst := range e.instruments {
		rec := journal.PriceRecord{Day: e.day, Instrument: inst.Name, Price: inst.Price()}
		if err := e.history.RecordPrice(rec); err != nil {
			return fmt.Errorf("sim: history: %w", err)
		}
		if err := e.mirror(func(j journal.Journal) error { return j.RecordPrice(rec) }); err != nil && sinkErr == nil {
			sinkErr = err
		}
	}

	snap := e.snapshotLocked()
	if err := e.history.RecordSnapshot(snap); err != nil {
		return fmt.Errorf("sim: history: %w", err)
	}
	if err := e.mirror(func(j journal.Journal) error { return j.RecordSnapshot(snap) }); err != nil && sinkErr == nil {
		sinkErr = err
	}
	return sinkErr
}

func (e *Engine) mirror(write func(journal.Journal) error) error {
	if e.sink == nil {
		return nil
	}
	if err := write(e.sink); err != nil {
		e.log.Error("journal write failed", "day", e.day, "error", err)
		return fmt.Errorf("sim: journal: %w", err)
	}
	return nil
}

func (e *Engine) snapshotLocked() journal.Snapshot {
	stock := e.stockValueLocked()
	cash := e.ledger.Cash()
	return journal.Snapshot{
		Day:        e.day,
		Cash:       cash,
		StockValue: stock,
		TotalValue: cash + stock,
	}
}

func (e *Engine) stockValueLocked() float64 {
	v := 0.0
	for i, inst := range e.instruments {
		v += float64(e.ledger.Shares(i)) * inst.Price()
	}
	return v
}

// Buy purchases shares of instrument i at the current price. Rejections
// leave every piece of state untouched and are reported with the ledger's
// sentinel errors.
func (e *Engine) Buy(i, shares int) (journal.Transaction, error) {
	return e.execute(market.SideBuy, i, shares)
}

// Sell sells shares of instrument i at the current price.
func (e *Engine) Sell(i, shares int) (journal.Transaction, error) {
	return e.execute(market.SideSell, i, shares)
}

func (e *Engine) execute(side market.Side, i, shares int) (journal.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if i < 0 || i >= len(e.instruments) {
		return journal.Transaction{}, fmt.Errorf("%s instrument %d: %w", side, i, ErrUnknownInstrument)
	}
	inst := e.instruments[i]

	var (
		fill ledger.Fill
		err  error
	)
	switch side {
	case market.SideBuy:
		fill, err = e.ledger.Buy(i, inst.Price(), shares)
	default:
		fill, err = e.ledger.Sell(i, inst.Price(), shares)
	}
	if err != nil {
		e.log.Debug("order rejected", "side", side.String(), "instrument", inst.Name, "shares", shares, "error", err)
		return journal.Transaction{}, fmt.Errorf("%s %s: %w", side, inst.Name, err)
	}

	tx := journal.Transaction{
		ID:         e.ids.New(),
		Day:        e.day,
		Side:       fill.Side,
		Instrument: inst.Name,
		Shares:     fill.Shares,
		Price:      fill.Price,
		Total:      fill.Total,
	}
	if err := e.history.RecordTransaction(tx); err != nil {
		return tx, fmt.Errorf("sim: history: %w", err)
	}
	e.log.Info("order filled",
		"id", tx.ID,
		"day", tx.Day,
		"side", tx.Side.String(),
		"instrument", tx.Instrument,
		"shares", tx.Shares,
		"price", tx.Price,
	)
	return tx, e.mirror(func(j journal.Journal) error { return j.RecordTransaction(tx) })
}

// Day is the number of days advanced so far.
func (e *Engine) Day() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.day
}

// Len is the number of instruments.
func (e *Engine) Len() int { return len(e.instruments) }

// Names returns the instrument names in index order.
func (e *Engine) Names() []string { return e.params.Names() }

// Index returns the position of the named instrument.
func (e *Engine) Index(name string) (int, bool) {
	for i, inst := range e.instruments {
		if inst.Name == name {
			return i, true
		}
	}
	return -1, false
}

func (e *Engine) quoteLocked(i int) Quote {
	inst := e.instruments[i]
	shares := e.ledger.Shares(i)
	return Quote{
		Name:   inst.Name,
		Price:  inst.Price(),
		Window: inst.Window(),
		Shares: shares,
		Value:  float64(shares) * inst.Price(),
	}
}

// Quote returns the view of instrument i.
func (e *Engine) Quote(i int) (Quote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.instruments) {
		return Quote{}, fmt.Errorf("quote %d: %w", i, ErrUnknownInstrument)
	}
	return e.quoteLocked(i), nil
}

// Quotes returns every instrument in index order.
func (e *Engine) Quotes() []Quote {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Quote, len(e.instruments))
	for i := range e.instruments {
		out[i] = e.quoteLocked(i)
	}
	return out
}

// ActiveNews returns the events that will apply on the next advance.
func (e *Engine) ActiveNews() []news.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.book.Active()
}

func (e *Engine) Portfolio() Portfolio {
	e.mu.Lock()
	defer e.mu.Unlock()
	stock := e.stockValueLocked()
	return Portfolio{
		Cash:       e.ledger.Cash(),
		StockValue: stock,
		Total:      e.ledger.Cash() + stock,
		Initial:    e.ledger.Initial(),
	}
}

func (e *Engine) Transactions() []journal.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Transactions()
}

func (e *Engine) Snapshots() []journal.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Snapshots()
}

// PriceHistory returns every recorded price of instrument i, day 0 first.
func (e *Engine) PriceHistory(i int) []market.PricePoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Prices(i)
}

// History exposes the in-memory store, e.g. for ExportDir. It must not be
// written to by the caller.
func (e *Engine) History() *journal.History { return e.history }

// Analytics computes the performance report at current prices.
func (e *Engine) Analytics() analytics.Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	positions := make([]analytics.Position, len(e.instruments))
	for i, inst := range e.instruments {
		positions[i] = analytics.Position{Name: inst.Name, Shares: e.ledger.Shares(i), Price: inst.Price()}
	}
	return analytics.Compute(e.ledger.Initial(), e.ledger.Cash(), positions, e.history.Transactions())
}
