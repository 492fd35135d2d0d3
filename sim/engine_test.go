package sim

import (
	"errors"
	"math"
	"os"
	"testing"

	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/news"
	"github.com/rustyeddy/tradesim/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testJournal struct {
	txs    []journal.Transaction
	snaps  []journal.Snapshot
	prices []journal.PriceRecord
	closed bool

	failSnapshots bool
}

func (j *testJournal) RecordTransaction(t journal.Transaction) error {
	j.txs = append(j.txs, t)
	return nil
}

func (j *testJournal) RecordSnapshot(s journal.Snapshot) error {
	if j.failSnapshots {
		return errors.New("disk full")
	}
	j.snaps = append(j.snaps, s)
	return nil
}

func (j *testJournal) RecordPrice(p journal.PriceRecord) error {
	j.prices = append(j.prices, p)
	return nil
}

func (j *testJournal) Close() error {
	j.closed = true
	return nil
}

// flat is one day with zero drift on both instruments and no news.
var flat = []int{5, 5, 99}

func script(days ...[]int) *rng.Sequence {
	s := rng.Script()
	for _, d := range days {
		s.Append(d...)
	}
	return s
}

func newEngine(t *testing.T, src rng.Source) (*Engine, *testJournal) {
	t.Helper()
	j := &testJournal{}
	e, err := NewEngine(DefaultParams(), src, j)
	require.NoError(t, err)
	return e, j
}

func TestNewEngineRecordsDayZero(t *testing.T) {
	t.Parallel()

	e, j := newEngine(t, rng.Script())

	assert.Equal(t, 0, e.Day())
	assert.Equal(t, []string{"TechCorp", "FinanceInc"}, e.Names())
	require.Len(t, e.Snapshots(), 1)
	assert.Equal(t, journal.Snapshot{Day: 0, Cash: 1000, StockValue: 0, TotalValue: 1000}, e.Snapshots()[0])
	assert.Equal(t, []market.PricePoint{{Day: 0, Price: 10}}, e.PriceHistory(0))
	assert.Equal(t, []market.PricePoint{{Day: 0, Price: 10}}, e.PriceHistory(1))

	assert.Len(t, j.prices, 2)
	assert.Len(t, j.snaps, 1)

	q, err := e.Quote(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 10, 10, 10}, q.Window)
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(DefaultParams(), nil, nil)
	assert.Error(t, err)

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"no instruments", func(p *Params) { p.Instruments = nil }},
		{"duplicate names", func(p *Params) { p.Instruments[1].Name = p.Instruments[0].Name }},
		{"empty name", func(p *Params) { p.Instruments[0].Name = "" }},
		{"price below floor", func(p *Params) { p.Instruments[0].InitialPrice = 0.5 }},
		{"negative balance", func(p *Params) { p.InitialBalance = -1 }},
		{"zero balance", func(p *Params) { p.InitialBalance = 0 }},
		{"zero window", func(p *Params) { p.WindowSize = 0 }},
		{"zero news days", func(p *Params) { p.News.Days = 0 }},
		{"chance above 100", func(p *Params) { p.News.ChancePercent = 101 }},
		{"negative drift", func(p *Params) { p.DriftPercent = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			_, err := NewEngine(p, rng.Script(), nil)
			assert.Error(t, err)
		})
	}
}

func TestBuyScenario(t *testing.T) {
	t.Parallel()

	e, j := newEngine(t, rng.Script())

	tx, err := e.Buy(0, 50)
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, 0, tx.Day)
	assert.Equal(t, market.SideBuy, tx.Side)
	assert.Equal(t, "TechCorp", tx.Instrument)
	assert.Equal(t, 50, tx.Shares)
	assert.InDelta(t, 10.0, tx.Price, 1e-9)
	assert.InDelta(t, 500.0, tx.Total, 1e-9)

	p := e.Portfolio()
	assert.InDelta(t, 500.0, p.Cash, 1e-9)
	assert.InDelta(t, 500.0, p.StockValue, 1e-9)
	assert.InDelta(t, 1000.0, p.Total, 1e-9)
	assert.InDelta(t, 1000.0, p.Initial, 1e-9)

	q, err := e.Quote(0)
	require.NoError(t, err)
	assert.Equal(t, 50, q.Shares)
	assert.InDelta(t, 500.0, q.Value, 1e-9)

	assert.Equal(t, []journal.Transaction{tx}, e.Transactions())
	assert.Equal(t, []journal.Transaction{tx}, j.txs)
}

func TestRejectedOrdersLeaveStateUnchanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		order   func(e *Engine) error
		wantErr error
	}{
		{"buy beyond cash", func(e *Engine) error { _, err := e.Buy(0, 101); return err }, ledger.ErrInsufficientCash},
		{"sell without shares", func(e *Engine) error { _, err := e.Sell(1, 1); return err }, ledger.ErrInsufficientShares},
		{"zero shares", func(e *Engine) error { _, err := e.Buy(0, 0); return err }, ledger.ErrInvalidShares},
		{"negative shares", func(e *Engine) error { _, err := e.Sell(0, -3); return err }, ledger.ErrInvalidShares},
		{"unknown instrument", func(e *Engine) error { _, err := e.Buy(2, 1); return err }, ErrUnknownInstrument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, j := newEngine(t, rng.Script())
			before := e.Portfolio()

			err := tt.order(e)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, before, e.Portfolio())
			assert.Empty(t, e.Transactions())
			assert.Empty(t, j.txs)
			for _, q := range e.Quotes() {
				assert.Zero(t, q.Shares)
			}
		})
	}
}

func TestRejectionsAreRecognizable(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, rng.Script())

	_, err := e.Buy(0, 1000)
	assert.True(t, ledger.IsRejection(err))

	_, err = e.Buy(0, 100)
	require.NoError(t, err, "exact balance is allowed")
	assert.InDelta(t, 0.0, e.Portfolio().Cash, 1e-9)
}

func TestSellRoundTrip(t *testing.T) {
	t.Parallel()

	// Day 1: both instruments +5%, no news.
	e, _ := newEngine(t, script([]int{10, 10, 99}))

	_, err := e.Buy(0, 10)
	require.NoError(t, err)

	_, err = e.AdvanceDay()
	require.NoError(t, err)

	tx, err := e.Sell(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, tx.Day)
	assert.InDelta(t, 10.5, tx.Price, 1e-9)
	assert.InDelta(t, 105.0, tx.Total, 1e-9)
	assert.InDelta(t, 1005.0, e.Portfolio().Cash, 1e-9)

	r := e.Analytics()
	assert.True(t, r.HasTransactions)
	require.Len(t, r.Sales, 1)
	assert.InDelta(t, 5.0, r.Sales[0].Profit, 1e-9)
	assert.InDelta(t, 5.0, r.TotalReturn, 1e-9)
	assert.InDelta(t, 0.5, r.ROI, 1e-9)
}

func TestGoodNewsWithZeroDrift(t *testing.T) {
	t.Parallel()

	// Day 1: zero drift, trigger, TechCorp, good. Day 2: zero drift, no news.
	e, _ := newEngine(t, script([]int{5, 5, 0, 0, 0}, flat))

	var heard []news.Event
	e.SetNewsListener(NewsListenerFunc(func(ev news.Event) { heard = append(heard, ev) }))

	rep, err := e.AdvanceDay()
	require.NoError(t, err)
	require.NotNil(t, rep.Spawned)
	assert.Equal(t, 1, rep.Day)
	assert.Equal(t, "Tech breakthrough discovered!", rep.Spawned.Headline)
	assert.True(t, rep.Spawned.Good)
	assert.Equal(t, 0, rep.Spawned.Day)
	assert.InDelta(t, 4.0, rep.Spawned.DailyImpact, 1e-9)
	assert.InDelta(t, 2.0, rep.Spawned.EstimatedChange, 1e-9)
	require.Len(t, heard, 1)
	assert.Equal(t, *rep.Spawned, heard[0])

	// The announcement does not move the price on the day it is made.
	q, _ := e.Quote(0)
	assert.InDelta(t, 10.0, q.Price, 1e-9)

	rep, err = e.AdvanceDay()
	require.NoError(t, err)
	assert.Nil(t, rep.Spawned)

	q, _ = e.Quote(0)
	assert.InDelta(t, 10.4, q.Price, 1e-9)
	q, _ = e.Quote(1)
	assert.InDelta(t, 10.0, q.Price, 1e-9)

	active := e.ActiveNews()
	require.Len(t, active, 1)
	assert.Equal(t, 4, active[0].DaysRemaining)
}

func TestBadNewsRunsFullCourse(t *testing.T) {
	t.Parallel()

	// FinanceInc bad news, then five flat days.
	e, _ := newEngine(t, script([]int{5, 5, 0, 1, 1}, flat, flat, flat, flat, flat))

	rep, err := e.AdvanceDay()
	require.NoError(t, err)
	require.NotNil(t, rep.Spawned)
	assert.Equal(t, "Market crash warning!", rep.Spawned.Headline)
	assert.InDelta(t, -2.0, rep.Spawned.EstimatedChange, 1e-9)

	for day := 2; day <= 6; day++ {
		rep, err = e.AdvanceDay()
		require.NoError(t, err)
		if day < 6 {
			assert.Empty(t, rep.Expired, "day %d", day)
		}
	}
	require.Len(t, rep.Expired, 1)
	assert.Empty(t, e.ActiveNews())

	q, _ := e.Quote(1)
	assert.InDelta(t, 10*math.Pow(0.96, 5), q.Price, 1e-9)
}

func TestNewsStacksOnSameInstrument(t *testing.T) {
	t.Parallel()

	// Two good TechCorp events on consecutive days, then one flat day.
	e, _ := newEngine(t, script([]int{5, 5, 0, 0, 0}, []int{5, 5, 0, 0, 0}, flat))

	for i := 0; i < 3; i++ {
		_, err := e.AdvanceDay()
		require.NoError(t, err)
	}

	// Day 2 applies the first event, day 3 applies both.
	q, _ := e.Quote(0)
	assert.InDelta(t, 10*1.04*1.04*1.04, q.Price, 1e-9)
	assert.Len(t, e.ActiveNews(), 2)
}

func TestNewsAndDriftCompound(t *testing.T) {
	t.Parallel()

	// Day 1: TechCorp good news. Day 2: the news applies, then -5% drift.
	e, _ := newEngine(t, script([]int{5, 5, 0, 0, 0}, []int{0, 5, 99}))

	for i := 0; i < 2; i++ {
		_, err := e.AdvanceDay()
		require.NoError(t, err)
	}

	q, _ := e.Quote(0)
	assert.InDelta(t, 10*1.04*0.95, q.Price, 1e-9)
	assert.NotEqual(t, 9.90, math.Round(q.Price*100)/100, "news and drift must not be summed")
}

func TestFloorAppliesBeforeDrift(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.Instruments[0].InitialPrice = 1

	// Day 1: TechCorp bad news. Day 2: -4% clamps to the floor, then +5% drift.
	e, err := NewEngine(p, script([]int{5, 5, 0, 0, 1}, []int{10, 5, 99}), nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := e.AdvanceDay()
		require.NoError(t, err)
	}

	q, _ := e.Quote(0)
	assert.InDelta(t, 1.05, q.Price, 1e-9)
}

func TestPriceFloor(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.Instruments[0].InitialPrice = 1
	p.Instruments[1].InitialPrice = 1.02

	// -5% on both for three days.
	e, err := NewEngine(p, script([]int{0, 0, 99}, []int{0, 0, 99}, []int{0, 0, 99}), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := e.AdvanceDay()
		require.NoError(t, err)
	}
	for _, q := range e.Quotes() {
		assert.InDelta(t, 1.0, q.Price, 1e-9, q.Name)
	}
}

func TestRollingWindow(t *testing.T) {
	t.Parallel()

	// +5% on TechCorp, flat FinanceInc, two days.
	e, _ := newEngine(t, script([]int{10, 5, 99}, []int{10, 5, 99}))

	for i := 0; i < 2; i++ {
		_, err := e.AdvanceDay()
		require.NoError(t, err)
	}

	q, _ := e.Quote(0)
	require.Len(t, q.Window, 5)
	assert.InDeltaSlice(t, []float64{10, 10, 10, 10.5, 11.025}, q.Window, 1e-9)

	hist := e.PriceHistory(0)
	require.Len(t, hist, 3)
	for d, want := range []float64{10, 10.5, 11.025} {
		assert.Equal(t, d, hist[d].Day)
		assert.InDelta(t, want, hist[d].Price, 1e-9)
	}
}

func TestLongRunInvariants(t *testing.T) {
	t.Parallel()

	e, j := newEngine(t, rng.New(42))

	const days = 60
	for d := 1; d <= days; d++ {
		if d%7 == 0 {
			_, _ = e.Buy(d%2, 5)
		}
		if d%11 == 0 {
			_, _ = e.Sell(d%2, 3)
		}
		rep, err := e.AdvanceDay()
		require.NoError(t, err)
		assert.Equal(t, d, rep.Day)
	}

	assert.Equal(t, days, e.Day())
	assert.Len(t, e.Snapshots(), days+1)
	assert.Len(t, j.snaps, days+1)
	assert.Len(t, j.prices, 2*(days+1))

	for i := 0; i < e.Len(); i++ {
		hist := e.PriceHistory(i)
		require.Len(t, hist, days+1)
		for d, p := range hist {
			assert.Equal(t, d, p.Day)
			assert.GreaterOrEqual(t, p.Price, market.MinPrice)
		}
		q, _ := e.Quote(i)
		assert.GreaterOrEqual(t, q.Shares, 0)
		assert.Len(t, q.Window, market.WindowSize)
	}
	for _, s := range e.Snapshots() {
		assert.GreaterOrEqual(t, s.Cash, 0.0)
		assert.InDelta(t, s.Cash+s.StockValue, s.TotalValue, 1e-9)
	}

	txs := e.Transactions()
	for k := 1; k < len(txs); k++ {
		assert.LessOrEqual(t, txs[k-1].Day, txs[k].Day)
	}
}

func TestSinkFailureKeepsDay(t *testing.T) {
	t.Parallel()

	e, j := newEngine(t, script(flat))
	j.failSnapshots = true

	rep, err := e.AdvanceDay()
	assert.Error(t, err)
	assert.Equal(t, 1, rep.Day)
	assert.Equal(t, 1, e.Day())
	assert.Len(t, e.Snapshots(), 2)
}

func TestExportRoundTrip(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, rng.New(7))
	_, err := e.Buy(0, 20)
	require.NoError(t, err)
	for i := 0; i < 15; i++ {
		_, err := e.AdvanceDay()
		require.NoError(t, err)
	}

	paths, err := journal.ExportDir(t.TempDir(), e.History())
	require.NoError(t, err)

	f, err := os.Open(paths.Prices)
	require.NoError(t, err)
	defer f.Close()

	names, series, err := journal.ReadPriceHistory(f)
	require.NoError(t, err)
	assert.Equal(t, e.Names(), names)

	for i := range names {
		want := e.PriceHistory(i)
		require.Len(t, series[i], len(want))
		for k := range want {
			assert.Equal(t, want[k].Day, series[i][k].Day)
			assert.InDelta(t, want[k].Price, series[i][k].Price, 0.005)
		}
	}
}
