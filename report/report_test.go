package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/rustyeddy/tradesim/analytics"
	"github.com/rustyeddy/tradesim/news"
	"github.com/rustyeddy/tradesim/rng"
	"github.com/rustyeddy/tradesim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAnnouncement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   news.Event
		want string
	}{
		{
			name: "good",
			ev: news.Event{Name: "TechCorp", Headline: "Tech breakthrough discovered!", Good: true,
				TotalImpact: 20, DailyImpact: 4, DaysRemaining: 5, EstimatedChange: 2},
			want: "*** BREAKING NEWS: Tech breakthrough discovered! ***\n" +
				"TechCorp will rise by 20.0% (approx $2.00) over the next 5 days (~4.0% per day)\n",
		},
		{
			name: "bad",
			ev: news.Event{Name: "FinanceInc", Headline: "Market crash warning!", Good: false,
				TotalImpact: -20, DailyImpact: -4, DaysRemaining: 5, EstimatedChange: -2.5},
			want: "*** BREAKING NEWS: Market crash warning! ***\n" +
				"FinanceInc will fall by 20.0% (approx $2.50) over the next 5 days (~4.0% per day)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAnnouncement(tt.ev))
		})
	}
}

func TestPrintAnalyticsNoTransactions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintAnalytics(&buf, analytics.Report{InitialBalance: 1000, CurrentValue: 1000})

	out := buf.String()
	assert.Contains(t, out, "Initial Balance: $1000.00")
	assert.Contains(t, out, "Total Return: $0.00 (+0.00%)")
	assert.Contains(t, out, "No transactions yet.")
	assert.NotContains(t, out, "Transaction Statistics")
}

func TestPrintAnalyticsWithSales(t *testing.T) {
	t.Parallel()

	best := analytics.Sale{Day: 2, Instrument: "TechCorp", Shares: 10, Profit: 12.5}
	worst := analytics.Sale{Day: 4, Instrument: "FinanceInc", Shares: 5, Profit: -3}
	r := analytics.Report{
		HasTransactions: true,
		InitialBalance:  1000,
		CurrentValue:    950,
		TotalReturn:     -50,
		ROI:             -5,
		Buys:            2,
		Sells:           2,
		TotalSpent:      300,
		TotalReceived:   200,
		Best:            &best,
		Worst:           &worst,
	}

	var buf bytes.Buffer
	PrintAnalytics(&buf, r)

	out := buf.String()
	assert.Contains(t, out, "Total Return: $-50.00 (-5.00%)")
	assert.Contains(t, out, "Total Transactions: 4")
	assert.Contains(t, out, "Buys: 2 | Sells: 2")
	assert.Contains(t, out, "Best Trade: TechCorp (Day 2) (+$12.50)")
	assert.Contains(t, out, "Worst Trade: FinanceInc (Day 4) (-$3.00)")
}

func TestPrintNews(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintNews(&buf, nil)
	assert.Empty(t, buf.String())

	PrintNews(&buf, []news.Event{{Name: "TechCorp", Headline: "Data breach discovered!", DaysRemaining: 3, DailyImpact: -4}})
	assert.Contains(t, buf.String(), "=== ACTIVE NEWS ===")
	assert.Contains(t, buf.String(), "TechCorp: Data breach discovered! (3 days remaining, -4.0%/day)")
}

func TestPrintDay(t *testing.T) {
	t.Parallel()

	e, err := sim.NewEngine(sim.DefaultParams(), rng.Script(), nil)
	require.NoError(t, err)
	_, err = e.Buy(0, 50)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintDay(&buf, e)

	out := buf.String()
	assert.Contains(t, out, "--- Day 0 ---")
	assert.Contains(t, out, "=== STOCK PRICES (Last 5 Days) ===")
	assert.Contains(t, out, "  History: $10.00 $10.00 $10.00 $10.00 $10.00")
	assert.Contains(t, out, "Cash: $500.00")
	assert.Contains(t, out, "TechCorp: 50 shares @ $10.00 = $500.00")
	assert.Contains(t, out, "Total Value: $1000.00")
	assert.NotContains(t, out, "ACTIVE NEWS")
}

func TestSession(t *testing.T) {
	t.Parallel()

	e, err := sim.NewEngine(sim.DefaultParams(), rng.Script(10, 5, 99), nil)
	require.NoError(t, err)
	_, err = e.Buy(0, 10)
	require.NoError(t, err)
	_, err = e.AdvanceDay()
	require.NoError(t, err)
	_, err = e.Sell(0, 10)
	require.NoError(t, err)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Session(e, "RUN", 3, created)

	assert.Equal(t, "RUN", s.RunID)
	assert.Equal(t, int64(3), s.Seed)
	assert.Equal(t, 1, s.Days)
	assert.Equal(t, 2, s.Transactions)
	assert.InDelta(t, 5.0, s.NetReturn, 1e-9)
	assert.Equal(t, "TechCorp (Day 1) +$5.00", s.Best)
	assert.Equal(t, s.Best, s.Worst)
	assert.Empty(t, s.Notes)
}
