package journal

import (
	"testing"

	"github.com/rustyeddy/tradesim/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTransactions(t *testing.T, j *SQLiteJournal) []Transaction {
	t.Helper()

	txs := []Transaction{
		{ID: "T1", Day: 0, Side: market.SideBuy, Instrument: "TechCorp", Shares: 10, Price: 10, Total: 100},
		{ID: "T2", Day: 2, Side: market.SideBuy, Instrument: "FinanceInc", Shares: 5, Price: 9.5, Total: 47.5},
		{ID: "T3", Day: 2, Side: market.SideSell, Instrument: "TechCorp", Shares: 4, Price: 11, Total: 44},
		{ID: "T4", Day: 5, Side: market.SideSell, Instrument: "FinanceInc", Shares: 5, Price: 9, Total: 45},
	}
	for _, tx := range txs {
		require.NoError(t, j.RecordTransaction(tx))
	}
	return txs
}

func TestGetTransaction(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	txs := seedTransactions(t, j)

	got, err := j.GetTransaction("T3")
	require.NoError(t, err)
	assert.Equal(t, txs[2], got)

	_, err = j.GetTransaction("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestListTransactions(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	txs := seedTransactions(t, j)

	got, err := j.ListTransactions("RUN1")
	require.NoError(t, err)
	assert.Equal(t, txs, got)

	none, err := j.ListTransactions("OTHER")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListTransactionsBetweenDays(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })
	txs := seedTransactions(t, j)

	tests := []struct {
		name     string
		from, to int
		want     []Transaction
	}{
		{"all", 0, 10, txs},
		{"single day", 2, 2, txs[1:3]},
		{"inclusive bounds", 0, 2, txs[:3]},
		{"empty", 3, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.ListTransactionsBetweenDays("RUN1", tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListSnapshotsAndPrices(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	snaps := []Snapshot{
		{Day: 1, Cash: 900, StockValue: 105, TotalValue: 1005},
		{Day: 0, Cash: 1000, StockValue: 0, TotalValue: 1000},
	}
	for _, s := range snaps {
		require.NoError(t, j.RecordSnapshot(s))
	}
	require.NoError(t, j.RecordPrice(PriceRecord{Day: 1, Instrument: "TechCorp", Price: 10.5}))
	require.NoError(t, j.RecordPrice(PriceRecord{Day: 0, Instrument: "TechCorp", Price: 10}))
	require.NoError(t, j.RecordPrice(PriceRecord{Day: 0, Instrument: "FinanceInc", Price: 10}))

	gotSnaps, err := j.ListSnapshots("RUN1")
	require.NoError(t, err)
	assert.Equal(t, []Snapshot{snaps[1], snaps[0]}, gotSnaps)

	gotPrices, err := j.ListPrices("RUN1", "TechCorp")
	require.NoError(t, err)
	assert.Equal(t, []market.PricePoint{{Day: 0, Price: 10}, {Day: 1, Price: 10.5}}, gotPrices)

	names, err := j.ListInstruments("RUN1")
	require.NoError(t, err)
	assert.Equal(t, []string{"TechCorp", "FinanceInc"}, names)

	names, err = j.ListInstruments("RUN2")
	require.NoError(t, err)
	assert.Empty(t, names)
}
