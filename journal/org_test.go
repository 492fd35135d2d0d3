package journal

import (
	"strings"
	"testing"

	"github.com/rustyeddy/tradesim/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTransactionOrg(t *testing.T) {
	t.Parallel()

	tx := Transaction{
		ID:         "01J0000000000000000000000A",
		Day:        3,
		Side:       market.SideBuy,
		Instrument: "TechCorp",
		Shares:     10,
		Price:      10.5,
		Total:      105,
	}

	result := FormatTransactionOrg(tx)

	assert.True(t, strings.HasPrefix(result, "** BUY 10 TechCorp @ 10.50 (Day 3)\n"))
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01J0000000000000000000000A")
	assert.Contains(t, result, ":DAY: 3")
	assert.Contains(t, result, ":SIDE: BUY")
	assert.Contains(t, result, ":INSTRUMENT: TechCorp")
	assert.Contains(t, result, ":SHARES: 10")
	assert.Contains(t, result, ":PRICE: 10.50")
	assert.Contains(t, result, ":TOTAL: 105.00")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Notes")
}

func TestFormatTransactionOrgWithoutID(t *testing.T) {
	t.Parallel()

	result := FormatTransactionOrg(Transaction{Side: market.SideSell, Instrument: "FinanceInc", Shares: 1, Price: 9})
	assert.NotContains(t, result, ":ID:")
	assert.Contains(t, result, "** SELL 1 FinanceInc @ 9.00 (Day 0)")
}

func TestFormatTransactionsOrg(t *testing.T) {
	t.Parallel()

	txs := []Transaction{
		{ID: "A", Day: 0, Side: market.SideBuy, Instrument: "TechCorp", Shares: 2, Price: 10, Total: 20},
		{ID: "B", Day: 1, Side: market.SideSell, Instrument: "TechCorp", Shares: 2, Price: 11, Total: 22},
	}

	result := FormatTransactionsOrg(txs)
	parts := strings.Split(result, "\n\n\n")
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0], ":ID: A")
	assert.Contains(t, parts[1], ":ID: B")

	assert.Empty(t, FormatTransactionsOrg(nil))
}
