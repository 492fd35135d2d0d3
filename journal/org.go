package journal

import (
	"fmt"
	"strings"
)

// FormatTransactionOrg renders a Transaction as an Org-mode block for pasting
// into a trading diary. Facts live in the PROPERTIES drawer so they stay
// searchable; the Notes section is left for the reader.
func FormatTransactionOrg(t Transaction) string {
	heading := fmt.Sprintf("** %s %d %s @ %.2f (Day %d)", t.Side, t.Shares, t.Instrument, t.Price, t.Day)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	if t.ID != "" {
		b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	}
	b.WriteString(fmt.Sprintf(":DAY: %d\n", t.Day))
	b.WriteString(fmt.Sprintf(":SIDE: %s\n", t.Side))
	b.WriteString(fmt.Sprintf(":INSTRUMENT: %s\n", t.Instrument))
	b.WriteString(fmt.Sprintf(":SHARES: %d\n", t.Shares))
	b.WriteString(fmt.Sprintf(":PRICE: %.2f\n", t.Price))
	b.WriteString(fmt.Sprintf(":TOTAL: %.2f\n", t.Total))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Notes\n- \n")

	return b.String()
}

// FormatTransactionsOrg renders multiple transactions separated by blank lines.
func FormatTransactionsOrg(txs []Transaction) string {
	var b strings.Builder
	for i, t := range txs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTransactionOrg(t))
	}
	return b.String()
}
