// Package report renders the simulation state as plain text.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/tradesim/analytics"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/news"
	"github.com/rustyeddy/tradesim/sim"
)

// PrintPrices writes the current price and rolling window of each quote.
func PrintPrices(w io.Writer, quotes []sim.Quote) {
	days := 0
	if len(quotes) > 0 {
		days = len(quotes[0].Window)
	}
	fmt.Fprintf(w, "\n=== STOCK PRICES (Last %d Days) ===\n", days)
	for _, q := range quotes {
		fmt.Fprintf(w, "\n%s:\n", q.Name)
		fmt.Fprintf(w, "  Current: $%.2f\n", q.Price)
		fmt.Fprintf(w, "  History: %s\n", formatWindow(q.Window))
	}
}

func formatWindow(prices []float64) string {
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = fmt.Sprintf("$%.2f", p)
	}
	return strings.Join(parts, " ")
}

// PrintNews writes the active events. Nothing is written when there are none.
func PrintNews(w io.Writer, events []news.Event) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintln(w, "\n=== ACTIVE NEWS ===")
	for _, e := range events {
		fmt.Fprintln(w, e.String())
	}
}

func PrintPortfolio(w io.Writer, p sim.Portfolio, quotes []sim.Quote) {
	fmt.Fprintln(w, "\n=== YOUR PORTFOLIO ===")
	fmt.Fprintf(w, "Cash: $%.2f\n", p.Cash)
	for _, q := range quotes {
		fmt.Fprintf(w, "%s: %d shares @ $%.2f = $%.2f\n", q.Name, q.Shares, q.Price, q.Value)
	}
	fmt.Fprintf(w, "Total Value: $%.2f\n", p.Total)
}

// PrintDay writes prices, news and portfolio, the screen shown between turns.
func PrintDay(w io.Writer, e *sim.Engine) {
	fmt.Fprintf(w, "\n--- Day %d ---\n", e.Day())
	quotes := e.Quotes()
	PrintPrices(w, quotes)
	PrintNews(w, e.ActiveNews())
	PrintPortfolio(w, e.Portfolio(), quotes)
}

// SaleLabel names a sale the way the performance report does: "TechCorp (Day 3)".
func SaleLabel(s analytics.Sale) string {
	return fmt.Sprintf("%s (Day %d)", s.Instrument, s.Day)
}

func signedMoney(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+$%.2f", v)
	}
	return fmt.Sprintf("-$%.2f", -v)
}

func PrintAnalytics(w io.Writer, r analytics.Report) {
	fmt.Fprintln(w, "\n=== TRADING ANALYTICS ===")
	fmt.Fprintln(w, "\nPortfolio Performance:")
	fmt.Fprintf(w, "  Initial Balance: $%.2f\n", r.InitialBalance)
	fmt.Fprintf(w, "  Current Value: $%.2f\n", r.CurrentValue)
	fmt.Fprintf(w, "  Total Return: $%.2f (%+.2f%%)\n", r.TotalReturn, r.ROI)
	fmt.Fprintln(w)

	if !r.HasTransactions {
		fmt.Fprintln(w, "No transactions yet.")
		return
	}

	fmt.Fprintln(w, "Transaction Statistics:")
	fmt.Fprintf(w, "  Total Transactions: %d\n", r.Buys+r.Sells)
	fmt.Fprintf(w, "  Buys: %d | Sells: %d\n", r.Buys, r.Sells)
	fmt.Fprintf(w, "  Total Spent: $%.2f\n", r.TotalSpent)
	fmt.Fprintf(w, "  Total Received: $%.2f\n", r.TotalReceived)
	if r.Best != nil {
		fmt.Fprintf(w, "  Best Trade: %s (%s)\n", SaleLabel(*r.Best), signedMoney(r.Best.Profit))
	}
	if r.Worst != nil {
		fmt.Fprintf(w, "  Worst Trade: %s (%s)\n", SaleLabel(*r.Worst), signedMoney(r.Worst.Profit))
	}
}

// FormatAnnouncement is the breaking-news text for a freshly spawned event.
func FormatAnnouncement(e news.Event) string {
	verb := "rise"
	if !e.Good {
		verb = "fall"
	}
	return fmt.Sprintf("*** BREAKING NEWS: %s ***\n%s will %s by %.1f%% (approx $%.2f) over the next %d days (~%.1f%% per day)\n",
		e.Headline,
		e.Name,
		verb,
		math.Abs(e.TotalImpact),
		math.Abs(e.EstimatedChange),
		e.DaysRemaining,
		math.Abs(e.DailyImpact),
	)
}

// Session summarizes a finished engine for journal.Session.WriteOrg.
func Session(e *sim.Engine, runID string, seed int64, created time.Time) *journal.Session {
	r := e.Analytics()
	s := &journal.Session{
		RunID:        runID,
		Created:      created,
		Seed:         seed,
		Days:         e.Day(),
		Instruments:  e.Names(),
		StartBalance: r.InitialBalance,
		EndValue:     r.CurrentValue,
		NetReturn:    r.TotalReturn,
		ReturnPct:    r.ROI,
		Transactions: r.Buys + r.Sells,
		Buys:         r.Buys,
		Sells:        r.Sells,
		Spent:        r.TotalSpent,
		Received:     r.TotalReceived,
	}
	if r.Best != nil {
		s.Best = fmt.Sprintf("%s %s", SaleLabel(*r.Best), signedMoney(r.Best.Profit))
	}
	if r.Worst != nil {
		s.Worst = fmt.Sprintf("%s %s", SaleLabel(*r.Worst), signedMoney(r.Worst.Profit))
	}
	if !r.HasTransactions {
		s.Notes = append(s.Notes, "No transactions yet.")
	}
	return s
}
