package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/news"
	"github.com/rustyeddy/tradesim/report"
	"github.com/rustyeddy/tradesim/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scripted simulation from a config file",
	Long: `Run a non-interactive simulation.

The engine advances simulation.days days. Before each advance the orders
scheduled for the current day are executed in file order. Rejected orders
are reported and skipped. The final prices, portfolio and analytics are
printed at the end.

Examples:
  tradesim run --config game.yaml --seed 42
  tradesim run --days 10 --export ./out --org session.org`,
	RunE: runRun,
}

var (
	runDays      int
	runExportDir string
	runOrgPath   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runDays, "days", 0, "number of days to simulate, overrides simulation.days")
	runCmd.Flags().StringVar(&runExportDir, "export", "", "write transactions, portfolio and price CSV files into this directory")
	runCmd.Flags().StringVar(&runOrgPath, "org", "", "write an org-mode session summary to this file")
}

func runRun(cmd *cobra.Command, args []string) (err error) {
	s, err := newSession(cmd, "")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	days := s.cfg.Simulation.Days
	if cmd.Flags().Changed("days") {
		days = runDays
	}
	if days < 0 {
		return fmt.Errorf("days must not be negative, got %d", days)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== STOCK TRADING SIMULATOR ===")
	fmt.Fprintf(out, "Run %s (seed %d, %d days)\n", s.runID, s.seed, days)

	s.engine.SetNewsListener(sim.NewsListenerFunc(func(ev news.Event) {
		fmt.Fprintf(out, "\n%s\n", report.FormatAnnouncement(ev))
	}))

	for day := 0; day < days; day++ {
		if err := executeOrders(out, s, s.cfg.OrdersOn(day)); err != nil {
			return err
		}
		if _, err := s.engine.AdvanceDay(); err != nil {
			return fmt.Errorf("advance day: %w", err)
		}
	}
	if err := executeOrders(out, s, s.cfg.OrdersOn(days)); err != nil {
		return err
	}

	report.PrintDay(out, s.engine)
	report.PrintAnalytics(out, s.engine.Analytics())

	if runExportDir != "" {
		paths, err := journal.ExportDir(runExportDir, s.engine.History())
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(out, "\nTransactions exported to %s\n", paths.Transactions)
		fmt.Fprintf(out, "Portfolio history exported to %s\n", paths.Portfolio)
		fmt.Fprintf(out, "Stock prices exported to %s\n", paths.Prices)
	}

	if runOrgPath != "" {
		sess := report.Session(s.engine, s.runID, s.seed, time.Now())
		if err := sess.WriteOrgFile(runOrgPath); err != nil {
			return fmt.Errorf("org summary: %w", err)
		}
		fmt.Fprintf(out, "Session summary written to %s\n", runOrgPath)
	}
	return nil
}

// executeOrders runs one day's scripted orders. Rejections are printed and
// skipped; anything else stops the run.
func executeOrders(out io.Writer, s *session, orders []config.OrderConfig) error {
	for _, o := range orders {
		side, err := market.ParseSide(o.Side)
		if err != nil {
			return fmt.Errorf("order on day %d: %w", o.Day, err)
		}
		i, ok := s.engine.Index(o.Instrument)
		if !ok {
			return fmt.Errorf("order on day %d: %w: %s", o.Day, sim.ErrUnknownInstrument, o.Instrument)
		}

		var tx journal.Transaction
		if side == market.SideBuy {
			tx, err = s.engine.Buy(i, o.Shares)
		} else {
			tx, err = s.engine.Sell(i, o.Shares)
		}
		switch {
		case err == nil:
			fmt.Fprintf(out, "Day %d: %s %d %s @ $%.2f = $%.2f\n", tx.Day, tx.Side, tx.Shares, tx.Instrument, tx.Price, tx.Total)
		case ledger.IsRejection(err) || errors.Is(err, sim.ErrUnknownInstrument):
			fmt.Fprintf(out, "Day %d: order rejected: %v\n", o.Day, err)
			s.log.Warn("scripted order rejected", "day", o.Day, "side", o.Side, "instrument", o.Instrument, "shares", o.Shares, "error", err)
		default:
			return fmt.Errorf("order on day %d: %w", o.Day, err)
		}
	}
	return nil
}
