package cmd

import (
	"fmt"
	"math"

	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/market"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the SQLite session journal",
	Long: `Query and display records written by sessions with journal.type: sqlite.

Subcommands:
  runs          - List recorded run IDs
  transactions  - List the transactions of a run
  snapshots     - List the daily portfolio snapshots of a run
  prices        - List the daily prices of a run as a CSV table
  show          - Show one transaction as an org-mode entry

The database is --db, else journal.db_path from --config, else
./tradesim.sqlite.

Examples:
  tradesim journal runs
  tradesim journal transactions <run-id> --from 3 --to 7
  tradesim journal prices <run-id> TechCorp
  tradesim journal show <transaction-id>`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded run IDs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalTransactionsCmd = &cobra.Command{
	Use:   "transactions <run-id>",
	Short: "List the transactions of a run in org-mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTransactions,
}

var journalSnapshotsCmd = &cobra.Command{
	Use:   "snapshots <run-id>",
	Short: "List the daily portfolio snapshots of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSnapshots,
}

var journalPricesCmd = &cobra.Command{
	Use:   "prices <run-id> [instrument...]",
	Short: "List the daily prices of a run",
	Long: `Print a run's price history in the stock_prices.csv layout. With no
instrument arguments every instrument the run recorded is listed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runJournalPrices,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <transaction-id>",
	Short: "Show one transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var (
	journalDBPath string
	journalFrom   int
	journalTo     int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalTransactionsCmd)
	journalCmd.AddCommand(journalSnapshotsCmd)
	journalCmd.AddCommand(journalPricesCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default journal.db_path or ./tradesim.sqlite)")
	journalTransactionsCmd.Flags().IntVar(&journalFrom, "from", 0, "first day (inclusive)")
	journalTransactionsCmd.Flags().IntVar(&journalTo, "to", -1, "last day (inclusive), -1 for no limit")
}

const defaultDBPath = "./tradesim.sqlite"

func journalPath() (string, error) {
	if journalDBPath != "" {
		return journalDBPath, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Journal.DBPath != "" {
		return cfg.Journal.DBPath, nil
	}
	return defaultDBPath, nil
}

func openJournalDB() (*journal.SQLiteJournal, error) {
	path, err := journalPath()
	if err != nil {
		return nil, err
	}
	j, err := journal.NewSQLite(path, "")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintln(out, r)
	}
	return nil
}

func runJournalTransactions(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	var recs []journal.Transaction
	if journalTo < 0 && journalFrom == 0 {
		recs, err = j.ListTransactions(args[0])
	} else {
		to := journalTo
		if to < 0 {
			to = math.MaxInt
		}
		recs, err = j.ListTransactionsBetweenDays(args[0], journalFrom, to)
	}
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTransactionsOrg(recs))
	return nil
}

func runJournalSnapshots(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	snaps, err := j.ListSnapshots(args[0])
	if err != nil {
		return fmt.Errorf("query snapshots: %w", err)
	}
	if err := journal.WritePortfolio(cmd.OutOrStdout(), snaps); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}
	return nil
}

func runJournalPrices(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runID, names := args[0], args[1:]
	if len(names) == 0 {
		if names, err = j.ListInstruments(runID); err != nil {
			return fmt.Errorf("query instruments: %w", err)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("run %q has no recorded prices", runID)
	}

	series := make([][]market.PricePoint, len(names))
	for i, name := range names {
		if series[i], err = j.ListPrices(runID, name); err != nil {
			return fmt.Errorf("query prices for %s: %w", name, err)
		}
	}
	if err := journal.WritePrices(cmd.OutOrStdout(), names, series); err != nil {
		return fmt.Errorf("write prices: %w", err)
	}
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournalDB()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTransaction(args[0])
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTransactionOrg(rec))
	return nil
}
