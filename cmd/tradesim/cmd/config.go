package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradesim/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate game configuration files",
	Long: `A game file is YAML (or JSON) with these sections:

  account.balance             starting cash
  market.drift_percent        largest daily random move, in percent
  market.min_price            price floor
  market.window_size          days shown in the price table
  market.instruments[]        name, price, good_news, bad_news headlines
  news.chance_percent         chance each day that a news event breaks
  news.total_impact_percent   total move of one event over its course
  news.days                   days an event keeps moving its stock
  random.seed                 0 seeds from the clock
  journal.type                none, csv (journal.dir) or sqlite (journal.db_path)
  export.dir                  where play writes the CSV tables
  simulation.days             days a scripted run advances
  simulation.orders[]         day, side (BUY/SELL), instrument, shares

Examples:
  tradesim config init -o game.yaml
  tradesim config validate -f game.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default game: two stocks at $10 and $1000 cash",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load a game file and print what it sets up",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "tradesim.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  tradesim run --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Account: $%.2f\n", cfg.Account.Balance)
	for _, in := range cfg.Market.Instruments {
		fmt.Fprintf(out, "  Instrument: %s @ $%.2f\n", in.Name, in.Price)
	}
	fmt.Fprintf(out, "  News: %d%% daily, %.1f%% over %d days\n", cfg.News.ChancePercent, cfg.News.TotalImpactPercent, cfg.News.Days)
	fmt.Fprintf(out, "  Simulation: %d days, %d orders\n", cfg.Simulation.Days, len(cfg.Simulation.Orders))
	fmt.Fprintf(out, "  Journal: %s\n", cfg.Journal.Type)
	return nil
}
