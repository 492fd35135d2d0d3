package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/internal/id"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/rng"
	"github.com/rustyeddy/tradesim/sim"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradesim",
	Short: "A turn-based two-stock market simulator",
	Long: `Tradesim is a turn-based stock market game written in Go.

Two synthetic stocks drift a few percent a day and are occasionally hit by
news that pushes them up or down for several days. You buy and sell at the
current price and review your returns at any time.

It provides:
  - An interactive terminal session (play)
  - Scripted, reproducible runs from a config file (run)
  - CSV export of transactions, portfolio history and prices
  - An optional SQLite journal of every session (journal)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	rootConfigPath string
	rootSeed       int64
	rootLogLevel   string
	rootLogFile    string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "", "path to config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().Int64Var(&rootSeed, "seed", 0, "random seed, overrides random.seed (0 seeds from the clock)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&rootLogFile, "log-file", "", "write logs to this file instead of stderr")
}

func loadConfig() (*config.Config, error) {
	if rootConfigPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(rootConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the command logger. An empty path logs to stderr.
func newLogger(level, path string) (*slog.Logger, func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", level, err)
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closeFn, nil
}

// openJournal returns the sink selected by cfg, or nil for "none".
func openJournal(cfg config.JournalConfig, names []string, runID string) (journal.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil

	case "csv":
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal dir: %w", err)
		}
		return journal.NewCSV(
			filepath.Join(cfg.Dir, journal.TransactionsFile),
			filepath.Join(cfg.Dir, journal.PortfolioFile),
			filepath.Join(cfg.Dir, journal.PricesFile),
			names,
		)

	case "sqlite":
		return journal.NewSQLite(cfg.DBPath, runID)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}

// session is everything a command needs to drive one engine.
type session struct {
	cfg    *config.Config
	engine *sim.Engine
	sink   journal.Journal
	log    *slog.Logger
	runID  string
	seed   int64

	closeLog func() error
}

// newSession loads config, resolves the seed and opens the sink. Callers
// must call close.
func newSession(cmd *cobra.Command, defaultLogFile string) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logFile := rootLogFile
	if logFile == "" {
		logFile = defaultLogFile
	}
	logger, closeLog, err := newLogger(rootLogLevel, logFile)
	if err != nil {
		return nil, err
	}

	seed := cfg.Random.Seed
	if cmd.Flags().Changed("seed") {
		seed = rootSeed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &session{
		cfg:      cfg,
		log:      logger,
		runID:    id.New(),
		seed:     seed,
		closeLog: closeLog,
	}

	params := cfg.Params()
	s.sink, err = openJournal(cfg.Journal, params.Names(), s.runID)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("create journal: %w", err)
	}

	s.engine, err = sim.NewEngine(params, rng.New(seed), s.sink)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	s.engine.SetLogger(logger.With("run_id", s.runID))
	s.engine.SetIDGenerator(id.NewGenerator(seed, nil))

	logger.Info("session started",
		"run_id", s.runID,
		"seed", seed,
		"instruments", strings.Join(params.Names(), ","),
		"journal", cfg.Journal.Type,
	)
	return s, nil
}

func (s *session) close() error {
	var first error
	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			first = fmt.Errorf("close journal: %w", err)
		}
	}
	if s.log != nil {
		s.log.Info("session closed", "run_id", s.runID)
	}
	if err := s.closeLog(); err != nil && first == nil {
		first = err
	}
	return first
}
