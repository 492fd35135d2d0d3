package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/news"
	"github.com/rustyeddy/tradesim/sim"
	"gopkg.in/yaml.v3"
)

// Config represents the complete simulation configuration
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Market     MarketConfig     `json:"market" yaml:"market"`
	News       NewsConfig       `json:"news" yaml:"news"`
	Random     RandomConfig     `json:"random" yaml:"random"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Export     ExportConfig     `json:"export" yaml:"export"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
}

type AccountConfig struct {
	Balance float64 `json:"balance" yaml:"balance"`
}

// MarketConfig describes the instruments and the daily price model.
type MarketConfig struct {
	DriftPercent int                `json:"drift_percent" yaml:"drift_percent"`
	MinPrice     float64            `json:"min_price" yaml:"min_price"`
	WindowSize   int                `json:"window_size" yaml:"window_size"`
	Instruments  []InstrumentConfig `json:"instruments" yaml:"instruments"`
}

// InstrumentConfig is one tradable stock. Empty headlines fall back to the
// built-in ones.
type InstrumentConfig struct {
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	GoodNews string  `json:"good_news,omitempty" yaml:"good_news,omitempty"`
	BadNews  string  `json:"bad_news,omitempty" yaml:"bad_news,omitempty"`
}

type NewsConfig struct {
	ChancePercent      int     `json:"chance_percent" yaml:"chance_percent"`
	TotalImpactPercent float64 `json:"total_impact_percent" yaml:"total_impact_percent"`
	Days               int     `json:"days" yaml:"days"`
}

// RandomConfig seeds the price model. Zero means seed from the clock.
type RandomConfig struct {
	Seed int64 `json:"seed" yaml:"seed"`
}

// JournalConfig selects an optional sink mirroring every record.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ExportConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// SimulationConfig drives the non-interactive run command.
type SimulationConfig struct {
	Days   int           `json:"days" yaml:"days"`
	Orders []OrderConfig `json:"orders,omitempty" yaml:"orders,omitempty"`
}

// OrderConfig is executed before the advance that starts on Day.
type OrderConfig struct {
	Day        int    `json:"day" yaml:"day"`
	Side       string `json:"side" yaml:"side"`
	Instrument string `json:"instrument" yaml:"instrument"`
	Shares     int    `json:"shares" yaml:"shares"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = &Config{}
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if len(c.Market.Instruments) == 0 {
		return fmt.Errorf("market.instruments is required")
	}
	if c.Market.MinPrice <= 0 {
		return fmt.Errorf("market.min_price must be positive")
	}
	if c.Market.DriftPercent < 0 {
		return fmt.Errorf("market.drift_percent must not be negative")
	}
	if c.Market.WindowSize <= 0 {
		return fmt.Errorf("market.window_size must be positive")
	}

	names := make(map[string]bool, len(c.Market.Instruments))
	for i, in := range c.Market.Instruments {
		if in.Name == "" {
			return fmt.Errorf("market.instruments[%d].name is required", i)
		}
		if names[in.Name] {
			return fmt.Errorf("market.instruments[%d]: duplicate name %q", i, in.Name)
		}
		names[in.Name] = true
		if in.Price < c.Market.MinPrice {
			return fmt.Errorf("market.instruments[%d].price must be at least market.min_price", i)
		}
	}

	if c.News.ChancePercent < 0 || c.News.ChancePercent > 100 {
		return fmt.Errorf("news.chance_percent must be between 0 and 100")
	}
	if c.News.TotalImpactPercent < 0 {
		return fmt.Errorf("news.total_impact_percent must not be negative")
	}
	if c.News.Days <= 0 {
		return fmt.Errorf("news.days must be positive")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal dir required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Simulation.Days < 0 {
		return fmt.Errorf("simulation.days must not be negative")
	}
	for i, o := range c.Simulation.Orders {
		if _, err := market.ParseSide(o.Side); err != nil {
			return fmt.Errorf("simulation.orders[%d]: %w", i, err)
		}
		if !names[o.Instrument] {
			return fmt.Errorf("simulation.orders[%d]: unknown instrument: %s", i, o.Instrument)
		}
		if o.Shares <= 0 {
			return fmt.Errorf("simulation.orders[%d].shares must be positive", i)
		}
		if o.Day < 0 || o.Day > c.Simulation.Days {
			return fmt.Errorf("simulation.orders[%d].day must be between 0 and simulation.days", i)
		}
	}
	return nil
}

// Default returns the classic two-stock game.
func Default() *Config {
	p := sim.DefaultParams()

	instruments := make([]InstrumentConfig, len(p.Instruments))
	for i, in := range p.Instruments {
		instruments[i] = InstrumentConfig{
			Name:     in.Name,
			Price:    in.InitialPrice,
			GoodNews: in.Headlines.Good,
			BadNews:  in.Headlines.Bad,
		}
	}

	return &Config{
		Account: AccountConfig{Balance: p.InitialBalance},
		Market: MarketConfig{
			DriftPercent: p.DriftPercent,
			MinPrice:     p.MinPrice,
			WindowSize:   p.WindowSize,
			Instruments:  instruments,
		},
		News: NewsConfig{
			ChancePercent:      p.News.ChancePercent,
			TotalImpactPercent: p.News.TotalImpactPercent,
			Days:               p.News.Days,
		},
		Journal: JournalConfig{Type: "none"},
		Export:  ExportConfig{Dir: "."},
		Simulation: SimulationConfig{
			Days: 30,
		},
	}
}

// Params converts the configuration for sim.NewEngine.
func (c *Config) Params() sim.Params {
	p := sim.Params{
		InitialBalance: c.Account.Balance,
		DriftPercent:   c.Market.DriftPercent,
		MinPrice:       c.Market.MinPrice,
		WindowSize:     c.Market.WindowSize,
		News: news.Generator{
			ChancePercent:      c.News.ChancePercent,
			TotalImpactPercent: c.News.TotalImpactPercent,
			Days:               c.News.Days,
		},
	}
	for _, in := range c.Market.Instruments {
		h := news.DefaultHeadlines(in.Name)
		if in.GoodNews != "" {
			h.Good = in.GoodNews
		}
		if in.BadNews != "" {
			h.Bad = in.BadNews
		}
		p.Instruments = append(p.Instruments, sim.InstrumentParams{
			Name:         in.Name,
			InitialPrice: in.Price,
			Headlines:    h,
		})
	}
	return p
}

// OrdersOn returns the configured orders for day, in file order.
func (c *Config) OrdersOn(day int) []OrderConfig {
	var out []OrderConfig
	for _, o := range c.Simulation.Orders {
		if o.Day == day {
			out = append(out, o)
		}
	}
	return out
}
