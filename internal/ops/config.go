package ops

import (
	"encoding/json"
	"fmt"
	"os"

	"main/internal/book"
	"main/internal/bus"
	"main/internal/strategy"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Symbols       []string        `json:"symbols"`
	QueueCapacity int             `json:"queueCapacity"`
	Book          book.Config     `json:"book"`
	Strategies    strategy.Config `json:"strategies"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Symbols       []string
	QueueCapacity int
	Book          book.Config
	Strategies    strategy.Config
}

// Load reads a JSON config file and resolves defaults.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}
	return resolve(cfg)
}

// Default returns the built-in configuration used when no config file is
// given: the threshold strategy over the four reference symbols.
func Default() Loaded {
	loaded, err := resolve(FileConfig{
		Symbols: []string{"BTC/USD", "ETH/USD", "SOL/USD", "AVAX/USD"},
		Strategies: strategy.Config{
			Threshold: &strategy.ThresholdConfig{
				Bands: map[string]strategy.Band{
					"BTC/USD":  {Low: 44000, High: 46000},
					"ETH/USD":  {Low: 2400, High: 2600},
					"SOL/USD":  {Low: 95, High: 105},
					"AVAX/USD": {Low: 24, High: 26},
				},
				OrderSize: 1,
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return loaded
}

func resolve(cfg FileConfig) (Loaded, error) {
	if len(cfg.Symbols) == 0 {
		return Loaded{}, fmt.Errorf("symbols must not be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		if symbol == "" {
			return Loaded{}, fmt.Errorf("symbol name is empty")
		}
		if _, dup := seen[symbol]; dup {
			return Loaded{}, fmt.Errorf("duplicate symbol: %s", symbol)
		}
		seen[symbol] = struct{}{}
	}

	if cfg.QueueCapacity < 0 {
		return Loaded{}, fmt.Errorf("queueCapacity must be >= 0")
	}
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = bus.DefaultCapacity
	}

	if cfg.Strategies.Threshold != nil {
		for symbol := range cfg.Strategies.Threshold.Bands {
			if _, ok := seen[symbol]; !ok {
				return Loaded{}, fmt.Errorf("threshold band for unknown symbol: %s", symbol)
			}
		}
	}

	return Loaded{
		Symbols:       cfg.Symbols,
		QueueCapacity: cfg.QueueCapacity,
		Book:          cfg.Book,
		Strategies:    cfg.Strategies,
	}, nil
}
